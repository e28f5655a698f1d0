package course

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"trame-planner/internal/models"
	"trame-planner/internal/repository"
)

type courseRepository struct {
	db sqlx.ExtContext
}

func NewCourseRepository(db *sqlx.DB) repository.CourseRepository {
	return &courseRepository{db: db}
}

// NewCourseRepositoryTx binds the repository to an open transaction.
func NewCourseRepositoryTx(tx *sqlx.Tx) repository.CourseRepository {
	return &courseRepository{db: tx}
}

func (r *courseRepository) GetByGroup(ctx context.Context, groupID int64, from, to time.Time) ([]models.Course, error) {
	query := `
		SELECT
			c.id, c.unit_id, c.session_type, c.date, c.start_hour,
			c.duration_hours, c.professor_id,
			ARRAY(
				SELECT cg2.group_id FROM trames.course_groups cg2
				WHERE cg2.course_id = c.id ORDER BY cg2.group_id
			) AS group_ids
		FROM trames.courses c
		JOIN trames.course_groups cg ON cg.course_id = c.id
		WHERE cg.group_id = $1 AND c.date BETWEEN $2 AND $3
		ORDER BY c.date ASC, c.start_hour ASC, c.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, from.Format(time.DateOnly), to.Format(time.DateOnly))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var (
			c         models.Course
			professor sql.NullInt64
			groupIDs  []int64
		)
		err := rows.Scan(
			&c.ID, &c.UnitID, &c.Type, &c.Date, &c.StartHour,
			&c.Duration, &professor, pq.Array(&groupIDs),
		)
		if err != nil {
			return nil, err
		}
		if professor.Valid {
			id := professor.Int64
			c.ProfessorID = &id
		}
		c.Date = models.DateOnly(c.Date)
		c.GroupIDs = groupIDs
		courses = append(courses, c)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO trames.courses
		(unit_id, session_type, date, start_hour, duration_hours, professor_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRowxContext(ctx, query,
		course.UnitID,
		string(course.Type),
		course.Date.Format(time.DateOnly),
		course.StartHour,
		course.Duration,
		course.ProfessorID,
	).Scan(&course.ID)
	if err != nil {
		return fmt.Errorf("insert course: %w", err)
	}

	for _, groupID := range course.GroupIDs {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO trames.course_groups (course_id, group_id) VALUES ($1, $2)`,
			course.ID, groupID,
		)
		if err != nil {
			return fmt.Errorf("attach group %d to course %d: %w", groupID, course.ID, err)
		}
	}

	return nil
}

func (r *courseRepository) DeleteByLayerAfter(ctx context.Context, layerID int64, after time.Time) (int64, error) {
	query := `
		DELETE FROM trames.courses c
		USING trames.teaching_units u
		WHERE u.id = c.unit_id AND u.layer_id = $1 AND c.date > $2
	`
	res, err := r.db.ExecContext(ctx, query, layerID, after.Format(time.DateOnly))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

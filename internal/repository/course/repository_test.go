package course

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trame-planner/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestGetByGroup(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCourseRepository(db)

	from := models.DefaultModelWeekStart
	to := from.AddDate(0, 0, 6)
	rows := sqlmock.NewRows([]string{"id", "unit_id", "session_type", "date", "start_hour", "duration_hours", "professor_id", "group_ids"}).
		AddRow(int64(1), int64(3), "CM", from, 8.0, 1.5, nil, "{4,5}").
		AddRow(int64(2), int64(3), "TD", from.AddDate(0, 0, 2), 10.0, 2.0, int64(9), "{4}")
	mock.ExpectQuery(`FROM trames.courses c`).
		WithArgs(int64(4), "1970-01-05", "1970-01-11").
		WillReturnRows(rows)

	courses, err := repo.GetByGroup(context.Background(), 4, from, to)
	require.NoError(t, err)
	require.Len(t, courses, 2)

	assert.Equal(t, models.SessionCM, courses[0].Type)
	assert.Nil(t, courses[0].ProfessorID)
	assert.Equal(t, []int64{4, 5}, courses[0].GroupIDs)

	require.NotNil(t, courses[1].ProfessorID)
	assert.Equal(t, int64(9), *courses[1].ProfessorID)
	assert.Equal(t, time.Wednesday, courses[1].Date.Weekday())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCourseRepository(db)

	mock.ExpectQuery(`INSERT INTO trames.courses`).
		WithArgs(int64(3), "TP", "2024-09-02", 8.0, 3.0, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(77)))
	mock.ExpectExec(`INSERT INTO trames.course_groups`).WithArgs(int64(77), int64(4)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO trames.course_groups`).WithArgs(int64(77), int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))

	c := &models.Course{
		UnitID:    3,
		Type:      models.SessionTP,
		Date:      time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC),
		StartHour: 8,
		Duration:  3,
		GroupIDs:  []int64{4, 5},
	}
	require.NoError(t, repo.Create(context.Background(), c))
	assert.Equal(t, int64(77), c.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByLayerAfter(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCourseRepository(db)

	mock.ExpectExec(`DELETE FROM trames.courses c`).
		WithArgs(int64(2), "1970-01-11").
		WillReturnResult(sqlmock.NewResult(0, 12))

	n, err := repo.DeleteByLayerAfter(context.Background(), 2, models.DefaultModelWeekStart.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

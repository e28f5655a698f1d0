package conflict

import (
	"context"

	"github.com/jmoiron/sqlx"

	"trame-planner/internal/models"
	"trame-planner/internal/repository"
)

type conflictRepository struct {
	db *sqlx.DB
}

func NewConflictRepository(db *sqlx.DB) repository.ConflictRepository {
	return &conflictRepository{db: db}
}

func (r *conflictRepository) GetByTramme(ctx context.Context, trammeID int64) ([]models.Conflict, error) {
	query := `
        SELECT id, tramme_id, course_a_id, course_b_id, resolution
        FROM trames.conflicts
        WHERE tramme_id = $1
        ORDER BY id
    `

	var conflicts []models.Conflict
	if err := r.db.SelectContext(ctx, &conflicts, query, trammeID); err != nil {
		return nil, err
	}
	return conflicts, nil
}

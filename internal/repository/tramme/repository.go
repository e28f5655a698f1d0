package tramme

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"trame-planner/internal/models"
	"trame-planner/internal/repository"
)

type trammeRepository struct {
	db *sqlx.DB
}

func NewTrammeRepository(db *sqlx.DB) repository.TrammeRepository {
	return &trammeRepository{db: db}
}

// GetByID returns nil, nil when the tramme does not exist.
func (r *trammeRepository) GetByID(ctx context.Context, id int64) (*models.Tramme, error) {
	query := `
        SELECT id, name, start_date, end_date, created_at
        FROM trames.trammes
        WHERE id = $1
    `

	t := &models.Tramme{}
	if err := r.db.GetContext(ctx, t, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

func (r *trammeRepository) GetLayers(ctx context.Context, trammeID int64) ([]models.Layer, error) {
	query := `
        SELECT id, tramme_id, name, position
        FROM trames.layers
        WHERE tramme_id = $1
        ORDER BY position, id
    `

	var layers []models.Layer
	if err := r.db.SelectContext(ctx, &layers, query, trammeID); err != nil {
		return nil, err
	}
	return layers, nil
}

package unit

import (
	"context"

	"github.com/jmoiron/sqlx"

	"trame-planner/internal/models"
	"trame-planner/internal/repository"
)

type teachingUnitRepository struct {
	db *sqlx.DB
}

func NewTeachingUnitRepository(db *sqlx.DB) repository.TeachingUnitRepository {
	return &teachingUnitRepository{db: db}
}

func (r *teachingUnitRepository) GetByLayer(ctx context.Context, layerID int64) ([]models.TeachingUnit, error) {
	query := `
        SELECT id, layer_id, name, volume_cm, volume_td, volume_tp
        FROM trames.teaching_units
        WHERE layer_id = $1
        ORDER BY id
    `

	var units []models.TeachingUnit
	if err := r.db.SelectContext(ctx, &units, query, layerID); err != nil {
		return nil, err
	}
	return units, nil
}

func (r *teachingUnitRepository) CountByTramme(ctx context.Context, trammeID int64) (int, error) {
	query := `
        SELECT COUNT(*)
        FROM trames.teaching_units u
        JOIN trames.layers l ON l.id = u.layer_id
        WHERE l.tramme_id = $1
    `

	var count int
	err := r.db.QueryRowContext(ctx, query, trammeID).Scan(&count)
	return count, err
}

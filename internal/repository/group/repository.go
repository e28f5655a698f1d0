package group

import (
	"context"

	"github.com/jmoiron/sqlx"

	"trame-planner/internal/models"
	"trame-planner/internal/repository"
)

type groupRepository struct {
	db *sqlx.DB
}

func NewGroupRepository(db *sqlx.DB) repository.GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) GetByLayer(ctx context.Context, layerID int64) ([]models.Group, error) {
	query := `
        SELECT g.id, g.name, g.is_special
        FROM trames.groups g
        JOIN trames.layer_groups lg ON lg.group_id = g.id
        WHERE lg.layer_id = $1
        ORDER BY g.id
    `

	var groups []models.Group
	if err := r.db.SelectContext(ctx, &groups, query, layerID); err != nil {
		return nil, err
	}
	return groups, nil
}

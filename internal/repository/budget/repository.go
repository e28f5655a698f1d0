package budget

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"trame-planner/internal/models"
	"trame-planner/internal/repository"
)

type hourBudgetRepository struct {
	db sqlx.ExtContext
}

func NewHourBudgetRepository(db *sqlx.DB) repository.HourBudgetRepository {
	return &hourBudgetRepository{db: db}
}

func NewHourBudgetRepositoryTx(tx *sqlx.Tx) repository.HourBudgetRepository {
	return &hourBudgetRepository{db: tx}
}

func (r *hourBudgetRepository) Upsert(ctx context.Context, budgets []models.HourBudget) error {
	query := `
		INSERT INTO trames.hour_budgets (unit_id, group_id, session_type, remaining_hours, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (unit_id, group_id, session_type)
		DO UPDATE SET remaining_hours = EXCLUDED.remaining_hours, updated_at = now()
	`
	for _, b := range budgets {
		if _, err := r.db.ExecContext(ctx, query, b.UnitID, b.GroupID, string(b.Type), b.Hours); err != nil {
			return fmt.Errorf("upsert budget unit=%d group=%d type=%s: %w", b.UnitID, b.GroupID, b.Type, err)
		}
	}
	return nil
}

func (r *hourBudgetRepository) GetByUnit(ctx context.Context, unitID int64) ([]models.HourBudget, error) {
	query := `
		SELECT unit_id, group_id, session_type, remaining_hours
		FROM trames.hour_budgets
		WHERE unit_id = $1
		ORDER BY group_id, session_type
	`

	var budgets []models.HourBudget
	if err := sqlx.SelectContext(ctx, r.db, &budgets, query, unitID); err != nil {
		return nil, err
	}
	return budgets, nil
}

package budget_service

import (
	"context"
	"fmt"

	"trame-planner/internal/models"
	"trame-planner/internal/repository"
	"trame-planner/internal/service"
)

type budgetService struct {
	budgetRepo repository.HourBudgetRepository
}

func NewBudgetService(budgetRepo repository.HourBudgetRepository) service.BudgetService {
	return &budgetService{budgetRepo: budgetRepo}
}

func (s *budgetService) GetUnitBudgets(ctx context.Context, unitID int64) ([]models.HourBudget, error) {
	if unitID <= 0 {
		return nil, service.NewValidationError(service.FieldError{Field: "unit_id", Error: "must be positive"})
	}
	budgets, err := s.budgetRepo.GetByUnit(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("load hour budgets of unit %d: %w", unitID, err)
	}
	if budgets == nil {
		budgets = []models.HourBudget{}
	}
	return budgets, nil
}

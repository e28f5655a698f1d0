package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"trame-planner/internal/models"
	"trame-planner/internal/progress"
)

var ErrNotFound = errors.New("not found")

// FieldError is used to indicate an error with a specific field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError is returned for requests rejected before any state is touched.
type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(fields ...FieldError) error {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Error)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// DuplicationService projects the model week of a tramme over its date range.
type DuplicationService interface {
	// Start checks preconditions then runs the duplication in the background.
	Start(ctx context.Context, trammeID int64) error
	// Run does the same synchronously and returns the effective start date.
	Run(ctx context.Context, trammeID int64) (time.Time, error)
	Progress(trammeID int64) progress.Snapshot
	Cancel(trammeID int64) bool
}

type CalendarService interface {
	ImportBlockedDates(ctx context.Context, trammeID int64, blocked []models.BlockedDate) (int, error)
	ImportEvents(ctx context.Context, trammeID int64, events []models.Event) (int, error)
}

// BudgetService exposes the remaining hours left by the last duplication.
type BudgetService interface {
	GetUnitBudgets(ctx context.Context, unitID int64) ([]models.HourBudget, error)
}

// JobNotifier is told about finished and failed duplications.
type JobNotifier interface {
	DuplicationFinished(ctx context.Context, tramme *models.Tramme, snap progress.Snapshot)
	DuplicationFailed(ctx context.Context, tramme *models.Tramme, err error)
}

type NopNotifier struct{}

func (NopNotifier) DuplicationFinished(context.Context, *models.Tramme, progress.Snapshot) {}
func (NopNotifier) DuplicationFailed(context.Context, *models.Tramme, error)              {}

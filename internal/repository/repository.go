package repository

import (
	"context"
	"time"

	"trame-planner/internal/models"
)

type TrammeRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Tramme, error)
	GetLayers(ctx context.Context, trammeID int64) ([]models.Layer, error)
}

type TeachingUnitRepository interface {
	GetByLayer(ctx context.Context, layerID int64) ([]models.TeachingUnit, error)
	CountByTramme(ctx context.Context, trammeID int64) (int, error)
}

type GroupRepository interface {
	// Only groups linked to the layer, special ones included
	GetByLayer(ctx context.Context, layerID int64) ([]models.Group, error)
}

type CourseRepository interface {
	// GetByGroup returns the courses of a group dated in [from, to], each
	// with its full group set.
	GetByGroup(ctx context.Context, groupID int64, from, to time.Time) ([]models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	// DeleteByLayerAfter removes courses of the layer's units dated after the given day.
	DeleteByLayerAfter(ctx context.Context, layerID int64, after time.Time) (int64, error)
}

type CalendarRepository interface {
	GetBlockedDates(ctx context.Context, trammeID int64, from, to time.Time) ([]models.BlockedDate, error)
	GetEvents(ctx context.Context, trammeID int64, from, to time.Time) ([]models.Event, error)
	CreateBlockedDate(ctx context.Context, blocked *models.BlockedDate) error
	CreateEvent(ctx context.Context, event *models.Event) error
}

type ConflictRepository interface {
	GetByTramme(ctx context.Context, trammeID int64) ([]models.Conflict, error)
}

type HourBudgetRepository interface {
	Upsert(ctx context.Context, budgets []models.HourBudget) error
	GetByUnit(ctx context.Context, unitID int64) ([]models.HourBudget, error)
}

// GenerationWriter holds the only writes of a duplication run.
type GenerationWriter interface {
	CreateCourse(ctx context.Context, course *models.Course) error
	UpsertBudgets(ctx context.Context, budgets []models.HourBudget) error
}

// GenerationStore runs fn in one storage transaction: either every write
// made through the writer is kept or none is.
type GenerationStore interface {
	WithinTx(ctx context.Context, fn func(w GenerationWriter) error) error
}

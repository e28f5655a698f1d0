package generation

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"trame-planner/internal/models"
	"trame-planner/internal/repository"
	"trame-planner/internal/repository/budget"
	"trame-planner/internal/repository/course"
)

type generationStore struct {
	db *sqlx.DB
}

func NewGenerationStore(db *sqlx.DB) repository.GenerationStore {
	return &generationStore{db: db}
}

type txWriter struct {
	courses repository.CourseRepository
	budgets repository.HourBudgetRepository
}

func (w *txWriter) CreateCourse(ctx context.Context, c *models.Course) error {
	return w.courses.Create(ctx, c)
}

func (w *txWriter) UpsertBudgets(ctx context.Context, budgets []models.HourBudget) error {
	return w.budgets.Upsert(ctx, budgets)
}

func (s *generationStore) WithinTx(ctx context.Context, fn func(w repository.GenerationWriter) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	w := &txWriter{
		courses: course.NewCourseRepositoryTx(tx),
		budgets: budget.NewHourBudgetRepositoryTx(tx),
	}
	if err := fn(w); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

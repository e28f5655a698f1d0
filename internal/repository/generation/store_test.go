package generation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trame-planner/internal/models"
	"trame-planner/internal/repository"
)

func TestWithinTx(t *testing.T) {
	course := models.Course{
		UnitID:    1,
		Type:      models.SessionCM,
		Date:      time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC),
		StartHour: 8,
		Duration:  1.5,
		GroupIDs:  []int64{10},
	}
	budgets := []models.HourBudget{{UnitID: 1, GroupID: 10, Type: models.SessionCM, Hours: 1.5}}

	t.Run("commits on success", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO trames.courses`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))
		mock.ExpectExec(`INSERT INTO trames.course_groups`).WithArgs(int64(5), int64(10)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO trames.hour_budgets`).WithArgs(int64(1), int64(10), "CM", 1.5).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		store := NewGenerationStore(sqlx.NewDb(mockDB, "sqlmock"))
		err = store.WithinTx(context.Background(), func(w repository.GenerationWriter) error {
			c := course
			if err := w.CreateCourse(context.Background(), &c); err != nil {
				return err
			}
			return w.UpsertBudgets(context.Background(), budgets)
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO trames.courses`).WillReturnError(errors.New("unique violation"))
		mock.ExpectRollback()

		store := NewGenerationStore(sqlx.NewDb(mockDB, "sqlmock"))
		err = store.WithinTx(context.Background(), func(w repository.GenerationWriter) error {
			c := course
			return w.CreateCourse(context.Background(), &c)
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unique violation")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

package budget

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trame-planner/internal/models"
)

func TestGetByUnit(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectQuery(`FROM trames.hour_budgets`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"unit_id", "group_id", "session_type", "remaining_hours"}).
			AddRow(int64(3), int64(10), "CM", 4.5).
			AddRow(int64(3), int64(10), "TD", 0.0))

	repo := NewHourBudgetRepository(sqlx.NewDb(mockDB, "sqlmock"))
	budgets, err := repo.GetByUnit(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []models.HourBudget{
		{UnitID: 3, GroupID: 10, Type: models.SessionCM, Hours: 4.5},
		{UnitID: 3, GroupID: 10, Type: models.SessionTD, Hours: 0},
	}, budgets)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectExec(`ON CONFLICT \(unit_id, group_id, session_type\)`).
		WithArgs(int64(3), int64(10), "TP", 2.25).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewHourBudgetRepository(sqlx.NewDb(mockDB, "sqlmock"))
	err = repo.Upsert(context.Background(), []models.HourBudget{{UnitID: 3, GroupID: 10, Type: models.SessionTP, Hours: 2.25}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

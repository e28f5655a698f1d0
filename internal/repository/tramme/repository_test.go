package tramme

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetByID(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	repo := NewTrammeRepository(sqlx.NewDb(mockDB, "sqlmock"))

	start := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM trames.trammes`).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "start_date", "end_date", "created_at"}).
			AddRow(int64(1), "S1", start, nil, start))
	mock.ExpectQuery(`FROM trames.trammes`).WithArgs(int64(2)).WillReturnError(sql.ErrNoRows)

	tr, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.Equal(t, "S1", tr.Name)
	require.NotNil(t, tr.StartDate)
	assert.Equal(t, start, *tr.StartDate)
	assert.Nil(t, tr.EndDate)

	tr, err = repo.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Nil(t, tr)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLayers(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	repo := NewTrammeRepository(sqlx.NewDb(mockDB, "sqlmock"))

	mock.ExpectQuery(`FROM trames.layers`).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tramme_id", "name", "position"}).
			AddRow(int64(4), int64(1), "L1", 0).
			AddRow(int64(5), int64(1), "L2", 1))

	layers, err := repo.GetLayers(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, layers, 2)
	assert.Equal(t, "L2", layers[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package calendar_service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trame-planner/internal/models"
	"trame-planner/internal/repository/memory"
	"trame-planner/internal/service"
)

func TestImportBlockedDates(t *testing.T) {
	db := memory.Open()
	tr := db.AddTramme(models.Tramme{Name: "S1"})
	calendarRepo := memory.NewCalendarRepository(db)
	svc := NewCalendarService(memory.NewTrammeRepository(db), calendarRepo)
	ctx := context.Background()

	n, err := svc.ImportBlockedDates(ctx, tr.ID, []models.BlockedDate{
		{Date: time.Date(2024, 11, 1, 15, 30, 0, 0, time.UTC), Reason: "Toussaint"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	blocked, err := calendarRepo.GetBlockedDates(ctx, tr.ID, from, to)
	require.NoError(t, err)
	require.Len(t, blocked, 1)
	assert.Equal(t, time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC), blocked[0].Date)

	_, err = svc.ImportBlockedDates(ctx, 999, nil)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = svc.ImportBlockedDates(ctx, tr.ID, []models.BlockedDate{{Reason: "no date"}})
	var verr *service.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestImportEvents_Validation(t *testing.T) {
	db := memory.Open()
	tr := db.AddTramme(models.Tramme{Name: "S1"})
	svc := NewCalendarService(memory.NewTrammeRepository(db), memory.NewCalendarRepository(db))
	d := time.Date(2024, 10, 3, 0, 0, 0, 0, time.UTC)

	_, err := svc.ImportEvents(context.Background(), tr.ID, []models.Event{
		{Name: "ok", Date: d, StartHour: 10, EndHour: 12},
		{Name: "reversed", Date: d, StartHour: 12, EndHour: 10},
		{Name: "too late", Date: d, StartHour: 23, EndHour: 25},
	})
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, "events[1].end", verr.Fields[0].Field)
	assert.Equal(t, "events[2].start", verr.Fields[1].Field)

	n, err := svc.ImportEvents(context.Background(), tr.ID, []models.Event{{Name: "ok", Date: d, StartHour: 10, EndHour: 12}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

package calendar

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"trame-planner/internal/models"
	"trame-planner/internal/repository"
)

type calendarRepository struct {
	db *sqlx.DB
}

func NewCalendarRepository(db *sqlx.DB) repository.CalendarRepository {
	return &calendarRepository{db: db}
}

func (r *calendarRepository) GetBlockedDates(ctx context.Context, trammeID int64, from, to time.Time) ([]models.BlockedDate, error) {
	query := `
        SELECT id, tramme_id, date, reason
        FROM trames.blocked_dates
        WHERE tramme_id = $1 AND date BETWEEN $2 AND $3
        ORDER BY date
    `

	var blocked []models.BlockedDate
	err := r.db.SelectContext(ctx, &blocked, query, trammeID, from.Format(time.DateOnly), to.Format(time.DateOnly))
	if err != nil {
		return nil, err
	}
	return blocked, nil
}

func (r *calendarRepository) GetEvents(ctx context.Context, trammeID int64, from, to time.Time) ([]models.Event, error) {
	query := `
        SELECT id, tramme_id, name, date, start_hour, end_hour
        FROM trames.events
        WHERE tramme_id = $1 AND date BETWEEN $2 AND $3
        ORDER BY date, start_hour
    `

	var events []models.Event
	err := r.db.SelectContext(ctx, &events, query, trammeID, from.Format(time.DateOnly), to.Format(time.DateOnly))
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *calendarRepository) CreateBlockedDate(ctx context.Context, blocked *models.BlockedDate) error {
	query := `
        INSERT INTO trames.blocked_dates (tramme_id, date, reason)
        VALUES ($1, $2, $3)
        ON CONFLICT (tramme_id, date) DO UPDATE SET reason = EXCLUDED.reason
        RETURNING id
    `
	return r.db.QueryRowContext(ctx, query,
		blocked.TrammeID,
		blocked.Date.Format(time.DateOnly),
		blocked.Reason,
	).Scan(&blocked.ID)
}

func (r *calendarRepository) CreateEvent(ctx context.Context, event *models.Event) error {
	query := `
        INSERT INTO trames.events (tramme_id, name, date, start_hour, end_hour)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	return r.db.QueryRowContext(ctx, query,
		event.TrammeID,
		event.Name,
		event.Date.Format(time.DateOnly),
		event.StartHour,
		event.EndHour,
	).Scan(&event.ID)
}

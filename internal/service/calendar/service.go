package calendar_service

import (
	"context"
	"fmt"
	"strconv"

	"trame-planner/internal/models"
	"trame-planner/internal/repository"
	"trame-planner/internal/service"
)

type calendarService struct {
	trammeRepo   repository.TrammeRepository
	calendarRepo repository.CalendarRepository
}

func NewCalendarService(trammeRepo repository.TrammeRepository, calendarRepo repository.CalendarRepository) service.CalendarService {
	return &calendarService{
		trammeRepo:   trammeRepo,
		calendarRepo: calendarRepo,
	}
}

func (s *calendarService) ImportBlockedDates(ctx context.Context, trammeID int64, blocked []models.BlockedDate) (int, error) {
	if err := s.checkTramme(ctx, trammeID); err != nil {
		return 0, err
	}

	var fields []service.FieldError
	for i, b := range blocked {
		if b.Date.IsZero() {
			fields = append(fields, service.FieldError{Field: "blocked[" + strconv.Itoa(i) + "].date", Error: "is required"})
		}
	}
	if len(fields) > 0 {
		return 0, service.NewValidationError(fields...)
	}

	for i := range blocked {
		blocked[i].TrammeID = trammeID
		blocked[i].Date = models.DateOnly(blocked[i].Date)
		if err := s.calendarRepo.CreateBlockedDate(ctx, &blocked[i]); err != nil {
			return i, fmt.Errorf("create blocked date %s: %w", blocked[i].Date.Format("2006-01-02"), err)
		}
	}
	return len(blocked), nil
}

func (s *calendarService) ImportEvents(ctx context.Context, trammeID int64, events []models.Event) (int, error) {
	if err := s.checkTramme(ctx, trammeID); err != nil {
		return 0, err
	}

	var fields []service.FieldError
	for i, e := range events {
		prefix := "events[" + strconv.Itoa(i) + "]"
		if e.Date.IsZero() {
			fields = append(fields, service.FieldError{Field: prefix + ".date", Error: "is required"})
		}
		if e.StartHour < 0 || e.EndHour > 24 {
			fields = append(fields, service.FieldError{Field: prefix + ".start", Error: "must be within the day"})
		}
		if e.EndHour <= e.StartHour {
			fields = append(fields, service.FieldError{Field: prefix + ".end", Error: "must be after start"})
		}
	}
	if len(fields) > 0 {
		return 0, service.NewValidationError(fields...)
	}

	for i := range events {
		events[i].TrammeID = trammeID
		events[i].Date = models.DateOnly(events[i].Date)
		if err := s.calendarRepo.CreateEvent(ctx, &events[i]); err != nil {
			return i, fmt.Errorf("create event %q: %w", events[i].Name, err)
		}
	}
	return len(events), nil
}

func (s *calendarService) checkTramme(ctx context.Context, trammeID int64) error {
	tramme, err := s.trammeRepo.GetByID(ctx, trammeID)
	if err != nil {
		return err
	}
	if tramme == nil {
		return fmt.Errorf("tramme %d: %w", trammeID, service.ErrNotFound)
	}
	return nil
}

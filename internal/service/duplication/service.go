// Package duplication projects the model week of a tramme onto its whole
// date range, layer by layer, under hour budgets, calendar exceptions and
// conflict policies.
package duplication

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trame-planner/internal/logger"
	"trame-planner/internal/models"
	"trame-planner/internal/progress"
	"trame-planner/internal/repository"
	"trame-planner/internal/service"
)

type Options struct {
	ModelWeekStart time.Time
}

type duplicationService struct {
	trammeRepo   repository.TrammeRepository
	unitRepo     repository.TeachingUnitRepository
	courseRepo   repository.CourseRepository
	calendarRepo repository.CalendarRepository
	conflictRepo repository.ConflictRepository
	store        repository.GenerationStore
	extractor    *TemplateExtractor
	jobs         *progress.Registry
	notifier     service.JobNotifier
	log          *logger.Logger
	weekStart    time.Time
}

func NewDuplicationService(
	trammeRepo repository.TrammeRepository,
	unitRepo repository.TeachingUnitRepository,
	groupRepo repository.GroupRepository,
	courseRepo repository.CourseRepository,
	calendarRepo repository.CalendarRepository,
	conflictRepo repository.ConflictRepository,
	store repository.GenerationStore,
	jobs *progress.Registry,
	notifier service.JobNotifier,
	log *logger.Logger,
	opts Options,
) service.DuplicationService {
	weekStart := opts.ModelWeekStart
	if weekStart.IsZero() {
		weekStart = models.DefaultModelWeekStart
	}
	weekStart = models.DateOnly(weekStart)
	if notifier == nil {
		notifier = service.NopNotifier{}
	}
	return &duplicationService{
		trammeRepo:   trammeRepo,
		unitRepo:     unitRepo,
		courseRepo:   courseRepo,
		calendarRepo: calendarRepo,
		conflictRepo: conflictRepo,
		store:        store,
		extractor:    NewTemplateExtractor(groupRepo, courseRepo, weekStart),
		jobs:         jobs,
		notifier:     notifier,
		log:          log,
		weekStart:    weekStart,
	}
}

func (s *duplicationService) Start(ctx context.Context, trammeID int64) error {
	tramme, layers, err := s.prepare(ctx, trammeID)
	if err != nil {
		return err
	}
	job, err := s.jobs.Begin(ctx, trammeID)
	if err != nil {
		return err
	}
	go s.execute(job, tramme, layers)
	return nil
}

func (s *duplicationService) Run(ctx context.Context, trammeID int64) (time.Time, error) {
	tramme, layers, err := s.prepare(ctx, trammeID)
	if err != nil {
		return time.Time{}, err
	}
	job, err := s.jobs.Begin(ctx, trammeID)
	if err != nil {
		return time.Time{}, err
	}
	stop := context.AfterFunc(ctx, func() { s.jobs.Cancel(trammeID) })
	defer stop()
	return s.execute(job, tramme, layers)
}

func (s *duplicationService) Progress(trammeID int64) progress.Snapshot {
	return s.jobs.Get(trammeID)
}

func (s *duplicationService) Cancel(trammeID int64) bool {
	return s.jobs.Cancel(trammeID)
}

// prepare checks everything that must hold before any state is touched.
func (s *duplicationService) prepare(ctx context.Context, trammeID int64) (*models.Tramme, []models.Layer, error) {
	tramme, err := s.trammeRepo.GetByID(ctx, trammeID)
	if err != nil {
		return nil, nil, fmt.Errorf("load tramme %d: %w", trammeID, err)
	}
	if tramme == nil {
		return nil, nil, fmt.Errorf("tramme %d: %w", trammeID, service.ErrNotFound)
	}

	var fields []service.FieldError
	if tramme.StartDate == nil {
		fields = append(fields, service.FieldError{Field: "start_date", Error: "is required"})
	}
	if tramme.EndDate == nil {
		fields = append(fields, service.FieldError{Field: "end_date", Error: "is required"})
	}
	if tramme.StartDate != nil && tramme.EndDate != nil && tramme.EndDate.Before(*tramme.StartDate) {
		fields = append(fields, service.FieldError{Field: "end_date", Error: "must not be before start_date"})
	}
	if len(fields) > 0 {
		return nil, nil, service.NewValidationError(fields...)
	}

	layers, err := s.trammeRepo.GetLayers(ctx, trammeID)
	if err != nil {
		return nil, nil, fmt.Errorf("load layers of tramme %d: %w", trammeID, err)
	}
	if len(layers) == 0 {
		return nil, nil, service.NewValidationError(service.FieldError{Field: "layers", Error: "tramme has no layers"})
	}

	units, err := s.unitRepo.CountByTramme(ctx, trammeID)
	if err != nil {
		return nil, nil, fmt.Errorf("count teaching units of tramme %d: %w", trammeID, err)
	}
	if units == 0 {
		return nil, nil, service.NewValidationError(service.FieldError{Field: "teaching_units", Error: "tramme has no teaching units"})
	}

	return tramme, layers, nil
}

func (s *duplicationService) execute(job *progress.Job, tramme *models.Tramme, layers []models.Layer) (time.Time, error) {
	ctx := job.Context()
	log := s.log.With("tramme_id", tramme.ID, "run_id", job.RunID.String())
	log.Info("duplication started", "layers", len(layers))

	startDate, err := s.duplicate(ctx, job, tramme, layers, log)
	notifyCtx := context.WithoutCancel(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			job.Cancelled(err)
			log.Warn("duplication cancelled", "error", err)
		} else {
			job.Fail(err)
			log.Error("duplication failed", "error", err)
		}
		s.notifier.DuplicationFailed(notifyCtx, tramme, err)
		return time.Time{}, err
	}

	job.Finish(startDate)
	log.Info("duplication finished", "start_date", startDate.Format(time.DateOnly))
	s.notifier.DuplicationFinished(notifyCtx, tramme, job.Snapshot())
	return startDate, nil
}

// effectiveRange clamps the tramme dates so nothing is written inside the
// model week.
func (s *duplicationService) effectiveRange(tramme *models.Tramme) (time.Time, time.Time) {
	start := models.DateOnly(*tramme.StartDate)
	end := models.DateOnly(*tramme.EndDate)
	firstAfterModel := s.weekStart.AddDate(0, 0, 7)
	if start.Before(firstAfterModel) {
		start = firstAfterModel
	}
	return start, end
}

func (s *duplicationService) duplicate(ctx context.Context, job *progress.Job, tramme *models.Tramme, layers []models.Layer, log *logger.Logger) (time.Time, error) {
	start, end := s.effectiveRange(tramme)
	weekEnd := s.weekStart.AddDate(0, 0, 6)

	job.SetState(progress.StateInitialisation)
	for _, layer := range layers {
		deleted, err := s.courseRepo.DeleteByLayerAfter(ctx, layer.ID, weekEnd)
		if err != nil {
			return time.Time{}, fmt.Errorf("clear courses of layer %d: %w", layer.ID, err)
		}
		log.Debug("previous courses cleared", "layer_id", layer.ID, "deleted", deleted)
	}

	job.SetState(progress.StateLoadingData)
	blocked, err := s.calendarRepo.GetBlockedDates(ctx, tramme.ID, start, end)
	if err != nil {
		return time.Time{}, fmt.Errorf("load blocked dates: %w", err)
	}
	events, err := s.calendarRepo.GetEvents(ctx, tramme.ID, start, end)
	if err != nil {
		return time.Time{}, fmt.Errorf("load events: %w", err)
	}
	conflicts, err := s.conflictRepo.GetByTramme(ctx, tramme.ID)
	if err != nil {
		return time.Time{}, fmt.Errorf("load conflicts: %w", err)
	}

	job.SetState(progress.StateLoadingLayers)
	layers, err = s.trammeRepo.GetLayers(ctx, tramme.ID)
	if err != nil {
		return time.Time{}, fmt.Errorf("load layers: %w", err)
	}

	job.SetState(progress.StatePreparingGeneration)
	calendar := newCalendarIndex(blocked, events)

	for i, layer := range layers {
		if err := ctx.Err(); err != nil {
			return time.Time{}, err
		}
		if err := s.generateLayer(ctx, job, i, len(layers), layer, start, end, calendar, conflicts, log); err != nil {
			return time.Time{}, fmt.Errorf("layer %q: %w", layer.Name, err)
		}
	}

	job.SetState(progress.StateFinalisation)
	return start, nil
}

func (s *duplicationService) generateLayer(
	ctx context.Context,
	job *progress.Job,
	index, count int,
	layer models.Layer,
	start, end time.Time,
	calendar *calendarIndex,
	conflicts []models.Conflict,
	log *logger.Logger,
) error {
	job.EnterLayer(index, count, layer.Name)
	units, err := s.unitRepo.GetByLayer(ctx, layer.ID)
	if err != nil {
		return fmt.Errorf("load teaching units: %w", err)
	}

	job.SetState(progress.StatePreparingPlacements)
	tpl, err := s.extractor.Extract(ctx, layer.ID)
	if err != nil {
		return err
	}
	ledger := NewLedger(units, tpl.Groups)
	resolver := newConflictResolver(conflicts, tpl)
	proj := newProjector(tpl, ledger, calendar, resolver)

	job.SetState(progress.StateGeneratingDays)
	totalDays := 0
	if !end.Before(start) {
		totalDays = int(end.Sub(start).Hours()/24) + 1
	}
	if totalDays == 0 {
		job.SetDays(0, 0)
	}

	err = s.store.WithinTx(ctx, func(w repository.GenerationWriter) error {
		day := 0
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if err := ctx.Err(); err != nil {
				return err
			}
			occurrences, err := proj.projectDate(d)
			if err != nil {
				return err
			}
			for i := range occurrences {
				if err := w.CreateCourse(ctx, &occurrences[i]); err != nil {
					return fmt.Errorf("create course on %s: %w", d.Format(time.DateOnly), err)
				}
			}
			day++
			job.SetDays(day, totalDays)
		}

		job.SetState(progress.StateUpdatingBudgets)
		if err := w.UpsertBudgets(ctx, ledger.Budgets()); err != nil {
			return fmt.Errorf("flush hour budgets: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("layer generated",
		"layer_id", layer.ID,
		"placements", tpl.Len(),
		"conflicts", resolver.count,
		"days", proj.stats.days,
		"blocked_days", proj.stats.blockedDays,
		"created", proj.stats.created,
		"dropped_no_budget", proj.stats.noBudget,
		"dropped_event", proj.stats.eventDropped,
		"dropped_conflict", proj.stats.conflictDrop,
	)
	return nil
}

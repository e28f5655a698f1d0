package memory

import (
	"context"
	"sort"
	"time"

	"trame-planner/internal/models"
	"trame-planner/internal/repository"
)

type trammeRepository struct{ db *DB }

func NewTrammeRepository(db *DB) repository.TrammeRepository {
	return &trammeRepository{db: db}
}

func (r *trammeRepository) GetByID(_ context.Context, id int64) (*models.Tramme, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	t, ok := r.db.trammes[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *trammeRepository) GetLayers(_ context.Context, trammeID int64) ([]models.Layer, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var layers []models.Layer
	for _, l := range r.db.layers {
		if l.TrammeID == trammeID {
			layers = append(layers, l)
		}
	}
	sort.Slice(layers, func(i, j int) bool {
		if layers[i].Position != layers[j].Position {
			return layers[i].Position < layers[j].Position
		}
		return layers[i].ID < layers[j].ID
	})
	return layers, nil
}

type teachingUnitRepository struct{ db *DB }

func NewTeachingUnitRepository(db *DB) repository.TeachingUnitRepository {
	return &teachingUnitRepository{db: db}
}

func (r *teachingUnitRepository) GetByLayer(_ context.Context, layerID int64) ([]models.TeachingUnit, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var units []models.TeachingUnit
	for _, u := range r.db.units {
		if u.LayerID == layerID {
			units = append(units, u)
		}
	}
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })
	return units, nil
}

func (r *teachingUnitRepository) CountByTramme(_ context.Context, trammeID int64) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	count := 0
	for _, u := range r.db.units {
		if l, ok := r.db.layers[u.LayerID]; ok && l.TrammeID == trammeID {
			count++
		}
	}
	return count, nil
}

type groupRepository struct{ db *DB }

func NewGroupRepository(db *DB) repository.GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) GetByLayer(_ context.Context, layerID int64) ([]models.Group, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var groups []models.Group
	for _, id := range r.db.layerGroups[layerID] {
		groups = append(groups, r.db.groups[id])
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	return groups, nil
}

type courseRepository struct{ db *DB }

func NewCourseRepository(db *DB) repository.CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) GetByGroup(_ context.Context, groupID int64, from, to time.Time) ([]models.Course, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var courses []models.Course
	for _, c := range r.db.courses {
		if !inRange(c.Date, from, to) {
			continue
		}
		for _, g := range c.GroupIDs {
			if g == groupID {
				c.GroupIDs = append([]int64(nil), c.GroupIDs...)
				courses = append(courses, c)
				break
			}
		}
	}
	sortCourses(courses)
	return courses, nil
}

func (r *courseRepository) Create(_ context.Context, c *models.Course) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	*c = r.db.insertCourse(*c)
	return nil
}

func (r *courseRepository) DeleteByLayerAfter(_ context.Context, layerID int64, after time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	after = models.DateOnly(after)
	var deleted int64
	for id, c := range r.db.courses {
		u, ok := r.db.units[c.UnitID]
		if ok && u.LayerID == layerID && c.Date.After(after) {
			delete(r.db.courses, id)
			deleted++
		}
	}
	return deleted, nil
}

type calendarRepository struct{ db *DB }

func NewCalendarRepository(db *DB) repository.CalendarRepository {
	return &calendarRepository{db: db}
}

func (r *calendarRepository) GetBlockedDates(_ context.Context, trammeID int64, from, to time.Time) ([]models.BlockedDate, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []models.BlockedDate
	for _, b := range r.db.blocked {
		if b.TrammeID == trammeID && inRange(b.Date, from, to) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *calendarRepository) GetEvents(_ context.Context, trammeID int64, from, to time.Time) ([]models.Event, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []models.Event
	for _, e := range r.db.events {
		if e.TrammeID == trammeID && inRange(e.Date, from, to) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartHour < out[j].StartHour
	})
	return out, nil
}

// CreateBlockedDate updates the reason when the date is already blocked.
func (r *calendarRepository) CreateBlockedDate(_ context.Context, b *models.BlockedDate) error {
	r.db.mu.Lock()
	for id, existing := range r.db.blocked {
		if existing.TrammeID == b.TrammeID && existing.Date.Equal(models.DateOnly(b.Date)) {
			existing.Reason = b.Reason
			r.db.blocked[id] = existing
			r.db.mu.Unlock()
			*b = existing
			return nil
		}
	}
	r.db.mu.Unlock()
	*b = r.db.AddBlockedDate(*b)
	return nil
}

func (r *calendarRepository) CreateEvent(_ context.Context, e *models.Event) error {
	*e = r.db.AddEvent(*e)
	return nil
}

type conflictRepository struct{ db *DB }

func NewConflictRepository(db *DB) repository.ConflictRepository {
	return &conflictRepository{db: db}
}

func (r *conflictRepository) GetByTramme(_ context.Context, trammeID int64) ([]models.Conflict, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []models.Conflict
	for _, c := range r.db.conflicts {
		if c.TrammeID == trammeID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type hourBudgetRepository struct{ db *DB }

func NewHourBudgetRepository(db *DB) repository.HourBudgetRepository {
	return &hourBudgetRepository{db: db}
}

func (r *hourBudgetRepository) Upsert(_ context.Context, budgets []models.HourBudget) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, b := range budgets {
		r.db.budgets[budgetKey{b.UnitID, b.GroupID, b.Type}] = b.Hours
	}
	return nil
}

func (r *hourBudgetRepository) GetByUnit(_ context.Context, unitID int64) ([]models.HourBudget, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []models.HourBudget
	for k, h := range r.db.budgets {
		if k.unitID == unitID {
			out = append(out, models.HourBudget{UnitID: k.unitID, GroupID: k.groupID, Type: k.typ, Hours: h})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GroupID != out[j].GroupID {
			return out[i].GroupID < out[j].GroupID
		}
		return out[i].Type < out[j].Type
	})
	return out, nil
}

// GenerationStore buffers writes and applies them to the DB only when the
// callback succeeds.
type GenerationStore struct {
	db *DB
	// FailCourse, when set, is called before each buffered course and can
	// inject a storage error.
	FailCourse func(c models.Course) error
}

func NewGenerationStore(db *DB) *GenerationStore {
	return &GenerationStore{db: db}
}

type bufferedWriter struct {
	store   *GenerationStore
	courses []models.Course
	budgets []models.HourBudget
}

func (w *bufferedWriter) CreateCourse(_ context.Context, c *models.Course) error {
	if w.store.FailCourse != nil {
		if err := w.store.FailCourse(*c); err != nil {
			return err
		}
	}
	w.courses = append(w.courses, *c)
	return nil
}

func (w *bufferedWriter) UpsertBudgets(_ context.Context, budgets []models.HourBudget) error {
	w.budgets = append(w.budgets, budgets...)
	return nil
}

func (s *GenerationStore) WithinTx(ctx context.Context, fn func(w repository.GenerationWriter) error) error {
	w := &bufferedWriter{store: s}
	if err := fn(w); err != nil {
		return err
	}

	s.db.mu.Lock()
	for _, c := range w.courses {
		s.db.insertCourse(c)
	}
	for _, b := range w.budgets {
		s.db.budgets[budgetKey{b.UnitID, b.GroupID, b.Type}] = b.Hours
	}
	s.db.mu.Unlock()
	return nil
}

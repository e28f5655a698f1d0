// Package memory keeps every table in process memory. It backs the service
// and HTTP tests and mirrors the SQL repositories' semantics.
package memory

import (
	"sort"
	"sync"
	"time"

	"trame-planner/internal/models"
)

type budgetKey struct {
	unitID  int64
	groupID int64
	typ     models.SessionType
}

type DB struct {
	mu sync.RWMutex

	pk int64

	trammes     map[int64]models.Tramme
	layers      map[int64]models.Layer
	units       map[int64]models.TeachingUnit
	groups      map[int64]models.Group
	layerGroups map[int64][]int64
	courses     map[int64]models.Course
	blocked     map[int64]models.BlockedDate
	events      map[int64]models.Event
	conflicts   map[int64]models.Conflict
	budgets     map[budgetKey]float64
}

func Open() *DB {
	return &DB{
		trammes:     make(map[int64]models.Tramme),
		layers:      make(map[int64]models.Layer),
		units:       make(map[int64]models.TeachingUnit),
		groups:      make(map[int64]models.Group),
		layerGroups: make(map[int64][]int64),
		courses:     make(map[int64]models.Course),
		blocked:     make(map[int64]models.BlockedDate),
		events:      make(map[int64]models.Event),
		conflicts:   make(map[int64]models.Conflict),
		budgets:     make(map[budgetKey]float64),
	}
}

func (db *DB) nextID() int64 {
	db.pk++
	return db.pk
}

// The Add* helpers seed fixtures; they assign the ID and return the stored row.

func (db *DB) AddTramme(t models.Tramme) models.Tramme {
	db.mu.Lock()
	defer db.mu.Unlock()
	t.ID = db.nextID()
	db.trammes[t.ID] = t
	return t
}

func (db *DB) AddLayer(l models.Layer) models.Layer {
	db.mu.Lock()
	defer db.mu.Unlock()
	l.ID = db.nextID()
	db.layers[l.ID] = l
	return l
}

func (db *DB) AddUnit(u models.TeachingUnit) models.TeachingUnit {
	db.mu.Lock()
	defer db.mu.Unlock()
	u.ID = db.nextID()
	db.units[u.ID] = u
	return u
}

// AddGroup stores the group and links it to the given layers.
func (db *DB) AddGroup(g models.Group, layerIDs ...int64) models.Group {
	db.mu.Lock()
	defer db.mu.Unlock()
	g.ID = db.nextID()
	db.groups[g.ID] = g
	for _, layerID := range layerIDs {
		db.layerGroups[layerID] = append(db.layerGroups[layerID], g.ID)
	}
	return g
}

func (db *DB) AddCourse(c models.Course) models.Course {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.insertCourse(c)
}

func (db *DB) insertCourse(c models.Course) models.Course {
	c.ID = db.nextID()
	c.Date = models.DateOnly(c.Date)
	c.GroupIDs = append([]int64(nil), c.GroupIDs...)
	sort.Slice(c.GroupIDs, func(i, j int) bool { return c.GroupIDs[i] < c.GroupIDs[j] })
	db.courses[c.ID] = c
	return c
}

func (db *DB) AddBlockedDate(b models.BlockedDate) models.BlockedDate {
	db.mu.Lock()
	defer db.mu.Unlock()
	b.ID = db.nextID()
	b.Date = models.DateOnly(b.Date)
	db.blocked[b.ID] = b
	return b
}

func (db *DB) AddEvent(e models.Event) models.Event {
	db.mu.Lock()
	defer db.mu.Unlock()
	e.ID = db.nextID()
	e.Date = models.DateOnly(e.Date)
	db.events[e.ID] = e
	return e
}

func (db *DB) AddConflict(c models.Conflict) models.Conflict {
	db.mu.Lock()
	defer db.mu.Unlock()
	c.ID = db.nextID()
	db.conflicts[c.ID] = c
	return c
}

// Courses returns every stored course ordered by date, start hour and id.
func (db *DB) Courses() []models.Course {
	db.mu.RLock()
	defer db.mu.RUnlock()
	out := make([]models.Course, 0, len(db.courses))
	for _, c := range db.courses {
		out = append(out, c)
	}
	sortCourses(out)
	return out
}

// Budget returns the persisted remaining hours and whether a row exists.
func (db *DB) Budget(unitID, groupID int64, t models.SessionType) (float64, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	h, ok := db.budgets[budgetKey{unitID, groupID, t}]
	return h, ok
}

func sortCourses(cs []models.Course) {
	sort.Slice(cs, func(i, j int) bool {
		if !cs[i].Date.Equal(cs[j].Date) {
			return cs[i].Date.Before(cs[j].Date)
		}
		if cs[i].StartHour != cs[j].StartHour {
			return cs[i].StartHour < cs[j].StartHour
		}
		return cs[i].ID < cs[j].ID
	})
}

func inRange(d, from, to time.Time) bool {
	d = models.DateOnly(d)
	return !d.Before(models.DateOnly(from)) && !d.After(models.DateOnly(to))
}

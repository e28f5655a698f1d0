package duplication

import (
	"fmt"
	"time"

	"trame-planner/internal/models"
)

type calendarIndex struct {
	blocked map[time.Time]struct{}
	events  map[time.Time][]models.Event
}

func newCalendarIndex(blocked []models.BlockedDate, events []models.Event) *calendarIndex {
	idx := &calendarIndex{
		blocked: make(map[time.Time]struct{}, len(blocked)),
		events:  make(map[time.Time][]models.Event),
	}
	for _, b := range blocked {
		idx.blocked[models.DateOnly(b.Date)] = struct{}{}
	}
	for _, e := range events {
		d := models.DateOnly(e.Date)
		idx.events[d] = append(idx.events[d], e)
	}
	return idx
}

func (c *calendarIndex) isBlocked(d time.Time) bool {
	_, ok := c.blocked[d]
	return ok
}

func (c *calendarIndex) collides(d time.Time, start, end float64) bool {
	for _, e := range c.events[d] {
		if e.Collides(start, end) {
			return true
		}
	}
	return false
}

type projectionStats struct {
	days         int
	blockedDays  int
	created      int
	noBudget     int
	eventDropped int
	conflictDrop int
}

// projector replays one layer's template day by day against its ledger.
type projector struct {
	tpl       *Template
	ledger    *Ledger
	calendar  *calendarIndex
	conflicts *conflictResolver
	stats     projectionStats
}

func newProjector(tpl *Template, ledger *Ledger, calendar *calendarIndex, conflicts *conflictResolver) *projector {
	return &projector{
		tpl:       tpl,
		ledger:    ledger,
		calendar:  calendar,
		conflicts: conflicts,
	}
}

// projectDate returns the occurrences of date d, already debited from the
// ledger. Placements are evaluated in bucket order so a debit made for one
// is seen by the next.
func (p *projector) projectDate(d time.Time) ([]models.Course, error) {
	d = models.DateOnly(d)
	p.stats.days++
	if p.calendar.isBlocked(d) {
		p.stats.blockedDays++
		return nil, nil
	}

	var out []models.Course
	for _, placement := range p.tpl.Buckets[models.WeekdayIndex(d)] {
		groups := p.eligibleGroups(placement)
		if len(groups) == 0 {
			p.stats.noBudget++
			continue
		}
		if p.calendar.collides(d, placement.StartHour, placement.EndHour()) {
			p.stats.eventDropped++
			continue
		}
		if !p.conflicts.admit(placement.ID, d, p) {
			p.stats.conflictDrop++
			continue
		}

		occ := models.Course{
			UnitID:      placement.UnitID,
			Type:        placement.Type,
			Date:        d,
			StartHour:   placement.StartHour,
			Duration:    placement.Duration,
			ProfessorID: placement.ProfessorID,
			GroupIDs:    groups,
		}
		for _, groupID := range groups {
			if err := p.ledger.Debit(placement.UnitID, groupID, placement.Type, placement.Duration); err != nil {
				return nil, fmt.Errorf("placement %d on %s: %w", placement.ID, d.Format(time.DateOnly), err)
			}
		}
		out = append(out, occ)
		p.stats.created++
	}
	return out, nil
}

func (p *projector) eligibleGroups(c *models.Course) []int64 {
	return p.ledger.EligibleGroups(c.UnitID, c.Type, c.Duration, c.GroupIDs)
}

func (p *projector) scheduledOn(courseID int64, d time.Time) bool {
	c, ok := p.tpl.Placement(courseID)
	return ok && models.WeekdayIndex(c.Date) == models.WeekdayIndex(d)
}

func (p *projector) viableOn(courseID int64, d time.Time) bool {
	c, ok := p.tpl.Placement(courseID)
	if !ok {
		return false
	}
	if len(p.eligibleGroups(c)) == 0 {
		return false
	}
	return !p.calendar.collides(d, c.StartHour, c.EndHour())
}

func (p *projector) hasBudget(courseID int64) bool {
	c, ok := p.tpl.Placement(courseID)
	if !ok {
		return false
	}
	return len(p.eligibleGroups(c)) > 0
}

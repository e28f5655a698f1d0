package duplication

import (
	"sort"
	"time"

	"trame-planner/internal/models"
)

type side int

const (
	sideA side = iota
	sideB
)

// placementProbe answers questions about the other side of a conflict.
type placementProbe interface {
	// scheduledOn reports whether the placement sits in d's weekday bucket.
	scheduledOn(courseID int64, d time.Time) bool
	// viableOn reports whether the placement would pass the budget and
	// event checks on d.
	viableOn(courseID int64, d time.Time) bool
	// hasBudget reports whether at least one group of the placement can
	// still afford it.
	hasBudget(courseID int64) bool
}

type conflictState struct {
	conflict models.Conflict

	// alternate
	turns     int
	decidedOn time.Time
	decision  side

	// sequence
	switched bool
}

func (s *conflictState) sideOf(courseID int64) side {
	if courseID == s.conflict.CourseAID {
		return sideA
	}
	return sideB
}

// admit tells whether the placement survives this conflict on d.
func (s *conflictState) admit(courseID int64, d time.Time, probe placementProbe) bool {
	switch s.conflict.Resolution {
	case models.ResolutionAlternate:
		return s.alternate(courseID, d, probe)
	case models.ResolutionSequence:
		return s.sequence(courseID, probe)
	}
	return true
}

// alternate picks A on even turns and B on odd ones, starting with A. Only
// A's evaluation consumes a turn; B reads the decision A made that day, or
// the pending turn when it is evaluated first. B skips the turn only on the
// days A is scheduled but dropped by budget or an event.
func (s *conflictState) alternate(courseID int64, d time.Time, probe placementProbe) bool {
	me := s.sideOf(courseID)
	if s.decidedOn.Equal(d) {
		return s.decision == me
	}

	a := s.conflict.CourseAID
	if me == sideB && probe.scheduledOn(a, d) && !probe.viableOn(a, d) {
		return true
	}

	choice := sideA
	if s.turns%2 == 1 {
		choice = sideB
	}
	if me == sideA {
		s.turns++
		s.decidedOn = d
		s.decision = choice
	}
	return choice == me
}

// sequence keeps A while any of its groups can afford it, then B for good.
func (s *conflictState) sequence(courseID int64, probe placementProbe) bool {
	if !s.switched && !probe.hasBudget(s.conflict.CourseAID) {
		s.switched = true
	}
	if s.switched {
		return s.sideOf(courseID) == sideB
	}
	return s.sideOf(courseID) == sideA
}

// conflictResolver indexes the alternate and sequence conflicts of a layer
// by placement. None, ignore and keep are settled before duplication and
// have no effect here.
type conflictResolver struct {
	byCourse map[int64][]*conflictState
	count    int
}

func newConflictResolver(conflicts []models.Conflict, tpl *Template) *conflictResolver {
	sorted := append([]models.Conflict(nil), conflicts...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	r := &conflictResolver{byCourse: make(map[int64][]*conflictState)}
	for _, c := range sorted {
		if c.Resolution != models.ResolutionAlternate && c.Resolution != models.ResolutionSequence {
			continue
		}
		if c.CourseAID == c.CourseBID {
			continue
		}
		_, okA := tpl.Placement(c.CourseAID)
		_, okB := tpl.Placement(c.CourseBID)
		if !okA || !okB {
			continue
		}
		st := &conflictState{conflict: c}
		r.byCourse[c.CourseAID] = append(r.byCourse[c.CourseAID], st)
		r.byCourse[c.CourseBID] = append(r.byCourse[c.CourseBID], st)
		r.count++
	}
	return r
}

// admit evaluates the conflicts of the placement in id order and stops at
// the first one dropping it.
func (r *conflictResolver) admit(courseID int64, d time.Time, probe placementProbe) bool {
	for _, st := range r.byCourse[courseID] {
		if !st.admit(courseID, d, probe) {
			return false
		}
	}
	return true
}

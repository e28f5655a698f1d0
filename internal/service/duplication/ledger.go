package duplication

import (
	"errors"
	"fmt"

	"trame-planner/internal/models"
)

// ErrOverdraft means a debit was attempted without a prior eligibility check.
var ErrOverdraft = errors.New("hour budget overdraft")

type budgetKey struct {
	unitID  int64
	groupID int64
	typ     models.SessionType
}

// Ledger counts the remaining hours per (unit, group, session type) of one
// layer in quarter hours.
type Ledger struct {
	remaining map[budgetKey]int64
	keys      []budgetKey
}

// NewLedger seeds every unit volume on every non-special group.
func NewLedger(units []models.TeachingUnit, groups []models.Group) *Ledger {
	l := &Ledger{remaining: make(map[budgetKey]int64)}
	for _, u := range units {
		for _, g := range groups {
			if g.IsSpecial {
				continue
			}
			for _, t := range models.SessionTypes {
				k := budgetKey{u.ID, g.ID, t}
				if _, dup := l.remaining[k]; dup {
					continue
				}
				l.remaining[k] = models.QuarterHours(u.Volume(t))
				l.keys = append(l.keys, k)
			}
		}
	}
	return l
}

func (l *Ledger) Remaining(unitID, groupID int64, t models.SessionType) float64 {
	return models.HoursFromQuarters(l.remaining[budgetKey{unitID, groupID, t}])
}

// EligibleGroups keeps the candidates, in order, that the ledger tracks and
// that still have at least hours left.
func (l *Ledger) EligibleGroups(unitID int64, t models.SessionType, hours float64, candidates []int64) []int64 {
	need := models.QuarterHours(hours)
	var eligible []int64
	for _, groupID := range candidates {
		left, ok := l.remaining[budgetKey{unitID, groupID, t}]
		if ok && left >= need {
			eligible = append(eligible, groupID)
		}
	}
	return eligible
}

func (l *Ledger) Debit(unitID, groupID int64, t models.SessionType, hours float64) error {
	k := budgetKey{unitID, groupID, t}
	left, ok := l.remaining[k]
	need := models.QuarterHours(hours)
	if !ok || left < need {
		return fmt.Errorf("%w: unit=%d group=%d type=%s left=%.2fh debit=%.2fh",
			ErrOverdraft, unitID, groupID, t, models.HoursFromQuarters(left), hours)
	}
	l.remaining[k] = left - need
	return nil
}

// Budgets lists every tracked triple in seeding order, ready to be flushed.
func (l *Ledger) Budgets() []models.HourBudget {
	out := make([]models.HourBudget, 0, len(l.keys))
	for _, k := range l.keys {
		out = append(out, models.HourBudget{
			UnitID:  k.unitID,
			GroupID: k.groupID,
			Type:    k.typ,
			Hours:   models.HoursFromQuarters(l.remaining[k]),
		})
	}
	return out
}

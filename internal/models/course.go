package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type SessionType string

const (
	SessionCM SessionType = "CM"
	SessionTD SessionType = "TD"
	SessionTP SessionType = "TP"
)

var SessionTypes = []SessionType{SessionCM, SessionTD, SessionTP}

func ParseSessionType(s string) (SessionType, error) {
	switch t := SessionType(strings.ToUpper(strings.TrimSpace(s))); t {
	case SessionCM, SessionTD, SessionTP:
		return t, nil
	}
	return "", fmt.Errorf("unknown session type %q", s)
}

// Course is both a model-week placement and a dated occurrence; only the
// Date tells them apart.
type Course struct {
	ID          int64       `db:"id" json:"id"`
	UnitID      int64       `db:"unit_id" json:"unit_id"`
	Type        SessionType `db:"session_type" json:"session_type"`
	Date        time.Time   `db:"date" json:"date"`
	StartHour   float64     `db:"start_hour" json:"start_hour"`
	Duration    float64     `db:"duration_hours" json:"duration_hours"`
	ProfessorID *int64      `db:"professor_id" json:"professor_id,omitempty"`
	GroupIDs    []int64     `db:"-" json:"group_ids"`
}

func (c Course) EndHour() float64 {
	return c.StartHour + c.Duration
}

// QuarterHours converts hours to a whole number of 15 minute units.
func QuarterHours(h float64) int64 {
	return int64(math.Round(h * 4))
}

func HoursFromQuarters(q int64) float64 {
	return float64(q) / 4
}

// DefaultModelWeekStart is the canonical Monday holding the template week.
var DefaultModelWeekStart = time.Date(1970, time.January, 5, 0, 0, 0, 0, time.UTC)

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekdayIndex maps a date to 0 (Monday) .. 6 (Sunday).
func WeekdayIndex(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}

package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

type Resolution string

const (
	ResolutionNone      Resolution = "none"
	ResolutionIgnore    Resolution = "ignore"
	ResolutionKeep      Resolution = "keep"
	ResolutionAlternate Resolution = "alternate"
	ResolutionSequence  Resolution = "sequence"
)

func ParseResolution(s string) (Resolution, error) {
	r := Resolution(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case "":
		return ResolutionNone, nil
	case ResolutionNone, ResolutionIgnore, ResolutionKeep, ResolutionAlternate, ResolutionSequence:
		return r, nil
	}
	return "", fmt.Errorf("unknown conflict resolution %q", s)
}

func (r *Resolution) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Resolution", src)
	}
	parsed, err := ParseResolution(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r Resolution) Value() (driver.Value, error) {
	return string(r), nil
}

func (r *Resolution) UnmarshalText(text []byte) error {
	parsed, err := ParseResolution(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Conflict links two model-week placements. A is the primary side.
type Conflict struct {
	ID         int64      `db:"id" json:"id"`
	TrammeID   int64      `db:"tramme_id" json:"tramme_id"`
	CourseAID  int64      `db:"course_a_id" json:"course_a_id"`
	CourseBID  int64      `db:"course_b_id" json:"course_b_id"`
	Resolution Resolution `db:"resolution" json:"resolution"`
}

// HourBudget - hours a group still has to follow for a unit and session type
type HourBudget struct {
	UnitID  int64       `db:"unit_id" json:"unit_id"`
	GroupID int64       `db:"group_id" json:"group_id"`
	Type    SessionType `db:"session_type" json:"session_type"`
	Hours   float64     `db:"remaining_hours" json:"remaining_hours"`
}

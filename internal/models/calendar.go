package models

import "time"

// BlockedDate - holiday or any other day without teaching
type BlockedDate struct {
	ID       int64     `db:"id" json:"id"`
	TrammeID int64     `db:"tramme_id" json:"tramme_id"`
	Date     time.Time `db:"date" json:"date"`
	Reason   string    `db:"reason" json:"reason"`
}

// Event - one-off timed event that blocks courses overlapping it
type Event struct {
	ID        int64     `db:"id" json:"id"`
	TrammeID  int64     `db:"tramme_id" json:"tramme_id"`
	Name      string    `db:"name" json:"name"`
	Date      time.Time `db:"date" json:"date"`
	StartHour float64   `db:"start_hour" json:"start_hour"`
	EndHour   float64   `db:"end_hour" json:"end_hour"`
}

// Collides reports whether the event window [StartHour, EndHour) hits a
// course window [start, end): the event starts inside the course, ends
// inside it, or covers it entirely.
func (e Event) Collides(start, end float64) bool {
	startsInside := e.StartHour >= start && e.StartHour < end
	endsInside := e.EndHour > start && e.EndHour <= end
	contains := e.StartHour <= start && e.EndHour >= end
	return startsInside || endsInside || contains
}

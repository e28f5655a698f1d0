package models

// Group - cohort of students. Special groups (whole promotion, etc.)
// never take part in hour accounting.
type Group struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	IsSpecial bool   `db:"is_special" json:"is_special"`
}

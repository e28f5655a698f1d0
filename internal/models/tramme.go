package models

import "time"

// Tramme - schedule container for one cohort/period
type Tramme struct {
	ID        int64      `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	StartDate *time.Time `db:"start_date" json:"start_date"`
	EndDate   *time.Time `db:"end_date" json:"end_date"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

type Layer struct {
	ID       int64  `db:"id" json:"id"`
	TrammeID int64  `db:"tramme_id" json:"tramme_id"`
	Name     string `db:"name" json:"name"`
	Position int    `db:"position" json:"position"`
}

type TeachingUnit struct {
	ID       int64   `db:"id" json:"id"`
	LayerID  int64   `db:"layer_id" json:"layer_id"`
	Name     string  `db:"name" json:"name"`
	VolumeCM float64 `db:"volume_cm" json:"volume_cm"`
	VolumeTD float64 `db:"volume_td" json:"volume_td"`
	VolumeTP float64 `db:"volume_tp" json:"volume_tp"`
}

// Volume returns the declared hours of the unit for a session type.
func (u TeachingUnit) Volume(t SessionType) float64 {
	switch t {
	case SessionCM:
		return u.VolumeCM
	case SessionTD:
		return u.VolumeTD
	case SessionTP:
		return u.VolumeTP
	}
	return 0
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// WeighFlow identifies which measurement was captured when the vehicle
// entered the station.
type WeighFlow string

const (
	// FlowGrossFirst: the vehicle arrived loaded, gross was weighed on entry
	// and the tare is captured on exit.
	FlowGrossFirst WeighFlow = "gross_first"
	// FlowTareFirst: the vehicle arrived empty, tare was weighed on entry and
	// the gross is captured on exit (after loading).
	FlowTareFirst WeighFlow = "tare_first"
)

// Valid reports whether f is one of the two known entry flows.
func (f WeighFlow) Valid() bool {
	return f == FlowGrossFirst || f == FlowTareFirst
}

// PendingWeighing is an open weighing awaiting its second measurement.
// FirstWeight is always the non-negative measured magnitude; Flow says
// whether it is the gross or the tare.
type PendingWeighing struct {
	ID           int64           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time       `gorm:"not null" json:"created_at"`
	Flow         WeighFlow       `gorm:"size:16;not null" json:"flow"`
	Plate        string          `gorm:"size:16;not null" json:"plate"`
	TrailerPlate string          `gorm:"size:16" json:"trailer_plate"`
	Driver       string          `gorm:"size:128;not null" json:"driver"`
	Origin       string          `gorm:"size:256" json:"origin"`
	Destination  string          `gorm:"size:256" json:"destination"`
	CargoType    string          `gorm:"size:128" json:"cargo_type"`
	FirstWeight  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"first_weight"`
}

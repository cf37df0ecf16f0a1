package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ticket is the immutable, finalized record of a completed two-phase
// weighing. The row ID is the receipt number handed to the driver.
// NetWeight is stored rather than derived so the printed value can never
// drift from what was computed at closing time.
type Ticket struct {
	ID           int64           `gorm:"primaryKey" json:"id"`
	IssuedAt     time.Time       `gorm:"not null;index" json:"issued_at"`
	Plate        string          `gorm:"size:16;not null" json:"plate"`
	TrailerPlate string          `gorm:"size:16" json:"trailer_plate"`
	Driver       string          `gorm:"size:128;not null" json:"driver"`
	Origin       string          `gorm:"size:256" json:"origin"`
	Destination  string          `gorm:"size:256" json:"destination"`
	CargoType    string          `gorm:"size:128" json:"cargo_type"`
	GrossWeight  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"gross_weight"`
	TareWeight   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tare_weight"`
	NetWeight    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"net_weight"`
}

package models

import "time"

type BreakdownStatus string

const (
	BreakdownActive   BreakdownStatus = "active"
	BreakdownResolved BreakdownStatus = "resolved"
)

// Breakdown: Makine arızası. active -> resolved geçişi tek yönlüdür.
// Duruş süresi ResolvedAt (yoksa şimdi) - ReportedAt olarak hesaplanır.
type Breakdown struct {
	ID             uint `gorm:"primaryKey"`
	MachineID      uint `gorm:"index;not null"`
	Machine        Machine
	Description    string          `gorm:"size:255;not null"`
	Status         BreakdownStatus `gorm:"size:20;not null;default:active"`
	ReportedAt     time.Time       `gorm:"index;not null"`
	ResolvedAt     *time.Time
	ResolutionNote string `gorm:"size:255"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

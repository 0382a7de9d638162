package models

import "time"

type Machine struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null;unique"`
	Type        string `gorm:"size:50"` // şerit testere, çoklu dilme vs.
	Description string `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

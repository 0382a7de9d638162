package models

import "time"

type Customer struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;unique"`
	Phone     string `gorm:"size:50"`  // Opsiyonel telefon
	Address   string `gorm:"size:255"` // Teslimat adresi
	TaxNumber string `gorm:"size:50"`  // İrsaliye için vergi no
	CreatedAt time.Time
	UpdatedAt time.Time
}

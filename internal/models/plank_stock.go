package models

import "time"

type MoistureState string

const (
	MoistureWet MoistureState = "wet" // yaş (fırınlanmamış)
	MoistureDry MoistureState = "dry" // kuru (fırınlanmış)
)

// Standart kereste boyları (metre, 60 cm katları). UnderMinLength ölçü altı
// parçalar için ayrılmış özel boydur; hacim hesabında da 1.2 m olarak işlenir.
const UnderMinLength = 1.2

var NominalLengths = []float64{1.8, 2.4, 3.0, 3.6, 4.2, 4.8, 5.4, 6.0}

// ValidLength: boy standart listede mi veya ölçü altı mı?
func ValidLength(lengthM float64) bool {
	if lengthM == UnderMinLength {
		return true
	}
	for _, l := range NominalLengths {
		if l == lengthM {
			return true
		}
	}
	return false
}

// PlankStock: Kereste stoku. Her (en, kalınlık, boy, rutubet) kombinasyonu
// için en fazla bir kayıt vardır; Quantity adet cinsindendir ve hiçbir işlem
// negatife düşüremez.
type PlankStock struct {
	ID            uint          `gorm:"primaryKey"`
	WidthMM       int           `gorm:"not null;uniqueIndex:idx_plank_stock_key"` // en (mm)
	HeightMM      int           `gorm:"not null;uniqueIndex:idx_plank_stock_key"` // kalınlık (mm)
	LengthM       float64       `gorm:"not null;uniqueIndex:idx_plank_stock_key"` // boy (m)
	MoistureState MoistureState `gorm:"size:10;not null;uniqueIndex:idx_plank_stock_key"`
	Quantity      int           `gorm:"not null"` // mevcut adet
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

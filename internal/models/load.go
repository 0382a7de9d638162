package models

import "time"

type LoadStatus string

const (
	LoadStatusLoaded    LoadStatus = "loaded"    // yüklendi, sevk bekliyor
	LoadStatusDelivered LoadStatus = "delivered" // teslim edildi (irsaliye kesildi)
)

// Load: Bir kamyona yapılan yükleme (birden fazla ölçü içerebilir).
// TotalQuantity ve TotalVolume her zaman Items toplamından türetilir.
type Load struct {
	ID                uint `gorm:"primaryKey"`
	Date              time.Time `gorm:"index;not null"` // yükleme tarihi
	CustomerID        uint      `gorm:"index;not null"`
	Customer          Customer
	TruckRegistration string        `gorm:"size:20;not null"` // plaka
	MoistureState     MoistureState `gorm:"size:10;not null"`
	TotalQuantity     int           `gorm:"not null"` // toplam adet
	TotalVolume       float64       `gorm:"not null"` // toplam m³
	Status            LoadStatus    `gorm:"size:20;not null;default:loaded"`
	Note              string        `gorm:"size:255"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Items []LoadItem `gorm:"foreignKey:LoadID;constraint:OnDelete:CASCADE"`
}

// LoadItem: Yükleme içindeki her ölçü satırı.
type LoadItem struct {
	ID       uint `gorm:"primaryKey"`
	LoadID   uint `gorm:"index;not null"`
	WidthMM  int     `gorm:"not null"`
	HeightMM int     `gorm:"not null"`
	LengthM  float64 `gorm:"not null"`
	Quantity int     `gorm:"not null"` // adet
	VolumeM3 float64 `gorm:"not null"` // satır hacmi (m³)
	CreatedAt time.Time
	UpdatedAt time.Time
}

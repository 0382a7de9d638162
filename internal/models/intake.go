package models

import "time"

// LogIntake: Tomruk giriş kaydı (sahaya gelen ham tomruk).
type LogIntake struct {
	ID           uint      `gorm:"primaryKey"`
	Date         time.Time `gorm:"index;not null"`
	SupplierName string    `gorm:"size:100"`
	Species      string    `gorm:"size:50"` // çam, ladin, kayın vs.
	DiameterCM   int       `gorm:"not null"`
	LengthM      float64   `gorm:"not null"`
	Quantity     int       `gorm:"not null"` // adet
	VolumeM3     float64   `gorm:"not null"`
	Note         string    `gorm:"size:255"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CuttingRecord: Biçme kaydı. Kaydedildiğinde Items içindeki her ölçü
// kereste stokuna işlenir (stok artar).
type CuttingRecord struct {
	ID        uint      `gorm:"primaryKey"`
	Date      time.Time `gorm:"index;not null"`
	MachineID uint      `gorm:"index;not null"`
	Machine   Machine
	Note      string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Items []CuttingItem `gorm:"foreignKey:CuttingRecordID;constraint:OnDelete:CASCADE"`
}

// CuttingItem: Biçmeden çıkan her ölçü.
type CuttingItem struct {
	ID              uint `gorm:"primaryKey"`
	CuttingRecordID uint `gorm:"index;not null"`
	WidthMM         int           `gorm:"not null"`
	HeightMM        int           `gorm:"not null"`
	LengthM         float64       `gorm:"not null"`
	MoistureState   MoistureState `gorm:"size:10;not null"`
	Quantity        int           `gorm:"not null"`
	VolumeM3        float64       `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

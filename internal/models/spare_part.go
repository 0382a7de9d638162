package models

import "time"

// SparePart: Makine yedek parçası. Quantity sadece kullanım kaydı ve talep
// karşılama üzerinden değişir; formdan yapılan düzeltmeler audit log'a yazılır.
type SparePart struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null;unique"`
	Description string `gorm:"size:255"`
	Quantity    int    `gorm:"not null"`           // mevcut adet
	MinQuantity int    `gorm:"not null;default:1"` // kritik stok eşiği
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LowStock: kritik stok altında mı?
func (p *SparePart) LowStock() bool {
	return p.Quantity < p.MinQuantity
}

// SpareUsage: Yedek parça kullanım kaydı (sadece eklenir, değiştirilmez).
// SparePartName denormalize tutulur; parça katalogdan silinse bile geçmiş
// kayıtlar isimleriyle okunabilir kalır.
type SpareUsage struct {
	ID            uint  `gorm:"primaryKey"`
	SparePartID   uint  `gorm:"index;not null"`
	SparePartName string `gorm:"size:100;not null"`
	MachineID     uint   `gorm:"index;not null"`
	Machine       Machine
	BreakdownID   *uint `gorm:"index"` // arıza çözümünden geldiyse dolu
	Quantity      int   `gorm:"not null"`
	Note          string `gorm:"size:255"`
	UsageDate     time.Time `gorm:"index;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type SpareRequestStatus string

const (
	SpareRequestPending   SpareRequestStatus = "pending"
	SpareRequestFulfilled SpareRequestStatus = "fulfilled"
)

// SpareRequest: Yedek parça talebi. pending -> fulfilled geçişi tek yönlüdür
// ve yalnızca bir kez yapılır.
type SpareRequest struct {
	ID            uint  `gorm:"primaryKey"`
	SparePartID   *uint `gorm:"index"` // katalogda yoksa boş
	SparePartName string `gorm:"size:100;not null"`
	Quantity      int    `gorm:"not null"`
	MachineID     *uint  `gorm:"index"`
	Note          string `gorm:"size:255"`
	Status        SpareRequestStatus `gorm:"size:20;not null;default:pending"`
	RequestDate   time.Time          `gorm:"index;not null"`
	FulfilledDate *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

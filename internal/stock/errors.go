package stock

import (
	"errors"
	"fmt"

	"kereste-backend/internal/models"
)

var (
	// ErrNoLineItems: hiç geçerli satır olmadan yükleme/biçme kaydı denendi
	ErrNoLineItems = errors.New("en az bir geçerli satır gerekli")

	// ErrAlreadyFulfilled: talep zaten karşılanmış, mükerrer giriş yapılamaz
	ErrAlreadyFulfilled = errors.New("talep zaten karşılanmış")

	// ErrUncataloguedPart: talep katalogda olmayan bir parça için;
	// önce parça kataloğa eklenmeli
	ErrUncataloguedPart = errors.New("parça katalogda kayıtlı değil")

	// ErrAlreadyDelivered: yükleme zaten teslim edilmiş
	ErrAlreadyDelivered = errors.New("yükleme zaten teslim edilmiş")

	// ErrAlreadyResolved: arıza zaten çözülmüş
	ErrAlreadyResolved = errors.New("arıza zaten çözülmüş")
)

// Key: kereste stok anahtarı (en x kalınlık x boy + rutubet durumu)
type Key struct {
	WidthMM       int
	HeightMM      int
	LengthM       float64
	MoistureState models.MoistureState
}

func (k Key) String() string {
	return fmt.Sprintf("%dx%d mm %.1f m (%s)", k.WidthMM, k.HeightMM, k.LengthM, k.MoistureState)
}

// InsufficientStockError: istenen miktar mevcut stoku aşıyor.
// Requested, aynı anahtara ait satırların toplamıdır.
type InsufficientStockError struct {
	Key       Key
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("yetersiz stok %s: gereken %d, mevcut %d", e.Key, e.Requested, e.Available)
}

// InsufficientSpareError: yedek parça stoku yetersiz.
type InsufficientSpareError struct {
	SparePartID uint
	PartName    string
	Requested   int
	Available   int
}

func (e *InsufficientSpareError) Error() string {
	return fmt.Sprintf("yetersiz yedek parça stoku (%s): gereken %d, mevcut %d", e.PartName, e.Requested, e.Available)
}

// NotFoundError: aranan kayıt yok.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s bulunamadı (ID: %d)", e.Entity, e.ID)
}

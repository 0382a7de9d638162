package loads

import (
	"errors"
	"time"

	"kereste-backend/internal/models"
	"kereste-backend/internal/stock"
	"kereste-backend/internal/volume"

	"gorm.io/gorm"
)

// LineInput: formdan gelen ham yükleme satırı. Eksik doldurulmuş satırlar
// (ölçü, boy veya adet girilmemiş) hata sayılmaz, sessizce elenir; kullanıcı
// tabloda boş satır bırakabilir.
type LineInput struct {
	WidthMM  int
	HeightMM int
	LengthM  float64
	Quantity int
}

type CreateLoadInput struct {
	Date              time.Time
	CustomerID        uint
	TruckRegistration string
	MoistureState     models.MoistureState
	Note              string
	Lines             []LineInput
}

func (l LineInput) incomplete() bool {
	return l.WidthMM <= 0 || l.HeightMM <= 0 || l.LengthM <= 0 || l.Quantity <= 0
}

// CreateLoad: yükleme oluşturma protokolü. Satırlar anahtar bazında
// toplanır, stok düşümü ve yükleme kaydı tek transaction'da yapılır.
// Düşüm başarısızsa yükleme kaydı açılmaz ve stok değişmez; dönen hata
// hangi ölçüde kaç adet açık olduğunu taşır.
func CreateLoad(db *gorm.DB, input CreateLoadInput) (*models.Load, error) {
	valid := make([]LineInput, 0, len(input.Lines))
	for _, l := range input.Lines {
		if l.incomplete() {
			continue
		}
		valid = append(valid, l)
	}
	if len(valid) == 0 {
		return nil, stock.ErrNoLineItems
	}

	items := make([]models.LoadItem, 0, len(valid))
	demands := make([]stock.Demand, 0, len(valid))
	totalQuantity := 0
	totalVolume := 0.0

	for _, l := range valid {
		key, err := stock.ParseKey(l.WidthMM, l.HeightMM, l.LengthM, string(input.MoistureState))
		if err != nil {
			return nil, err
		}

		v := volume.Calculate(l.WidthMM, l.HeightMM, l.LengthM, l.Quantity)
		items = append(items, models.LoadItem{
			WidthMM:  l.WidthMM,
			HeightMM: l.HeightMM,
			LengthM:  l.LengthM,
			Quantity: l.Quantity,
			VolumeM3: v,
		})
		demands = append(demands, stock.Demand{Key: key, Quantity: l.Quantity})
		totalQuantity += l.Quantity
		totalVolume += v
	}

	load := &models.Load{
		Date:              input.Date,
		CustomerID:        input.CustomerID,
		TruckRegistration: input.TruckRegistration,
		MoistureState:     input.MoistureState,
		TotalQuantity:     totalQuantity,
		TotalVolume:       totalVolume,
		Status:            models.LoadStatusLoaded,
		Note:              input.Note,
		Items:             items,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		// Kontrol her zaman o anki stoka göre; ekrandaki müsaitlik sadece
		// danışma amaçlıdır
		if err := stock.DeductPlanks(tx, demands); err != nil {
			return err
		}
		return tx.Create(load).Error
	})
	if err != nil {
		return nil, err
	}

	return load, nil
}

// Deliver: loaded -> delivered geçişi, yalnızca bir kez. İrsaliye akışının
// kullandığı dar yazma noktası.
func Deliver(db *gorm.DB, loadID uint) (*models.Load, error) {
	var load models.Load
	if err := db.Preload("Items").First(&load, "id = ?", loadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &stock.NotFoundError{Entity: "Yükleme", ID: loadID}
		}
		return nil, err
	}

	if load.Status == models.LoadStatusDelivered {
		return nil, stock.ErrAlreadyDelivered
	}

	// Koşullu güncelleme: aynı anda iki teslim isteği gelirse sadece biri geçer
	res := db.Model(&models.Load{}).
		Where("id = ? AND status = ?", loadID, models.LoadStatusLoaded).
		Update("status", models.LoadStatusDelivered)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, stock.ErrAlreadyDelivered
	}

	load.Status = models.LoadStatusDelivered
	return &load, nil
}

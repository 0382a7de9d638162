package spares

import (
	"errors"
	"time"

	"kereste-backend/internal/models"
	"kereste-backend/internal/stock"

	"gorm.io/gorm"
)

type UsageInput struct {
	SparePartID uint
	MachineID   uint
	BreakdownID *uint
	Quantity    int
	Note        string
	UsageDate   time.Time
}

// RecordUsageTx: parça düşümü + kullanım kaydı, çağıranın transaction'ı
// içinde. Hem manuel kullanım girişi hem arıza çözümü BU fonksiyondan geçer;
// stok kuralları giriş noktasından bağımsız tek yerde uygulanır.
func RecordUsageTx(tx *gorm.DB, input UsageInput) (*models.SpareUsage, error) {
	if input.Quantity <= 0 {
		return nil, errors.New("kullanım miktarı pozitif olmalı")
	}

	if err := stock.DeductSparePart(tx, input.SparePartID, input.Quantity); err != nil {
		return nil, err
	}

	// Düşüm başarılı, parça kesin var; ismi denormalize kaydet
	var part models.SparePart
	if err := tx.First(&part, "id = ?", input.SparePartID).Error; err != nil {
		return nil, err
	}

	usage := &models.SpareUsage{
		SparePartID:   input.SparePartID,
		SparePartName: part.Name,
		MachineID:     input.MachineID,
		BreakdownID:   input.BreakdownID,
		Quantity:      input.Quantity,
		Note:          input.Note,
		UsageDate:     input.UsageDate,
	}
	if err := tx.Create(usage).Error; err != nil {
		return nil, err
	}

	return usage, nil
}

// RecordUsage: tek başına kullanım kaydı (kendi transaction'ını açar).
func RecordUsage(db *gorm.DB, input UsageInput) (*models.SpareUsage, error) {
	var usage *models.SpareUsage
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		usage, err = RecordUsageTx(tx, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	return usage, nil
}

// Fulfill: talep karşılama. pending -> fulfilled geçişi tek yönlü ve tek
// seferlik; stok artışı ve durum değişikliği tek transaction'da yapılır.
// Katalog bağlantısı olmayan talepler önce isimle eşleştirilmeye çalışılır;
// eşleşme yoksa parça kataloğa eklenmeden karşılama yapılamaz (otomatik
// parça oluşturma bilinçli olarak YOK, katalog sadece admin elinden değişir).
func Fulfill(db *gorm.DB, requestID uint) (*models.SpareRequest, error) {
	var request models.SpareRequest
	if err := db.First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &stock.NotFoundError{Entity: "Talep", ID: requestID}
		}
		return nil, err
	}

	if request.Status == models.SpareRequestFulfilled {
		return nil, stock.ErrAlreadyFulfilled
	}

	// Katalog bağlantısını çöz. Bağlantı kopuksa (parça silinmiş) veya hiç
	// yoksa isimle eşleştir; o da yoksa talep karşılanamaz.
	partID := request.SparePartID
	if partID != nil {
		var count int64
		if err := db.Model(&models.SparePart{}).Where("id = ?", *partID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			partID = nil
		}
	}
	if partID == nil {
		var part models.SparePart
		if err := db.First(&part, "name = ?", request.SparePartName).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, stock.ErrUncataloguedPart
			}
			return nil, err
		}
		partID = &part.ID
	}

	now := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		// Durum güncellemesi koşullu: aynı talebe iki karşılama gelirse
		// yalnızca biri geçer, stok bir kez artar
		res := tx.Model(&models.SpareRequest{}).
			Where("id = ? AND status = ?", requestID, models.SpareRequestPending).
			Updates(map[string]any{
				"status":         models.SpareRequestFulfilled,
				"spare_part_id":  *partID,
				"fulfilled_date": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return stock.ErrAlreadyFulfilled
		}

		return stock.CreditSparePart(tx, *partID, request.Quantity)
	})
	if err != nil {
		return nil, err
	}

	request.Status = models.SpareRequestFulfilled
	request.SparePartID = partID
	request.FulfilledDate = &now
	return &request, nil
}

package intake

import (
	"time"

	"kereste-backend/internal/models"
	"kereste-backend/internal/stock"
	"kereste-backend/internal/volume"

	"gorm.io/gorm"
)

type CuttingLineInput struct {
	WidthMM       int
	HeightMM      int
	LengthM       float64
	MoistureState string
	Quantity      int
}

func (l CuttingLineInput) incomplete() bool {
	return l.WidthMM <= 0 || l.HeightMM <= 0 || l.LengthM <= 0 || l.Quantity <= 0
}

type RecordCuttingInput struct {
	MachineID uint
	Date      time.Time
	Note      string
	Lines     []CuttingLineInput
}

// RecordCutting: biçme kaydını yazar ve her satırı kereste stokuna ekler.
// Kayıt ve stok artışı tek transaction içinde gerçekleşir.
func RecordCutting(db *gorm.DB, input RecordCuttingInput) (*models.CuttingRecord, error) {
	lines := make([]CuttingLineInput, 0, len(input.Lines))
	for _, l := range input.Lines {
		if l.incomplete() {
			continue
		}
		lines = append(lines, l)
	}
	if len(lines) == 0 {
		return nil, stock.ErrNoLineItems
	}

	items := make([]models.CuttingItem, 0, len(lines))
	keys := make([]stock.Key, 0, len(lines))
	for _, l := range lines {
		key, err := stock.ParseKey(l.WidthMM, l.HeightMM, l.LengthM, l.MoistureState)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
		items = append(items, models.CuttingItem{
			WidthMM:       l.WidthMM,
			HeightMM:      l.HeightMM,
			LengthM:       l.LengthM,
			MoistureState: models.MoistureState(l.MoistureState),
			Quantity:      l.Quantity,
			VolumeM3:      volume.Calculate(l.WidthMM, l.HeightMM, l.LengthM, l.Quantity),
		})
	}

	record := models.CuttingRecord{
		MachineID: input.MachineID,
		Date:      input.Date,
		Note:      input.Note,
		Items:     items,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		for i, key := range keys {
			if err := stock.CreditPlanks(tx, key, lines[i].Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &record, nil
}

package breakdown

import (
	"errors"
	"time"

	"kereste-backend/internal/models"
	"kereste-backend/internal/spares"
	"kereste-backend/internal/stock"

	"gorm.io/gorm"
)

// ResolutionUsage: çözüm sırasında takılan parçalar.
type ResolutionUsage struct {
	SparePartID uint
	Quantity    int
	Note        string
}

type ResolveInput struct {
	BreakdownID    uint
	ResolutionNote string
	Usages         []ResolutionUsage
}

// Resolve: arızayı kapatır. Parça kullanımları yükleme tarafıyla aynı düşüm
// yolundan (spares.RecordUsageTx) geçer; herhangi bir parça yetersizse arıza
// açık kalır ve hiçbir stok değişmez.
func Resolve(db *gorm.DB, input ResolveInput) (*models.Breakdown, []models.SpareUsage, error) {
	var bd models.Breakdown
	if err := db.First(&bd, "id = ?", input.BreakdownID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, &stock.NotFoundError{Entity: "Arıza", ID: input.BreakdownID}
		}
		return nil, nil, err
	}

	if bd.Status == models.BreakdownResolved {
		return nil, nil, stock.ErrAlreadyResolved
	}

	now := time.Now()
	usages := make([]models.SpareUsage, 0, len(input.Usages))

	err := db.Transaction(func(tx *gorm.DB) error {
		// Koşullu geçiş: active -> resolved yalnızca bir kez
		res := tx.Model(&models.Breakdown{}).
			Where("id = ? AND status = ?", input.BreakdownID, models.BreakdownActive).
			Updates(map[string]any{
				"status":          models.BreakdownResolved,
				"resolved_at":     now,
				"resolution_note": input.ResolutionNote,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return stock.ErrAlreadyResolved
		}

		for _, u := range input.Usages {
			usage, err := spares.RecordUsageTx(tx, spares.UsageInput{
				SparePartID: u.SparePartID,
				MachineID:   bd.MachineID,
				BreakdownID: &bd.ID,
				Quantity:    u.Quantity,
				Note:        u.Note,
				UsageDate:   now,
			})
			if err != nil {
				return err
			}
			usages = append(usages, *usage)
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	bd.Status = models.BreakdownResolved
	bd.ResolvedAt = &now
	bd.ResolutionNote = input.ResolutionNote
	return &bd, usages, nil
}

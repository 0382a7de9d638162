package dashboard

import (
	"time"

	"kereste-backend/internal/database"

	"github.com/gofiber/fiber/v2"
)

type SpareConsumptionRow struct {
	Month         string `json:"month"` // "2026-08"
	SparePartID   uint   `json:"spare_part_id"`
	SparePartName string `json:"spare_part_name"`
	TotalQuantity int    `json:"total_quantity"`
	UsageCount    int    `json:"usage_count"`
}

// GET /api/dashboard/spare-consumption?months=6
// Aylık parça tüketim özeti; arıza çözümünden ve manuel girişten gelen
// kullanımlar birlikte sayılır.
func SpareConsumptionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		months := c.QueryInt("months", 6)
		if months <= 0 || months > 36 {
			months = 6
		}

		now := time.Now()
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
			AddDate(0, -(months - 1), 0)

		type row struct {
			Bucket        time.Time `gorm:"column:bucket"`
			SparePartID   uint      `gorm:"column:spare_part_id"`
			SparePartName string    `gorm:"column:spare_part_name"`
			TotalQuantity int       `gorm:"column:total_quantity"`
			UsageCount    int       `gorm:"column:usage_count"`
		}
		var rows []row

		sql := `
			SELECT date_trunc('month', usage_date)::date AS bucket,
				   spare_part_id,
				   spare_part_name,
				   SUM(quantity) AS total_quantity,
				   COUNT(*) AS usage_count
			FROM spare_usages
			WHERE usage_date >= ?
			GROUP BY bucket, spare_part_id, spare_part_name
			ORDER BY bucket ASC, total_quantity DESC;
		`
		if err := database.DB.Raw(sql, start).Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Veri toplanırken hata oluştu")
		}

		resp := make([]SpareConsumptionRow, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, SpareConsumptionRow{
				Month:         r.Bucket.Format("2006-01"),
				SparePartID:   r.SparePartID,
				SparePartName: r.SparePartName,
				TotalQuantity: r.TotalQuantity,
				UsageCount:    r.UsageCount,
			})
		}

		return c.JSON(resp)
	}
}

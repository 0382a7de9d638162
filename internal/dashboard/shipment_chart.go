package dashboard

import (
	"fmt"
	"time"

	"kereste-backend/internal/database"
	"kereste-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ShipmentChartPoint struct {
	Label    string  `json:"label"` // tarih / hafta başlangıcı / ay başlangıcı
	Wet      float64 `json:"wet"`   // yaş sevkiyat hacmi (m³)
	Dry      float64 `json:"dry"`   // kuru sevkiyat hacmi (m³)
	Total    float64 `json:"total"`
	Quantity int     `json:"quantity"` // toplam adet
}

type ShipmentChartGrandTotals struct {
	Wet      float64 `json:"wet"`
	Dry      float64 `json:"dry"`
	Total    float64 `json:"total"`
	Quantity int     `json:"quantity"`
}

type ShipmentChartResponse struct {
	Period      string                   `json:"period"` // daily | weekly | monthly
	From        string                   `json:"from"`
	To          string                   `json:"to"`
	Points      []ShipmentChartPoint     `json:"points"`
	GrandTotals ShipmentChartGrandTotals `json:"grand_totals"`
}

// GET /api/dashboard/shipment-chart?period=monthly&count=12
// Sadece teslim edilmiş yüklemeler sayılır.
func ShipmentChartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		period := c.Query("period", "monthly") // daily | weekly | monthly
		countStr := c.Query("count", "")

		var count int
		if countStr == "" {
			switch period {
			case "daily":
				count = 7
			case "weekly":
				count = 8
			default:
				period = "monthly"
				count = 12
			}
		} else {
			if _, err := fmt.Sscan(countStr, &count); err != nil || count <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "count geçersiz")
			}
		}

		now := time.Now()
		loc := now.Location()
		end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		var start time.Time

		switch period {
		case "daily":
			start = end.AddDate(0, 0, -(count - 1))
		case "weekly":
			start = end.AddDate(0, 0, -7*(count-1))
		default:
			period = "monthly"
			end = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
			start = end.AddDate(0, -(count - 1), 0)
		}

		type row struct {
			Bucket   time.Time `gorm:"column:bucket"`
			Moisture string    `gorm:"column:moisture"`
			Volume   float64   `gorm:"column:volume"`
			Quantity int       `gorm:"column:quantity"`
		}
		var rows []row

		var sql string
		switch period {
		case "daily":
			sql = `
				SELECT date::date AS bucket,
					   moisture_state AS moisture,
					   SUM(total_volume) AS volume,
					   SUM(total_quantity) AS quantity
				FROM loads
				WHERE status = 'delivered' AND date >= ? AND date <= ?
				GROUP BY bucket, moisture
				ORDER BY bucket ASC;
			`
		case "weekly":
			sql = `
				SELECT date_trunc('week', date)::date AS bucket,
					   moisture_state AS moisture,
					   SUM(total_volume) AS volume,
					   SUM(total_quantity) AS quantity
				FROM loads
				WHERE status = 'delivered' AND date >= ? AND date <= ?
				GROUP BY bucket, moisture
				ORDER BY bucket ASC;
			`
		default: // monthly
			sql = `
				SELECT date_trunc('month', date)::date AS bucket,
					   moisture_state AS moisture,
					   SUM(total_volume) AS volume,
					   SUM(total_quantity) AS quantity
				FROM loads
				WHERE status = 'delivered' AND date >= ? AND date < ?
				GROUP BY bucket, moisture
				ORDER BY bucket ASC;
			`
			end = start.AddDate(0, count, 0).AddDate(0, 0, -1)
		}

		if err := database.DB.Raw(sql, start, end).Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Veri toplanırken hata oluştu")
		}

		type bucketAgg struct {
			Bucket   time.Time
			Wet      float64
			Dry      float64
			Quantity int
		}

		buckets := make(map[time.Time]*bucketAgg)

		for _, r := range rows {
			agg, ok := buckets[r.Bucket]
			if !ok {
				agg = &bucketAgg{Bucket: r.Bucket}
				buckets[r.Bucket] = agg
			}

			switch r.Moisture {
			case string(models.MoistureWet):
				agg.Wet += r.Volume
			case string(models.MoistureDry):
				agg.Dry += r.Volume
			}
			agg.Quantity += r.Quantity
		}

		ordered := make([]bucketAgg, 0, len(buckets))
		for _, v := range buckets {
			ordered = append(ordered, *v)
		}

		// tarih sıralaması
		for i := 0; i < len(ordered); i++ {
			for j := i + 1; j < len(ordered); j++ {
				if ordered[j].Bucket.Before(ordered[i].Bucket) {
					ordered[i], ordered[j] = ordered[j], ordered[i]
				}
			}
		}

		points := make([]ShipmentChartPoint, 0, len(ordered))
		grand := ShipmentChartGrandTotals{}

		for _, b := range ordered {
			total := b.Wet + b.Dry
			points = append(points, ShipmentChartPoint{
				Label:    b.Bucket.Format("2006-01-02"),
				Wet:      b.Wet,
				Dry:      b.Dry,
				Total:    total,
				Quantity: b.Quantity,
			})

			grand.Wet += b.Wet
			grand.Dry += b.Dry
			grand.Total += total
			grand.Quantity += b.Quantity
		}

		return c.JSON(ShipmentChartResponse{
			Period:      period,
			From:        start.Format("2006-01-02"),
			To:          end.Format("2006-01-02"),
			Points:      points,
			GrandTotals: grand,
		})
	}
}

package dashboard

import (
	"kereste-backend/internal/database"
	"kereste-backend/internal/models"
	"kereste-backend/internal/volume"

	"github.com/gofiber/fiber/v2"
)

type OverviewResponse struct {
	TotalPlankQuantity int     `json:"total_plank_quantity"`
	TotalPlankVolume   float64 `json:"total_plank_volume"` // m³
	WetPlankQuantity   int     `json:"wet_plank_quantity"`
	DryPlankQuantity   int     `json:"dry_plank_quantity"`
	PendingLoads       int64   `json:"pending_loads"` // yüklendi ama teslim edilmedi
	ActiveBreakdowns   int64   `json:"active_breakdowns"`
	LowStockParts      int     `json:"low_stock_parts"`
	PendingRequests    int64   `json:"pending_requests"`
}

// GET /api/dashboard/overview
func OverviewHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var resp OverviewResponse

		var stocks []models.PlankStock
		if err := database.DB.Find(&stocks).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok okunamadı")
		}
		for _, s := range stocks {
			resp.TotalPlankQuantity += s.Quantity
			resp.TotalPlankVolume += volume.Calculate(s.WidthMM, s.HeightMM, s.LengthM, s.Quantity)
			if s.MoistureState == models.MoistureWet {
				resp.WetPlankQuantity += s.Quantity
			} else {
				resp.DryPlankQuantity += s.Quantity
			}
		}

		database.DB.Model(&models.Load{}).
			Where("status = ?", models.LoadStatusLoaded).
			Count(&resp.PendingLoads)

		database.DB.Model(&models.Breakdown{}).
			Where("status = ?", models.BreakdownActive).
			Count(&resp.ActiveBreakdowns)

		var parts []models.SparePart
		if err := database.DB.Find(&parts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yedek parçalar okunamadı")
		}
		for _, p := range parts {
			if p.LowStock() {
				resp.LowStockParts++
			}
		}

		database.DB.Model(&models.SpareRequest{}).
			Where("status = ?", models.SpareRequestPending).
			Count(&resp.PendingRequests)

		return c.JSON(resp)
	}
}

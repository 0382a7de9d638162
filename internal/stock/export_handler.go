package stock

import (
	"fmt"
	"time"

	"kereste-backend/internal/database"
	"kereste-backend/internal/models"
	"kereste-backend/internal/volume"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/plank-stocks/export
// Mevcut stok listesini XLSX olarak indir (sayım ve sevkiyat planlama için)
func ExportPlankStocksHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var stocks []models.PlankStock
		if err := database.DB.
			Order("moisture_state, width_mm, height_mm, length_m").
			Find(&stocks).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stoklar listelenemedi")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Stok"
		f.SetSheetName("Sheet1", sheet)

		headers := []string{"En (mm)", "Kalınlık (mm)", "Boy (m)", "Rutubet", "Adet", "Hacim (m³)"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		moistureLabels := map[models.MoistureState]string{
			models.MoistureWet: "Yaş",
			models.MoistureDry: "Kuru",
		}

		totalQuantity := 0
		totalVolume := 0.0
		for i, s := range stocks {
			row := i + 2
			boy := fmt.Sprintf("%.1f", s.LengthM)
			if s.LengthM == models.UnderMinLength {
				boy = "Ölçü altı"
			}
			vol := volume.Calculate(s.WidthMM, s.HeightMM, s.LengthM, s.Quantity)

			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), s.WidthMM)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), s.HeightMM)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), boy)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), moistureLabels[s.MoistureState])
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), s.Quantity)
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), vol)

			totalQuantity += s.Quantity
			totalVolume += vol
		}

		totalRow := len(stocks) + 2
		f.SetCellValue(sheet, fmt.Sprintf("D%d", totalRow), "TOPLAM")
		f.SetCellValue(sheet, fmt.Sprintf("E%d", totalRow), totalQuantity)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", totalRow), totalVolume)

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
		}

		filename := fmt.Sprintf("kereste-stok-%s.xlsx", time.Now().Format("2006-01-02"))
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		return c.Send(buf.Bytes())
	}
}

package intake

import (
	"errors"
	"fmt"
	"time"

	"kereste-backend/internal/audit"
	"kereste-backend/internal/auth"
	"kereste-backend/internal/database"
	"kereste-backend/internal/models"
	"kereste-backend/internal/stock"
	"kereste-backend/internal/volume"

	"github.com/gofiber/fiber/v2"
)

type CreateIntakeRequest struct {
	Date         string `json:"date"` // YYYY-MM-DD, boşsa bugün
	SupplierName string `json:"supplier_name"`
	Species      string `json:"species"`
	DiameterCM   int    `json:"diameter_cm"`
	LengthM      float64 `json:"length_m"`
	Quantity     int    `json:"quantity"`
	Note         string `json:"note"`
}

type CreateCuttingRequest struct {
	MachineID uint   `json:"machine_id"`
	Date      string `json:"date"`
	Note      string `json:"note"`
	Lines     []struct {
		WidthMM       int     `json:"width_mm"`
		HeightMM      int     `json:"height_mm"`
		LengthM       float64 `json:"length_m"`
		MoistureState string  `json:"moisture_state"`
		Quantity      int     `json:"quantity"`
	} `json:"lines"`
}

func getUserInfoForIntake(c *fiber.Ctx) (uint, string, error) {
	userIDVal := c.Locals(auth.CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı bulunamadı")
	}

	return userID, user.Name, nil
}

func parseDateOrToday(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", raw)
}

// POST /api/intakes
func CreateIntakeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateIntakeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.DiameterCM <= 0 || body.LengthM <= 0 || body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Çap, boy ve adet pozitif olmalı")
		}

		date, err := parseDateOrToday(body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz tarih formatı (YYYY-MM-DD bekleniyor)")
		}

		intake := models.LogIntake{
			Date:         date,
			SupplierName: body.SupplierName,
			Species:      body.Species,
			DiameterCM:   body.DiameterCM,
			LengthM:      body.LengthM,
			Quantity:     body.Quantity,
			VolumeM3:     volume.CalculateLog(body.DiameterCM, body.LengthM, body.Quantity),
			Note:         body.Note,
		}

		if err := database.DB.Create(&intake).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tomruk girişi kaydedilemedi")
		}

		userID, userName, uerr := getUserInfoForIntake(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "log_intake",
				EntityID:    intake.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Tomruk girişi: %d adet, %.5f m³", intake.Quantity, intake.VolumeM3),
				Before:      nil,
				After:       intake,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(intake)
	}
}

// GET /api/intakes?from=2026-01-01&to=2026-01-31
func ListIntakesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Order("date DESC, id DESC")

		if from := c.Query("from"); from != "" {
			if d, err := time.Parse("2006-01-02", from); err == nil {
				query = query.Where("date >= ?", d)
			}
		}
		if to := c.Query("to"); to != "" {
			if d, err := time.Parse("2006-01-02", to); err == nil {
				query = query.Where("date < ?", d.AddDate(0, 0, 1))
			}
		}

		var intakes []models.LogIntake
		if err := query.Find(&intakes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tomruk girişleri listelenemedi")
		}

		return c.JSON(intakes)
	}
}

// POST /api/cuttings
func CreateCuttingHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCuttingRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.MachineID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "machine_id zorunlu")
		}

		var machine models.Machine
		if err := database.DB.First(&machine, "id = ?", body.MachineID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Makine bulunamadı (ID: %d)", body.MachineID))
		}

		date, err := parseDateOrToday(body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz tarih formatı (YYYY-MM-DD bekleniyor)")
		}

		lines := make([]CuttingLineInput, 0, len(body.Lines))
		for _, l := range body.Lines {
			lines = append(lines, CuttingLineInput{
				WidthMM:       l.WidthMM,
				HeightMM:      l.HeightMM,
				LengthM:       l.LengthM,
				MoistureState: l.MoistureState,
				Quantity:      l.Quantity,
			})
		}

		record, err := RecordCutting(database.DB, RecordCuttingInput{
			MachineID: body.MachineID,
			Date:      date,
			Note:      body.Note,
			Lines:     lines,
		})
		if err != nil {
			if errors.Is(err, stock.ErrNoLineItems) {
				return fiber.NewError(fiber.StatusBadRequest, "En az bir geçerli satır gerekli")
			}
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		userID, userName, uerr := getUserInfoForIntake(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "cutting_record",
				EntityID:    record.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Biçme kaydı: %s, %d kalem", machine.Name, len(record.Items)),
				Before:      nil,
				After:       record,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(record)
	}
}

// GET /api/cuttings?machine_id=3
func ListCuttingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.
			Preload("Items").
			Preload("Machine").
			Order("date DESC, id DESC")

		if machineID := c.QueryInt("machine_id", 0); machineID > 0 {
			query = query.Where("machine_id = ?", machineID)
		}

		var records []models.CuttingRecord
		if err := query.Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Biçme kayıtları listelenemedi")
		}

		return c.JSON(records)
	}
}

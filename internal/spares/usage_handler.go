package spares

import (
	"errors"
	"fmt"
	"time"

	"kereste-backend/internal/audit"
	"kereste-backend/internal/database"
	"kereste-backend/internal/models"
	"kereste-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
)

type CreateUsageRequest struct {
	SparePartID uint   `json:"spare_part_id"`
	MachineID   uint   `json:"machine_id"`
	Quantity    int    `json:"quantity"`
	Note        string `json:"note"`
	UsageDate   string `json:"usage_date"` // "2025-12-09"
}

type UsageResponse struct {
	ID            uint   `json:"id"`
	SparePartID   uint   `json:"spare_part_id"`
	SparePartName string `json:"spare_part_name"`
	MachineID     uint   `json:"machine_id"`
	MachineName   string `json:"machine_name"`
	BreakdownID   *uint  `json:"breakdown_id"`
	Quantity      int    `json:"quantity"`
	Note          string `json:"note"`
	UsageDate     string `json:"usage_date"`
	CreatedAt     string `json:"created_at"`
}

func toUsageResponse(u models.SpareUsage) UsageResponse {
	return UsageResponse{
		ID:            u.ID,
		SparePartID:   u.SparePartID,
		SparePartName: u.SparePartName,
		MachineID:     u.MachineID,
		MachineName:   u.Machine.Name,
		BreakdownID:   u.BreakdownID,
		Quantity:      u.Quantity,
		Note:          u.Note,
		UsageDate:     u.UsageDate.Format("2006-01-02"),
		CreatedAt:     u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/spare-usages
func CreateUsageHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUsageRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.SparePartID == 0 || body.MachineID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "spare_part_id ve machine_id zorunlu")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Miktar pozitif olmalı")
		}

		d, err := time.Parse("2006-01-02", body.UsageDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		// Makine kontrolü
		var machine models.Machine
		if err := database.DB.First(&machine, "id = ?", body.MachineID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Makine bulunamadı (ID: %d)", body.MachineID))
		}

		usage, err := RecordUsage(database.DB, UsageInput{
			SparePartID: body.SparePartID,
			MachineID:   body.MachineID,
			Quantity:    body.Quantity,
			Note:        body.Note,
			UsageDate:   d,
		})
		if err != nil {
			var insufficient *stock.InsufficientSpareError
			if errors.As(err, &insufficient) {
				return fiber.NewError(fiber.StatusConflict, insufficient.Error())
			}
			var notFound *stock.NotFoundError
			if errors.As(err, &notFound) {
				return fiber.NewError(fiber.StatusNotFound, notFound.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanım kaydedilemedi")
		}

		userID, userName, uerr := getUserInfoForSpares(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "spare_usage",
				EntityID:    usage.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Parça kullanımı: %s x%d (%s)", usage.SparePartName, usage.Quantity, machine.Name),
				Before:      nil,
				After:       usage,
			})
		}

		usage.Machine = machine
		return c.Status(fiber.StatusCreated).JSON(toUsageResponse(*usage))
	}
}

// GET /api/spare-usages?machine_id=2&spare_part_id=5
func ListUsagesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.
			Preload("Machine").
			Order("usage_date DESC, created_at DESC")

		if machineID := c.QueryInt("machine_id", 0); machineID > 0 {
			query = query.Where("machine_id = ?", machineID)
		}
		if partID := c.QueryInt("spare_part_id", 0); partID > 0 {
			query = query.Where("spare_part_id = ?", partID)
		}

		var usages []models.SpareUsage
		if err := query.Find(&usages).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanımlar listelenemedi")
		}

		resp := make([]UsageResponse, 0, len(usages))
		for _, u := range usages {
			resp = append(resp, toUsageResponse(u))
		}

		return c.JSON(resp)
	}
}

package breakdown

import (
	"errors"
	"fmt"
	"time"

	"kereste-backend/internal/audit"
	"kereste-backend/internal/auth"
	"kereste-backend/internal/database"
	"kereste-backend/internal/models"
	"kereste-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
)

type ReportBreakdownRequest struct {
	MachineID   uint   `json:"machine_id"`
	Description string `json:"description"`
}

type ResolveBreakdownRequest struct {
	ResolutionNote string `json:"resolution_note"`
	Usages         []struct {
		SparePartID uint   `json:"spare_part_id"`
		Quantity    int    `json:"quantity"`
		Note        string `json:"note"`
	} `json:"usages"`
}

type BreakdownResponse struct {
	ID             uint   `json:"id"`
	MachineID      uint   `json:"machine_id"`
	MachineName    string `json:"machine_name"`
	Description    string `json:"description"`
	Status         string `json:"status"`
	ReportedAt     string `json:"reported_at"`
	ResolvedAt     string `json:"resolved_at,omitempty"`
	ResolutionNote string `json:"resolution_note,omitempty"`
	Downtime       string `json:"downtime"` // "45 dk", "3 sa 20 dk", "2 gün 1 sa 5 dk"
}

func toBreakdownResponse(b models.Breakdown, now time.Time) BreakdownResponse {
	resp := BreakdownResponse{
		ID:             b.ID,
		MachineID:      b.MachineID,
		MachineName:    b.Machine.Name,
		Description:    b.Description,
		Status:         string(b.Status),
		ReportedAt:     b.ReportedAt.Format("2006-01-02 15:04"),
		ResolutionNote: b.ResolutionNote,
		Downtime:       FormatDowntime(Downtime(b.ReportedAt, b.ResolvedAt, now)),
	}
	if b.ResolvedAt != nil {
		resp.ResolvedAt = b.ResolvedAt.Format("2006-01-02 15:04")
	}
	return resp
}

// Yardımcı: Kullanıcı bilgilerini al (audit log için)
func getUserInfoForBreakdown(c *fiber.Ctx) (uint, string, error) {
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

// POST /api/breakdowns
func ReportBreakdownHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ReportBreakdownRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.MachineID == 0 || body.Description == "" {
			return fiber.NewError(fiber.StatusBadRequest, "machine_id ve description zorunlu")
		}

		var machine models.Machine
		if err := database.DB.First(&machine, "id = ?", body.MachineID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Makine bulunamadı (ID: %d)", body.MachineID))
		}

		bd := models.Breakdown{
			MachineID:   body.MachineID,
			Description: body.Description,
			Status:      models.BreakdownActive,
			ReportedAt:  time.Now(),
		}

		if err := database.DB.Create(&bd).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Arıza kaydı oluşturulamadı")
		}

		userID, userName, err := getUserInfoForBreakdown(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "breakdown",
				EntityID:    bd.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Arıza bildirildi: %s - %s", machine.Name, bd.Description),
				Before:      nil,
				After:       bd,
			})
		}

		bd.Machine = machine
		return c.Status(fiber.StatusCreated).JSON(toBreakdownResponse(bd, time.Now()))
	}
}

// GET /api/breakdowns?status=active&machine_id=2
func ListBreakdownsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.
			Preload("Machine").
			Order("reported_at DESC")

		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		if machineID := c.QueryInt("machine_id", 0); machineID > 0 {
			query = query.Where("machine_id = ?", machineID)
		}

		var breakdowns []models.Breakdown
		if err := query.Find(&breakdowns).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Arızalar listelenemedi")
		}

		now := time.Now()
		resp := make([]BreakdownResponse, 0, len(breakdowns))
		for _, b := range breakdowns {
			resp = append(resp, toBreakdownResponse(b, now))
		}

		return c.JSON(resp)
	}
}

// POST /api/breakdowns/:id/resolve
func ResolveBreakdownHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz arıza ID")
		}

		var body ResolveBreakdownRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		usages := make([]ResolutionUsage, 0, len(body.Usages))
		for _, u := range body.Usages {
			usages = append(usages, ResolutionUsage{
				SparePartID: u.SparePartID,
				Quantity:    u.Quantity,
				Note:        u.Note,
			})
		}

		bd, recorded, err := Resolve(database.DB, ResolveInput{
			BreakdownID:    uint(id),
			ResolutionNote: body.ResolutionNote,
			Usages:         usages,
		})
		if err != nil {
			if errors.Is(err, stock.ErrAlreadyResolved) {
				return fiber.NewError(fiber.StatusConflict, "Arıza zaten çözülmüş")
			}
			var insufficient *stock.InsufficientSpareError
			if errors.As(err, &insufficient) {
				return fiber.NewError(fiber.StatusConflict, insufficient.Error())
			}
			var notFound *stock.NotFoundError
			if errors.As(err, &notFound) {
				return fiber.NewError(fiber.StatusNotFound, notFound.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Arıza çözümü kaydedilemedi")
		}

		userID, userName, uerr := getUserInfoForBreakdown(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "breakdown",
				EntityID:    bd.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Arıza çözüldü (%d parça kullanıldı)", len(recorded)),
				Before:      nil,
				After:       bd,
			})
		}

		database.DB.Preload("Machine").First(bd, bd.ID)
		return c.JSON(fiber.Map{
			"breakdown":   toBreakdownResponse(*bd, time.Now()),
			"usage_count": len(recorded),
		})
	}
}

package admin

import (
	"strings"

	"kereste-backend/internal/database"
	"kereste-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type MachineResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

type CreateMachineRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type UpdateMachineRequest struct {
	Name        *string `json:"name"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
}

func toMachineResponse(m models.Machine) MachineResponse {
	return MachineResponse{
		ID:          m.ID,
		Name:        m.Name,
		Type:        m.Type,
		Description: m.Description,
		CreatedAt:   m.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ----------------------------------------
// MAKİNE CRUD
// ----------------------------------------

func CreateMachineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMachineRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Makine adı boş olamaz")
		}

		var exist models.Machine
		if err := database.DB.Where("name = ?", body.Name).First(&exist).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, "Bu isimde bir makine zaten kayıtlı")
		}

		machine := models.Machine{
			Name:        body.Name,
			Type:        strings.TrimSpace(body.Type),
			Description: body.Description,
		}

		if err := database.DB.Create(&machine).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Makine oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toMachineResponse(machine))
	}
}

func ListMachinesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var machines []models.Machine
		if err := database.DB.Order("name ASC").Find(&machines).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Makineler listelenemedi")
		}

		res := make([]MachineResponse, 0, len(machines))
		for _, m := range machines {
			res = append(res, toMachineResponse(m))
		}

		return c.JSON(res)
	}
}

func GetMachineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var machine models.Machine
		if err := database.DB.First(&machine, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Makine bulunamadı")
		}

		return c.JSON(toMachineResponse(machine))
	}
}

func UpdateMachineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var machine models.Machine
		if err := database.DB.First(&machine, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Makine bulunamadı")
		}

		var body UpdateMachineRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Makine adı boş olamaz")
			}
			machine.Name = name
		}

		if body.Type != nil {
			machine.Type = strings.TrimSpace(*body.Type)
		}

		if body.Description != nil {
			machine.Description = *body.Description
		}

		if err := database.DB.Save(&machine).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Makine güncellenemedi")
		}

		return c.JSON(toMachineResponse(machine))
	}
}

func DeleteMachineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		// Arıza veya kullanım geçmişi olan makine silinmez
		var breakdownCount, usageCount int64
		database.DB.Model(&models.Breakdown{}).Where("machine_id = ?", id).Count(&breakdownCount)
		database.DB.Model(&models.SpareUsage{}).Where("machine_id = ?", id).Count(&usageCount)
		if breakdownCount > 0 || usageCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Geçmiş kaydı olan makine silinemez")
		}

		if err := database.DB.Delete(&models.Machine{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Makine silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

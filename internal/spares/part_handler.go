package spares

import (
	"fmt"
	"strings"

	"kereste-backend/internal/audit"
	"kereste-backend/internal/auth"
	"kereste-backend/internal/database"
	"kereste-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SparePartResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	MinQuantity int    `json:"min_quantity"`
	LowStock    bool   `json:"low_stock"`
	CreatedAt   string `json:"created_at"`
}

type CreateSparePartRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	MinQuantity int    `json:"min_quantity"`
}

type UpdateSparePartRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Quantity    *int    `json:"quantity"` // düzeltme; audit log'a yazılır
	MinQuantity *int    `json:"min_quantity"`
	Reason      string  `json:"reason"` // quantity değişiyorsa zorunlu
}

func toSparePartResponse(p models.SparePart) SparePartResponse {
	return SparePartResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Quantity:    p.Quantity,
		MinQuantity: p.MinQuantity,
		LowStock:    p.LowStock(),
		CreatedAt:   p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// Yardımcı: Kullanıcı bilgilerini al (audit log için)
func getUserInfoForSpares(c *fiber.Ctx) (uint, string, error) {
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

// POST /api/spare-parts (admin)
func CreateSparePartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSparePartRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Parça adı boş olamaz")
		}
		if body.Quantity < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Adet negatif olamaz")
		}
		if body.MinQuantity < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Kritik stok eşiği en az 1 olmalı")
		}

		part := models.SparePart{
			Name:        body.Name,
			Description: body.Description,
			Quantity:    body.Quantity,
			MinQuantity: body.MinQuantity,
		}

		if err := database.DB.Create(&part).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Parça oluşturulamadı (isim kullanımda olabilir)")
		}

		userID, userName, err := getUserInfoForSpares(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "spare_part",
				EntityID:    part.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Yedek parça eklendi: %s (%d adet)", part.Name, part.Quantity),
				Before:      nil,
				After:       part,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toSparePartResponse(part))
	}
}

// GET /api/spare-parts?low_stock=true
func ListSparePartsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var parts []models.SparePart
		if err := database.DB.Order("name").Find(&parts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Parçalar listelenemedi")
		}

		onlyLowStock := c.QueryBool("low_stock", false)

		resp := make([]SparePartResponse, 0, len(parts))
		for _, p := range parts {
			if onlyLowStock && !p.LowStock() {
				continue
			}
			resp = append(resp, toSparePartResponse(p))
		}

		return c.JSON(resp)
	}
}

// PUT /api/spare-parts/:id (admin)
// Quantity değişikliği ledger olayı DEĞİLDİR; sayım düzeltmesi olarak
// gerekçesiyle birlikte audit log'a yazılır.
func UpdateSparePartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var part models.SparePart
		if err := database.DB.First(&part, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Parça bulunamadı")
		}

		var body UpdateSparePartRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		before := part
		quantityChanged := false

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Parça adı boş olamaz")
			}
			part.Name = name
		}
		if body.Description != nil {
			part.Description = *body.Description
		}
		if body.MinQuantity != nil {
			if *body.MinQuantity < 1 {
				return fiber.NewError(fiber.StatusBadRequest, "Kritik stok eşiği en az 1 olmalı")
			}
			part.MinQuantity = *body.MinQuantity
		}
		if body.Quantity != nil && *body.Quantity != part.Quantity {
			if *body.Quantity < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Adet negatif olamaz")
			}
			if body.Reason == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Adet düzeltmesi için gerekçe zorunlu")
			}
			part.Quantity = *body.Quantity
			quantityChanged = true
		}

		if err := database.DB.Save(&part).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Parça güncellenemedi")
		}

		userID, userName, err := getUserInfoForSpares(c)
		if err == nil {
			action := models.AuditActionUpdate
			desc := fmt.Sprintf("Yedek parça güncellendi: %s", part.Name)
			if quantityChanged {
				action = models.AuditActionCorrection
				desc = fmt.Sprintf("Parça stok düzeltmesi %s: %d -> %d (%s)", part.Name, before.Quantity, part.Quantity, body.Reason)
			}
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "spare_part",
				EntityID:    part.ID,
				Action:      action,
				Description: desc,
				Before:      before,
				After:       part,
			})
		}

		return c.JSON(toSparePartResponse(part))
	}
}

// DELETE /api/spare-parts/:id (admin)
// Geçmiş kullanım ve talep kayıtları silinmez; isimleri denormalize
// tutulduğu için parça katalogdan kalksa da okunabilir kalırlar.
func DeleteSparePartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var part models.SparePart
		if err := database.DB.First(&part, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Parça bulunamadı")
		}

		var usageCount, requestCount int64
		database.DB.Model(&models.SpareUsage{}).Where("spare_part_id = ?", part.ID).Count(&usageCount)
		database.DB.Model(&models.SpareRequest{}).Where("spare_part_id = ?", part.ID).Count(&requestCount)

		if err := database.DB.Delete(&part).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Parça silinemedi")
		}

		userID, userName, err := getUserInfoForSpares(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "spare_part",
				EntityID:    part.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Yedek parça silindi: %s (%d kullanım, %d talep kaydı korundu)", part.Name, usageCount, requestCount),
				Before:      part,
				After:       nil,
			})
		}

		return c.JSON(fiber.Map{
			"success":       true,
			"usage_count":   usageCount,
			"request_count": requestCount,
		})
	}
}

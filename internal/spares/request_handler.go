package spares

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"kereste-backend/internal/audit"
	"kereste-backend/internal/database"
	"kereste-backend/internal/models"
	"kereste-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
)

type CreateRequestRequest struct {
	SparePartID   *uint  `json:"spare_part_id"`   // katalogda varsa
	SparePartName string `json:"spare_part_name"` // katalogda yoksa serbest isim
	Quantity      int    `json:"quantity"`
	MachineID     *uint  `json:"machine_id"`
	Note          string `json:"note"`
}

type RequestResponse struct {
	ID            uint    `json:"id"`
	SparePartID   *uint   `json:"spare_part_id"`
	SparePartName string  `json:"spare_part_name"`
	Quantity      int     `json:"quantity"`
	MachineID     *uint   `json:"machine_id"`
	Note          string  `json:"note"`
	Status        string  `json:"status"`
	RequestDate   string  `json:"request_date"`
	FulfilledDate *string `json:"fulfilled_date"`
}

func toRequestResponse(r models.SpareRequest) RequestResponse {
	resp := RequestResponse{
		ID:            r.ID,
		SparePartID:   r.SparePartID,
		SparePartName: r.SparePartName,
		Quantity:      r.Quantity,
		MachineID:     r.MachineID,
		Note:          r.Note,
		Status:        string(r.Status),
		RequestDate:   r.RequestDate.Format("2006-01-02"),
	}
	if r.FulfilledDate != nil {
		s := r.FulfilledDate.Format("2006-01-02")
		resp.FulfilledDate = &s
	}
	return resp
}

// POST /api/spare-requests
func CreateRequestHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRequestRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Miktar pozitif olmalı")
		}

		name := strings.TrimSpace(body.SparePartName)

		// Katalog bağlantısı varsa ismi katalogdan al
		if body.SparePartID != nil {
			var part models.SparePart
			if err := database.DB.First(&part, "id = ?", *body.SparePartID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Parça bulunamadı (ID: %d)", *body.SparePartID))
			}
			name = part.Name
		}
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Parça adı zorunlu")
		}

		if body.MachineID != nil {
			var machine models.Machine
			if err := database.DB.First(&machine, "id = ?", *body.MachineID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Makine bulunamadı (ID: %d)", *body.MachineID))
			}
		}

		request := models.SpareRequest{
			SparePartID:   body.SparePartID,
			SparePartName: name,
			Quantity:      body.Quantity,
			MachineID:     body.MachineID,
			Note:          body.Note,
			Status:        models.SpareRequestPending,
			RequestDate:   time.Now(),
		}

		if err := database.DB.Create(&request).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Talep oluşturulamadı")
		}

		userID, userName, err := getUserInfoForSpares(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "spare_request",
				EntityID:    request.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Parça talebi: %s x%d", request.SparePartName, request.Quantity),
				Before:      nil,
				After:       request,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toRequestResponse(request))
	}
}

// GET /api/spare-requests?status=pending
func ListRequestsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Order("request_date DESC, created_at DESC")

		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var requests []models.SpareRequest
		if err := query.Find(&requests).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Talepler listelenemedi")
		}

		resp := make([]RequestResponse, 0, len(requests))
		for _, r := range requests {
			resp = append(resp, toRequestResponse(r))
		}

		return c.JSON(resp)
	}
}

// POST /api/spare-requests/:id/fulfill (admin)
// Sipariş geldiğinde stok artar ve talep kapanır; mükerrer karşılama stoku
// iki kez artıramaz
func FulfillRequestHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz talep ID")
		}

		request, err := Fulfill(database.DB, uint(id))
		if err != nil {
			if errors.Is(err, stock.ErrAlreadyFulfilled) {
				return fiber.NewError(fiber.StatusConflict, "Talep zaten karşılanmış")
			}
			if errors.Is(err, stock.ErrUncataloguedPart) {
				return fiber.NewError(fiber.StatusConflict,
					"Parça katalogda kayıtlı değil; önce kataloğa ekleyin, sonra talebi karşılayın")
			}
			var notFound *stock.NotFoundError
			if errors.As(err, &notFound) {
				return fiber.NewError(fiber.StatusNotFound, notFound.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Talep karşılanamadı")
		}

		userID, userName, uerr := getUserInfoForSpares(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "spare_request",
				EntityID:    request.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Talep karşılandı: %s x%d", request.SparePartName, request.Quantity),
				Before:      nil,
				After:       request,
			})
		}

		return c.JSON(toRequestResponse(*request))
	}
}

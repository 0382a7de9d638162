package loads

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"kereste-backend/internal/audit"
	"kereste-backend/internal/auth"
	"kereste-backend/internal/database"
	"kereste-backend/internal/models"
	"kereste-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
)

type LoadLineRequest struct {
	WidthMM  int     `json:"width_mm"`
	HeightMM int     `json:"height_mm"`
	LengthM  float64 `json:"length_m"`
	Quantity int     `json:"quantity"`
}

type CreateLoadRequest struct {
	Date              string            `json:"date"` // "2025-12-09"
	CustomerID        uint              `json:"customer_id"`
	TruckRegistration string            `json:"truck_registration"`
	MoistureState     string            `json:"moisture_state"`
	Note              string            `json:"note"`
	Lines             []LoadLineRequest `json:"lines"`
}

type LoadItemResponse struct {
	ID       uint    `json:"id"`
	WidthMM  int     `json:"width_mm"`
	HeightMM int     `json:"height_mm"`
	LengthM  float64 `json:"length_m"`
	Quantity int     `json:"quantity"`
	VolumeM3 float64 `json:"volume_m3"`
}

type LoadResponse struct {
	ID                uint               `json:"id"`
	Date              string             `json:"date"`
	CustomerID        uint               `json:"customer_id"`
	CustomerName      string             `json:"customer_name"`
	TruckRegistration string             `json:"truck_registration"`
	MoistureState     string             `json:"moisture_state"`
	TotalQuantity     int                `json:"total_quantity"`
	TotalVolume       float64            `json:"total_volume"`
	Status            string             `json:"status"`
	Note              string             `json:"note"`
	Items             []LoadItemResponse `json:"items"`
	CreatedAt         string             `json:"created_at"`
}

func toLoadResponse(l models.Load) LoadResponse {
	items := make([]LoadItemResponse, 0, len(l.Items))
	for _, it := range l.Items {
		items = append(items, LoadItemResponse{
			ID:       it.ID,
			WidthMM:  it.WidthMM,
			HeightMM: it.HeightMM,
			LengthM:  it.LengthM,
			Quantity: it.Quantity,
			VolumeM3: it.VolumeM3,
		})
	}
	return LoadResponse{
		ID:                l.ID,
		Date:              l.Date.Format("2006-01-02"),
		CustomerID:        l.CustomerID,
		CustomerName:      l.Customer.Name,
		TruckRegistration: l.TruckRegistration,
		MoistureState:     string(l.MoistureState),
		TotalQuantity:     l.TotalQuantity,
		TotalVolume:       l.TotalVolume,
		Status:            string(l.Status),
		Note:              l.Note,
		Items:             items,
		CreatedAt:         l.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// Yardımcı: Kullanıcı bilgilerini al (audit log için)
func getUserInfoForLoad(c *fiber.Ctx) (uint, string, error) {
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

// POST /api/loads
func CreateLoadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateLoadRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.CustomerID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "customer_id zorunlu")
		}

		body.TruckRegistration = strings.ToUpper(strings.TrimSpace(body.TruckRegistration))
		if body.TruckRegistration == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Plaka zorunlu")
		}

		state := models.MoistureState(body.MoistureState)
		if state != models.MoistureWet && state != models.MoistureDry {
			return fiber.NewError(fiber.StatusBadRequest, "Rutubet durumu 'wet' veya 'dry' olmalı")
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		// Müşteri kontrolü
		var customer models.Customer
		if err := database.DB.First(&customer, "id = ?", body.CustomerID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Müşteri bulunamadı (ID: %d)", body.CustomerID))
		}

		lines := make([]LineInput, 0, len(body.Lines))
		for _, l := range body.Lines {
			lines = append(lines, LineInput{
				WidthMM:  l.WidthMM,
				HeightMM: l.HeightMM,
				LengthM:  l.LengthM,
				Quantity: l.Quantity,
			})
		}

		load, err := CreateLoad(database.DB, CreateLoadInput{
			Date:              d,
			CustomerID:        body.CustomerID,
			TruckRegistration: body.TruckRegistration,
			MoistureState:     state,
			Note:              body.Note,
			Lines:             lines,
		})
		if err != nil {
			var insufficient *stock.InsufficientStockError
			if errors.As(err, &insufficient) {
				return fiber.NewError(fiber.StatusConflict, insufficient.Error())
			}
			if errors.Is(err, stock.ErrNoLineItems) {
				return fiber.NewError(fiber.StatusBadRequest, "Yükleme için en az bir geçerli satır gerekli")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Yükleme oluşturulamadı: "+err.Error())
		}

		// Audit log
		userID, userName, uerr := getUserInfoForLoad(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "load",
				EntityID:    load.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Yükleme: %s - %d adet, %.3f m³", customer.Name, load.TotalQuantity, load.TotalVolume),
				Before:      nil,
				After:       load,
			})
		}

		load.Customer = customer
		return c.Status(fiber.StatusCreated).JSON(toLoadResponse(*load))
	}
}

// GET /api/loads?status=loaded&customer_id=3
func ListLoadsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.
			Preload("Items").
			Preload("Customer").
			Order("date DESC, created_at DESC")

		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		if customerID := c.QueryInt("customer_id", 0); customerID > 0 {
			query = query.Where("customer_id = ?", customerID)
		}

		var loadList []models.Load
		if err := query.Find(&loadList).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yüklemeler listelenemedi")
		}

		resp := make([]LoadResponse, 0, len(loadList))
		for _, l := range loadList {
			resp = append(resp, toLoadResponse(l))
		}

		return c.JSON(resp)
	}
}

// GET /api/loads/:id
func GetLoadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var load models.Load
		if err := database.DB.Preload("Items").Preload("Customer").First(&load, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Yükleme bulunamadı")
		}

		return c.JSON(toLoadResponse(load))
	}
}

// POST /api/loads/:id/deliver
// İrsaliye akışı teslim onayı verdiğinde çağrılır
func DeliverLoadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz yükleme ID")
		}

		load, err := Deliver(database.DB, uint(id))
		if err != nil {
			if errors.Is(err, stock.ErrAlreadyDelivered) {
				return fiber.NewError(fiber.StatusConflict, "Yükleme zaten teslim edilmiş")
			}
			var notFound *stock.NotFoundError
			if errors.As(err, &notFound) {
				return fiber.NewError(fiber.StatusNotFound, notFound.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Teslim kaydedilemedi")
		}

		userID, userName, uerr := getUserInfoForLoad(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "load",
				EntityID:    load.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Yükleme teslim edildi (plaka %s)", load.TruckRegistration),
				Before:      nil,
				After:       load,
			})
		}

		return c.JSON(fiber.Map{
			"id":     load.ID,
			"status": load.Status,
		})
	}
}

// GET /api/loads/:id/delivery-note
// İrsaliye için gereken veriler. Müşteri dizini okunamazsa teslimat
// engellenmez, isim alanları boş döner.
func DeliveryNoteDataHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var load models.Load
		if err := database.DB.Preload("Items").First(&load, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Yükleme bulunamadı")
		}

		customerName := ""
		customerAddress := ""
		customerTaxNo := ""
		var customer models.Customer
		if err := database.DB.First(&customer, "id = ?", load.CustomerID).Error; err == nil {
			customerName = customer.Name
			customerAddress = customer.Address
			customerTaxNo = customer.TaxNumber
		}

		items := make([]LoadItemResponse, 0, len(load.Items))
		for _, it := range load.Items {
			items = append(items, LoadItemResponse{
				ID:       it.ID,
				WidthMM:  it.WidthMM,
				HeightMM: it.HeightMM,
				LengthM:  it.LengthM,
				Quantity: it.Quantity,
				VolumeM3: it.VolumeM3,
			})
		}

		return c.JSON(fiber.Map{
			"load_id":            load.ID,
			"date":               load.Date.Format("2006-01-02"),
			"truck_registration": load.TruckRegistration,
			"moisture_state":     load.MoistureState,
			"customer_id":        load.CustomerID,
			"customer_name":      customerName,
			"customer_address":   customerAddress,
			"customer_tax_no":    customerTaxNo,
			"total_quantity":     load.TotalQuantity,
			"total_volume":       load.TotalVolume,
			"items":              items,
		})
	}
}

package admin

import (
	"strings"

	"kereste-backend/internal/database"
	"kereste-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CustomerResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	TaxNumber string `json:"tax_number"`
	CreatedAt string `json:"created_at"`
}

type CreateCustomerRequest struct {
	Name      string  `json:"name"`
	Phone     *string `json:"phone"` // Opsiyonel
	Address   string  `json:"address"`
	TaxNumber string  `json:"tax_number"`
}

type UpdateCustomerRequest struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	TaxNumber *string `json:"tax_number"`
}

func toCustomerResponse(c models.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Address:   c.Address,
		TaxNumber: c.TaxNumber,
		CreatedAt: c.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ----------------------------------------
// MÜŞTERİ CRUD
// ----------------------------------------

func CreateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Müşteri adı boş olamaz")
		}

		// Aynı isimle ikinci kayıt açılmasın
		var exist models.Customer
		if err := database.DB.Where("name = ?", body.Name).First(&exist).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, "Bu isimde bir müşteri zaten kayıtlı")
		}

		customer := models.Customer{
			Name:      body.Name,
			Address:   body.Address,
			TaxNumber: strings.TrimSpace(body.TaxNumber),
		}
		if body.Phone != nil {
			customer.Phone = strings.TrimSpace(*body.Phone)
		}

		if err := database.DB.Create(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toCustomerResponse(customer))
	}
}

func ListCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Order("name ASC")

		// İsimden arama (yükleme formu için)
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			query = query.Where("name LIKE ?", "%"+q+"%")
		}

		var customers []models.Customer
		if err := query.Find(&customers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteriler listelenemedi")
		}

		res := make([]CustomerResponse, 0, len(customers))
		for _, cust := range customers {
			res = append(res, toCustomerResponse(cust))
		}

		return c.JSON(res)
	}
}

func GetCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var customer models.Customer
		if err := database.DB.First(&customer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}

		return c.JSON(toCustomerResponse(customer))
	}
}

func UpdateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var customer models.Customer
		if err := database.DB.First(&customer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}

		var body UpdateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Müşteri adı boş olamaz")
			}
			customer.Name = name
		}

		if body.Phone != nil {
			customer.Phone = strings.TrimSpace(*body.Phone)
		}

		if body.Address != nil {
			customer.Address = *body.Address
		}

		if body.TaxNumber != nil {
			customer.TaxNumber = strings.TrimSpace(*body.TaxNumber)
		}

		if err := database.DB.Save(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri güncellenemedi")
		}

		return c.JSON(toCustomerResponse(customer))
	}
}

func DeleteCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		// Yüklemesi olan müşteri silinmez, geçmiş bozulur
		var loadCount int64
		if err := database.DB.Model(&models.Load{}).
			Where("customer_id = ?", id).
			Count(&loadCount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri kontrol edilemedi")
		}
		if loadCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Yükleme kaydı olan müşteri silinemez")
		}

		if err := database.DB.Delete(&models.Customer{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

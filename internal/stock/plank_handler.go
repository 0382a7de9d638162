package stock

import (
	"fmt"

	"kereste-backend/internal/audit"
	"kereste-backend/internal/auth"
	"kereste-backend/internal/database"
	"kereste-backend/internal/models"
	"kereste-backend/internal/volume"

	"github.com/gofiber/fiber/v2"
)

type PlankStockResponse struct {
	ID            uint    `json:"id"`
	WidthMM       int     `json:"width_mm"`
	HeightMM      int     `json:"height_mm"`
	LengthM       float64 `json:"length_m"`
	MoistureState string  `json:"moisture_state"`
	Quantity      int     `json:"quantity"`
	VolumeM3      float64 `json:"volume_m3"` // mevcut adetlerin toplam hacmi
	UpdatedAt     string  `json:"updated_at"`
}

type CreatePlankStockRequest struct {
	WidthMM       int     `json:"width_mm"`
	HeightMM      int     `json:"height_mm"`
	LengthM       float64 `json:"length_m"`
	MoistureState string  `json:"moisture_state"`
	Quantity      int     `json:"quantity"`
}

type AdjustPlankStockRequest struct {
	Quantity int    `json:"quantity"` // yeni mutlak adet (fark değil)
	Reason   string `json:"reason"`   // düzeltme gerekçesi (zorunlu)
}

// Yardımcı: Kullanıcı bilgilerini al (audit log için)
func getUserInfo(c *fiber.Ctx) (uint, string, error) {
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

func toPlankStockResponse(s models.PlankStock) PlankStockResponse {
	return PlankStockResponse{
		ID:            s.ID,
		WidthMM:       s.WidthMM,
		HeightMM:      s.HeightMM,
		LengthM:       s.LengthM,
		MoistureState: string(s.MoistureState),
		Quantity:      s.Quantity,
		VolumeM3:      volume.Calculate(s.WidthMM, s.HeightMM, s.LengthM, s.Quantity),
		UpdatedAt:     s.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// GET /api/plank-stocks?moisture_state=dry
func ListPlankStocksHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Model(&models.PlankStock{}).
			Order("moisture_state, width_mm, height_mm, length_m")

		if ms := c.Query("moisture_state"); ms != "" {
			query = query.Where("moisture_state = ?", ms)
		}

		var stocks []models.PlankStock
		if err := query.Find(&stocks).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stoklar listelenemedi")
		}

		resp := make([]PlankStockResponse, 0, len(stocks))
		for _, s := range stocks {
			resp = append(resp, toPlankStockResponse(s))
		}

		return c.JSON(resp)
	}
}

// GET /api/plank-stocks/availability?width_mm=114&height_mm=38&length_m=3.0&moisture_state=wet
// Form ekranı için danışma amaçlı mevcut; asıl kontrol her zaman kayıt
// anında tekrar yapılır
func GetAvailabilityHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		widthMM := c.QueryInt("width_mm")
		heightMM := c.QueryInt("height_mm")
		lengthM := c.QueryFloat("length_m")
		moisture := c.Query("moisture_state")

		key, err := ParseKey(widthMM, heightMM, lengthM, moisture)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		available, err := Available(database.DB, key)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok bilgisi okunamadı")
		}

		return c.JSON(fiber.Map{
			"width_mm":       key.WidthMM,
			"height_mm":      key.HeightMM,
			"length_m":       key.LengthM,
			"moisture_state": key.MoistureState,
			"available":      available,
		})
	}
}

// POST /api/plank-stocks (admin)
// İlk stok kaydı / sayım girişi. Ledger olayı değildir, audit log'a yazılır.
func CreatePlankStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePlankStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		key, err := ParseKey(body.WidthMM, body.HeightMM, body.LengthM, body.MoistureState)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if body.Quantity < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Adet negatif olamaz")
		}

		// Aynı anahtar için kayıt varsa ikinciyi açma
		existing, err := Available(database.DB, key)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok bilgisi okunamadı")
		}
		var count int64
		database.DB.Model(&models.PlankStock{}).
			Where("width_mm = ? AND height_mm = ? AND length_m = ? AND moisture_state = ?",
				key.WidthMM, key.HeightMM, key.LengthM, key.MoistureState).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Bu ölçü için stok kaydı zaten var (mevcut %d adet), düzeltme için güncelleme kullan", existing))
		}

		rec := models.PlankStock{
			WidthMM:       key.WidthMM,
			HeightMM:      key.HeightMM,
			LengthM:       key.LengthM,
			MoistureState: key.MoistureState,
			Quantity:      body.Quantity,
		}
		if err := database.DB.Create(&rec).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok kaydı oluşturulamadı")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "plank_stock",
				EntityID:    rec.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Stok kaydı açıldı: %s = %d adet", key, rec.Quantity),
				Before:      nil,
				After:       rec,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toPlankStockResponse(rec))
	}
}

// PUT /api/plank-stocks/:id (admin)
// Sayım düzeltmesi: mutlak adet yazılır. Kullanım/karşılama olaylarından
// ayrı tutulur; stokun NEDEN değiştiği audit log'dan takip edilir.
func AdjustPlankStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body AdjustPlankStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Quantity < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Adet negatif olamaz")
		}
		if body.Reason == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Düzeltme gerekçesi zorunlu")
		}

		var rec models.PlankStock
		if err := database.DB.First(&rec, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Stok kaydı bulunamadı")
		}

		before := rec
		rec.Quantity = body.Quantity

		if err := database.DB.Save(&rec).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok kaydı güncellenemedi")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			key := Key{WidthMM: rec.WidthMM, HeightMM: rec.HeightMM, LengthM: rec.LengthM, MoistureState: rec.MoistureState}
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "plank_stock",
				EntityID:    rec.ID,
				Action:      models.AuditActionCorrection,
				Description: fmt.Sprintf("Stok düzeltmesi %s: %d -> %d (%s)", key, before.Quantity, rec.Quantity, body.Reason),
				Before:      before,
				After:       rec,
			})
		}

		return c.JSON(toPlankStockResponse(rec))
	}
}

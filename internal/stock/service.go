package stock

import (
	"errors"

	"kereste-backend/internal/models"

	"gorm.io/gorm"
)

// Demand: bir stok anahtarından istenen adet.
type Demand struct {
	Key      Key
	Quantity int
}

// Available: anahtarın mevcut adedi. Kayıt yoksa 0 döner, hata değildir.
func Available(db *gorm.DB, key Key) (int, error) {
	var rec models.PlankStock
	err := db.
		Where("width_mm = ? AND height_mm = ? AND length_m = ? AND moisture_state = ?",
			key.WidthMM, key.HeightMM, key.LengthM, key.MoistureState).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rec.Quantity, nil
}

// AccumulateDemand: aynı anahtara ait satırları toplar. Bir yüklemede aynı
// ölçü iki satırda geçiyorsa kontrol toplam talebe göre yapılmalı, satır
// satır değil. Sıra korunur (ilk görülen anahtar önce kontrol edilir).
func AccumulateDemand(lines []Demand) []Demand {
	index := make(map[Key]int)
	merged := make([]Demand, 0, len(lines))
	for _, line := range lines {
		if i, ok := index[line.Key]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.Key] = len(merged)
		merged = append(merged, line)
	}
	return merged
}

// DeductPlanks: çok satırlı stok düşümü. Çağıranın transaction'ı içinde
// çalışır; herhangi bir satır yetersizse hata döner ve çağıran rollback
// yapar, hiçbir satır değişmeden kalır.
//
// Düşüm koşullu UPDATE ile yapılır (quantity >= istenen). Koşul satırın
// kendisinde sınandığı için iki eşzamanlı düşüm aynı stoku iki kez
// harcayamaz: UPDATE'in aldığı satır kilidi ikinci işlemi bekletir ve
// ikinci işlem kalan miktara göre değerlendirilir.
func DeductPlanks(tx *gorm.DB, lines []Demand) error {
	if len(lines) == 0 {
		return ErrNoLineItems
	}

	for _, d := range AccumulateDemand(lines) {
		if d.Quantity <= 0 {
			return errors.New("düşüm miktarı pozitif olmalı")
		}

		res := tx.Model(&models.PlankStock{}).
			Where("width_mm = ? AND height_mm = ? AND length_m = ? AND moisture_state = ? AND quantity >= ?",
				d.Key.WidthMM, d.Key.HeightMM, d.Key.LengthM, d.Key.MoistureState, d.Quantity).
			Update("quantity", gorm.Expr("quantity - ?", d.Quantity))
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			// Satır yok veya stok yetersiz; mevcut miktarı transaction
			// içinden okuyup tam açığı raporla
			available, err := Available(tx, d.Key)
			if err != nil {
				return err
			}
			return &InsufficientStockError{Key: d.Key, Requested: d.Quantity, Available: available}
		}
	}

	return nil
}

// CreditPlanks: stok artışı. Anahtarın kaydı yoksa oluşturur; üst sınır yok.
func CreditPlanks(tx *gorm.DB, key Key, quantity int) error {
	if quantity <= 0 {
		return errors.New("artış miktarı pozitif olmalı")
	}

	res := tx.Model(&models.PlankStock{}).
		Where("width_mm = ? AND height_mm = ? AND length_m = ? AND moisture_state = ?",
			key.WidthMM, key.HeightMM, key.LengthM, key.MoistureState).
		Update("quantity", gorm.Expr("quantity + ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// İlk giriş: kayıt yok, oluştur. Unique index eşzamanlı ikinci insert'i
	// engeller; o durumda artışı mevcut satıra uygula.
	rec := models.PlankStock{
		WidthMM:       key.WidthMM,
		HeightMM:      key.HeightMM,
		LengthM:       key.LengthM,
		MoistureState: key.MoistureState,
		Quantity:      quantity,
	}
	if err := tx.Create(&rec).Error; err != nil {
		res = tx.Model(&models.PlankStock{}).
			Where("width_mm = ? AND height_mm = ? AND length_m = ? AND moisture_state = ?",
				key.WidthMM, key.HeightMM, key.LengthM, key.MoistureState).
			Update("quantity", gorm.Expr("quantity + ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return err
		}
	}

	return nil
}

// DeductSparePart: tek parça düşümü, kereste düşümüyle aynı koşullu UPDATE
// yaklaşımı. Hem manuel kullanım kaydı hem arıza çözümü bu yoldan geçer.
func DeductSparePart(tx *gorm.DB, partID uint, quantity int) error {
	if quantity <= 0 {
		return errors.New("düşüm miktarı pozitif olmalı")
	}

	res := tx.Model(&models.SparePart{}).
		Where("id = ? AND quantity >= ?", partID, quantity).
		Update("quantity", gorm.Expr("quantity - ?", quantity))
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		var part models.SparePart
		if err := tx.First(&part, "id = ?", partID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "Yedek parça", ID: partID}
			}
			return err
		}
		return &InsufficientSpareError{
			SparePartID: part.ID,
			PartName:    part.Name,
			Requested:   quantity,
			Available:   part.Quantity,
		}
	}

	return nil
}

// CreditSparePart: parça stok artışı (talep karşılama).
func CreditSparePart(tx *gorm.DB, partID uint, quantity int) error {
	if quantity <= 0 {
		return errors.New("artış miktarı pozitif olmalı")
	}

	res := tx.Model(&models.SparePart{}).
		Where("id = ?", partID).
		Update("quantity", gorm.Expr("quantity + ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Entity: "Yedek parça", ID: partID}
	}

	return nil
}

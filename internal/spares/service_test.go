package spares

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"kereste-backend/internal/models"
	"kereste-backend/internal/stock"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("test veritabanı açılamadı: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Machine{},
		&models.SparePart{},
		&models.SpareUsage{},
		&models.SpareRequest{},
	); err != nil {
		t.Fatalf("migration hatası: %v", err)
	}

	return db
}

func seedMachine(t *testing.T, db *gorm.DB) models.Machine {
	t.Helper()
	machine := models.Machine{Name: "Şerit testere 1", Type: "şerit testere"}
	if err := db.Create(&machine).Error; err != nil {
		t.Fatalf("makine oluşturulamadı: %v", err)
	}
	return machine
}

func seedPart(t *testing.T, db *gorm.DB, name string, quantity, minQuantity int) models.SparePart {
	t.Helper()
	part := models.SparePart{Name: name, Quantity: quantity, MinQuantity: minQuantity}
	if err := db.Create(&part).Error; err != nil {
		t.Fatalf("parça oluşturulamadı: %v", err)
	}
	return part
}

func TestRecordUsageDeductsAndAppends(t *testing.T) {
	db := newTestDB(t)
	machine := seedMachine(t, db)
	part := seedPart(t, db, "Rulman 6205", 5, 2)

	usage, err := RecordUsage(db, UsageInput{
		SparePartID: part.ID,
		MachineID:   machine.ID,
		Quantity:    3,
		UsageDate:   time.Now(),
	})
	if err != nil {
		t.Fatalf("kullanım kaydedilemedi: %v", err)
	}

	if usage.SparePartName != "Rulman 6205" {
		t.Errorf("denormalize isim = %q, beklenen 'Rulman 6205'", usage.SparePartName)
	}

	var got models.SparePart
	db.First(&got, part.ID)
	if got.Quantity != 2 {
		t.Errorf("kullanım sonrası stok = %d, beklenen 2", got.Quantity)
	}
}

func TestRecordUsageInsufficient(t *testing.T) {
	db := newTestDB(t)
	machine := seedMachine(t, db)
	part := seedPart(t, db, "Testere bıçağı", 2, 1)

	_, err := RecordUsage(db, UsageInput{
		SparePartID: part.ID,
		MachineID:   machine.ID,
		Quantity:    5,
		UsageDate:   time.Now(),
	})

	var insufficient *stock.InsufficientSpareError
	if !errors.As(err, &insufficient) {
		t.Fatalf("InsufficientSpareError bekleniyordu, gelen: %v", err)
	}
	if insufficient.Requested != 5 || insufficient.Available != 2 {
		t.Errorf("açık raporu: gereken %d mevcut %d, beklenen 5/2",
			insufficient.Requested, insufficient.Available)
	}

	// Başarısız kullanım stok da kayıt da bırakmamalı
	var got models.SparePart
	db.First(&got, part.ID)
	if got.Quantity != 2 {
		t.Errorf("stok = %d, beklenen 2", got.Quantity)
	}
	var count int64
	db.Model(&models.SpareUsage{}).Count(&count)
	if count != 0 {
		t.Errorf("kullanım kaydı sayısı = %d, beklenen 0", count)
	}
}

func TestFulfillCreditsOnce(t *testing.T) {
	db := newTestDB(t)
	part := seedPart(t, db, "Bearing-X", 2, 5)

	request := models.SpareRequest{
		SparePartID:   &part.ID,
		SparePartName: part.Name,
		Quantity:      10,
		Status:        models.SpareRequestPending,
		RequestDate:   time.Now(),
	}
	if err := db.Create(&request).Error; err != nil {
		t.Fatalf("talep oluşturulamadı: %v", err)
	}

	fulfilled, err := Fulfill(db, request.ID)
	if err != nil {
		t.Fatalf("karşılama başarısız: %v", err)
	}
	if fulfilled.Status != models.SpareRequestFulfilled {
		t.Errorf("durum = %s, beklenen fulfilled", fulfilled.Status)
	}
	if fulfilled.FulfilledDate == nil {
		t.Error("fulfilled_date boş kalmış")
	}

	var got models.SparePart
	db.First(&got, part.ID)
	if got.Quantity != 12 {
		t.Errorf("karşılama sonrası stok = %d, beklenen 12", got.Quantity)
	}

	// İkinci karşılama reddedilmeli, stok 12'de kalmalı
	if _, err := Fulfill(db, request.ID); !errors.Is(err, stock.ErrAlreadyFulfilled) {
		t.Errorf("ikinci karşılama için ErrAlreadyFulfilled bekleniyordu, gelen: %v", err)
	}
	db.First(&got, part.ID)
	if got.Quantity != 12 {
		t.Errorf("mükerrer karşılama stoku değiştirdi: %d, beklenen 12", got.Quantity)
	}
}

// Katalog bağlantısı olmayan talep: birebir isim eşleşmesi varsa o parçaya
// işlenir, yoksa otomatik parça oluşturulmaz.
func TestFulfillByNameMatch(t *testing.T) {
	db := newTestDB(t)
	part := seedPart(t, db, "Kayış B-1250", 1, 2)

	request := models.SpareRequest{
		SparePartName: "Kayış B-1250",
		Quantity:      4,
		Status:        models.SpareRequestPending,
		RequestDate:   time.Now(),
	}
	if err := db.Create(&request).Error; err != nil {
		t.Fatalf("talep oluşturulamadı: %v", err)
	}

	fulfilled, err := Fulfill(db, request.ID)
	if err != nil {
		t.Fatalf("karşılama başarısız: %v", err)
	}
	if fulfilled.SparePartID == nil || *fulfilled.SparePartID != part.ID {
		t.Error("talep isim eşleşmesiyle parçaya bağlanmalıydı")
	}

	var got models.SparePart
	db.First(&got, part.ID)
	if got.Quantity != 5 {
		t.Errorf("stok = %d, beklenen 5", got.Quantity)
	}
}

func TestFulfillUncataloguedPart(t *testing.T) {
	db := newTestDB(t)

	request := models.SpareRequest{
		SparePartName: "Hiç görülmemiş parça",
		Quantity:      2,
		Status:        models.SpareRequestPending,
		RequestDate:   time.Now(),
	}
	if err := db.Create(&request).Error; err != nil {
		t.Fatalf("talep oluşturulamadı: %v", err)
	}

	if _, err := Fulfill(db, request.ID); !errors.Is(err, stock.ErrUncataloguedPart) {
		t.Fatalf("ErrUncataloguedPart bekleniyordu, gelen: %v", err)
	}

	// Talep pending kalmalı, katalogda parça açılmamalı
	var got models.SpareRequest
	db.First(&got, request.ID)
	if got.Status != models.SpareRequestPending {
		t.Errorf("talep durumu = %s, beklenen pending", got.Status)
	}
	var count int64
	db.Model(&models.SparePart{}).Count(&count)
	if count != 0 {
		t.Errorf("katalogda parça sayısı = %d, beklenen 0 (otomatik oluşturma yok)", count)
	}
}

func TestFulfillNotFound(t *testing.T) {
	db := newTestDB(t)

	var notFound *stock.NotFoundError
	if _, err := Fulfill(db, 12345); !errors.As(err, &notFound) {
		t.Errorf("NotFoundError bekleniyordu, gelen: %v", err)
	}
}

// Parça silinse de geçmiş kayıtlar isimleriyle okunabilir kalır; kopuk
// bağlantılı pending talep isim eşleşmesine döner.
func TestDeletedPartKeepsHistory(t *testing.T) {
	db := newTestDB(t)
	machine := seedMachine(t, db)
	part := seedPart(t, db, "Zincir 08B", 10, 2)

	if _, err := RecordUsage(db, UsageInput{
		SparePartID: part.ID,
		MachineID:   machine.ID,
		Quantity:    4,
		UsageDate:   time.Now(),
	}); err != nil {
		t.Fatalf("kullanım kaydedilemedi: %v", err)
	}

	request := models.SpareRequest{
		SparePartID:   &part.ID,
		SparePartName: part.Name,
		Quantity:      6,
		Status:        models.SpareRequestPending,
		RequestDate:   time.Now(),
	}
	if err := db.Create(&request).Error; err != nil {
		t.Fatalf("talep oluşturulamadı: %v", err)
	}

	if err := db.Delete(&models.SparePart{}, part.ID).Error; err != nil {
		t.Fatalf("parça silinemedi: %v", err)
	}

	// Kullanım kaydı ismiyle duruyor
	var usage models.SpareUsage
	if err := db.First(&usage).Error; err != nil {
		t.Fatalf("kullanım kaydı kayboldu: %v", err)
	}
	if usage.SparePartName != "Zincir 08B" {
		t.Errorf("kullanım kaydındaki isim = %q, beklenen 'Zincir 08B'", usage.SparePartName)
	}

	// Kopuk bağlantılı talep: katalogda isim yok, karşılama reddedilir
	if _, err := Fulfill(db, request.ID); !errors.Is(err, stock.ErrUncataloguedPart) {
		t.Errorf("silinmiş parça talebi için ErrUncataloguedPart bekleniyordu, gelen: %v", err)
	}

	// Parça aynı isimle yeniden kataloğa eklenirse talep karşılanabilir
	reborn := seedPart(t, db, "Zincir 08B", 0, 2)
	fulfilled, err := Fulfill(db, request.ID)
	if err != nil {
		t.Fatalf("yeniden kataloglanan parça talebi karşılanamadı: %v", err)
	}
	if fulfilled.SparePartID == nil || *fulfilled.SparePartID != reborn.ID {
		t.Error("talep yeni parça kaydına bağlanmalıydı")
	}

	var got models.SparePart
	db.First(&got, reborn.ID)
	if got.Quantity != 6 {
		t.Errorf("stok = %d, beklenen 6", got.Quantity)
	}
}

package loads

import (
	"errors"
	"math"
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
		&models.Customer{},
		&models.PlankStock{},
		&models.Load{},
		&models.LoadItem{},
	); err != nil {
		t.Fatalf("migration hatası: %v", err)
	}

	return db
}

func seedCustomer(t *testing.T, db *gorm.DB) models.Customer {
	t.Helper()
	customer := models.Customer{Name: "Yılmaz İnşaat", Phone: "0 555 000 00 00"}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("müşteri oluşturulamadı: %v", err)
	}
	return customer
}

func seedStock(t *testing.T, db *gorm.DB, key stock.Key, quantity int) {
	t.Helper()
	rec := models.PlankStock{
		WidthMM:       key.WidthMM,
		HeightMM:      key.HeightMM,
		LengthM:       key.LengthM,
		MoistureState: key.MoistureState,
		Quantity:      quantity,
	}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("stok kaydı oluşturulamadı: %v", err)
	}
}

func available(t *testing.T, db *gorm.DB, key stock.Key) int {
	t.Helper()
	n, err := stock.Available(db, key)
	if err != nil {
		t.Fatalf("Available hatası: %v", err)
	}
	return n
}

func baseInput(customerID uint, lines []LineInput) CreateLoadInput {
	return CreateLoadInput{
		Date:              time.Date(2025, 12, 9, 0, 0, 0, 0, time.UTC),
		CustomerID:        customerID,
		TruckRegistration: "34 ABC 123",
		MoistureState:     models.MoistureWet,
		Lines:             lines,
	}
}

func TestCreateLoadSufficientStock(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db)

	key := stock.Key{WidthMM: 114, HeightMM: 38, LengthM: 3.0, MoistureState: models.MoistureWet}
	seedStock(t, db, key, 50)

	load, err := CreateLoad(db, baseInput(customer.ID, []LineInput{
		{WidthMM: 114, HeightMM: 38, LengthM: 3.0, Quantity: 30},
	}))
	if err != nil {
		t.Fatalf("yükleme oluşturulamadı: %v", err)
	}

	if got := available(t, db, key); got != 20 {
		t.Errorf("yükleme sonrası stok = %d, beklenen 20", got)
	}
	if load.Status != models.LoadStatusLoaded {
		t.Errorf("yeni yükleme durumu = %s, beklenen loaded", load.Status)
	}
	if load.TotalQuantity != 30 {
		t.Errorf("toplam adet = %d, beklenen 30", load.TotalQuantity)
	}
}

func TestCreateLoadInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db)

	key := stock.Key{WidthMM: 76, HeightMM: 50, LengthM: 4.2, MoistureState: models.MoistureDry}
	seedStock(t, db, key, 10)

	input := baseInput(customer.ID, []LineInput{
		{WidthMM: 76, HeightMM: 50, LengthM: 4.2, Quantity: 15},
	})
	input.MoistureState = models.MoistureDry

	_, err := CreateLoad(db, input)

	var insufficient *stock.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("InsufficientStockError bekleniyordu, gelen: %v", err)
	}
	if insufficient.Requested != 15 || insufficient.Available != 10 {
		t.Errorf("açık raporu: gereken %d mevcut %d, beklenen 15/10",
			insufficient.Requested, insufficient.Available)
	}

	// Stok değişmemeli, yükleme kaydı açılmamalı
	if got := available(t, db, key); got != 10 {
		t.Errorf("stok = %d, beklenen 10", got)
	}
	var count int64
	db.Model(&models.Load{}).Count(&count)
	if count != 0 {
		t.Errorf("yükleme kaydı sayısı = %d, beklenen 0", count)
	}
}

// Aynı ölçü iki satırda: kontrol 5+8=13'e göre yapılmalı, 10'luk stok yetmemeli.
func TestCreateLoadCombinedLineDemand(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db)

	key := stock.Key{WidthMM: 38, HeightMM: 38, LengthM: 2.4, MoistureState: models.MoistureWet}
	seedStock(t, db, key, 10)

	_, err := CreateLoad(db, baseInput(customer.ID, []LineInput{
		{WidthMM: 38, HeightMM: 38, LengthM: 2.4, Quantity: 5},
		{WidthMM: 38, HeightMM: 38, LengthM: 2.4, Quantity: 8},
	}))

	var insufficient *stock.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("InsufficientStockError bekleniyordu, gelen: %v", err)
	}
	if insufficient.Requested != 13 {
		t.Errorf("toplam talep = %d, beklenen 13", insufficient.Requested)
	}
	if got := available(t, db, key); got != 10 {
		t.Errorf("stok = %d, beklenen 10", got)
	}
}

func TestCreateLoadEmptyLines(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db)

	// Hepsi eksik satır: elenir, boş yükleme reddedilir
	_, err := CreateLoad(db, baseInput(customer.ID, []LineInput{
		{WidthMM: 114, HeightMM: 0, LengthM: 3.0, Quantity: 5},
		{WidthMM: 0, HeightMM: 38, LengthM: 3.0, Quantity: 5},
		{WidthMM: 114, HeightMM: 38, LengthM: 3.0, Quantity: 0},
	}))
	if !errors.Is(err, stock.ErrNoLineItems) {
		t.Fatalf("ErrNoLineItems bekleniyordu, gelen: %v", err)
	}

	var count int64
	db.Model(&models.Load{}).Count(&count)
	if count != 0 {
		t.Errorf("yükleme kaydı sayısı = %d, beklenen 0", count)
	}
}

// Eksik satırlar elenir ama geçerli satırlar işlenir.
func TestCreateLoadFiltersIncompleteLines(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db)

	key := stock.Key{WidthMM: 114, HeightMM: 38, LengthM: 3.0, MoistureState: models.MoistureWet}
	seedStock(t, db, key, 50)

	load, err := CreateLoad(db, baseInput(customer.ID, []LineInput{
		{WidthMM: 114, HeightMM: 38, LengthM: 3.0, Quantity: 20},
		{WidthMM: 0, HeightMM: 0, LengthM: 0, Quantity: 0}, // boş form satırı
	}))
	if err != nil {
		t.Fatalf("yükleme oluşturulamadı: %v", err)
	}
	if len(load.Items) != 1 {
		t.Errorf("satır sayısı = %d, beklenen 1", len(load.Items))
	}
}

// Standart dışı boy tahsis katmanına ulaşmadan reddedilir.
func TestCreateLoadInvalidLength(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db)

	_, err := CreateLoad(db, baseInput(customer.ID, []LineInput{
		{WidthMM: 114, HeightMM: 38, LengthM: 3.3, Quantity: 5},
	}))
	if err == nil {
		t.Fatal("standart dışı boy için hata bekleniyordu")
	}

	var count int64
	db.Model(&models.Load{}).Count(&count)
	if count != 0 {
		t.Errorf("yükleme kaydı sayısı = %d, beklenen 0", count)
	}
}

// Yüklemenin toplam adet ve hacmi her zaman satır toplamına eşit olmalı.
func TestCreateLoadTotalsConsistent(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db)

	keyA := stock.Key{WidthMM: 228, HeightMM: 38, LengthM: 3.6, MoistureState: models.MoistureWet}
	keyB := stock.Key{WidthMM: 114, HeightMM: 38, LengthM: 3.0, MoistureState: models.MoistureWet}
	seedStock(t, db, keyA, 100)
	seedStock(t, db, keyB, 100)

	load, err := CreateLoad(db, baseInput(customer.ID, []LineInput{
		{WidthMM: 228, HeightMM: 38, LengthM: 3.6, Quantity: 10},
		{WidthMM: 114, HeightMM: 38, LengthM: 3.0, Quantity: 25},
	}))
	if err != nil {
		t.Fatalf("yükleme oluşturulamadı: %v", err)
	}

	var stored models.Load
	if err := db.Preload("Items").First(&stored, load.ID).Error; err != nil {
		t.Fatalf("yükleme okunamadı: %v", err)
	}

	sumQty := 0
	sumVol := 0.0
	for _, it := range stored.Items {
		sumQty += it.Quantity
		sumVol += it.VolumeM3
	}

	if stored.TotalQuantity != sumQty {
		t.Errorf("toplam adet %d, satır toplamı %d", stored.TotalQuantity, sumQty)
	}
	if math.Abs(stored.TotalVolume-sumVol) > 1e-9 {
		t.Errorf("toplam hacim %v, satır toplamı %v", stored.TotalVolume, sumVol)
	}
	// 228x38x3.6x10 = 0.3119, 114x38x3.0x25 = 0.3249
	if math.Abs(stored.TotalVolume-0.6368) > 1e-9 {
		t.Errorf("toplam hacim %v, beklenen 0.6368", stored.TotalVolume)
	}
}

func TestDeliverOnce(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db)

	key := stock.Key{WidthMM: 114, HeightMM: 38, LengthM: 3.0, MoistureState: models.MoistureWet}
	seedStock(t, db, key, 50)

	load, err := CreateLoad(db, baseInput(customer.ID, []LineInput{
		{WidthMM: 114, HeightMM: 38, LengthM: 3.0, Quantity: 10},
	}))
	if err != nil {
		t.Fatalf("yükleme oluşturulamadı: %v", err)
	}

	delivered, err := Deliver(db, load.ID)
	if err != nil {
		t.Fatalf("teslim başarısız: %v", err)
	}
	if delivered.Status != models.LoadStatusDelivered {
		t.Errorf("durum = %s, beklenen delivered", delivered.Status)
	}

	// İkinci teslim reddedilmeli
	if _, err := Deliver(db, load.ID); !errors.Is(err, stock.ErrAlreadyDelivered) {
		t.Errorf("ikinci teslim için ErrAlreadyDelivered bekleniyordu, gelen: %v", err)
	}

	// Olmayan yükleme
	var notFound *stock.NotFoundError
	if _, err := Deliver(db, 9999); !errors.As(err, &notFound) {
		t.Errorf("NotFoundError bekleniyordu, gelen: %v", err)
	}
}

package intake

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

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("test veritabanı açılamadı: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Machine{},
		&models.PlankStock{},
		&models.CuttingRecord{},
		&models.CuttingItem{},
	); err != nil {
		t.Fatalf("migrasyon başarısız: %v", err)
	}

	return db
}

func available(t *testing.T, db *gorm.DB, key stock.Key) int {
	t.Helper()
	qty, err := stock.Available(db, key)
	if err != nil {
		t.Fatalf("stok okunamadı: %v", err)
	}
	return qty
}

func TestRecordCuttingCreditsStock(t *testing.T) {
	db := newTestDB(t)
	machine := models.Machine{Name: "Çoklu dilme"}
	if err := db.Create(&machine).Error; err != nil {
		t.Fatalf("makine eklenemedi: %v", err)
	}

	// Bir ölçü zaten stokta, diğeri yeni
	existing := models.PlankStock{
		WidthMM: 114, HeightMM: 38, LengthM: 3.0,
		MoistureState: models.MoistureWet, Quantity: 40,
	}
	if err := db.Create(&existing).Error; err != nil {
		t.Fatalf("stok eklenemedi: %v", err)
	}

	record, err := RecordCutting(db, RecordCuttingInput{
		MachineID: machine.ID,
		Date:      time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
		Note:      "Sabah vardiyası",
		Lines: []CuttingLineInput{
			{WidthMM: 114, HeightMM: 38, LengthM: 3.0, MoistureState: "wet", Quantity: 25},
			{WidthMM: 228, HeightMM: 38, LengthM: 3.6, MoistureState: "wet", Quantity: 10},
		},
	})
	if err != nil {
		t.Fatalf("RecordCutting hata döndü: %v", err)
	}

	if len(record.Items) != 2 {
		t.Fatalf("kalem sayısı = %d, beklenen 2", len(record.Items))
	}
	if record.Items[1].VolumeM3 != 0.31190 {
		t.Errorf("kalem hacmi = %v, beklenen 0.31190", record.Items[1].VolumeM3)
	}

	keyExisting := stock.Key{WidthMM: 114, HeightMM: 38, LengthM: 3.0, MoistureState: models.MoistureWet}
	if got := available(t, db, keyExisting); got != 65 {
		t.Errorf("mevcut ölçü stoğu = %d, beklenen 65", got)
	}

	keyNew := stock.Key{WidthMM: 228, HeightMM: 38, LengthM: 3.6, MoistureState: models.MoistureWet}
	if got := available(t, db, keyNew); got != 10 {
		t.Errorf("yeni ölçü stoğu = %d, beklenen 10", got)
	}

	// Yeni ölçü tek satır olarak açılmalı
	var rows int64
	db.Model(&models.PlankStock{}).
		Where("width_mm = ? AND height_mm = ? AND length_m = ? AND moisture_state = ?",
			228, 38, 3.6, models.MoistureWet).
		Count(&rows)
	if rows != 1 {
		t.Errorf("yeni ölçü satır sayısı = %d, beklenen 1", rows)
	}
}

func TestRecordCuttingFiltersIncompleteLines(t *testing.T) {
	db := newTestDB(t)
	machine := models.Machine{Name: "Şerit testere 2"}
	if err := db.Create(&machine).Error; err != nil {
		t.Fatalf("makine eklenemedi: %v", err)
	}

	record, err := RecordCutting(db, RecordCuttingInput{
		MachineID: machine.ID,
		Date:      time.Now(),
		Lines: []CuttingLineInput{
			{WidthMM: 0, HeightMM: 38, LengthM: 3.0, MoistureState: "wet", Quantity: 5},
			{WidthMM: 76, HeightMM: 50, LengthM: 4.2, MoistureState: "wet", Quantity: 8},
		},
	})
	if err != nil {
		t.Fatalf("RecordCutting hata döndü: %v", err)
	}
	if len(record.Items) != 1 {
		t.Errorf("kalem sayısı = %d, beklenen 1 (eksik satır atlanmalı)", len(record.Items))
	}
}

func TestRecordCuttingEmptyLines(t *testing.T) {
	db := newTestDB(t)

	_, err := RecordCutting(db, RecordCuttingInput{
		MachineID: 1,
		Date:      time.Now(),
		Lines:     []CuttingLineInput{{WidthMM: 0, Quantity: 0}},
	})
	if !errors.Is(err, stock.ErrNoLineItems) {
		t.Fatalf("ErrNoLineItems beklenirdi, gelen: %v", err)
	}
}

func TestRecordCuttingInvalidLength(t *testing.T) {
	db := newTestDB(t)
	machine := models.Machine{Name: "Planya hattı"}
	if err := db.Create(&machine).Error; err != nil {
		t.Fatalf("makine eklenemedi: %v", err)
	}

	_, err := RecordCutting(db, RecordCuttingInput{
		MachineID: machine.ID,
		Date:      time.Now(),
		Lines: []CuttingLineInput{
			{WidthMM: 114, HeightMM: 38, LengthM: 3.3, MoistureState: "wet", Quantity: 10},
		},
	})
	if err == nil {
		t.Fatal("standart dışı boy için hata beklenirdi")
	}

	var count int64
	db.Model(&models.CuttingRecord{}).Count(&count)
	if count != 0 {
		t.Errorf("biçme kaydı sayısı = %d, beklenen 0", count)
	}
}

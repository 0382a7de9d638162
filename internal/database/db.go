package database

import (
	"log"

	"kereste-backend/internal/config"
	"kereste-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	// PlankStock migration: eski kurulumlarda stok anahtarı üzerinde unique
	// index yoktu; aynı ölçü için birden fazla satır oluşabiliyordu.
	// AutoMigrate'ten ÖNCE mükerrer satırları birleştir, yoksa index eklenemez.
	if DB.Migrator().HasTable(&models.PlankStock{}) && !DB.Migrator().HasIndex(&models.PlankStock{}, "idx_plank_stock_key") {
		log.Println("PlankStock mükerrer kayıt kontrolü yapılıyor...")
		if err := DB.Exec(`
			DELETE FROM plank_stocks a USING plank_stocks b
			WHERE a.id > b.id
			  AND a.width_mm = b.width_mm
			  AND a.height_mm = b.height_mm
			  AND a.length_m = b.length_m
			  AND a.moisture_state = b.moisture_state
		`).Error; err != nil {
			log.Printf("Mükerrer stok kayıtları birleştirilirken hata (devam ediliyor): %v", err)
		}
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Machine{},
		&models.PlankStock{},
		&models.LogIntake{},
		&models.CuttingRecord{},
		&models.CuttingItem{},
		&models.Load{},
		&models.LoadItem{},
		&models.SparePart{},
		&models.SpareUsage{},
		&models.SpareRequest{},
		&models.Breakdown{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}

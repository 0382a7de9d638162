package stock

import (
	"fmt"

	"kereste-backend/internal/models"
)

// ParseKey: form girdisinden stok anahtarı kurar. Geçersiz anahtar daha
// buraya gelmeden satırdan elenmiş olmalı; yine de burada son kontrol var,
// geçersiz anahtar tahsis katmanına hiç ulaşmaz.
func ParseKey(widthMM, heightMM int, lengthM float64, moisture string) (Key, error) {
	if widthMM <= 0 || heightMM <= 0 {
		return Key{}, fmt.Errorf("en ve kalınlık pozitif olmalı (mm)")
	}

	if !models.ValidLength(lengthM) {
		return Key{}, fmt.Errorf("geçersiz boy: %.2f m (standart boylar veya %.1f m ölçü altı)", lengthM, models.UnderMinLength)
	}

	state := models.MoistureState(moisture)
	if state != models.MoistureWet && state != models.MoistureDry {
		return Key{}, fmt.Errorf("rutubet durumu 'wet' veya 'dry' olmalı")
	}

	return Key{
		WidthMM:       widthMM,
		HeightMM:      heightMM,
		LengthM:       lengthM,
		MoistureState: state,
	}, nil
}

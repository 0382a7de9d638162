package volume

import "github.com/shopspring/decimal"

// Calculate: kereste hacmi (m³) = (en/1000) * (kalınlık/1000) * boy * adet.
// Hem tomruk/biçme girişinde hem yükleme satırlarında bu tek tanım kullanılır;
// yuvarlama farkı oluşmaması için float çarpımı yerine decimal ile hesaplanır
// ve 5 basamağa yuvarlanır. Girdilerin pozitifliği çağıran tarafın
// sorumluluğundadır.
func Calculate(widthMM, heightMM int, lengthM float64, quantity int) float64 {
	thousand := decimal.NewFromInt(1000)

	w := decimal.NewFromInt(int64(widthMM)).Div(thousand)
	h := decimal.NewFromInt(int64(heightMM)).Div(thousand)
	l := decimal.NewFromFloat(lengthM)
	q := decimal.NewFromInt(int64(quantity))

	v, _ := w.Mul(h).Mul(l).Mul(q).Round(5).Float64()
	return v
}

// CalculateLog: tomruk hacmi (m³), orta çap üzerinden silindir yaklaşımı.
// V = pi * (çap/200)² * boy * adet
func CalculateLog(diameterCM int, lengthM float64, quantity int) float64 {
	pi := decimal.NewFromFloat(3.14159265358979)
	twoHundred := decimal.NewFromInt(200)

	r := decimal.NewFromInt(int64(diameterCM)).Div(twoHundred)
	l := decimal.NewFromFloat(lengthM)
	q := decimal.NewFromInt(int64(quantity))

	v, _ := pi.Mul(r).Mul(r).Mul(l).Mul(q).Round(5).Float64()
	return v
}

package volume

import (
	"math"
	"testing"
)

func TestCalculate(t *testing.T) {
	cases := []struct {
		name     string
		widthMM  int
		heightMM int
		lengthM  float64
		quantity int
		want     float64
	}{
		{"tek tahta", 228, 38, 3.6, 1, 0.03119},
		{"on tahta", 228, 38, 3.6, 10, 0.3119},
		{"yaygin olcu", 114, 38, 3.0, 50, 0.6498},
		{"olcu alti boy", 38, 38, 1.2, 100, 0.17328},
		{"sifir adet", 228, 38, 3.6, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Calculate(tc.widthMM, tc.heightMM, tc.lengthM, tc.quantity)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Calculate(%d, %d, %v, %d) = %v, beklenen %v",
					tc.widthMM, tc.heightMM, tc.lengthM, tc.quantity, got, tc.want)
			}
		})
	}
}

// Aynı satırlar iki kez hesaplandığında birebir aynı sonucu vermeli;
// toplam hacim satır hacimlerinin toplamına eşit kalmalı.
func TestCalculateDeterministic(t *testing.T) {
	type line struct {
		w, h int
		l    float64
		q    int
	}
	lines := []line{
		{228, 38, 3.6, 10},
		{114, 38, 3.0, 25},
		{76, 50, 4.2, 7},
	}

	total := 0.0
	for _, ln := range lines {
		v1 := Calculate(ln.w, ln.h, ln.l, ln.q)
		v2 := Calculate(ln.w, ln.h, ln.l, ln.q)
		if v1 != v2 {
			t.Fatalf("aynı girdi farklı sonuç verdi: %v != %v", v1, v2)
		}
		total += v1
	}

	want := 0.3119 + 0.32490 + 0.11172
	if math.Abs(total-want) > 1e-9 {
		t.Errorf("toplam hacim = %v, beklenen %v", total, want)
	}
}

func TestCalculateLog(t *testing.T) {
	// çap 30 cm, boy 4 m, 1 adet: pi * 0.15² * 4 = 0.28274
	got := CalculateLog(30, 4.0, 1)
	if math.Abs(got-0.28274) > 1e-9 {
		t.Errorf("CalculateLog(30, 4.0, 1) = %v, beklenen 0.28274", got)
	}
}

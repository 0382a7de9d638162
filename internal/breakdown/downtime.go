package breakdown

import (
	"fmt"
	"time"
)

// FormatDowntime: duruş süresini en kaba uygun birimle yazar.
// 60 dakikadan kısaysa "N dk", 24 saatten kısaysa "S sa D dk",
// daha uzunsa "G gün S sa D dk".
func FormatDowntime(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	minutes := int(d.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%d dk", minutes)
	}

	hours := minutes / 60
	minutes = minutes % 60
	if hours < 24 {
		return fmt.Sprintf("%d sa %d dk", hours, minutes)
	}

	days := hours / 24
	hours = hours % 24
	return fmt.Sprintf("%d gün %d sa %d dk", days, hours, minutes)
}

// Downtime: arızanın duruş süresi; çözülmemişse şimdiye kadar geçen süre.
func Downtime(reportedAt time.Time, resolvedAt *time.Time, now time.Time) time.Duration {
	end := now
	if resolvedAt != nil {
		end = *resolvedAt
	}
	return end.Sub(reportedAt)
}

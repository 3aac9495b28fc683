package alerts

// Thresholds returns the warn (medium) and crit cutoffs of a metric's
// alert ladder, for chart color-coding. ok is false for metrics without
// high-side thresholds (rpm, power, efficiency, humidity).
func Thresholds(metric string) (warn, crit float64, ok bool) {
	switch metric {
	case "temperature":
		return 80, 95, true
	case "pressure":
		return 1.8, 2.2, true
	case "vibration":
		return 0.6, 1.0, true
	}
	return 0, 0, false
}

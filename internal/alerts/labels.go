package alerts

// Summary label ladders for the dashboard metric cards. These are
// independent of the alert rules: they map one value to a coarse label,
// first match wins.

// TemperatureLabel returns the summary label for a temperature in °F.
func TemperatureLabel(v float64) string {
	switch {
	case v > 90:
		return "Critical"
	case v > 80:
		return "Warning"
	default:
		return "Normal"
	}
}

// PressureLabel returns the summary label for a pressure in bar.
func PressureLabel(v float64) string {
	switch {
	case v > 2.2:
		return "High"
	case v > 1.8:
		return "Elevated"
	default:
		return "Normal"
	}
}

// VibrationLabel returns the summary label for a vibration in mm/s.
func VibrationLabel(v float64) string {
	switch {
	case v > 0.8:
		return "Excessive"
	case v > 0.6:
		return "Elevated"
	default:
		return "Normal"
	}
}

// EfficiencyLabel returns the summary label for an efficiency percentage.
func EfficiencyLabel(v float64) string {
	switch {
	case v > 90:
		return "Excellent"
	case v > 80:
		return "Good"
	case v > 70:
		return "Fair"
	default:
		return "Poor"
	}
}

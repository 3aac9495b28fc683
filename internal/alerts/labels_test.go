package alerts

import "testing"

func TestSummaryLabels(t *testing.T) {
	tests := []struct {
		name string
		fn   func(float64) string
		v    float64
		want string
	}{
		{"temp critical", TemperatureLabel, 91, "Critical"},
		{"temp warning", TemperatureLabel, 85, "Warning"},
		{"temp boundary", TemperatureLabel, 90, "Warning"},
		{"temp normal", TemperatureLabel, 72, "Normal"},
		{"pressure high", PressureLabel, 2.5, "High"},
		{"pressure elevated", PressureLabel, 1.9, "Elevated"},
		{"pressure normal", PressureLabel, 1.8, "Normal"},
		{"vibration excessive", VibrationLabel, 0.9, "Excessive"},
		{"vibration elevated", VibrationLabel, 0.7, "Elevated"},
		{"vibration normal", VibrationLabel, 0.5, "Normal"},
		{"efficiency excellent", EfficiencyLabel, 95, "Excellent"},
		{"efficiency good", EfficiencyLabel, 85, "Good"},
		{"efficiency fair", EfficiencyLabel, 75, "Fair"},
		{"efficiency poor", EfficiencyLabel, 60, "Poor"},
	}
	for _, tt := range tests {
		if got := tt.fn(tt.v); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestThresholds(t *testing.T) {
	warn, crit, ok := Thresholds("temperature")
	if !ok || warn != 80 || crit != 95 {
		t.Errorf("temperature thresholds: %v %v %v", warn, crit, ok)
	}
	warn, crit, ok = Thresholds("pressure")
	if !ok || warn != 1.8 || crit != 2.2 {
		t.Errorf("pressure thresholds: %v %v %v", warn, crit, ok)
	}
	warn, crit, ok = Thresholds("vibration")
	if !ok || warn != 0.6 || crit != 1.0 {
		t.Errorf("vibration thresholds: %v %v %v", warn, crit, ok)
	}
	if _, _, ok := Thresholds("rpm"); ok {
		t.Error("rpm should have no thresholds")
	}
}

func TestSeverityRank(t *testing.T) {
	order := []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() >= order[i-1].Rank() {
			t.Errorf("rank(%s) should be below rank(%s)", order[i], order[i-1])
		}
	}
	if Severity("bogus").Rank() != 0 {
		t.Error("unknown severity should rank 0")
	}
}

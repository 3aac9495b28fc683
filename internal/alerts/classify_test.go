package alerts

import (
	"reflect"
	"testing"

	"github.com/shved/plantwatch/internal/equipment"
)

func quietReading() equipment.Reading {
	return equipment.Reading{
		Machine:     "turbine-01",
		Kind:        "turbine",
		Temperature: 70,
		Pressure:    1.0,
		Vibration:   0.1,
		Humidity:    50,
		Efficiency:  95,
		Status:      equipment.StatusRunning,
	}
}

func TestClassifyQuiet(t *testing.T) {
	readings := []equipment.Reading{
		quietReading(),
		{Machine: "a", Temperature: 80, Pressure: 1.8, Vibration: 0.6, Efficiency: 75, Humidity: 30, Status: "Operating"},
		{Machine: "b", Temperature: -40, Pressure: 0, Vibration: 0, Efficiency: 100, Humidity: 70, Status: "Whatever"},
	}
	for _, r := range readings {
		if got := Classify(r); len(got) != 0 {
			t.Errorf("Classify(%+v): got %d alerts, want 0: %+v", r, len(got), got)
		}
	}
}

func TestClassifyExtremeTemperature(t *testing.T) {
	r := quietReading()
	r.Temperature = 96

	got := Classify(r)
	if len(got) != 1 {
		t.Fatalf("got %d alerts, want 1: %+v", len(got), got)
	}
	want := Alert{
		Severity: SeverityCritical,
		Message:  "CRITICAL: Extreme Temperature",
		Value:    "96°F",
		Action:   "Immediate shutdown required",
	}
	if got[0] != want {
		t.Errorf("alert = %+v, want %+v", got[0], want)
	}
}

func TestClassifyIdle(t *testing.T) {
	r := quietReading()
	r.Status = equipment.StatusIdle

	got := Classify(r)
	if len(got) != 1 {
		t.Fatalf("got %d alerts, want 1: %+v", len(got), got)
	}
	want := Alert{
		Severity: SeverityLow,
		Message:  "System Idle",
		Value:    "Equipment not in operation",
		Action:   "Ready for operation",
	}
	if got[0] != want {
		t.Errorf("alert = %+v, want %+v", got[0], want)
	}
}

func TestClassifyEqualSeverityOrder(t *testing.T) {
	r := quietReading()
	r.Temperature = 82
	r.Pressure = 1.9
	r.Vibration = 0.0

	got := Classify(r)
	if len(got) != 2 {
		t.Fatalf("got %d alerts, want 2: %+v", len(got), got)
	}
	if got[0].Message != "Temperature Warning" || got[0].Value != "82°F" {
		t.Errorf("first alert = %+v, want Temperature Warning 82°F", got[0])
	}
	if got[1].Message != "Elevated Pressure" || got[1].Value != "1.9 bar" {
		t.Errorf("second alert = %+v, want Elevated Pressure 1.9 bar", got[1])
	}
	for _, a := range got {
		if a.Severity != SeverityMedium {
			t.Errorf("severity = %s, want medium", a.Severity)
		}
	}
}

func TestClassifyIndependence(t *testing.T) {
	r := quietReading()
	r.Temperature = 97
	r.Pressure = 2.3
	r.Vibration = 1.1

	got := Classify(r)
	if len(got) != 3 {
		t.Fatalf("got %d alerts, want 3: %+v", len(got), got)
	}
	wantMsgs := []string{
		"CRITICAL: Extreme Temperature",
		"CRITICAL: Pressure Overload",
		"CRITICAL: Severe Vibration",
	}
	for i, a := range got {
		if a.Severity != SeverityCritical {
			t.Errorf("alert %d severity = %s, want critical", i, a.Severity)
		}
		if a.Message != wantMsgs[i] {
			t.Errorf("alert %d message = %q, want %q", i, a.Message, wantMsgs[i])
		}
	}
}

func TestClassifyTemperatureMonotonic(t *testing.T) {
	steps := []struct {
		temp float64
		want Severity
	}{
		{81, SeverityMedium},
		{86, SeverityHigh},
		{96, SeverityCritical},
	}
	for _, s := range steps {
		r := quietReading()
		r.Temperature = s.temp
		got := Classify(r)
		if len(got) != 1 {
			t.Fatalf("temp %v: got %d alerts, want 1", s.temp, len(got))
		}
		if got[0].Severity != s.want {
			t.Errorf("temp %v: severity = %s, want %s", s.temp, got[0].Severity, s.want)
		}
		wantVal := fmtNum(s.temp) + "°F"
		if got[0].Value != wantVal {
			t.Errorf("temp %v: value = %q, want %q", s.temp, got[0].Value, wantVal)
		}
	}
}

func TestClassifySortedBySeverity(t *testing.T) {
	r := quietReading()
	r.Temperature = 82  // medium
	r.Pressure = 2.1    // high
	r.Vibration = 1.2   // critical
	r.Efficiency = 50   // high
	r.Humidity = 80     // medium
	r.Status = equipment.StatusIdle

	got := Classify(r)
	if len(got) != 6 {
		t.Fatalf("got %d alerts, want 6: %+v", len(got), got)
	}

	for i := 1; i < len(got); i++ {
		if got[i].Severity.Rank() > got[i-1].Severity.Rank() {
			t.Errorf("alerts out of order at %d: %s before %s", i, got[i-1].Severity, got[i].Severity)
		}
	}

	// Ties must preserve metric evaluation order.
	wantMsgs := []string{
		"CRITICAL: Severe Vibration", // critical
		"High Pressure Warning",      // high, pressure before efficiency
		"Low Efficiency Alert",       // high
		"Temperature Warning",        // medium, temperature before humidity
		"Humidity Out of Range",      // medium
		"System Idle",                // low
	}
	for i, a := range got {
		if a.Message != wantMsgs[i] {
			t.Errorf("alert %d = %q, want %q", i, a.Message, wantMsgs[i])
		}
	}
}

func TestClassifyMaintenanceKeepsMetricAlerts(t *testing.T) {
	// Humidity and efficiency rules stay unconditional during maintenance.
	r := quietReading()
	r.Status = equipment.StatusMaintenance
	r.Humidity = 20
	r.Efficiency = 70

	got := Classify(r)
	if len(got) != 3 {
		t.Fatalf("got %d alerts, want 3: %+v", len(got), got)
	}
	wantMsgs := []string{"Efficiency Warning", "Humidity Out of Range", "Maintenance Mode Active"}
	for i, a := range got {
		if a.Message != wantMsgs[i] {
			t.Errorf("alert %d = %q, want %q", i, a.Message, wantMsgs[i])
		}
		if a.Severity != SeverityMedium {
			t.Errorf("alert %d severity = %s, want medium", i, a.Severity)
		}
	}
	if got[2].Value != "System under maintenance" {
		t.Errorf("maintenance value = %q", got[2].Value)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	r := quietReading()
	r.Temperature = 88.5
	r.Vibration = 0.65

	first := Classify(r)
	second := Classify(r)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated classification differs:\n%+v\n%+v", first, second)
	}
}

func TestClassifyDoesNotCrashOnExtremes(t *testing.T) {
	r := equipment.Reading{
		Machine:     "x",
		Temperature: 1e12,
		Pressure:    -1e12,
		Vibration:   1e300,
		Humidity:    -40,
		Efficiency:  -10,
		Status:      "???",
	}
	got := Classify(r)
	if len(got) == 0 {
		t.Fatal("expected alerts for extreme values")
	}
	if got[0].Severity != SeverityCritical {
		t.Errorf("first severity = %s, want critical", got[0].Severity)
	}
}

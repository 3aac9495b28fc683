package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shved/plantwatch/internal/equipment"
)

type failingSource struct {
	fail bool
}

func (f *failingSource) Name() string { return "primary" }

func (f *failingSource) Poll(ctx context.Context) ([]equipment.Reading, error) {
	if f.fail {
		return nil, errors.New("backend unreachable")
	}
	return []equipment.Reading{{Machine: "live-01", Kind: "turbine"}}, nil
}

func TestFallbackSwitchesAndRecovers(t *testing.T) {
	primary := &failingSource{}
	backup := NewSimulator([]equipment.Machine{{ID: "sim-01", Kind: "conveyor"}}, 1)
	fb := NewFallback(primary, backup)
	ctx := context.Background()

	readings, err := fb.Poll(ctx)
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if readings[0].Machine != "live-01" {
		t.Errorf("expected primary reading, got %+v", readings[0])
	}
	if degraded, _ := fb.Degraded(); degraded {
		t.Error("should not be degraded while primary works")
	}

	primary.fail = true
	readings, err = fb.Poll(ctx)
	if err != nil {
		t.Fatalf("Poll with failing primary: %v", err)
	}
	if readings[0].Machine != "sim-01" {
		t.Errorf("expected backup reading, got %+v", readings[0])
	}
	degraded, lastErr := fb.Degraded()
	if !degraded || lastErr == nil {
		t.Errorf("degraded = %v, err = %v; want degraded with cause", degraded, lastErr)
	}
	if fb.Name() != "simulator" {
		t.Errorf("Name() = %q, want simulator while degraded", fb.Name())
	}

	primary.fail = false
	if _, err := fb.Poll(ctx); err != nil {
		t.Fatalf("Poll after recovery: %v", err)
	}
	if degraded, _ := fb.Degraded(); degraded {
		t.Error("should have recovered")
	}
}

func TestHTTPSourcePoll(t *testing.T) {
	want := []equipment.Reading{
		{Machine: "turbine-01", Kind: "turbine", Temperature: 88.5, Pressure: 1.6, Vibration: 0.4, RPM: 3600, PowerKW: 440, Humidity: 40, Efficiency: 91, Status: "Running"},
		{Machine: "press-01", Kind: "hydraulic_press", Temperature: 76, Pressure: 1.7, Vibration: 0.35, PowerKW: 28, Humidity: 45, Efficiency: 87, Status: "Running"},
	}

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/telemetry" {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, "secret-token")
	readings, err := src.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}

	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if len(readings) != 2 {
		t.Fatalf("got %d readings, want 2", len(readings))
	}
	if readings[0].Machine != "turbine-01" || readings[0].Temperature != 88.5 {
		t.Errorf("first reading: %+v", readings[0])
	}
	if readings[1].Time.IsZero() {
		t.Error("zero timestamps should be filled in")
	}
}

func TestHTTPSourceRejectsMalformed(t *testing.T) {
	// Missing machine id must be rejected at the boundary.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]equipment.Reading{{Kind: "turbine", Temperature: 88}})
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, "")
	if _, err := src.Poll(context.Background()); err == nil {
		t.Error("expected validation error for record without machine id")
	}
}

func TestHTTPSourceRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, "")
	if _, err := src.Poll(context.Background()); err == nil {
		t.Error("expected error for non-200 response")
	}
}

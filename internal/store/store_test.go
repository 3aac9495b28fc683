package store

import (
	"testing"
	"time"

	"github.com/shved/plantwatch/internal/equipment"
)

func TestDiskStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()

	ds, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer ds.Close()

	now := time.Date(2026, 8, 21, 14, 30, 0, 0, time.Local)
	readings := []equipment.Reading{
		{
			Machine: "press-01", Kind: "hydraulic_press", Status: "Running",
			Temperature: 78.5, Pressure: 1.45, Vibration: 0.32,
			RPM: 0, PowerKW: 22.1, Humidity: 48, Efficiency: 91,
		},
		{
			Machine: "turbine-02", Kind: "turbine", Status: "Warning",
			Temperature: 88.2, Pressure: 2.05, Vibration: 0.71,
			RPM: 3400, PowerKW: 310.4, Humidity: 44, Efficiency: 84,
		},
	}

	if err := ds.Write(readings, now); err != nil {
		t.Fatalf("Write: %v", err)
	}
	ds.Close()

	loaded, err := LoadDay(dir, "2026-08-21")
	if err != nil {
		t.Fatalf("LoadDay: %v", err)
	}

	if len(loaded) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(loaded))
	}

	if loaded[0].Machine != "press-01" || loaded[0].Temperature != 78.5 {
		t.Errorf("first reading: got %+v", loaded[0])
	}
	if loaded[1].Machine != "turbine-02" || loaded[1].RPM != 3400 {
		t.Errorf("second reading: got %+v", loaded[1])
	}
	if loaded[1].Status != "Warning" {
		t.Errorf("status: got %q, want Warning", loaded[1].Status)
	}
	if !loaded[0].Time.Equal(now) {
		t.Errorf("time: got %v, want %v", loaded[0].Time, now)
	}
}

func TestListDays(t *testing.T) {
	dir := t.TempDir()

	ds, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer ds.Close()

	r := []equipment.Reading{{Machine: "cnc-01", Kind: "cnc_machine", Status: "Running"}}
	if err := ds.Write(r, time.Date(2026, 8, 20, 9, 0, 0, 0, time.Local)); err != nil {
		t.Fatalf("Write day 1: %v", err)
	}
	if err := ds.Write(r, time.Date(2026, 8, 21, 9, 0, 0, 0, time.Local)); err != nil {
		t.Fatalf("Write day 2: %v", err)
	}
	ds.Close()

	days, err := ListDays(dir)
	if err != nil {
		t.Fatalf("ListDays: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("got %d days, want 2", len(days))
	}
	if days[0] != "2026-08-21" || days[1] != "2026-08-20" {
		t.Errorf("days order: got %v, want newest first", days)
	}
}

package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shved/plantwatch/internal/equipment"
	"github.com/shved/plantwatch/internal/store"
)

func writeDay(t *testing.T, dir string) string {
	t.Helper()
	ds, err := store.New(dir)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	defer ds.Close()

	base := time.Date(2026, 8, 21, 10, 0, 0, 0, time.UTC)
	quiet := equipment.Reading{
		Machine: "press-01", Kind: "hydraulic_press", Status: equipment.StatusRunning,
		Temperature: 75, Pressure: 1.5, Vibration: 0.3,
		RPM: 1200, PowerKW: 50, Humidity: 45, Efficiency: 85,
	}
	hot := quiet
	hot.Temperature = 96

	if err := ds.Write([]equipment.Reading{quiet}, base); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ds.Write([]equipment.Reading{hot}, base.Add(time.Second)); err != nil {
		t.Fatalf("write: %v", err)
	}
	return "2026-08-21"
}

func TestBuildDay(t *testing.T) {
	dir := t.TempDir()
	day := writeDay(t, dir)

	rep, err := BuildDay(dir, day)
	if err != nil {
		t.Fatalf("BuildDay: %v", err)
	}

	if rep.Readings != 2 {
		t.Errorf("readings = %d, want 2", rep.Readings)
	}
	if len(rep.Machines) != 1 {
		t.Fatalf("machines = %d, want 1", len(rep.Machines))
	}

	m := rep.Machines[0]
	if m.Machine != "press-01" || m.Kind != "hydraulic_press" {
		t.Errorf("machine = %s/%s", m.Machine, m.Kind)
	}
	if m.Alerts.Critical != 1 {
		t.Errorf("critical alerts = %d, want 1", m.Alerts.Critical)
	}
	if got := rep.Alerts.Total(); got != 1 {
		t.Errorf("total alerts = %d, want 1", got)
	}

	var temp *MetricStat
	for i := range m.Stats {
		if m.Stats[i].Metric == "Temperature" {
			temp = &m.Stats[i]
		}
	}
	if temp == nil {
		t.Fatal("temperature stat missing")
	}
	if temp.Min != 75 || temp.Peak != 96 {
		t.Errorf("temp min/peak = %v/%v, want 75/96", temp.Min, temp.Peak)
	}
	if temp.Avg != 85.5 {
		t.Errorf("temp avg = %v, want 85.5", temp.Avg)
	}
}

func TestBuildDayEmpty(t *testing.T) {
	if _, err := BuildDay(t.TempDir(), "2026-01-01"); err == nil {
		t.Error("expected error for missing day")
	}
}

func TestRenderFormats(t *testing.T) {
	dir := t.TempDir()
	day := writeDay(t, dir)
	rep, err := BuildDay(dir, day)
	if err != nil {
		t.Fatalf("BuildDay: %v", err)
	}

	pdfBytes, err := BuildPDF(rep)
	if err != nil {
		t.Fatalf("BuildPDF: %v", err)
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		t.Error("pdf output missing header")
	}

	xlsxBytes, err := BuildXLSX(rep)
	if err != nil {
		t.Fatalf("BuildXLSX: %v", err)
	}
	// XLSX files are zip archives.
	if !bytes.HasPrefix(xlsxBytes, []byte("PK")) {
		t.Error("xlsx output missing zip header")
	}
}

package chart

import (
	"strings"
	"testing"
	"time"

	"github.com/shved/plantwatch/internal/history"
)

func TestSparkline(t *testing.T) {
	values := []float64{1.0, 1.2, 1.4, 1.6, 1.8, 2.0, 2.1, 2.3}
	result := RenderSparkline(values, 20, 0.5, 2.5, 1.8, 2.2, true, true)
	if len(result) == 0 {
		t.Error("sparkline should not be empty")
	}
	t.Logf("Sparkline: %s", result)
}

func TestSparklineMinuteTicks(t *testing.T) {
	base := time.Date(2026, 8, 21, 14, 0, 50, 0, time.Local)
	var pts []history.Point
	for i := 0; i < 20; i++ {
		pts = append(pts, history.Point{
			Value: float64(70 + i%5),
			Time:  base.Add(time.Duration(i) * time.Second),
		})
	}

	result := RenderSparklinePoints(pts, 20, 60, 100, 80, 95, true, true)
	if len(result) == 0 {
		t.Error("sparkline should not be empty")
	}
	if !strings.Contains(result, "│") {
		t.Error("expected minute tick mark in sparkline")
	}
	t.Logf("Sparkline with ticks: %s", result)
}

func TestThresholdScale(t *testing.T) {
	result := RenderThresholdScale(85, 60, 100, 80, 95, true, true, 20)
	if !strings.Contains(result, "◆") {
		t.Error("expected current value marker on scale")
	}
	if !strings.Contains(result, "▪") {
		t.Error("expected threshold markers on scale")
	}
	t.Logf("Scale: %s", result)
}

func TestValueColorRamp(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{60, "78"},  // green, below 85% of warn
		{79, "220"}, // yellow, within 85% of warn
		{82, "208"}, // orange, above warn
		{96, "196"}, // red, above crit
	}
	for _, tt := range tests {
		got := ValueColor(tt.v, 80, 95, true, true)
		if string(got) != tt.want {
			t.Errorf("ValueColor(%v) = %s, want %s", tt.v, got, tt.want)
		}
	}

	// Without thresholds everything stays green.
	if got := ValueColor(10000, 0, 0, false, false); string(got) != "78" {
		t.Errorf("ValueColor without thresholds = %s, want 78", got)
	}
}

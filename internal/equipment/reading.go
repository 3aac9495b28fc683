// Package equipment defines the telemetry data model for monitored
// industrial machines: readings, machine descriptors, and the
// kind-to-friendly-name mapping used by the dashboards.
package equipment

import (
	"fmt"
	"math"
	"time"
)

// Machine describes one monitored machine in the fleet.
type Machine struct {
	ID   string `json:"id" mapstructure:"id"`     // e.g. "press-01"
	Kind string `json:"kind" mapstructure:"kind"` // e.g. "hydraulic_press"
}

// Reading is one telemetry snapshot for one machine.
type Reading struct {
	Machine     string    `json:"machine"`
	Kind        string    `json:"kind"`
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"` // °F
	Pressure    float64   `json:"pressure"`    // bar
	Vibration   float64   `json:"vibration"`   // mm/s
	RPM         float64   `json:"rpm"`
	PowerKW     float64   `json:"power_kw"`
	Humidity    float64   `json:"humidity"`   // %
	Efficiency  float64   `json:"efficiency"` // %
	Status      string    `json:"status"`
}

// Key returns a unique identifier for this machine.
func (r Reading) Key() string {
	return r.Machine
}

// SeriesKey returns the identifier for one metric series of this machine.
func (r Reading) SeriesKey(metric string) string {
	return r.Machine + "/" + metric
}

// Well-known status values. The status set is open: anything else is
// carried through as opaque text.
const (
	StatusRunning     = "Running"
	StatusOperating   = "Operating"
	StatusWarning     = "Warning"
	StatusCritical    = "Critical"
	StatusIdle        = "Idle"
	StatusMaintenance = "Maintenance"
)

// Metric describes one numeric field of a Reading for display purposes.
type Metric struct {
	Name  string // field key, e.g. "temperature"
	Label string // display label
	Unit  string // display unit
}

// Metrics lists the numeric reading fields in dashboard display order.
// The first entries match the alert evaluation order.
var Metrics = []Metric{
	{"temperature", "Temperature", "°F"},
	{"pressure", "Pressure", "bar"},
	{"vibration", "Vibration", "mm/s"},
	{"efficiency", "Efficiency", "%"},
	{"humidity", "Humidity", "%"},
	{"rpm", "RPM", "rpm"},
	{"power", "Power", "kW"},
}

// Value returns the reading's value for a metric name, or 0 for an
// unknown name.
func (r Reading) Value(metric string) float64 {
	switch metric {
	case "temperature":
		return r.Temperature
	case "pressure":
		return r.Pressure
	case "vibration":
		return r.Vibration
	case "efficiency":
		return r.Efficiency
	case "humidity":
		return r.Humidity
	case "rpm":
		return r.RPM
	case "power":
		return r.PowerKW
	}
	return 0
}

// Validate rejects malformed readings at the telemetry boundary: the
// machine id must be set and every numeric field must be finite.
// Out-of-physical-range finite values are legal and pass through.
func (r Reading) Validate() error {
	if r.Machine == "" {
		return fmt.Errorf("reading: empty machine id")
	}
	fields := []struct {
		name  string
		value float64
	}{
		{"temperature", r.Temperature},
		{"pressure", r.Pressure},
		{"vibration", r.Vibration},
		{"rpm", r.RPM},
		{"power_kw", r.PowerKW},
		{"humidity", r.Humidity},
		{"efficiency", r.Efficiency},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("reading %s: %s is not finite", r.Machine, f.name)
		}
	}
	return nil
}

package alerts

import (
	"sort"
	"strconv"

	"github.com/shved/plantwatch/internal/equipment"
)

// Classify evaluates a reading against every metric ladder and returns
// the triggered alerts sorted by descending severity. Metrics are
// evaluated independently, in the fixed order temperature, pressure,
// vibration, efficiency, humidity, status; the sort is stable, so
// alerts of equal severity keep that order. A quiet reading yields an
// empty (nil) result.
func Classify(r equipment.Reading) []Alert {
	var out []Alert

	if b, ok := matchBands(temperatureBands, r.Temperature); ok {
		out = append(out, mkAlert(b, fmtNum(r.Temperature)+"°F"))
	}
	if b, ok := matchBands(pressureBands, r.Pressure); ok {
		out = append(out, mkAlert(b, fmtNum(r.Pressure)+" bar"))
	}
	if b, ok := matchBands(vibrationBands, r.Vibration); ok {
		out = append(out, mkAlert(b, fmtNum(r.Vibration)+" mm/s"))
	}
	if b, ok := matchBands(efficiencyBands, r.Efficiency); ok {
		out = append(out, mkAlert(b, fmtNum(r.Efficiency)+"%"))
	}
	if b, ok := matchBands(humidityBands, r.Humidity); ok {
		out = append(out, mkAlert(b, fmtNum(r.Humidity)+"%"))
	}

	switch r.Status {
	case equipment.StatusMaintenance:
		out = append(out, Alert{
			Severity: SeverityMedium,
			Message:  "Maintenance Mode Active",
			Value:    "System under maintenance",
			Action:   "Complete maintenance procedures",
		})
	case equipment.StatusIdle:
		out = append(out, Alert{
			Severity: SeverityLow,
			Message:  "System Idle",
			Value:    "Equipment not in operation",
			Action:   "Ready for operation",
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.Rank() > out[j].Severity.Rank()
	})
	return out
}

func mkAlert(b band, value string) Alert {
	return Alert{
		Severity: b.severity,
		Message:  b.message,
		Value:    value,
		Action:   b.action,
	}
}

// fmtNum renders a measurement in its shortest decimal form, so 96.0
// prints as "96" and 1.9 as "1.9".
func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

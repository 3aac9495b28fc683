// Package alerts classifies telemetry readings into severity-ranked
// alerts using fixed per-metric threshold ladders. Classification is a
// pure function: it reads nothing but its input and allocates only its
// output, so it is safe to call from any number of goroutines.
package alerts

// Severity is the alert severity level.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank returns the sort rank of a severity: critical > high > medium > low.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// Alert is one classified notification derived from a reading.
type Alert struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Value    string   `json:"value"`  // formatted triggering measurement
	Action   string   `json:"action"` // recommended response
}

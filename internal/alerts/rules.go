package alerts

// band is one row of a threshold ladder: a predicate plus the alert it
// produces. Ladders are evaluated top-down, first match wins, so each
// metric yields at most one alert.
type band struct {
	match    func(float64) bool
	severity Severity
	message  string
	action   string
}

func above(limit float64) func(float64) bool {
	return func(v float64) bool { return v > limit }
}

func below(limit float64) func(float64) bool {
	return func(v float64) bool { return v < limit }
}

func outside(lo, hi float64) func(float64) bool {
	return func(v float64) bool { return v > hi || v < lo }
}

var temperatureBands = []band{
	{above(95), SeverityCritical, "CRITICAL: Extreme Temperature", "Immediate shutdown required"},
	{above(85), SeverityHigh, "High Temperature Alert", "Check cooling system"},
	{above(80), SeverityMedium, "Temperature Warning", "Monitor closely"},
}

var pressureBands = []band{
	{above(2.2), SeverityCritical, "CRITICAL: Pressure Overload", "Emergency relief needed"},
	{above(2.0), SeverityHigh, "High Pressure Warning", "Reduce system load"},
	{above(1.8), SeverityMedium, "Elevated Pressure", "Schedule inspection"},
}

var vibrationBands = []band{
	{above(1.0), SeverityCritical, "CRITICAL: Severe Vibration", "Stop operation immediately"},
	{above(0.8), SeverityHigh, "High Vibration Alert", "Check bearings and alignment"},
	{above(0.6), SeverityMedium, "Elevated Vibration", "Monitor vibration trends"},
}

var efficiencyBands = []band{
	{below(60), SeverityHigh, "Low Efficiency Alert", "Performance optimization needed"},
	{below(75), SeverityMedium, "Efficiency Warning", "Review operating parameters"},
}

var humidityBands = []band{
	{outside(30, 70), SeverityMedium, "Humidity Out of Range", "Check environmental controls"},
}

// matchBands walks a ladder and returns the first matching band.
func matchBands(bands []band, v float64) (band, bool) {
	for _, b := range bands {
		if b.match(v) {
			return b, true
		}
	}
	return band{}, false
}

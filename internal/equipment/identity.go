package equipment

import "strings"

// kindIdentityMap maps machine kind prefixes to friendly display names.
var kindIdentityMap = []struct {
	prefix string
	name   string
}{
	{"robotic", "Robotic Arm"},
	{"robot", "Robotic Arm"},
	{"cnc", "CNC Machine"},
	{"turbine", "Turbine"},
	{"conveyor", "Conveyor"},
	{"press", "Hydraulic Press"},
	{"hydraulic", "Hydraulic Press"},
	{"reactor", "Reactor"},
	{"compressor", "Compressor"},
	{"pump", "Pump"},
	{"furnace", "Furnace"},
	{"lathe", "Lathe"},
}

// FriendlyName returns a human-readable name for a machine kind.
func FriendlyName(kind string) string {
	lower := strings.ToLower(kind)
	for _, entry := range kindIdentityMap {
		if strings.HasPrefix(lower, entry.prefix) {
			return entry.name
		}
	}
	return "Equipment"
}

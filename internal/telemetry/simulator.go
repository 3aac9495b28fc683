package telemetry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/shved/plantwatch/internal/equipment"
)

// Fault identifies an injectable failure scenario.
type Fault string

const (
	FaultOverheat     Fault = "overheat"
	FaultOverpressure Fault = "overpressure"
	FaultVibration    Fault = "vibration"
	FaultStall        Fault = "stall"
)

// Faults lists the known scenarios with a short description each.
var Faults = []struct {
	Name Fault
	Desc string
}{
	{FaultOverheat, "Push temperature past the critical threshold"},
	{FaultOverpressure, "Push pressure past the critical threshold"},
	{FaultVibration, "Push vibration past the critical threshold"},
	{FaultStall, "Drop to idle with near-zero RPM and poor efficiency"},
}

// ValidFault reports whether name is a known fault scenario.
func ValidFault(name string) bool {
	for _, f := range Faults {
		if string(f.Name) == name {
			return true
		}
	}
	return false
}

// profile holds the nominal operating point of a machine kind. The
// simulator random-walks around it with mean reversion.
type profile struct {
	temp, pressure, vibration, rpm, power, humidity, efficiency float64
	tempJit, pressureJit, vibrationJit, rpmJit, powerJit        float64
}

var profiles = map[string]profile{
	"robotic_arm":     {74, 1.20, 0.25, 30, 5.5, 45, 92, 1.2, 0.04, 0.05, 2, 0.4},
	"cnc_machine":     {78, 1.10, 0.35, 8000, 15, 42, 88, 1.5, 0.04, 0.06, 180, 1.2},
	"turbine":         {88, 1.60, 0.45, 3600, 450, 40, 90, 1.8, 0.06, 0.07, 30, 12},
	"conveyor":        {70, 0.90, 0.30, 120, 7, 50, 93, 1.0, 0.03, 0.05, 4, 0.5},
	"hydraulic_press": {76, 1.70, 0.40, 60, 30, 46, 86, 1.4, 0.09, 0.06, 3, 1.5},
	"reactor":         {82, 1.75, 0.20, 90, 120, 38, 89, 1.6, 0.07, 0.04, 3, 4},
}

var defaultProfile = profile{72, 1.0, 0.3, 100, 10, 50, 90, 1.2, 0.04, 0.05, 4, 0.8}

type simMachine struct {
	desc       equipment.Machine
	prof       profile
	cur        equipment.Reading
	fault      Fault
	faultLeft  int
	statusLeft int // polls remaining in a non-running status
}

// Simulator generates plausible fleet telemetry without a backend. Each
// poll advances a mean-reverting random walk per machine, rotates
// statuses occasionally, and applies any injected fault scenario.
type Simulator struct {
	mu       sync.Mutex
	rng      *rand.Rand
	machines []*simMachine
}

// NewSimulator creates a simulator for the given fleet. seed fixes the
// random walk for reproducible runs; pass time-dependent values for
// variety.
func NewSimulator(fleet []equipment.Machine, seed int64) *Simulator {
	s := &Simulator{rng: rand.New(rand.NewSource(seed))}
	for _, m := range fleet {
		prof, ok := profiles[m.Kind]
		if !ok {
			prof = defaultProfile
		}
		s.machines = append(s.machines, &simMachine{
			desc: m,
			prof: prof,
			cur: equipment.Reading{
				Machine:     m.ID,
				Kind:        m.Kind,
				Temperature: prof.temp,
				Pressure:    prof.pressure,
				Vibration:   prof.vibration,
				RPM:         prof.rpm,
				PowerKW:     prof.power,
				Humidity:    prof.humidity,
				Efficiency:  prof.efficiency,
				Status:      equipment.StatusRunning,
			},
		})
	}
	return s
}

// Name implements Source.
func (s *Simulator) Name() string {
	return "simulator"
}

// Poll advances every machine one step and returns the fleet snapshot.
func (s *Simulator) Poll(ctx context.Context) ([]equipment.Reading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	out := make([]equipment.Reading, 0, len(s.machines))
	for _, m := range s.machines {
		s.step(m, now)
		out = append(out, m.cur)
	}
	return out, nil
}

// step advances one machine: random walk, status rotation, then fault
// overrides.
func (s *Simulator) step(m *simMachine, now time.Time) {
	r := &m.cur
	p := m.prof

	walk := func(cur, base, jitter float64) float64 {
		return cur + (base-cur)*0.2 + s.rng.NormFloat64()*jitter
	}

	r.Temperature = walk(r.Temperature, p.temp, p.tempJit)
	r.Pressure = math.Max(0, walk(r.Pressure, p.pressure, p.pressureJit))
	r.Vibration = math.Max(0, walk(r.Vibration, p.vibration, p.vibrationJit))
	r.RPM = math.Max(0, walk(r.RPM, p.rpm, p.rpmJit))
	r.PowerKW = math.Max(0, walk(r.PowerKW, p.power, p.powerJit))
	r.Humidity = clamp(walk(r.Humidity, p.humidity, 0.8), 0, 100)
	r.Efficiency = clamp(walk(r.Efficiency, p.efficiency, 0.6), 0, 100)
	r.Time = now

	// Occasional excursions into maintenance or idle, held a few polls.
	if m.statusLeft > 0 {
		m.statusLeft--
		if m.statusLeft == 0 {
			r.Status = equipment.StatusRunning
		}
	} else {
		switch roll := s.rng.Float64(); {
		case roll < 0.01:
			r.Status = equipment.StatusMaintenance
			m.statusLeft = 6
		case roll < 0.03:
			r.Status = equipment.StatusIdle
			m.statusLeft = 4
		default:
			r.Status = equipment.StatusRunning
		}
	}

	if m.faultLeft > 0 {
		s.applyFault(m)
		m.faultLeft--
		if m.faultLeft == 0 {
			m.fault = ""
		}
	}
}

func (s *Simulator) applyFault(m *simMachine) {
	r := &m.cur
	switch m.fault {
	case FaultOverheat:
		r.Temperature = 96 + math.Abs(s.rng.NormFloat64())*2
	case FaultOverpressure:
		r.Pressure = 2.25 + math.Abs(s.rng.NormFloat64())*0.1
	case FaultVibration:
		r.Vibration = 1.05 + math.Abs(s.rng.NormFloat64())*0.15
	case FaultStall:
		r.Status = equipment.StatusIdle
		r.RPM = m.prof.rpm * 0.02
		r.Efficiency = clamp(55-math.Abs(s.rng.NormFloat64())*3, 0, 100)
	}
}

// InjectFault arms a fault scenario on one machine for the next polls
// polls. The fleet recovers on its own once the window elapses.
func (s *Simulator) InjectFault(machine string, fault Fault, polls int) error {
	if !ValidFault(string(fault)) {
		return fmt.Errorf("unknown fault %q", fault)
	}
	if polls <= 0 {
		polls = 10
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.machines {
		if m.desc.ID == machine {
			m.fault = fault
			m.faultLeft = polls
			return nil
		}
	}
	return fmt.Errorf("unknown machine %q", machine)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

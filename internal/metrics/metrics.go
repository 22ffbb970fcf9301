// Package metrics computes summary quantities over a recorded run. A
// Metric observes every sample in order and reduces them to one value.
package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigidsim/internal/phys"
	"github.com/san-kum/rigidsim/internal/storage"
)

type Metric interface {
	Name() string
	Observe(s storage.Sample)
	Value() float64
	Reset()
}

// Collector fans samples out to a set of metrics.
type Collector struct {
	metrics []Metric
}

func NewCollector(ms ...Metric) *Collector {
	return &Collector{metrics: ms}
}

func (c *Collector) Observe(s storage.Sample) {
	for _, m := range c.metrics {
		m.Observe(s)
	}
}

func (c *Collector) Values() map[string]float64 {
	vals := make(map[string]float64, len(c.metrics))
	for _, m := range c.metrics {
		vals[m.Name()] = m.Value()
	}
	return vals
}

func (c *Collector) Reset() {
	for _, m := range c.metrics {
		m.Reset()
	}
}

// Energy tracks the mean total mechanical energy of the body: linear
// and angular kinetic energy plus gravitational potential.
type Energy struct {
	name    string
	mp      phys.MassProperties
	gravity mgl64.Vec3
	total   float64
	samples int
}

func NewEnergy(mp phys.MassProperties, gravity mgl64.Vec3) *Energy {
	return &Energy{name: "mean_energy", mp: mp, gravity: gravity}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s storage.Sample) {
	keLin := 0.5 * e.mp.Mass * s.LinearVel.Dot(s.LinearVel)

	r := s.Orientation.Mat4().Mat3()
	inertiaWorld := r.Mul3(e.mp.Inertia).Mul3(r.Transpose())
	keAng := 0.5 * s.AngularVel.Dot(inertiaWorld.Mul3x1(s.AngularVel))

	pe := -e.mp.Mass * e.gravity.Dot(s.Position)

	e.total += keLin + keAng + pe
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// SettleTime reports the first time after which the body's speeds stay
// below the given thresholds until the end of the run, or -1 if they
// never do.
type SettleTime struct {
	name         string
	linThreshold float64
	angThreshold float64
	settledAt    float64
}

func NewSettleTime(linThreshold, angThreshold float64) *SettleTime {
	return &SettleTime{
		name:         "settle_time",
		linThreshold: linThreshold,
		angThreshold: angThreshold,
		settledAt:    -1,
	}
}

func (st *SettleTime) Name() string { return st.name }

func (st *SettleTime) Observe(s storage.Sample) {
	slow := s.LinearVel.Len() < st.linThreshold && s.AngularVel.Len() < st.angThreshold
	switch {
	case !slow:
		st.settledAt = -1
	case st.settledAt < 0:
		st.settledAt = s.Time
	}
}

func (st *SettleTime) Value() float64 { return st.settledAt }

func (st *SettleTime) Reset() { st.settledAt = -1 }

// MinHeight tracks the lowest center height reached during the run.
type MinHeight struct {
	min     float64
	samples int
}

func NewMinHeight() *MinHeight { return &MinHeight{min: math.Inf(1)} }

func (m *MinHeight) Name() string { return "min_height" }

func (m *MinHeight) Observe(s storage.Sample) {
	if s.Position.Y() < m.min {
		m.min = s.Position.Y()
	}
	m.samples++
}

func (m *MinHeight) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.min
}

func (m *MinHeight) Reset() {
	m.min = math.Inf(1)
	m.samples = 0
}

// FinalHeight is the center height at the last observed sample.
type FinalHeight struct {
	last float64
}

func NewFinalHeight() *FinalHeight { return &FinalHeight{} }

func (f *FinalHeight) Name() string { return "final_height" }

func (f *FinalHeight) Observe(s storage.Sample) { f.last = s.Position.Y() }

func (f *FinalHeight) Value() float64 { return f.last }

func (f *FinalHeight) Reset() { f.last = 0 }

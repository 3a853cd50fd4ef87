// Package effort closes the loop between admission-queue pressure and the
// effort advertised to new clients.
//
// The control law is multiplicative in both directions. Solve cost is
// roughly proportional (or exponential) in effort, so multiplicative steps
// give clients evenly spaced solve-time steps where additive ones would not.
package effort

import (
	"errors"
	"math"
)

type Mode uint8

const (
	Idle Mode = iota
	Escalating
	Saturated
	Decaying
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Escalating:
		return "escalating"
	case Saturated:
		return "saturated"
	case Decaying:
		return "decaying"
	default:
		return "unknown"
	}
}

// Metrics is what the controller observes over one control interval.
type Metrics struct {
	Accepted          uint64
	RejectedQueueFull uint64
	QueueDepth        int
	TargetDepth       int
}

func (m Metrics) overloaded() bool {
	return m.QueueDepth > m.TargetDepth || m.RejectedQueueFull > 0
}

// draining reports a backlog that is shrinking with nothing shed, so the
// current effort is already enough.
func (m Metrics) draining(prev Metrics) bool {
	return m.RejectedQueueFull == 0 && m.QueueDepth < prev.QueueDepth
}

// Policy holds the tunables. Defaults are documented in DefaultPolicy.
type Policy struct {
	// Floor is the first non-zero effort used when leaving Idle.
	Floor uint32
	Max   uint32
	// Growth (> 1) and Shrink (in (0,1)) are applied once per interval.
	Growth float64
	Shrink float64
	// MinDwell is the number of intervals a mode must be held before the
	// controller may leave it.
	MinDwell int
	// IdleAfter is the number of consecutive calm intervals at zero effort
	// before the controller reports Idle.
	IdleAfter int
}

func DefaultPolicy() Policy {
	return Policy{
		Floor:     64,
		Max:       1 << 24,
		Growth:    2.0,
		Shrink:    0.5,
		MinDwell:  2,
		IdleAfter: 3,
	}
}

func (p Policy) Validate() error {
	var errs []error
	if p.Floor == 0 {
		errs = append(errs, errors.New("effort: floor must be positive"))
	}
	if p.Max < p.Floor {
		errs = append(errs, errors.New("effort: max must be >= floor"))
	}
	if !(p.Growth > 1) || math.IsInf(p.Growth, 0) {
		errs = append(errs, errors.New("effort: growth must be > 1"))
	}
	if !(p.Shrink > 0 && p.Shrink < 1) {
		errs = append(errs, errors.New("effort: shrink must be in (0,1)"))
	}
	if p.MinDwell < 1 {
		errs = append(errs, errors.New("effort: dwell must be at least one interval"))
	}
	if p.IdleAfter < 1 {
		errs = append(errs, errors.New("effort: idle-after must be at least one interval"))
	}
	return errors.Join(errs...)
}

// State is owned by the controller and published as an immutable snapshot.
type State struct {
	Effort uint32
	Mode   Mode
	// Dwell counts intervals spent in Mode, including the current one.
	Dwell int
	// Calm counts consecutive intervals without overload.
	Calm     int
	Interval uint64
	Last     Metrics
}

// InitialState starts Idle with its dwell already satisfied, so the first
// overloaded interval escalates immediately.
func InitialState(p Policy) State {
	return State{Mode: Idle, Dwell: p.MinDwell, Calm: p.IdleAfter}
}

// Step computes the next state from one interval of metrics. It is pure:
// no clocks, no locks, no I/O.
func Step(p Policy, m Metrics, prev State) State {
	next := prev
	next.Interval++
	next.Last = m

	over := m.overloaded()
	if over {
		next.Calm = 0
	} else {
		next.Calm++
	}
	canLeave := prev.Dwell >= p.MinDwell
	// Effort acts on the queue with a lag of a few intervals. Holding while
	// the queue already moves the right way keeps the loop from overshooting
	// into a limit cycle.
	draining := m.draining(prev.Last)
	rising := m.QueueDepth > prev.Last.QueueDepth

	switch prev.Mode {
	case Idle:
		if over && canLeave {
			next.Mode, next.Effort = Escalating, p.Floor
			if next.Effort >= p.Max {
				next.Mode, next.Effort = Saturated, p.Max
			}
		}
	case Escalating:
		switch {
		case over && draining:
		case over:
			next.Effort = grow(p, prev.Effort)
			if next.Effort >= p.Max {
				next.Mode = Saturated
			}
		case canLeave && !rising:
			next.Mode, next.Effort = Decaying, shrink(p, prev.Effort)
		}
	case Saturated:
		next.Effort = p.Max
		if !over && canLeave {
			next.Mode, next.Effort = Decaying, shrink(p, p.Max)
		}
	case Decaying:
		switch {
		case over && draining:
		case over && canLeave:
			if prev.Effort == 0 {
				next.Mode, next.Effort = Escalating, p.Floor
			} else {
				next.Mode, next.Effort = Escalating, grow(p, prev.Effort)
			}
			if next.Effort >= p.Max {
				next.Mode, next.Effort = Saturated, p.Max
			}
		case over:
			// hold until the dwell allows turning around
		case prev.Effort > 0 && rising:
		case prev.Effort > 0:
			next.Effort = shrink(p, prev.Effort)
		case next.Calm >= p.IdleAfter && canLeave:
			next.Mode = Idle
		}
	}

	if next.Mode != prev.Mode {
		next.Dwell = 1
	} else {
		next.Dwell = prev.Dwell + 1
	}
	return next
}

// grow multiplies and clamps, always moving up by at least one.
func grow(p Policy, e uint32) uint32 {
	if e < p.Floor {
		e = p.Floor
	}
	g := math.Ceil(float64(e) * p.Growth)
	if g <= float64(e) {
		g = float64(e) + 1
	}
	if g >= float64(p.Max) {
		return p.Max
	}
	return uint32(g)
}

// shrink multiplies and always moves down by at least one. Anything that
// would fall below the floor drops straight to zero.
func shrink(p Policy, e uint32) uint32 {
	s := math.Floor(float64(e) * p.Shrink)
	if s >= float64(e) {
		s = float64(e) - 1
	}
	if s < float64(p.Floor) {
		return 0
	}
	return uint32(s)
}

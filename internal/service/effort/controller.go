package effort

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
)

type Option func(*Controller)

func WithClock(c clock.Clock) Option { return func(ctl *Controller) { ctl.clock = c } }

// WithOnChange registers a hook run after every interval whose effort or
// mode differs from the previous one.
func WithOnChange(f func(State)) Option { return func(ctl *Controller) { ctl.onChange = f } }

// WithOnTick registers a hook run after every interval.
func WithOnTick(f func(State)) Option { return func(ctl *Controller) { ctl.onTick = f } }

// Controller runs Step once per interval and publishes the result. It is the
// only writer of the state; readers load the snapshot without locking.
type Controller struct {
	log      *slog.Logger
	policy   Policy
	interval time.Duration
	target   int
	sampler  Sampler
	clock    clock.Clock
	onChange func(State)
	onTick   func(State)

	tickMu sync.Mutex
	state  atomic.Pointer[State]
}

func NewController(log *slog.Logger, p Policy, interval time.Duration, targetDepth int, s Sampler, opts ...Option) (*Controller, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if interval <= 0 {
		return nil, errors.New("effort: control interval must be positive")
	}
	if targetDepth < 0 {
		return nil, errors.New("effort: target depth must not be negative")
	}
	c := &Controller{
		log:      log,
		policy:   p,
		interval: interval,
		target:   targetDepth,
		sampler:  s,
		clock:    clock.New(),
	}
	for _, o := range opts {
		o(c)
	}
	st := InitialState(p)
	c.state.Store(&st)
	return c, nil
}

// Effort is the value currently advertised to new clients.
func (c *Controller) Effort() uint32 { return c.state.Load().Effort }

func (c *Controller) State() State { return *c.state.Load() }

// Tick runs one control interval.
func (c *Controller) Tick() State {
	c.tickMu.Lock()
	defer c.tickMu.Unlock()

	m := c.sampler.Sample()
	m.TargetDepth = c.target
	prev := c.state.Load()
	next := Step(c.policy, m, *prev)
	c.state.Store(&next)

	if next.Mode != prev.Mode {
		c.log.Info("effort mode changed",
			"from", prev.Mode.String(),
			"to", next.Mode.String(),
			"effort", next.Effort,
			"queue_depth", m.QueueDepth,
			"target_depth", m.TargetDepth,
		)
	} else if next.Effort != prev.Effort {
		c.log.Debug("effort adjusted", "mode", next.Mode.String(), "effort", next.Effort, "queue_depth", m.QueueDepth)
	}
	if c.onTick != nil {
		c.onTick(next)
	}
	if c.onChange != nil && (next.Mode != prev.Mode || next.Effort != prev.Effort) {
		c.onChange(next)
	}
	return next
}

func (c *Controller) Run(ctx context.Context) error {
	c.log.Info("effort controller started",
		"interval", c.interval.String(),
		"target_depth", c.target,
		"max_effort", c.policy.Max,
	)
	t := c.clock.Ticker(c.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			c.Tick()
		}
	}
}

// Package seed owns the rotating seeds that key every puzzle.
//
// At any instant there is one current seed and at most one previous seed.
// The previous seed stays acceptable for a grace window after rotation
// because clients read parameters from a descriptor that can lag the live
// rotation. The pair is published as one immutable Epoch behind an atomic
// pointer, so verifiers never see a half-rotated state.
package seed

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	mrand "math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dayanaadylkhanova/intro-pow/internal/entity"
	"github.com/dayanaadylkhanova/intro-pow/pkg/logger"
)

// retiredMemory is how many discarded seed ids are remembered so that late
// solutions against them are reported as expired rather than unknown.
const retiredMemory = 4

type Config struct {
	Interval time.Duration
	Grace    time.Duration
	// Jitter delays each rotation by a random amount in [0, Jitter).
	Jitter time.Duration
}

func (c Config) validate() error {
	if c.Interval <= 0 {
		return errors.New("seed: interval must be positive")
	}
	if c.Grace < 0 || c.Jitter < 0 {
		return errors.New("seed: grace and jitter must not be negative")
	}
	return nil
}

// Epoch is one published state. Never mutated after Store.
type Epoch struct {
	Current  entity.Seed
	Previous *entity.Seed
	// GraceEnds bounds the previous seed: acceptable while now <= GraceEnds.
	GraceEnds    time.Time
	RotatedAt    time.Time
	NextRotation time.Time
	retired      []entity.SeedID
}

func (e *Epoch) isRetired(id entity.SeedID) bool {
	return slices.Contains(e.retired, id)
}

type Option func(*Manager)

func WithClock(c clock.Clock) Option { return func(m *Manager) { m.clock = c } }

func WithRand(r io.Reader) Option { return func(m *Manager) { m.rand = r } }

// WithOnRotate registers a hook run after every published rotation.
func WithOnRotate(f func(entity.Seed)) Option { return func(m *Manager) { m.onRotate = f } }

type Manager struct {
	cfg      Config
	log      *slog.Logger
	parts    Partitions
	clock    clock.Clock
	rand     io.Reader
	onRotate func(entity.Seed)

	// mu serializes writers; readers only touch epoch.
	mu    sync.Mutex
	epoch atomic.Pointer[Epoch]
}

// New issues the first seed. Failing to read randomness here is a startup failure.
func New(log *slog.Logger, cfg Config, parts Partitions, opts ...Option) (*Manager, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	m := &Manager{
		cfg:   cfg,
		log:   log,
		parts: parts,
		clock: clock.New(),
		rand:  rand.Reader,
	}
	for _, o := range opts {
		o(m)
	}
	if _, err := m.Rotate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) newID() (entity.SeedID, error) {
	var id entity.SeedID
	if _, err := io.ReadFull(m.rand, id[:]); err != nil {
		return id, fmt.Errorf("%w: %v", entity.ErrRandomness, err)
	}
	return id, nil
}

func (m *Manager) jitter() time.Duration {
	if m.cfg.Jitter <= 0 {
		return 0
	}
	return mrand.N(m.cfg.Jitter)
}

// Rotate makes a fresh seed current and demotes the old current to previous.
// Whatever was previous before is discarded along with its replay partition.
func (m *Manager) Rotate() (entity.Seed, error) {
	id, err := m.newID()
	if err != nil {
		m.log.Error("seed rotation failed, refusing to issue puzzles", "err", err)
		return entity.Seed{}, err
	}

	m.mu.Lock()
	now := m.clock.Now()
	cur := entity.Seed{
		ID:        id,
		CreatedAt: now,
		ExpiresAt: now.Add(m.cfg.Interval + m.cfg.Grace),
	}
	next := &Epoch{
		Current:      cur,
		GraceEnds:    now.Add(m.cfg.Grace),
		RotatedAt:    now,
		NextRotation: now.Add(m.cfg.Interval + m.jitter()),
	}
	var dropped *entity.Seed
	if old := m.epoch.Load(); old != nil {
		prev := old.Current
		next.Previous = &prev
		next.retired = old.retired
		dropped = old.Previous
		if dropped != nil {
			next.retired = retire(next.retired, dropped.ID)
		}
	}
	// the partition exists before any verifier can see the seed
	m.parts.OpenSeed(id)
	m.epoch.Store(next)
	m.mu.Unlock()

	if dropped != nil {
		m.parts.DropSeed(dropped.ID)
	}
	m.log.Info("seed rotated",
		"seed", cur.ID.Short(),
		"seed_full", logger.Sensitive(cur.ID.String()),
		"next_rotation", next.NextRotation,
	)
	if m.onRotate != nil {
		m.onRotate(cur)
	}
	return cur, nil
}

// ExpirePrevious discards the previous seed once its grace window is over.
// It reports whether anything was discarded.
func (m *Manager) ExpirePrevious() bool {
	m.mu.Lock()
	old := m.epoch.Load()
	if old.Previous == nil || !m.clock.Now().After(old.GraceEnds) {
		m.mu.Unlock()
		return false
	}
	next := *old
	next.Previous = nil
	next.retired = retire(old.retired, old.Previous.ID)
	m.epoch.Store(&next)
	m.mu.Unlock()

	m.parts.DropSeed(old.Previous.ID)
	m.log.Debug("previous seed expired", "seed", old.Previous.ID.Short())
	return true
}

func retire(list []entity.SeedID, id entity.SeedID) []entity.SeedID {
	out := make([]entity.SeedID, 0, retiredMemory)
	if len(list) >= retiredMemory {
		list = list[len(list)-retiredMemory+1:]
	}
	out = append(out, list...)
	return append(out, id)
}

// Lookup returns the seed if it is acceptable for verification right now.
func (m *Manager) Lookup(id entity.SeedID) (entity.Seed, error) {
	e := m.epoch.Load()
	switch {
	case id == e.Current.ID:
		return e.Current, nil
	case e.Previous != nil && id == e.Previous.ID:
		if !m.clock.Now().After(e.GraceEnds) {
			return *e.Previous, nil
		}
		return entity.Seed{}, entity.ErrSeedExpired
	case e.isRetired(id):
		return entity.Seed{}, entity.ErrSeedExpired
	default:
		return entity.Seed{}, entity.ErrSeedUnknown
	}
}

// Params builds the advertised parameters from the current seed.
func (m *Manager) Params(effort uint32) entity.Params {
	cur := m.epoch.Load().Current
	return entity.Params{
		SeedID:     cur.ID,
		Effort:     effort,
		Expiration: cur.ExpiresAt,
	}
}

func (m *Manager) Current() entity.Seed { return m.epoch.Load().Current }

// Snapshot returns the published epoch. Callers must not modify it.
func (m *Manager) Snapshot() *Epoch { return m.epoch.Load() }

// Run rotates on schedule and expires the previous seed when its grace
// window closes. It returns only on ctx cancellation or a fatal rotation error.
func (m *Manager) Run(ctx context.Context) error {
	m.log.Info("seed rotation started",
		"interval", m.cfg.Interval.String(),
		"grace", m.cfg.Grace.String(),
		"jitter", m.cfg.Jitter.String(),
	)
	for {
		e := m.epoch.Load()
		wake := e.NextRotation
		// the grace end itself is still inside the window
		if e.Previous != nil && e.GraceEnds.Before(wake) {
			wake = e.GraceEnds.Add(time.Nanosecond)
		}
		t := m.clock.Timer(m.clock.Until(wake))

		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C:
		}

		m.ExpirePrevious()
		if !m.clock.Now().Before(m.epoch.Load().NextRotation) {
			if _, err := m.Rotate(); err != nil {
				return err
			}
		}
	}
}

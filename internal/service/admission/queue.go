// Package admission is the bounded queue in front of the verifier. Requests
// beyond its capacity are shed as QueueFull before any puzzle work is done.
package admission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/dayanaadylkhanova/intro-pow/internal/entity"
	"github.com/dayanaadylkhanova/intro-pow/internal/service/effort"
	"github.com/dayanaadylkhanova/intro-pow/pkg/logger"
)

type Config struct {
	Capacity int
	Workers  int
	// Timeout bounds the backend call for one admitted request.
	Timeout time.Duration
}

type Option func(*Queue)

func WithObserver(o Observer) Option { return func(q *Queue) { q.observer = o } }

type job struct {
	ctx     context.Context
	sol     entity.Solution
	payload []byte
	reply   chan result
}

type result struct {
	body []byte
	err  error
}

type Queue struct {
	log      *slog.Logger
	cfg      Config
	verifier Verifier
	handler  Handler
	observer Observer
	jobs     chan *job

	accepted     atomic.Uint64
	rejectedFull atomic.Uint64

	fullLog   rate.Sometimes
	rejectLog rate.Sometimes
}

func New(log *slog.Logger, cfg Config, v Verifier, h Handler, opts ...Option) (*Queue, error) {
	if cfg.Capacity <= 0 || cfg.Workers <= 0 {
		return nil, errors.New("admission: capacity and workers must be positive")
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("admission: timeout must be positive")
	}
	q := &Queue{
		log:       log,
		cfg:       cfg,
		verifier:  v,
		handler:   h,
		jobs:      make(chan *job, cfg.Capacity),
		fullLog:   rate.Sometimes{Interval: time.Second},
		rejectLog: rate.Sometimes{Interval: time.Second},
	}
	for _, o := range opts {
		o(q)
	}
	return q, nil
}

// Submit enqueues a request without blocking and waits for its result. A
// full queue fails fast with ErrQueueFull.
func (q *Queue) Submit(ctx context.Context, sol entity.Solution, payload []byte) ([]byte, error) {
	j := &job{ctx: ctx, sol: sol, payload: payload, reply: make(chan result, 1)}
	select {
	case q.jobs <- j:
	default:
		q.Report(entity.OutcomeQueueFull)
		q.fullLog.Do(func() {
			q.log.Warn("admission queue full, shedding requests", "capacity", q.cfg.Capacity)
		})
		return nil, entity.ErrQueueFull
	}

	select {
	case r := <-j.reply:
		return r.body, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Report records an outcome decided outside the queue, such as a request
// that failed to decode.
func (q *Queue) Report(o entity.Outcome) {
	switch o {
	case entity.OutcomeValid:
		q.accepted.Add(1)
	case entity.OutcomeQueueFull:
		q.rejectedFull.Add(1)
	}
	q.observe(o)
}

// observe hands exactly one outcome per request to the observer.
func (q *Queue) observe(o entity.Outcome) {
	if q.observer != nil {
		q.observer.Observe(o)
	}
}

// Depth is a non-blocking read of the current backlog.
func (q *Queue) Depth() int { return len(q.jobs) }

func (q *Queue) Capacity() int { return q.cfg.Capacity }

// Sample returns the counts since the previous call and resets them.
func (q *Queue) Sample() effort.Metrics {
	return effort.Metrics{
		Accepted:          q.accepted.Swap(0),
		RejectedQueueFull: q.rejectedFull.Swap(0),
		QueueDepth:        q.Depth(),
	}
}

// Run drains the queue with the configured number of workers until ctx is done.
func (q *Queue) Run(ctx context.Context) error {
	q.log.Info("admission workers started", "workers", q.cfg.Workers, "capacity", q.cfg.Capacity)
	g, gctx := errgroup.WithContext(ctx)
	for range q.cfg.Workers {
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				case j := <-q.jobs:
					q.process(j)
				}
			}
		})
	}
	return g.Wait()
}

func (q *Queue) process(j *job) {
	if j.ctx.Err() != nil {
		// the submitter is gone; leave the nonce unspent
		j.reply <- result{err: j.ctx.Err()}
		return
	}

	if err := q.verifier.Verify(j.sol); err != nil {
		o := entity.OutcomeOf(err)
		q.Report(o)
		q.rejectLog.Do(func() {
			q.log.Debug("request rejected",
				"outcome", o.String(),
				"seed", j.sol.SeedID.Short(),
				"nonce", logger.Sensitive(fmt.Sprintf("%x", j.sol.Nonce)),
				"err", err,
			)
		})
		j.reply <- result{err: err}
		return
	}
	// the proof was good: the controller counts it as accepted whatever
	// the backend does with it
	q.accepted.Add(1)

	ctx, cancel := context.WithTimeout(j.ctx, q.cfg.Timeout)
	defer cancel()
	body, err := q.handler.Handle(ctx, j.payload)
	if err != nil {
		q.log.Warn("backend failed", "err", err)
		q.observe(entity.OutcomeOf(err))
		j.reply <- result{err: fmt.Errorf("backend: %w", err)}
		return
	}
	q.observe(entity.OutcomeValid)
	j.reply <- result{body: body}
}

package app

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
)

// RunnerFunc adapts a plain function to Runner.
type RunnerFunc func(ctx context.Context) error

func (f RunnerFunc) Run(ctx context.Context) error { return f(ctx) }

type App struct {
	log     *slog.Logger
	runners map[string]Runner
	order   []string
}

func New(log *slog.Logger) *App {
	return &App{log: log, runners: make(map[string]Runner)}
}

// Add registers a runner under a name used in logs. Runners start in the
// order they were added.
func (a *App) Add(name string, r Runner) *App {
	if _, ok := a.runners[name]; !ok {
		a.order = append(a.order, name)
	}
	a.runners[name] = r
	return a
}

// Run blocks until SIGINT/SIGTERM or until any runner fails.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext runs every runner under one group: the first failure cancels
// the others and is returned.
func (a *App) RunContext(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range a.order {
		r := a.runners[name]
		g.Go(func() error {
			err := r.Run(gctx)
			if err != nil {
				a.log.Error("task failed, stopping", "task", name, "err", err)
				return err
			}
			a.log.Debug("task stopped", "task", name)
			return nil
		})
	}
	return g.Wait()
}

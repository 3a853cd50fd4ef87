package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dayanaadylkhanova/intro-pow/internal/adapter/backend"
	"github.com/dayanaadylkhanova/intro-pow/internal/adapter/costfn"
	"github.com/dayanaadylkhanova/intro-pow/internal/adapter/metrics"
	"github.com/dayanaadylkhanova/intro-pow/internal/adapter/transport/tcp"
	"github.com/dayanaadylkhanova/intro-pow/internal/adapter/wire"
	"github.com/dayanaadylkhanova/intro-pow/internal/app"
	"github.com/dayanaadylkhanova/intro-pow/internal/entity"
	"github.com/dayanaadylkhanova/intro-pow/internal/service/admission"
	"github.com/dayanaadylkhanova/intro-pow/internal/service/effort"
	"github.com/dayanaadylkhanova/intro-pow/internal/service/pow"
	"github.com/dayanaadylkhanova/intro-pow/internal/service/replay"
	"github.com/dayanaadylkhanova/intro-pow/internal/service/seed"
	"github.com/dayanaadylkhanova/intro-pow/pkg/config"
	"github.com/dayanaadylkhanova/intro-pow/pkg/logger"
)

func main() {
	cmd := &cobra.Command{
		Use:           "intro-pow-server",
		Short:         "Introduction endpoint guarded by an adaptive client puzzle",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			return run(cfg)
		},
	}
	config.RegisterFlags(cmd.Flags())

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// lazyEffort breaks the construction cycle engine -> controller -> queue ->
// engine. ctl is set before any runner starts.
type lazyEffort struct{ ctl *effort.Controller }

func (l *lazyEffort) Effort() uint32 {
	if l.ctl == nil {
		return 0
	}
	return l.ctl.Effort()
}

func run(cfg config.Config) error {
	logger.SetSafeLogging(cfg.SafeLogging)
	log := logger.NewJSON(logger.LevelFromEnv(cfg.LogLevel))

	fn, err := costfn.ByName(cfg.Algorithm)
	if err != nil {
		return err
	}

	var queue *admission.Queue
	mtr := metrics.New(func() int { return queue.Depth() }, cfg.QueueCapacity)

	cache := replay.New()
	seeds, err := seed.New(log.With("component", "seed"),
		seed.Config{Interval: cfg.SeedInterval, Grace: cfg.SeedGrace, Jitter: cfg.SeedJitter},
		cache,
		seed.WithOnRotate(mtr.SeedRotated),
	)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	eff := &lazyEffort{}
	engine := pow.NewEngine(log.With("component", "pow"), seeds, eff, cache, fn, []byte(cfg.Personalization))

	queue, err = admission.New(log.With("component", "admission"),
		admission.Config{Capacity: cfg.QueueCapacity, Workers: cfg.Workers, Timeout: cfg.RequestTimeout},
		engine,
		backend.NewRendezvous(),
		admission.WithObserver(mtr),
	)
	if err != nil {
		return fmt.Errorf("admission: %w", err)
	}

	policy := effort.Policy{
		Floor:     cfg.EffortMin,
		Max:       cfg.EffortMax,
		Growth:    cfg.EffortGrowth,
		Shrink:    cfg.EffortShrink,
		MinDwell:  cfg.EffortDwell,
		IdleAfter: cfg.EffortIdleAfter,
	}
	ctlLog := log.With("component", "effort")
	eff.ctl, err = effort.NewController(ctlLog, policy, cfg.ControlInterval, cfg.QueueTarget, queue,
		effort.WithOnChange(func(st effort.State) {
			mtr.SetEffort(st)
			ctlLog.Info("advertised parameters changed",
				"mode", st.Mode.String(),
				"descriptor", wire.FormatDescriptor(engine.CurrentParams()),
			)
		}),
	)
	if err != nil {
		return fmt.Errorf("effort: %w", err)
	}
	mtr.SetEffort(eff.ctl.State())

	srv := tcp.NewServer(log.With("component", "tcp"), cfg.ListenAddr, cfg.ConnTimeout, cfg.ShutdownWait, engine, queue)

	a := app.New(log).
		Add("seed", seeds).
		Add("effort", eff.ctl).
		Add("admission", queue).
		Add("tcp", srv)
	if cfg.MetricsAddr != "" {
		a.Add("metrics", metricsServer(log, cfg.MetricsAddr, cfg.ShutdownWait, mtr.Handler()))
	}

	log.Info("starting",
		"addr", cfg.ListenAddr,
		"algorithm", engine.Algorithm().String(),
		"descriptor", wire.FormatDescriptor(engine.CurrentParams()),
	)
	err = a.Run()
	if errors.Is(err, entity.ErrRandomness) {
		log.Error("randomness source failed, endpoint withdrawn", "err", err)
	}
	return err
}

func metricsServer(log *slog.Logger, addr string, shutdown time.Duration, h http.Handler) app.Runner {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	hs := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	return app.RunnerFunc(func(ctx context.Context) error {
		errCh := make(chan error, 1)
		go func() { errCh <- hs.ListenAndServe() }()
		log.Info("metrics listening", "addr", addr)

		select {
		case err := <-errCh:
			return fmt.Errorf("metrics: %w", err)
		case <-ctx.Done():
		}
		sctx, cancel := context.WithTimeout(context.Background(), shutdown)
		defer cancel()
		return hs.Shutdown(sctx)
	})
}

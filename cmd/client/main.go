package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dayanaadylkhanova/intro-pow/internal/adapter/backend"
	"github.com/dayanaadylkhanova/intro-pow/internal/adapter/costfn"
	"github.com/dayanaadylkhanova/intro-pow/internal/adapter/wire"
	"github.com/dayanaadylkhanova/intro-pow/internal/entity"
	"github.com/dayanaadylkhanova/intro-pow/internal/service/pow"
	"github.com/dayanaadylkhanova/intro-pow/pkg/logger"
)

type options struct {
	addr            string
	algorithm       string
	personalization string
	workers         int
	timeout         time.Duration
	logLevel        string
}

func main() {
	var o options
	cmd := &cobra.Command{
		Use:           "intro-pow-client",
		Short:         "Solve the advertised puzzle and send one introduction request",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.addr, "addr", "localhost:8080", "introduction endpoint")
	f.StringVar(&o.algorithm, "pow-algorithm", "blake2b-v1", "cost function the endpoint uses")
	f.StringVar(&o.personalization, "pow-personalization", "intro-pow v1", "personalization string of the endpoint")
	f.IntVar(&o.workers, "workers", 0, "solver goroutines; 0 means one per CPU")
	f.DurationVar(&o.timeout, "timeout", 2*time.Minute, "overall deadline, solving included")
	f.StringVar(&o.logLevel, "log-level", "info", "debug, info, warn or error")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o options) error {
	log := logger.NewJSON(logger.LevelFromEnv(o.logLevel))

	fn, err := costfn.ByName(o.algorithm)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", o.addr)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()
	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}

	// 1) params
	pf, err := wire.ReadFrame(conn)
	if err != nil {
		return fmt.Errorf("read params: %w", err)
	}
	params, err := wire.DecodeParams(pf)
	if err != nil {
		return fmt.Errorf("decode params: %w", err)
	}
	log.Debug("params received", "descriptor", wire.FormatDescriptor(params))

	// 2) solve, no later than the seed stays valid
	sctx, scancel := context.WithDeadline(ctx, params.Expiration)
	defer scancel()
	start := time.Now()
	sol, attempts, err := pow.Solve(sctx, fn, params, []byte(o.personalization), o.workers)
	took := time.Since(start)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("gave up after %s attempts: %w", humanize.Comma(int64(attempts)), err)
		}
		return err
	}

	// 3) solution and cookie
	cookie := make([]byte, backend.CookieLen)
	if _, err := rand.Read(cookie); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrRandomness, err)
	}
	if err := wire.WriteFrame(conn, wire.EncodeSolution(sol)); err != nil {
		return fmt.Errorf("write solution: %w", err)
	}
	if err := wire.WriteFrame(conn, cookie); err != nil {
		return fmt.Errorf("write cookie: %w", err)
	}

	// 4) reply
	rf, err := wire.ReadFrame(conn)
	if err != nil {
		return fmt.Errorf("read reply: %w", err)
	}
	outcome, body, err := wire.DecodeReply(rf)
	if err != nil {
		return fmt.Errorf("decode reply: %w", err)
	}

	rate := 0.0
	if took > 0 {
		rate = float64(attempts) / took.Seconds()
	}
	fmt.Printf("effort %s, %s attempts in %s (%s), seed expires %s\n",
		humanize.Comma(int64(params.Effort)),
		humanize.Comma(int64(attempts)),
		took.Round(time.Millisecond),
		humanize.SIWithDigits(rate, 1, "H/s"),
		humanize.Time(params.Expiration),
	)
	if outcome != entity.OutcomeValid {
		return fmt.Errorf("rejected: %s", outcome)
	}
	fmt.Println(string(body))
	return nil
}

package pow

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/dayanaadylkhanova/intro-pow/internal/entity"
)

// checkEvery is how many attempts a worker makes between cancellation checks.
const checkEvery = 1024

var errSolved = errors.New("solved")

// Solve searches for a nonce whose proof meets params.Effort. Workers start
// at independent random nonces and walk them as 128-bit counters. It returns
// the solution and the total number of attempts made by all workers.
//
// Solve touches no shared server state; a cancelled search leaves nothing
// behind.
func Solve(ctx context.Context, fn CostFunction, params entity.Params, personalization []byte, workers int) (entity.Solution, uint64, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	starts := make([]entity.Nonce, workers)
	for i := range starts {
		if _, err := crand.Read(starts[i][:]); err != nil {
			return entity.Solution{}, 0, fmt.Errorf("%w: %v", entity.ErrRandomness, err)
		}
	}

	var (
		attempts atomic.Uint64
		once     sync.Once
		found    entity.Solution
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, start := range starts {
		g.Go(func() error {
			p := entity.Puzzle{
				Seed:            params.SeedID,
				Personalization: personalization,
				Nonce:           start,
				Effort:          params.Effort,
			}
			var n uint64
			for {
				if n%checkEvery == 0 {
					if err := gctx.Err(); err != nil {
						attempts.Add(n)
						return err
					}
				}
				proof, ok := fn.Attempt(p)
				n++
				if ok {
					attempts.Add(n)
					once.Do(func() {
						found = entity.Solution{
							SeedID: params.SeedID,
							Nonce:  p.Nonce,
							Effort: params.Effort,
							Proof:  proof,
						}
					})
					return errSolved
				}
				increment(&p.Nonce)
			}
		})
	}

	err := g.Wait()
	if errors.Is(err, errSolved) {
		return found, attempts.Load(), nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return entity.Solution{}, attempts.Load(), ctxErr
	}
	return entity.Solution{}, attempts.Load(), err
}

// Solve runs the package-level Solve with the engine's cost function and
// personalization.
func (e *Engine) Solve(ctx context.Context, params entity.Params, workers int) (entity.Solution, uint64, error) {
	return Solve(ctx, e.fn, params, e.personalization, workers)
}

// increment adds one to n as a big-endian 128-bit integer, wrapping at the top.
func increment(n *entity.Nonce) {
	for i := len(n) - 1; i >= 0; i-- {
		n[i]++
		if n[i] != 0 {
			return
		}
	}
}

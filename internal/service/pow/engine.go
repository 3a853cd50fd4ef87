// Package pow is the puzzle engine: server-side Verify against the live seed
// and effort snapshots, and the client-side Solve.
package pow

import (
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/dayanaadylkhanova/intro-pow/internal/entity"
	"github.com/dayanaadylkhanova/intro-pow/internal/service/replay"
)

type Engine struct {
	log             *slog.Logger
	seeds           SeedSource
	effort          EffortSource
	replay          ReplayStore
	fn              CostFunction
	personalization []byte

	// a burst of proofs from another cost function is a misconfigured
	// client population, worth one warning per minute
	foreignLog rate.Sometimes
}

func NewEngine(log *slog.Logger, seeds SeedSource, effort EffortSource, rs ReplayStore, fn CostFunction, personalization []byte) *Engine {
	return &Engine{
		log:             log,
		seeds:           seeds,
		effort:          effort,
		replay:          rs,
		fn:              fn,
		personalization: append([]byte(nil), personalization...),
		foreignLog:      rate.Sometimes{Interval: time.Minute},
	}
}

func (e *Engine) Algorithm() entity.Algorithm { return e.fn.Algorithm() }

// CurrentParams is what the descriptor publisher advertises right now.
func (e *Engine) CurrentParams() entity.Params {
	return e.seeds.Params(e.effort.Effort())
}

// Verify checks a solution against the seed and effort snapshots taken at
// entry. Once the replay check has passed the nonce is spent, even when the
// proof turns out to be invalid. At effort 0 no proof is required, but the
// seed and the nonce are still checked.
func (e *Engine) Verify(sol entity.Solution) error {
	minEffort := e.effort.Effort()

	if _, err := e.seeds.Lookup(sol.SeedID); err != nil {
		return err
	}
	if sol.Effort < minEffort {
		return fmt.Errorf("%w: claimed %d, advertised %d", entity.ErrEffortInsufficient, sol.Effort, minEffort)
	}

	switch e.replay.CheckAndInsert(sol.SeedID, sol.Nonce) {
	case replay.Inserted:
	case replay.AlreadyPresent:
		return entity.ErrReplayDetected
	default:
		// partition already dropped: the seed expired between lookup and insert
		return entity.ErrSeedExpired
	}

	if len(sol.Proof) == 0 {
		if minEffort == 0 {
			return nil
		}
		return fmt.Errorf("%w: no proof at effort %d", entity.ErrProofInvalid, minEffort)
	}
	if a := entity.Algorithm(sol.Proof[0]); a != e.fn.Algorithm() {
		e.foreignLog.Do(func() {
			e.log.Warn("proof from unexpected cost function",
				"got", a.String(),
				"want", e.fn.Algorithm().String(),
			)
		})
		return fmt.Errorf("%w: unexpected algorithm", entity.ErrProofInvalid)
	}
	if !e.fn.Verify(e.puzzle(sol.SeedID, sol.Nonce, sol.Effort), sol.Proof) {
		return entity.ErrProofInvalid
	}
	return nil
}

func (e *Engine) puzzle(id entity.SeedID, n entity.Nonce, effort uint32) entity.Puzzle {
	return entity.Puzzle{
		Seed:            id,
		Personalization: e.personalization,
		Nonce:           n,
		Effort:          effort,
	}
}

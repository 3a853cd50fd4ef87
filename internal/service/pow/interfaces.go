package pow

import (
	"github.com/dayanaadylkhanova/intro-pow/internal/entity"
	"github.com/dayanaadylkhanova/intro-pow/internal/service/replay"
)

//go:generate mockgen -source=interfaces.go -destination=./pow_mock.go -package=pow

type SeedSource interface {
	Lookup(id entity.SeedID) (entity.Seed, error)
	Params(effort uint32) entity.Params
}

type EffortSource interface {
	Effort() uint32
}

type ReplayStore interface {
	CheckAndInsert(id entity.SeedID, n entity.Nonce) replay.Result
}

// CostFunction is satisfied by every costfn implementation.
type CostFunction interface {
	Algorithm() entity.Algorithm
	Attempt(p entity.Puzzle) (proof []byte, ok bool)
	Verify(p entity.Puzzle, proof []byte) bool
}

package costfn

import (
	"golang.org/x/crypto/blake2b"
	"lukechampine.com/blake3"

	"github.com/dayanaadylkhanova/intro-pow/internal/entity"
)

const digestLen = 32

// Blake2b is the default function: blake2b-256 keyed with the seed.
type Blake2b struct{}

func (Blake2b) Algorithm() entity.Algorithm { return entity.AlgoBlake2b }

func (b Blake2b) digest(p entity.Puzzle) []byte {
	// a 32-byte key is always accepted
	h, _ := blake2b.New(digestLen, p.Seed[:])
	h.Write(message(p))
	return h.Sum(nil)
}

func (b Blake2b) Attempt(p entity.Puzzle) ([]byte, bool) {
	d := b.digest(p)
	if !meetsThreshold(d, p.Effort) {
		return nil, false
	}
	return tag(entity.AlgoBlake2b, d), true
}

func (b Blake2b) Verify(p entity.Puzzle, proof []byte) bool {
	d := b.digest(p)
	return matches(entity.AlgoBlake2b, proof, d) && meetsThreshold(d, p.Effort)
}

// Blake3 is the keyed blake3 variant of the same threshold rule.
type Blake3 struct{}

func (Blake3) Algorithm() entity.Algorithm { return entity.AlgoBlake3 }

func (b Blake3) digest(p entity.Puzzle) []byte {
	h := blake3.New(digestLen, p.Seed[:])
	h.Write(message(p))
	return h.Sum(nil)
}

func (b Blake3) Attempt(p entity.Puzzle) ([]byte, bool) {
	d := b.digest(p)
	if !meetsThreshold(d, p.Effort) {
		return nil, false
	}
	return tag(entity.AlgoBlake3, d), true
}

func (b Blake3) Verify(p entity.Puzzle, proof []byte) bool {
	d := b.digest(p)
	return matches(entity.AlgoBlake3, proof, d) && meetsThreshold(d, p.Effort)
}

// Package costfn holds the asymmetric cost functions puzzles are built on.
//
// Every function is keyed by the seed, so nothing computed against one seed
// helps against another, and verification is a single hash evaluation no
// matter which effort produced the proof.
package costfn

import (
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/dayanaadylkhanova/intro-pow/internal/entity"
)

// Func is the capability the puzzle engine consumes.
type Func interface {
	Algorithm() entity.Algorithm
	// Attempt evaluates one candidate. The returned proof is tagged and is
	// only meaningful when ok is true.
	Attempt(p entity.Puzzle) (proof []byte, ok bool)
	Verify(p entity.Puzzle, proof []byte) bool
}

var registry = map[entity.Algorithm]Func{
	entity.AlgoBlake2b: Blake2b{},
	entity.AlgoBlake3:  Blake3{},
	entity.AlgoSHA256:  Hashcash{},
}

func Lookup(a entity.Algorithm) (Func, bool) {
	f, ok := registry[a]
	return f, ok
}

func ByName(name string) (Func, error) {
	for a, f := range registry {
		if a.String() == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("unknown cost function %q", name)
}

// message is personalization || nonce || BE32(effort). Binding the effort
// means a proof cannot be replayed under a different claimed effort.
func message(p entity.Puzzle) []byte {
	msg := make([]byte, 0, len(p.Personalization)+entity.NonceLen+4)
	msg = append(msg, p.Personalization...)
	msg = append(msg, p.Nonce[:]...)
	return binary.BigEndian.AppendUint32(msg, p.Effort)
}

// meetsThreshold accepts iff R * effort fits in 32 bits, so the chance of a
// random digest passing is 1/effort.
func meetsThreshold(digest []byte, effort uint32) bool {
	r := binary.BigEndian.Uint32(digest[:4])
	return uint64(r)*uint64(effort) <= math.MaxUint32
}

func tag(a entity.Algorithm, digest []byte) []byte {
	out := make([]byte, 0, 1+len(digest))
	out = append(out, byte(a))
	return append(out, digest...)
}

func matches(a entity.Algorithm, proof, digest []byte) bool {
	if len(proof) != 1+len(digest) || proof[0] != byte(a) {
		return false
	}
	return subtle.ConstantTimeCompare(proof[1:], digest) == 1
}

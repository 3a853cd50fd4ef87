package entity

import (
	"encoding/hex"
	"errors"
	"time"
)

const (
	SeedIDLen = 32
	NonceLen  = 16
)

// SeedID keys every puzzle instance issued during one rotation epoch.
type SeedID [SeedIDLen]byte

func (id SeedID) String() string { return hex.EncodeToString(id[:]) }

// Short is the first four bytes in hex, enough to tell epochs apart in logs.
func (id SeedID) Short() string { return hex.EncodeToString(id[:4]) }

func ParseSeedID(s string) (SeedID, error) {
	var id SeedID
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, errors.Join(ErrMalformed, err)
	}
	if len(b) != SeedIDLen {
		return id, ErrMalformed
	}
	copy(id[:], b)
	return id, nil
}

type Nonce [NonceLen]byte

// Seed is immutable once created.
type Seed struct {
	ID        SeedID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Params is what gets advertised to clients. Effort 0 means no proof is required.
type Params struct {
	SeedID     SeedID
	Effort     uint32
	Expiration time.Time
}

// Solution is produced by a client's Solve and consumed once by Verify.
// Proof is an algorithm-tagged blob: Proof[0] is the Algorithm.
type Solution struct {
	SeedID SeedID
	Nonce  Nonce
	Effort uint32
	Proof  []byte
}

// Algorithm tags the cost function that produced a proof.
type Algorithm uint8

const (
	AlgoBlake2b Algorithm = 1
	AlgoBlake3  Algorithm = 2
	AlgoSHA256  Algorithm = 3
)

func (a Algorithm) String() string {
	switch a {
	case AlgoBlake2b:
		return "blake2b-v1"
	case AlgoBlake3:
		return "blake3"
	case AlgoSHA256:
		return "sha256-lzb"
	default:
		return "unknown"
	}
}

// Puzzle is one cost-function evaluation: the seed keys the function, the
// personalization binds it to this endpoint.
type Puzzle struct {
	Seed            SeedID
	Personalization []byte
	Nonce           Nonce
	Effort          uint32
}

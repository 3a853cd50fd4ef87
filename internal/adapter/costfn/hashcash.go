package costfn

import (
	"math/bits"

	"github.com/minio/sha256-simd"

	"github.com/dayanaadylkhanova/intro-pow/internal/entity"
)

// Hashcash requires sha256(seed || message) to start with at least
// bits.Len32(effort) zero bits, so expected work doubles per effort octave.
type Hashcash struct{}

func (Hashcash) Algorithm() entity.Algorithm { return entity.AlgoSHA256 }

func leadingZeroBits(b []byte) int {
	total := 0
	for _, by := range b {
		if by == 0 {
			total += 8
			continue
		}
		total += bits.LeadingZeros8(by)
		break
	}
	return total
}

func requiredBits(effort uint32) int { return bits.Len32(effort) }

func powMessage(p entity.Puzzle) []byte {
	msg := message(p)
	payload := make([]byte, 0, entity.SeedIDLen+len(msg))
	payload = append(payload, p.Seed[:]...)
	return append(payload, msg...)
}

func (h Hashcash) Attempt(p entity.Puzzle) ([]byte, bool) {
	sum := sha256.Sum256(powMessage(p))
	if leadingZeroBits(sum[:]) < requiredBits(p.Effort) {
		return nil, false
	}
	return tag(entity.AlgoSHA256, sum[:]), true
}

func (h Hashcash) Verify(p entity.Puzzle, proof []byte) bool {
	sum := sha256.Sum256(powMessage(p))
	return matches(entity.AlgoSHA256, proof, sum[:]) && leadingZeroBits(sum[:]) >= requiredBits(p.Effort)
}

// Package wire encodes puzzle parameters and solutions as carried by the
// introduction protocol extension fields, plus the framing used by the demo
// TCP endpoint and the descriptor text form.
package wire

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/dayanaadylkhanova/intro-pow/internal/entity"
)

const (
	Version = 1

	// ParamsLen is version, seed id, effort and expiration.
	ParamsLen = 1 + entity.SeedIDLen + 4 + 4

	solutionHeaderLen = 1 + entity.SeedIDLen + entity.NonceLen + 4
	// MinSolutionLen is a bare header. An empty proof is legal on the wire;
	// whether it is acceptable depends on the effort in force.
	MinSolutionLen = solutionHeaderLen
	MaxProofLen    = 512
)

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", entity.ErrMalformed, fmt.Sprintf(format, args...))
}

func EncodeParams(p entity.Params) []byte {
	b := make([]byte, 0, ParamsLen)
	b = append(b, Version)
	b = append(b, p.SeedID[:]...)
	b = binary.BigEndian.AppendUint32(b, p.Effort)
	return binary.BigEndian.AppendUint32(b, uint32(p.Expiration.Unix()))
}

func DecodeParams(b []byte) (entity.Params, error) {
	var p entity.Params
	if len(b) != ParamsLen {
		return p, malformed("params length %d, want %d", len(b), ParamsLen)
	}
	if b[0] != Version {
		return p, malformed("params version %d", b[0])
	}
	off := 1
	off += copy(p.SeedID[:], b[off:])
	p.Effort = binary.BigEndian.Uint32(b[off:])
	off += 4
	p.Expiration = time.Unix(int64(binary.BigEndian.Uint32(b[off:])), 0).UTC()
	return p, nil
}

func EncodeSolution(s entity.Solution) []byte {
	b := make([]byte, 0, solutionHeaderLen+len(s.Proof))
	b = append(b, Version)
	b = append(b, s.SeedID[:]...)
	b = append(b, s.Nonce[:]...)
	b = binary.BigEndian.AppendUint32(b, s.Effort)
	return append(b, s.Proof...)
}

// DecodeSolution takes the proof as the rest of the field. The returned
// proof does not alias b.
func DecodeSolution(b []byte) (entity.Solution, error) {
	var s entity.Solution
	if len(b) < MinSolutionLen {
		return s, malformed("solution length %d, want at least %d", len(b), MinSolutionLen)
	}
	if b[0] != Version {
		return s, malformed("solution version %d", b[0])
	}
	if n := len(b) - solutionHeaderLen; n > MaxProofLen {
		return s, malformed("proof length %d exceeds %d", n, MaxProofLen)
	}
	off := 1
	off += copy(s.SeedID[:], b[off:])
	off += copy(s.Nonce[:], b[off:])
	s.Effort = binary.BigEndian.Uint32(b[off:])
	off += 4
	s.Proof = append([]byte(nil), b[off:]...)
	return s, nil
}

// EncodeReply is outcome:u8 followed by the body, which is only set for
// admitted requests.
func EncodeReply(o entity.Outcome, body []byte) []byte {
	out := make([]byte, 0, 1+len(body))
	out = append(out, byte(o))
	return append(out, body...)
}

func DecodeReply(b []byte) (entity.Outcome, []byte, error) {
	if len(b) == 0 {
		return 0, nil, malformed("empty reply")
	}
	o := entity.Outcome(b[0])
	if o > entity.OutcomeInternal {
		return 0, nil, malformed("unknown outcome %d", b[0])
	}
	return o, b[1:], nil
}

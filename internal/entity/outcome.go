package entity

import "errors"

// Per-request rejections. None of them is fatal to the endpoint.
var (
	ErrSeedUnknown        = errors.New("seed unknown")
	ErrSeedExpired        = errors.New("seed expired")
	ErrReplayDetected     = errors.New("replay detected")
	ErrEffortInsufficient = errors.New("effort insufficient")
	ErrProofInvalid       = errors.New("proof invalid")
	ErrMalformed          = errors.New("malformed")
	ErrQueueFull          = errors.New("queue full")
)

// ErrRandomness is fatal: without a trustworthy random source no new seed may be issued.
var ErrRandomness = errors.New("randomness source unavailable")

type Outcome uint8

const (
	OutcomeValid Outcome = iota
	OutcomeSeedUnknown
	OutcomeSeedExpired
	OutcomeReplayDetected
	OutcomeEffortInsufficient
	OutcomeProofInvalid
	OutcomeMalformed
	OutcomeQueueFull
	// OutcomeInternal covers failures after admission (backend errors, timeouts).
	OutcomeInternal
)

var outcomeNames = [...]string{
	OutcomeValid:              "valid",
	OutcomeSeedUnknown:        "seed_unknown",
	OutcomeSeedExpired:        "seed_expired",
	OutcomeReplayDetected:     "replay_detected",
	OutcomeEffortInsufficient: "effort_insufficient",
	OutcomeProofInvalid:       "proof_invalid",
	OutcomeMalformed:          "malformed",
	OutcomeQueueFull:          "queue_full",
	OutcomeInternal:           "internal",
}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// Outcomes lists every outcome, used to pre-register metric labels.
func Outcomes() []Outcome {
	out := make([]Outcome, 0, len(outcomeNames))
	for i := range outcomeNames {
		out = append(out, Outcome(i))
	}
	return out
}

// OutcomeOf classifies an error returned anywhere on the admission path.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeValid
	case errors.Is(err, ErrSeedUnknown):
		return OutcomeSeedUnknown
	case errors.Is(err, ErrSeedExpired):
		return OutcomeSeedExpired
	case errors.Is(err, ErrReplayDetected):
		return OutcomeReplayDetected
	case errors.Is(err, ErrEffortInsufficient):
		return OutcomeEffortInsufficient
	case errors.Is(err, ErrProofInvalid):
		return OutcomeProofInvalid
	case errors.Is(err, ErrMalformed):
		return OutcomeMalformed
	case errors.Is(err, ErrQueueFull):
		return OutcomeQueueFull
	default:
		return OutcomeInternal
	}
}

// Err is the inverse of OutcomeOf for the rejection kinds.
func (o Outcome) Err() error {
	switch o {
	case OutcomeValid:
		return nil
	case OutcomeSeedUnknown:
		return ErrSeedUnknown
	case OutcomeSeedExpired:
		return ErrSeedExpired
	case OutcomeReplayDetected:
		return ErrReplayDetected
	case OutcomeEffortInsufficient:
		return ErrEffortInsufficient
	case OutcomeProofInvalid:
		return ErrProofInvalid
	case OutcomeMalformed:
		return ErrMalformed
	case OutcomeQueueFull:
		return ErrQueueFull
	default:
		return errors.New("internal error")
	}
}

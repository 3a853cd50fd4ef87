package admission

import (
	"context"

	"github.com/dayanaadylkhanova/intro-pow/internal/entity"
)

//go:generate mockgen -source=interfaces.go -destination=./admission_mock.go -package=admission

type Verifier interface {
	Verify(sol entity.Solution) error
}

// Handler is the normal processing an admitted request is forwarded to.
type Handler interface {
	Handle(ctx context.Context, payload []byte) ([]byte, error)
}

// Observer receives every outcome, admitted or not.
type Observer interface {
	Observe(o entity.Outcome)
}

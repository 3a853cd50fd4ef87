package tcp

import (
	"context"

	"github.com/dayanaadylkhanova/intro-pow/internal/entity"
)

//go:generate mockgen -source=interfaces.go -destination=./server_mock.go -package=tcp

type ParamsSource interface {
	CurrentParams() entity.Params
}

type Admission interface {
	Submit(ctx context.Context, sol entity.Solution, payload []byte) ([]byte, error)
	Report(o entity.Outcome)
}

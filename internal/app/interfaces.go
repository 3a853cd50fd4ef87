package app

import (
	"context"
)

//go:generate mockgen -source=interfaces.go -destination=./app_mock.go -package=app

// Runner is a long-lived task. It returns nil once ctx is done and a
// non-nil error only when it can no longer do its job.
type Runner interface {
	Run(ctx context.Context) error
}

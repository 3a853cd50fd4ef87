package effort

//go:generate mockgen -source=interfaces.go -destination=./effort_mock.go -package=effort

// Sampler reports what happened since the previous call. QueueDepth must be
// a non-blocking read; TargetDepth is filled in by the controller.
type Sampler interface {
	Sample() Metrics
}

package service

// Service defines the lifecycle interface for long-lived server subsystems
// (the game listener, the status endpoint)
//
// Lifecycle:
//  1. Construction
//  2. Init(args...) - configuration; each service picks the arg types it understands
//  3. Start() - bind resources, launch goroutines
//  4. [runtime operation]
//  5. Stop() - halt goroutines, release resources
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must start before this one
	Dependencies() []string

	Init(args ...any) error

	Start() error

	// Stop must be idempotent
	Stop() error
}

// Waiter is implemented by services whose work can finish on its own
// Done is closed when the service has nothing left to do
type Waiter interface {
	Done() <-chan struct{}
	Err() error
}

// ArgOf returns the first argument of type T, if any
func ArgOf[T any](args []any) (T, bool) {
	for _, a := range args {
		if v, ok := a.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

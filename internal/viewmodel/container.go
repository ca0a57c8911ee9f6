// Package viewmodel synchronizes one remote resource with the local state a screen renders.
//
// A Container owns {data, loading, error} for a single screen. Data is always the unmodified result
// of the last successful fetch; a failed fetch records the error and leaves that data in place
// unless the container was built WithClearOnError.
package viewmodel

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"careerhub/internal/models"
	"careerhub/internal/observability"
)

// Status is the screen state machine position.
type Status int

const (
	Idle Status = iota
	Loading
	Success
	Error
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "idle"
	}
}

// State is a snapshot of a container.
type State[T any] struct {
	Data     T
	Status   Status
	Loading  bool
	Err      string
	LoadedAt time.Time
}

// HasData reports whether at least one fetch has succeeded.
func (s State[T]) HasData() bool {
	return !s.LoadedAt.IsZero()
}

// Fetcher loads the resource for the given params.
type Fetcher[P comparable, T any] func(ctx context.Context, params P) (T, error)

// Option configures a Container.
type Option func(*options)

type options struct {
	name         string
	clearOnError bool
	fallbackMsg  string
}

// WithName labels the container in logs and metrics.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithClearOnError drops the held data when a load fails.
func WithClearOnError() Option {
	return func(o *options) { o.clearOnError = true }
}

// WithErrorMessage sets the inline text used when an error carries no server message.
func WithErrorMessage(msg string) Option {
	return func(o *options) { o.fallbackMsg = msg }
}

// Container holds the view state of one screen.
type Container[P comparable, T any] struct {
	mu      sync.Mutex
	fetch   Fetcher[P, T]
	opts    options
	params  P
	started bool
	state   State[T]
}

// New creates a container in the Idle state with initial params.
func New[P comparable, T any](fetch Fetcher[P, T], params P, opts ...Option) *Container[P, T] {
	o := options{name: "screen", fallbackMsg: "Something went wrong"}
	for _, opt := range opts {
		opt(&o)
	}
	return &Container[P, T]{fetch: fetch, opts: o, params: params}
}

// State returns a snapshot of the current state.
func (c *Container[P, T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Params returns the params the next load will use.
func (c *Container[P, T]) Params() P {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

// Load fetches with the current params and replaces the data on success.
func (c *Container[P, T]) Load(ctx context.Context) error {
	c.mu.Lock()
	params := c.params
	c.started = true
	c.state.Loading = true
	c.state.Status = Loading
	c.state.Err = ""
	c.mu.Unlock()

	start := time.Now()
	data, err := c.fetch(ctx, params)
	observability.ViewLoads.WithLabelValues(c.opts.name, outcome(err)).Inc()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Loading = false
	if err != nil {
		c.state.Status = Error
		c.state.Err = models.UserMessage(err, c.opts.fallbackMsg)
		if c.opts.clearOnError {
			var zero T
			c.state.Data = zero
			c.state.LoadedAt = time.Time{}
		}
		observability.GlobalLogger.WarnContext(ctx, "screen load failed",
			slog.String("screen", c.opts.name),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()),
		)
		return err
	}
	c.state.Data = data
	c.state.Status = Success
	c.state.LoadedAt = time.Now()
	return nil
}

// SetParams changes the declared dependency and reloads when it differs from the current one.
func (c *Container[P, T]) SetParams(ctx context.Context, params P) error {
	c.mu.Lock()
	changed := !c.started || c.params != params
	c.params = params
	c.mu.Unlock()
	if !changed {
		return nil
	}
	return c.Load(ctx)
}

// Refresh reloads with the current params regardless of whether they changed.
func (c *Container[P, T]) Refresh(ctx context.Context) error {
	return c.Load(ctx)
}

// Mutate runs a write and, when it succeeds, reloads the whole resource.
func (c *Container[P, T]) Mutate(ctx context.Context, action func(ctx context.Context) error) error {
	if err := action(ctx); err != nil {
		c.fail(err)
		return err
	}
	return c.Load(ctx)
}

// Patch runs a write and, when it succeeds, applies patch to the held data instead of reloading.
func (c *Container[P, T]) Patch(ctx context.Context, action func(ctx context.Context) error, patch func(T) T) error {
	if err := action(ctx); err != nil {
		c.fail(err)
		return err
	}
	c.mu.Lock()
	c.state.Data = patch(c.state.Data)
	c.state.Err = ""
	c.state.Status = Success
	c.mu.Unlock()
	return nil
}

// Fail records a client-side error (validation) without touching the data.
func (c *Container[P, T]) Fail(err error) {
	c.fail(err)
}

func (c *Container[P, T]) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Status = Error
	c.state.Err = models.UserMessage(err, c.opts.fallbackMsg)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

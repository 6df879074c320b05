// Package shutdown coordinates cleanup when a discovery run ends or is
// interrupted. A browser session left behind on Ctrl-C keeps a headless
// Chrome alive, so the CLI registers its cleanup here and runs the scan off
// the handler's context.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

// Callback is a named cleanup step executed during shutdown.
type Callback func(ctx context.Context) error

type namedCallback struct {
	name string
	fn   Callback
}

// Handler runs registered cleanup callbacks exactly once, either when a
// shutdown signal arrives or when Shutdown is called directly.
type Handler struct {
	mu        sync.Mutex
	callbacks []namedCallback

	shuttingDown atomic.Bool
	done         chan struct{}
	timeout      time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	sigChan chan os.Signal
}

// New creates a handler with the given cleanup timeout, listening for SIGINT
// and SIGTERM.
func New(timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &Handler{
		done:    make(chan struct{}),
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
		sigChan: make(chan os.Signal, 1),
	}
	signal.Notify(h.sigChan, syscall.SIGINT, syscall.SIGTERM)
	return h
}

// Register adds a cleanup callback. Callbacks run in reverse registration
// order, so later-acquired resources release first.
func (h *Handler) Register(name string, fn Callback) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.callbacks = append(h.callbacks, namedCallback{name: name, fn: fn})
}

// RegisterFunc adds a cleanup function that cannot fail.
func (h *Handler) RegisterFunc(name string, fn func()) {
	h.Register(name, func(context.Context) error {
		fn()
		return nil
	})
}

// Context returns a context cancelled when shutdown begins. Long-running
// work should run off this context so an interrupt stops it promptly.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// IsShuttingDown reports whether shutdown has started.
func (h *Handler) IsShuttingDown() bool {
	return h.shuttingDown.Load()
}

// Done returns a channel closed when shutdown completes.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}

// Listen starts a goroutine that triggers Shutdown on the first signal.
func (h *Handler) Listen() {
	go func() {
		select {
		case <-h.sigChan:
			h.Shutdown()
		case <-h.ctx.Done():
		}
	}()
}

// Shutdown cancels the handler context and runs the callbacks in reverse
// order under the cleanup timeout. Errors are collected and returned; a
// second call is a no-op returning nil.
func (h *Handler) Shutdown() []error {
	if !h.shuttingDown.CompareAndSwap(false, true) {
		return nil
	}

	h.cancel()

	cleanupCtx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	h.mu.Lock()
	callbacks := make([]namedCallback, len(h.callbacks))
	copy(callbacks, h.callbacks)
	h.mu.Unlock()

	var errs []error
	for i := len(callbacks) - 1; i >= 0; i-- {
		if err := h.run(cleanupCtx, callbacks[i]); err != nil {
			errs = append(errs, err)
		}
	}

	close(h.done)
	return errs
}

// run executes one callback, bounding it by the cleanup context.
func (h *Handler) run(ctx context.Context, cb namedCallback) error {
	result := make(chan error, 1)
	go func() {
		result <- cb.fn(ctx)
	}()

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return &TimeoutError{Name: cb.name}
	}
}

// Trigger injects a shutdown signal, for programmatic use.
func (h *Handler) Trigger() {
	select {
	case h.sigChan <- syscall.SIGTERM:
	default:
	}
}

// TimeoutError reports a cleanup callback that did not finish in time.
type TimeoutError struct {
	Name string
}

func (e *TimeoutError) Error() string {
	return "shutdown callback timed out: " + e.Name
}

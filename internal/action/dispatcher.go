package action

import (
	"context"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/logger"
)

// Injector simulates a key press in the OS input queue.
type Injector interface {
	Inject(ctx context.Context, b Binding) error
}

// Dispatcher performs the key press bound to an accepted gesture.
type Dispatcher struct {
	injector Injector
}

// NewDispatcher creates a Dispatcher that presses keys through injector.
func NewDispatcher(injector Injector) *Dispatcher {
	return &Dispatcher{injector: injector}
}

// Dispatch presses the key bound to g exactly once and returns the binding.
// An unbound gesture is a silent no-op and reports false. Injection errors are
// logged and not returned: the press is fire-and-forget.
func (d *Dispatcher) Dispatch(ctx context.Context, g gesture.Gesture) (Binding, bool) {
	b, ok := Lookup(g)
	if !ok {
		return Binding{}, false
	}

	if err := d.injector.Inject(ctx, b); err != nil {
		logger.WithError(err).WithField("key", b.Key).Warn("Key injection failed")
	}

	return b, true
}

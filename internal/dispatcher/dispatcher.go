package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrCallbackExists is returned when a request code is already bound.
	ErrCallbackExists = errors.New("callback already registered for request code")
	// ErrNilCallback is returned when registering a nil callback.
	ErrNilCallback = errors.New("callback must not be nil")
)

// Result is one asynchronous result delivered by the platform.
type Result struct {
	RequestCode int
	ResultCode  int
	Data        map[string]any
}

// Callback handles a result for the request code it was registered with. It
// reports whether the result was consumed.
type Callback func(ctx context.Context, res Result) bool

// Observer is notified of every result passed to OnActivityResult together
// with whether a callback consumed it.
type Observer func(ctx context.Context, res Result, handled bool)

// Dispatcher routes platform results to registered callbacks. All methods are
// safe for concurrent use.
type Dispatcher struct {
	id string

	mu        sync.RWMutex
	callbacks map[int]Callback
	observers map[int]Observer
	nextObs   int
}

func newDispatcher() *Dispatcher {
	return &Dispatcher{
		id:        uuid.NewString(),
		callbacks: make(map[int]Callback),
		observers: make(map[int]Observer),
	}
}

// ID returns the identity of this dispatcher instance.
func (d *Dispatcher) ID() string {
	return d.id
}

// RegisterCallback binds cb to requestCode.
func (d *Dispatcher) RegisterCallback(requestCode int, cb Callback) error {
	if cb == nil {
		return ErrNilCallback
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.callbacks[requestCode]; exists {
		return fmt.Errorf("%w: %d", ErrCallbackExists, requestCode)
	}
	d.callbacks[requestCode] = cb
	return nil
}

// UnregisterCallback removes the callback bound to requestCode, if any.
func (d *Dispatcher) UnregisterCallback(requestCode int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.callbacks, requestCode)
}

// Registered reports whether a callback is bound to requestCode.
func (d *Dispatcher) Registered(requestCode int) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.callbacks[requestCode]
	return ok
}

// OnActivityResult is the platform entry point. It hands the result to the
// callback bound to requestCode and reports whether it was handled. Results
// for unknown request codes are not handled.
func (d *Dispatcher) OnActivityResult(ctx context.Context, requestCode, resultCode int, data map[string]any) bool {
	res := Result{RequestCode: requestCode, ResultCode: resultCode, Data: data}

	d.mu.RLock()
	cb := d.callbacks[requestCode]
	observers := make([]Observer, 0, len(d.observers))
	for _, obs := range d.observers {
		observers = append(observers, obs)
	}
	d.mu.RUnlock()

	// Callbacks run without the lock so they may re-register themselves.
	handled := false
	if cb != nil {
		handled = cb(ctx, res)
	}

	for _, obs := range observers {
		obs(ctx, Result{RequestCode: res.RequestCode, ResultCode: res.ResultCode, Data: maps.Clone(res.Data)}, handled)
	}
	return handled
}

// Observe registers fn to be told about every result. The returned function
// removes the observer and may be called more than once. A nil fn is ignored.
func (d *Dispatcher) Observe(fn Observer) (cancel func()) {
	if fn == nil {
		return func() {}
	}

	d.mu.Lock()
	id := d.nextObs
	d.nextObs++
	d.observers[id] = fn
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.observers, id)
			d.mu.Unlock()
		})
	}
}

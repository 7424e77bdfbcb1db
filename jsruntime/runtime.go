package jsruntime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dop251/goja"

	"github.com/appo-sh/hostbridge/bridge"
)

// ErrClosed is returned by Execute after Close.
var ErrClosed = errors.New("jsruntime: runtime closed")

// DefaultGlobalName is the global object scripts use to reach the bridge.
const DefaultGlobalName = "appo"

// Option configures a Runtime.
type Option func(*Runtime)

// WithGlobalName renames the global bridge object.
func WithGlobalName(name string) Option {
	return func(r *Runtime) {
		if name != "" {
			r.globalName = name
		}
	}
}

// WithCallTimeout bounds every request issued from JavaScript.
func WithCallTimeout(d time.Duration) Option {
	return func(r *Runtime) {
		if d > 0 {
			r.callTimeout = d
		}
	}
}

// Runtime is a sandboxed JavaScript VM wired to a bridge.
type Runtime struct {
	vm          *goja.Runtime
	bridge      *bridge.Bridge
	globalName  string
	callTimeout time.Duration

	jobs      chan func()
	closed    chan struct{}
	closeOnce sync.Once

	subsMu sync.Mutex
	subs   []*bridge.Subscription
}

type execResult struct {
	value goja.Value
	err   error
}

// New creates a runtime bound to b and starts its loop goroutine.
func New(b *bridge.Bridge, opts ...Option) (*Runtime, error) {
	r := &Runtime{
		vm:          goja.New(),
		bridge:      b,
		globalName:  DefaultGlobalName,
		callTimeout: bridge.DefaultTimeout,
		jobs:        make(chan func(), 64),
		closed:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.installGlobal(); err != nil {
		return nil, err
	}

	go r.loop()
	return r, nil
}

// Execute runs a script on the VM goroutine and returns its completion
// value. Cancelling ctx interrupts a running script.
func (r *Runtime) Execute(ctx context.Context, script string) (goja.Value, error) {
	res := make(chan execResult, 1)
	job := func() {
		v, err := r.vm.RunString(script)
		res <- execResult{value: v, err: err}
	}

	// Refuse new work once closed; the jobs channel is buffered, so a send
	// could otherwise succeed with nobody left to run it.
	select {
	case <-r.closed:
		return nil, ErrClosed
	default:
	}

	select {
	case r.jobs <- job:
	case <-r.closed:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case out := <-res:
		return out.value, out.err
	case <-r.closed:
		return nil, ErrClosed
	case <-ctx.Done():
		r.vm.Interrupt("execution cancelled")
		select {
		case <-res:
		case <-r.closed:
		}
		r.vm.ClearInterrupt()
		return nil, ctx.Err()
	}
}

// Close cancels every script subscription and stops the loop goroutine.
// In-flight requests issued from JavaScript settle against the bridge but
// their callbacks are dropped.
func (r *Runtime) Close() {
	r.closeOnce.Do(func() {
		r.subsMu.Lock()
		for _, sub := range r.subs {
			sub.Cancel()
		}
		r.subs = nil
		r.subsMu.Unlock()
		close(r.closed)
	})
}

func (r *Runtime) loop() {
	for {
		select {
		case job := <-r.jobs:
			job()
		case <-r.closed:
			return
		}
	}
}

// schedule marshals fn onto the VM goroutine, dropping it if the runtime is
// closed.
func (r *Runtime) schedule(fn func()) {
	select {
	case r.jobs <- fn:
	case <-r.closed:
	}
}

func (r *Runtime) installGlobal() error {
	global := r.vm.NewObject()
	if err := global.Set("request", r.jsRequest); err != nil {
		return err
	}
	if err := global.Set("notify", r.jsNotify); err != nil {
		return err
	}
	if err := global.Set("subscribe", r.jsSubscribe); err != nil {
		return err
	}
	return r.vm.Set(r.globalName, global)
}

// jsRequest implements appo.request(type, payload, callback). The bridge
// round-trip happens off the VM goroutine; the callback is scheduled back
// onto it with (err, data).
func (r *Runtime) jsRequest(call goja.FunctionCall) goja.Value {
	channel := call.Argument(0).String()
	payload := exportArgument(call.Argument(1))

	cb, ok := goja.AssertFunction(call.Argument(2))
	if !ok {
		panic(r.vm.NewTypeError("request requires a callback function"))
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.callTimeout)
		defer cancel()

		data, err := r.bridge.Call(ctx, channel, payload)
		r.schedule(func() {
			if err != nil {
				cb(goja.Undefined(), r.errorValue(channel, err), goja.Undefined())
				return
			}
			cb(goja.Undefined(), goja.Null(), r.vm.ToValue(data))
		})
	}()

	return goja.Undefined()
}

// jsNotify implements appo.notify(type, payload).
func (r *Runtime) jsNotify(call goja.FunctionCall) goja.Value {
	channel := call.Argument(0).String()
	payload := exportArgument(call.Argument(1))

	if err := r.bridge.Notify(channel, payload); err != nil {
		panic(r.vm.ToValue(fmt.Sprintf("notify %s: %v", channel, err)))
	}
	return goja.Undefined()
}

// jsSubscribe implements appo.subscribe(event, callback) and returns an
// unsubscribe function.
func (r *Runtime) jsSubscribe(call goja.FunctionCall) goja.Value {
	event := call.Argument(0).String()

	cb, ok := goja.AssertFunction(call.Argument(1))
	if !ok {
		panic(r.vm.NewTypeError("subscribe requires a callback function"))
	}

	sub := r.bridge.Subscribe(event, func(data any) {
		r.schedule(func() {
			cb(goja.Undefined(), r.vm.ToValue(data))
		})
	})

	r.subsMu.Lock()
	r.subs = append(r.subs, sub)
	r.subsMu.Unlock()

	return r.vm.ToValue(func(goja.FunctionCall) goja.Value {
		sub.Cancel()
		return goja.Undefined()
	})
}

// errorValue renders a bridge failure as a plain {kind, channel, message}
// object for scripts.
func (r *Runtime) errorValue(channel string, err error) goja.Value {
	obj := map[string]any{
		"kind":    "internal",
		"channel": channel,
		"message": err.Error(),
	}
	var bridgeErr *bridge.Error
	if errors.As(err, &bridgeErr) {
		obj["kind"] = string(bridgeErr.Kind)
		obj["channel"] = bridgeErr.Channel
		obj["message"] = bridgeErr.Message
	} else if errors.Is(err, context.DeadlineExceeded) {
		obj["kind"] = string(bridge.KindTimeout)
	}
	return r.vm.ToValue(obj)
}

func exportArgument(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	return v.Export()
}

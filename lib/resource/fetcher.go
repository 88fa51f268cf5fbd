package resource

import (
	"context"
	"log/slog"
	"sync"
)

// FetchFunc loads the value for key.
type FetchFunc[K comparable, T any] func(ctx context.Context, key K) (T, error)

// Option configures a Fetcher.
type Option func(*options)

type options struct {
	ctx      context.Context
	onChange func()
	logger   *slog.Logger
	name     string
}

// OnChange registers fn to run after every committed state change. fn is
// called without the state lock held and may call State, but must not
// call Close.
func OnChange(fn func()) Option {
	return func(o *options) { o.onChange = fn }
}

// WithContext sets the parent context of every fetch. Cancelling it
// cancels in-flight fetches but does not close the fetcher.
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

// WithLogger sets the logger and the name used in fetch events.
func WithLogger(l *slog.Logger, name string) Option {
	return func(o *options) {
		o.logger = l
		o.name = name
	}
}

// Emptier is implemented by keys that can be blank without being the zero
// value (for example a key with only some identifiers filled in).
type Emptier interface {
	Empty() bool
}

// Fetcher keeps a Resource in sync with a key for a long-lived view.
//
// Each key change starts exactly one fetch. Only the fetch started by the
// most recent Set or Reload may write state: every start bumps a
// generation counter and cancels the previous context, and completions
// carrying an older generation are dropped. After Close nothing is
// written and OnChange is never called again.
type Fetcher[K comparable, T any] struct {
	fetch FetchFunc[K, T]
	opts  options

	mu     sync.Mutex
	key    K
	hasKey bool
	gen    uint64
	cancel context.CancelFunc
	state  Resource[T]
	closed bool

	notifyMu sync.Mutex
	wg       sync.WaitGroup
}

// NewFetcher creates an idle fetcher.
func NewFetcher[K comparable, T any](fetch FetchFunc[K, T], opts ...Option) *Fetcher[K, T] {
	o := options{ctx: context.Background(), logger: slog.Default(), name: "resource"}
	for _, opt := range opts {
		opt(&o)
	}
	return &Fetcher[K, T]{fetch: fetch, opts: o}
}

// Set binds the fetcher to key. A different key re-creates the resource
// and starts one fetch; the same key is a no-op; an empty key resets to
// Idle without fetching.
func (f *Fetcher[K, T]) Set(key K) {
	f.mu.Lock()
	if f.closed || (f.hasKey && f.key == key) {
		f.mu.Unlock()
		return
	}
	f.key, f.hasKey = key, true
	f.supersede()

	if isEmpty(key) {
		f.state = Resource[T]{}
	} else {
		f.state = Pending[T]()
		f.start(key)
	}
	f.mu.Unlock()
	f.notify()
}

// Clear unbinds the key and resets to Idle.
func (f *Fetcher[K, T]) Clear() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	var zero K
	f.key, f.hasKey = zero, false
	f.supersede()
	f.state = Resource[T]{}
	f.mu.Unlock()
	f.notify()
}

// Reload fetches the current key again. Data already shown stays visible
// and is marked Stale until the new response arrives; if the reload fails
// the stale data is kept alongside the error.
func (f *Fetcher[K, T]) Reload() {
	f.mu.Lock()
	if f.closed || !f.hasKey || isEmpty(f.key) {
		f.mu.Unlock()
		return
	}
	f.supersede()
	f.state.Status = Loading
	f.state.Err = nil
	f.state.Stale = f.state.Present
	f.start(f.key)
	f.mu.Unlock()
	f.notify()
}

// State returns a snapshot of the resource.
func (f *Fetcher[K, T]) State() Resource[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Key returns the bound key.
func (f *Fetcher[K, T]) Key() (K, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.key, f.hasKey
}

// Close detaches the fetcher from its view. In-flight fetches are
// cancelled and their results discarded. Close is idempotent.
func (f *Fetcher[K, T]) Close() {
	f.notifyMu.Lock()
	defer f.notifyMu.Unlock()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	f.supersede()
}

// Wait blocks until every fetch goroutine started so far has returned.
func (f *Fetcher[K, T]) Wait() {
	f.wg.Wait()
}

// supersede invalidates the running fetch. Called with mu held.
func (f *Fetcher[K, T]) supersede() {
	f.gen++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

// start launches the fetch for the current generation. Called with mu held.
func (f *Fetcher[K, T]) start(key K) {
	ctx, cancel := context.WithCancel(f.opts.ctx)
	f.cancel = cancel
	gen := f.gen

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		defer cancel()
		v, err := f.fetch(ctx, key)
		f.commit(gen, v, err)
	}()
}

func (f *Fetcher[K, T]) commit(gen uint64, v T, err error) {
	f.mu.Lock()
	if f.closed || gen != f.gen {
		f.mu.Unlock()
		f.opts.logger.Debug("fetch_event", "event", "result_discarded", "resource", f.opts.name, "generation", gen)
		return
	}
	f.cancel = nil

	switch {
	case err == nil:
		f.state = Of(v)
	case f.state.Present:
		f.state = Resource[T]{Data: f.state.Data, Present: true, Status: Error, Err: err, Stale: true}
	default:
		f.state = Failed[T](err)
	}
	f.mu.Unlock()

	if err != nil {
		f.opts.logger.Warn("fetch_event", "event", "fetch_failed", "resource", f.opts.name, "error", err)
	}
	f.notify()
}

// notify runs OnChange unless the fetcher was closed. Holding notifyMu
// makes Close wait for a notification already in progress.
func (f *Fetcher[K, T]) notify() {
	if f.opts.onChange == nil {
		return
	}
	f.notifyMu.Lock()
	defer f.notifyMu.Unlock()
	f.mu.Lock()
	closed := f.closed
	f.mu.Unlock()
	if !closed {
		f.opts.onChange()
	}
}

func isEmpty[K comparable](key K) bool {
	if e, ok := any(key).(Emptier); ok {
		return e.Empty()
	}
	var zero K
	return key == zero
}

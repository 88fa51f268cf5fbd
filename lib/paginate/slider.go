package paginate

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is the carousel auto-advance period.
const DefaultInterval = 3000 * time.Millisecond

// Ticker is the subset of time.Ticker a Slider needs.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) Chan() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()                  { t.t.Stop() }

// SliderOption configures a Slider.
type SliderOption func(*Slider)

// WithInterval sets the advance period.
func WithInterval(d time.Duration) SliderOption {
	return func(s *Slider) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithTicker replaces time.NewTicker.
func WithTicker(fn func(time.Duration) Ticker) SliderOption {
	return func(s *Slider) { s.newTicker = fn }
}

// OnSlide registers fn to run on the slider goroutine after every advance.
func OnSlide(fn func(Window)) SliderOption {
	return func(s *Slider) { s.onSlide = fn }
}

// Slider advances a Window on a repeating timer.
//
// A Slider owns at most one ticker. The ticker runs only while the window
// has pages; Resize to an empty collection stops it and a later non-empty
// Resize re-arms it. Stopping is final: the stop func returned by Start,
// Stop and cancelling Start's context all release the ticker exactly once.
type Slider struct {
	interval  time.Duration
	newTicker func(time.Duration) Ticker
	onSlide   func(Window)

	mu      sync.Mutex
	win     Window
	started bool

	wake     chan struct{}
	done     chan struct{}
	exited   chan struct{}
	stopOnce sync.Once
}

// NewSlider creates a stopped slider over w.
func NewSlider(w Window, opts ...SliderOption) *Slider {
	s := &Slider{
		interval: DefaultInterval,
		newTicker: func(d time.Duration) Ticker {
			return timeTicker{time.NewTicker(d)}
		},
		win:    w,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the slider goroutine and returns its release func.
// Calling Start again returns the same release func without starting a
// second goroutine.
func (s *Slider) Start(ctx context.Context) (stop func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		s.started = true
		go s.run(ctx)
	}
	return s.Stop
}

// Stop releases the ticker. It does not wait for the goroutine; use Done
// for that.
func (s *Slider) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

// Done is closed once the slider goroutine has exited.
func (s *Slider) Done() <-chan struct{} { return s.exited }

// Window returns a snapshot of the current window.
func (s *Slider) Window() Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.win
}

// Resize applies a new collection size and page size.
func (s *Slider) Resize(size, pageSize int) {
	s.mu.Lock()
	s.win.Resize(size, pageSize)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Slider) run(ctx context.Context) {
	defer close(s.exited)

	var (
		t    Ticker
		tick <-chan time.Time
	)
	disarm := func() {
		if t != nil {
			t.Stop()
			t, tick = nil, nil
		}
	}
	defer disarm()

	for {
		s.mu.Lock()
		empty := s.win.Empty()
		s.mu.Unlock()

		switch {
		case empty:
			disarm()
		case t == nil:
			t = s.newTicker(s.interval)
			tick = t.Chan()
		}

		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-s.wake:
		case <-tick:
			s.mu.Lock()
			s.win.Next()
			w := s.win
			s.mu.Unlock()
			if s.onSlide != nil {
				s.onSlide(w)
			}
		}
	}
}

package paginate

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeTicker struct {
	c       chan time.Time
	stops   atomic.Int32
	once    sync.Once
	stopped chan struct{}
}

func (t *fakeTicker) Chan() <-chan time.Time { return t.c }

func (t *fakeTicker) Stop() {
	t.stops.Add(1)
	t.once.Do(func() { close(t.stopped) })
}

type fakeClock struct {
	created chan *fakeTicker
}

func newFakeClock() *fakeClock {
	return &fakeClock{created: make(chan *fakeTicker, 8)}
}

func (c *fakeClock) newTicker(time.Duration) Ticker {
	t := &fakeTicker{c: make(chan time.Time), stopped: make(chan struct{})}
	c.created <- t
	return t
}

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}
	var zero T
	return zero
}

func TestSliderCyclesBackToStart(t *testing.T) {
	clk := newFakeClock()
	slides := make(chan int, 8)
	s := NewSlider(NewWindow(7, 3),
		WithTicker(clk.newTicker),
		OnSlide(func(w Window) { slides <- w.Index }),
	)
	stop := s.Start(context.Background())
	defer stop()

	tk := recv[*fakeTicker](t, clk.created)
	want := []int{1, 2, 0}
	for i, w := range want {
		tk.c <- time.Now()
		if got := recv[int](t, slides); got != w {
			t.Fatalf("tick %d: index = %d, want %d", i+1, got, w)
		}
	}
	if s.Window().Index != 0 {
		t.Errorf("after TotalPages ticks index = %d, want 0", s.Window().Index)
	}
}

func TestSliderIdleWhileEmpty(t *testing.T) {
	clk := newFakeClock()
	s := NewSlider(NewWindow(0, 3), WithTicker(clk.newTicker))
	stop := s.Start(context.Background())
	defer stop()

	select {
	case <-clk.created:
		t.Fatal("ticker armed for an empty collection")
	case <-time.After(50 * time.Millisecond):
	}

	s.Resize(5, 3)
	tk := recv[*fakeTicker](t, clk.created)

	s.Resize(0, 3)
	recv[struct{}](t, tk.stopped)

	s.Resize(2, 3)
	recv[*fakeTicker](t, clk.created)
}

func TestSliderStopsExactlyOnce(t *testing.T) {
	tests := []struct {
		name    string
		release func(s *Slider, stop func(), cancel context.CancelFunc)
	}{
		{"stop func", func(s *Slider, stop func(), cancel context.CancelFunc) { stop() }},
		{"stop twice", func(s *Slider, stop func(), cancel context.CancelFunc) {
			stop()
			s.Stop()
		}},
		{"context cancel", func(s *Slider, stop func(), cancel context.CancelFunc) { cancel() }},
		{"cancel then stop", func(s *Slider, stop func(), cancel context.CancelFunc) {
			cancel()
			stop()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clk := newFakeClock()
			s := NewSlider(NewWindow(4, 2), WithTicker(clk.newTicker))
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			stop := s.Start(ctx)
			tk := recv[*fakeTicker](t, clk.created)

			tt.release(s, stop, cancel)
			recv(t, s.Done())

			if n := tk.stops.Load(); n != 1 {
				t.Errorf("ticker stopped %d times, want 1", n)
			}
		})
	}
}

func TestSliderStartIsIdempotent(t *testing.T) {
	clk := newFakeClock()
	s := NewSlider(NewWindow(3, 3), WithTicker(clk.newTicker))
	stop := s.Start(context.Background())
	s.Start(context.Background())
	recv[*fakeTicker](t, clk.created)

	select {
	case <-clk.created:
		t.Fatal("second Start armed another ticker")
	case <-time.After(50 * time.Millisecond):
	}
	stop()
	recv(t, s.Done())
}

func TestSliderResizeClampsIndex(t *testing.T) {
	clk := newFakeClock()
	slides := make(chan int, 8)
	s := NewSlider(NewWindow(9, 3),
		WithTicker(clk.newTicker),
		OnSlide(func(w Window) { slides <- w.Index }),
	)
	stop := s.Start(context.Background())
	defer stop()

	tk := recv[*fakeTicker](t, clk.created)
	tk.c <- time.Now()
	recv[int](t, slides)
	tk.c <- time.Now()
	if got := recv[int](t, slides); got != 2 {
		t.Fatalf("index = %d, want 2", got)
	}

	s.Resize(4, 3)
	if w := s.Window(); w.Index != 1 || w.TotalPages() != 2 {
		t.Errorf("after shrink: %+v", w)
	}
}

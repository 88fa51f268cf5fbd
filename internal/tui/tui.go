// Package tui is the terminal front-end for the job board.
//
// Unlike the web host, views here live across many events. Each view owns
// its fetchers and its slider, starts them in Init and releases them in
// Close, which App calls exactly once when the view is left. Background
// goroutines never touch view state: they post a message naming the view,
// and the view reads the fetcher or slider snapshot when that message
// reaches Update.
//
//	app := tui.New(client, tui.WithCredential(cred))
//	p := tea.NewProgram(app, tea.WithAltScreen())
//	app.Attach(p.Send)
//	_, err := p.Run()
//	app.Close()
package tui

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pthm/shiftview/lib/api"
	"github.com/pthm/shiftview/lib/paginate"
)

// View is one screen. Close releases everything Init started and is
// called once by App.
type View interface {
	Init() tea.Cmd
	Update(tea.Msg) (View, tea.Cmd)
	View() string
	Close()
}

// changed reports a committed fetcher state change.
type changed struct{ view uint64 }

// slid reports a slider advance.
type slid struct{ view uint64 }

// openNotice navigates to the detail of a notice.
type openNotice struct {
	shopID, noticeID string
	offset           int
}

// openList navigates back to the notice list at offset.
type openList struct{ offset int }

func navigate(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

type deps struct {
	api      *api.Client
	cred     api.Credential
	logger   *slog.Logger
	interval time.Duration
	ticker   func(time.Duration) paginate.Ticker
	now      func() time.Time
	loc      *time.Location
	narrow   int

	ids atomic.Uint64

	mu   sync.Mutex
	send func(tea.Msg)
}

// post delivers msg to the program from any goroutine. It never blocks,
// so fetchers may notify from inside Update.
func (d *deps) post(msg tea.Msg) {
	d.mu.Lock()
	send := d.send
	d.mu.Unlock()
	if send == nil {
		return
	}
	go send(msg)
}

func (d *deps) nextID() uint64 { return d.ids.Add(1) }

// pageSize maps a terminal width in columns to a carousel page size.
func (d *deps) pageSize(cols int) int {
	if cols <= 0 {
		return paginate.DesktopPageSize
	}
	return paginate.PageSizeFor(cols, paginate.Breakpoints{Tablet: d.narrow})
}

func (d *deps) sliderOptions(onSlide func(paginate.Window)) []paginate.SliderOption {
	opts := []paginate.SliderOption{paginate.WithInterval(d.interval), paginate.OnSlide(onSlide)}
	if d.ticker != nil {
		opts = append(opts, paginate.WithTicker(d.ticker))
	}
	return opts
}

// Option configures an App.
type Option func(*deps)

// WithCredential sets the credential used for applying.
func WithCredential(c api.Credential) Option {
	return func(d *deps) { d.cred = c }
}

// WithLogger sets the logger. The terminal is owned by the program, so
// callers normally log to a file or discard.
func WithLogger(l *slog.Logger) Option {
	return func(d *deps) { d.logger = l }
}

// WithInterval sets the carousel advance interval.
func WithInterval(iv time.Duration) Option {
	return func(d *deps) {
		if iv > 0 {
			d.interval = iv
		}
	}
}

// WithTicker replaces the carousel ticker factory.
func WithTicker(fn func(time.Duration) paginate.Ticker) Option {
	return func(d *deps) { d.ticker = fn }
}

// WithClock sets the time source used to mark past notices.
func WithClock(now func() time.Time) Option {
	return func(d *deps) { d.now = now }
}

// WithLocation sets the zone notice times are shown in.
func WithLocation(loc *time.Location) Option {
	return func(d *deps) { d.loc = loc }
}

// WithNarrowWidth sets the terminal width in columns at or below which the
// carousel shows the tablet page size.
func WithNarrowWidth(cols int) Option {
	return func(d *deps) {
		if cols > 0 {
			d.narrow = cols
		}
	}
}

// App is the root bubbletea model. It swaps views on navigation.
type App struct {
	d     *deps
	view  View
	width int
}

// New creates an App showing the first page of the notice list.
func New(client *api.Client, opts ...Option) *App {
	d := &deps{
		api:      client,
		logger:   slog.Default(),
		interval: paginate.DefaultInterval,
		now:      time.Now,
		loc:      time.Local,
		narrow:   100,
	}
	for _, opt := range opts {
		opt(d)
	}
	a := &App{d: d}
	a.view = newListView(d, 0, 0)
	return a
}

// Attach sets where background goroutines deliver their messages,
// normally (*tea.Program).Send. Call it before the program runs.
func (a *App) Attach(send func(tea.Msg)) {
	a.d.mu.Lock()
	defer a.d.mu.Unlock()
	a.d.send = send
}

// Init starts the first view.
func (a *App) Init() tea.Cmd {
	return a.view.Init()
}

// Update handles global keys and navigation and forwards the rest to the
// current view.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return a, tea.Quit
		}
	case tea.WindowSizeMsg:
		a.width = msg.Width
	case openNotice:
		return a, a.swap(newDetailView(a.d, noticeKey{ShopID: msg.shopID, NoticeID: msg.noticeID}, msg.offset))
	case openList:
		return a, a.swap(newListView(a.d, msg.offset, a.width))
	}

	v, cmd := a.view.Update(msg)
	a.view = v
	return a, cmd
}

func (a *App) swap(next View) tea.Cmd {
	a.view.Close()
	a.view = next
	return next.Init()
}

// View renders the current view.
func (a *App) View() string {
	return a.view.View()
}

// Close releases the current view. Call it after the program exits.
func (a *App) Close() {
	a.view.Close()
}

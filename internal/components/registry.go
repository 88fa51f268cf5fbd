package components

import (
	"log/slog"
	"time"

	"github.com/pthm/shiftview"
	"github.com/pthm/shiftview/lib/api"
	"github.com/pthm/shiftview/lib/paginate"
)

// Option configures the components created by Init.
type Option func(*deps)

type deps struct {
	api         *api.Client
	logger      *slog.Logger
	interval    time.Duration
	breakpoints paginate.Breakpoints
	now         func() time.Time
	loc         *time.Location
}

// WithLogger sets the logger used for component events.
func WithLogger(l *slog.Logger) Option {
	return func(d *deps) { d.logger = l }
}

// WithCarouselInterval sets how often the notice carousel advances.
func WithCarouselInterval(interval time.Duration) Option {
	return func(d *deps) {
		if interval > 0 {
			d.interval = interval
		}
	}
}

// WithBreakpoints sets the viewport breakpoints of the carousel.
func WithBreakpoints(bp paginate.Breakpoints) Option {
	return func(d *deps) { d.breakpoints = bp }
}

// WithClock replaces time.Now, used to tell past notices apart.
func WithClock(now func() time.Time) Option {
	return func(d *deps) { d.now = now }
}

// WithLocation sets the time zone notice schedules are shown in.
func WithLocation(loc *time.Location) Option {
	return func(d *deps) { d.loc = loc }
}

// Set holds the mounted components so pages can render them.
type Set struct {
	NoticeDetail *NoticeDetail
	Applicants   *ApplicantList
	Carousel     *NoticeCarousel
	ShopNotices  *ShopNotices
	NoticeEdit   *NoticeEdit
	Profile      *Profile
	Login        *Login
}

// Init creates every component with its dependencies and registers them.
// Call this once at application startup before handling requests.
//
// Usage:
//
//	reg := shiftview.NewRegistry(key, shiftview.WithLoginURL(components.LoginURL))
//	set := components.Init(reg, client)
func Init(reg *shiftview.Registry, client *api.Client, opts ...Option) *Set {
	d := &deps{
		api:         client,
		logger:      slog.Default(),
		interval:    paginate.DefaultInterval,
		breakpoints: paginate.DefaultBreakpoints,
		now:         time.Now,
		loc:         time.Local,
	}
	for _, opt := range opts {
		opt(d)
	}

	set := &Set{
		NoticeDetail: NewNoticeDetail(d),
		Applicants:   NewApplicantList(d),
		Carousel:     NewNoticeCarousel(d),
		ShopNotices:  NewShopNotices(d),
		NoticeEdit:   NewNoticeEdit(d),
		Profile:      NewProfile(d),
		Login:        NewLogin(d),
	}
	reg.Add(
		set.NoticeDetail,
		set.Applicants,
		set.Carousel,
		set.ShopNotices,
		set.NoticeEdit,
		set.Profile,
		set.Login,
	)
	return set
}

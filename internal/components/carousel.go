package components

import (
	"context"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/pthm/shiftview"
	"github.com/pthm/shiftview/lib/api"
	"github.com/pthm/shiftview/lib/paginate"
	"github.com/pthm/shiftview/lib/resource"
)

// NoticeCarouselProps is the carousel position.
type NoticeCarouselProps struct {
	Index    int `msgpack:"i,omitempty"`
	PageSize int `msgpack:"ps,omitempty"`

	Notices resource.Resource[[]api.Notice] `msgpack:"-"`
	Window  paginate.Window                 `msgpack:"-"`
}

// NoticeCarousel shows recommended notices a page at a time and advances
// on a timer while there is something to show.
type NoticeCarousel struct {
	*shiftview.Component[NoticeCarouselProps]
	*deps
}

// NewNoticeCarousel creates the carousel view.
func NewNoticeCarousel(d *deps) *NoticeCarousel {
	c := &NoticeCarousel{
		Component: shiftview.New[NoticeCarouselProps]("carousel"),
		deps:      d,
	}
	c.Action("slide", c.handleSlide).Method(http.MethodGet)
	return c
}

// Hydrate fetches the notices and places the window over them.
func (c *NoticeCarousel) Hydrate(ctx context.Context, props *NoticeCarouselProps) error {
	props.Notices = resource.Load(ctx, func(ctx context.Context) ([]api.Notice, error) {
		list, err := c.api.ListNotices(ctx, api.NoticeQuery{Page: api.Page{Limit: api.CarouselFetchMax}})
		return list.Items, err
	})
	if props.PageSize <= 0 {
		props.PageSize = paginate.DesktopPageSize
	}
	props.Window = paginate.Window{Index: props.Index}
	props.Window.Resize(len(props.Notices.Data), props.PageSize)
	props.Index = props.Window.Index
	return nil
}

// handleSlide advances one page. The browser reports its viewport width
// as vw so the page size follows the layout.
func (c *NoticeCarousel) handleSlide(ctx context.Context, props NoticeCarouselProps, r *http.Request) shiftview.Result[NoticeCarouselProps] {
	if vw, err := strconv.Atoi(r.URL.Query().Get("vw")); err == nil {
		props.PageSize = paginate.PageSizeFor(vw, c.breakpoints)
		props.Window.Resize(props.Window.Size, props.PageSize)
	}
	props.Window.Next()
	props.Index = props.Window.Index
	return shiftview.OK(props)
}

// Render produces the HTML output.
func (c *NoticeCarousel) Render(ctx context.Context, props NoticeCarouselProps) templ.Component {
	return carouselTemplate(c, props)
}

// slideAttrs polls the next page while there is more than one.
func (c *NoticeCarousel) slideAttrs(props NoticeCarouselProps) templ.Attributes {
	if props.Window.Empty() || props.Window.TotalPages() <= 1 {
		return nil
	}
	a := c.Call("slide", props).Every(c.interval).Target("this").Attrs()
	a["hx-vals"] = "js:{vw: window.innerWidth}"
	return a
}

func (c *NoticeCarousel) closed(n api.Notice) bool {
	return n.Closed || n.Past(c.now())
}

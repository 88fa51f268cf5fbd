package components

import (
	"context"
	"net/http"

	"github.com/a-h/templ"

	"github.com/pthm/shiftview"
	"github.com/pthm/shiftview/lib/api"
	"github.com/pthm/shiftview/lib/paginate"
	"github.com/pthm/shiftview/lib/resource"
)

// ShopNoticesProps selects a page of a shop's notices.
type ShopNoticesProps struct {
	ShopID string `msgpack:"s"`
	Offset int    `msgpack:"o,omitempty"`
	// More renders only the fetched page and the next "more" button, for
	// appending below the previous page.
	More bool `msgpack:"m,omitempty"`

	Notices resource.Resource[api.List[api.Notice]] `msgpack:"-"`
	Page    paginate.PageInfo                       `msgpack:"-"`
}

// ShopNotices lists a shop's notices api.ShopNoticeLimit at a time.
type ShopNotices struct {
	*shiftview.Component[ShopNoticesProps]
	*deps
}

// NewShopNotices creates the shop notice list view.
func NewShopNotices(d *deps) *ShopNotices {
	c := &ShopNotices{
		Component: shiftview.New[ShopNoticesProps]("shopnotices"),
		deps:      d,
	}
	c.Action("more", c.handleMore).Method(http.MethodGet)
	return c
}

// Hydrate fetches the page at props.Offset.
func (c *ShopNotices) Hydrate(ctx context.Context, props *ShopNoticesProps) error {
	if props.ShopID == "" {
		return nil
	}
	props.Notices = resource.Load(ctx, func(ctx context.Context) (api.List[api.Notice], error) {
		return c.api.ListShopNotices(ctx, props.ShopID, api.Page{Offset: props.Offset, Limit: api.ShopNoticeLimit})
	})
	l := props.Notices.Data
	props.Page = paginate.NewPageInfo(props.Offset, api.ShopNoticeLimit, l.Count, l.HasNext)
	return nil
}

func (c *ShopNotices) handleMore(ctx context.Context, props ShopNoticesProps, r *http.Request) shiftview.Result[ShopNoticesProps] {
	props.More = true
	return shiftview.OK(props)
}

// Render produces the HTML output.
func (c *ShopNotices) Render(ctx context.Context, props ShopNoticesProps) templ.Component {
	return shopNoticesTemplate(c, props)
}

// moreAttrs replaces the button with the page after props.
func (c *ShopNotices) moreAttrs(props ShopNoticesProps) templ.Attributes {
	next := ShopNoticesProps{ShopID: props.ShopID, Offset: props.Page.NextOffset()}
	return c.Call("more", next).Target("this").SwapOuter().Attrs()
}

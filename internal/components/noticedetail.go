package components

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/a-h/templ"

	"github.com/pthm/shiftview"
	"github.com/pthm/shiftview/lib/api"
	"github.com/pthm/shiftview/lib/resource"
	"github.com/pthm/shiftview/lib/session"
)

// Events announced to other components.
const (
	EventApplicationChanged = "application:changed"
	EventNoticeUpdated      = "notice:updated"
)

// NoticeDetailProps identifies the notice and the visitor's application.
type NoticeDetailProps struct {
	ShopID        string `msgpack:"s"`
	NoticeID      string `msgpack:"n"`
	ApplicationID string `msgpack:"a,omitempty"`
	Canceled      bool   `msgpack:"c,omitempty"`

	Notice resource.Resource[api.Notice] `msgpack:"-"`
}

// NoticeDetail shows one notice with its apply and cancel buttons.
type NoticeDetail struct {
	*shiftview.Component[NoticeDetailProps]
	*deps
}

// NewNoticeDetail creates the notice detail view.
func NewNoticeDetail(d *deps) *NoticeDetail {
	c := &NoticeDetail{
		Component: shiftview.New[NoticeDetailProps]("noticedetail").Sensitive(),
		deps:      d,
	}
	c.Action("apply", c.handleApply)
	c.Action("cancel", c.handleCancel).Method(http.MethodPut)
	return c
}

// Hydrate fetches the notice as the visitor sees it. Missing identifiers
// leave it idle. A live application on the notice becomes the one the
// cancel button acts on.
func (c *NoticeDetail) Hydrate(ctx context.Context, props *NoticeDetailProps) error {
	if props.ShopID == "" || props.NoticeID == "" {
		return nil
	}
	props.Notice = resource.Load(ctx, func(ctx context.Context) (api.Notice, error) {
		return c.api.GetNotice(ctx, session.Credential(ctx), props.ShopID, props.NoticeID)
	})
	if props.Notice.Failed() {
		c.logger.Warn("fetch_event", "event", "notice_load_failed", "shop", props.ShopID, "notice", props.NoticeID, "error", props.Notice.Err)
		return nil
	}
	if app := props.Notice.Data.CurrentApplication; props.Notice.Present && app != nil && app.Status != api.StatusCanceled {
		props.ApplicationID, props.Canceled = app.ID, false
	}
	return nil
}

// Render produces the HTML output.
func (c *NoticeDetail) Render(ctx context.Context, props NoticeDetailProps) templ.Component {
	return noticeDetailTemplate(c, props)
}

func (c *NoticeDetail) handleApply(ctx context.Context, props NoticeDetailProps, r *http.Request) shiftview.Result[NoticeDetailProps] {
	app, err := c.api.Apply(ctx, session.Credential(ctx), props.ShopID, props.NoticeID)
	if err != nil {
		return c.failed(props, "apply", err)
	}
	c.logger.Info("application_event", "event", "applied", "notice", props.NoticeID, "application", app.ID)
	props.ApplicationID, props.Canceled = app.ID, false
	return shiftview.OK(props).
		Modal(shiftview.Alert("Your application was submitted.")).
		Trigger(EventApplicationChanged)
}

func (c *NoticeDetail) handleCancel(ctx context.Context, props NoticeDetailProps, r *http.Request) shiftview.Result[NoticeDetailProps] {
	ref := api.ApplicationRef{ShopID: props.ShopID, NoticeID: props.NoticeID, ApplicationID: props.ApplicationID}
	if _, err := c.api.UpdateApplicationStatus(ctx, session.Credential(ctx), ref, api.StatusCanceled); err != nil {
		return c.failed(props, "cancel", err)
	}
	c.logger.Info("application_event", "event", "canceled", "notice", props.NoticeID, "application", props.ApplicationID)
	props.Canceled = true
	return shiftview.OK(props).
		Modal(shiftview.Alert("Your application was canceled.")).
		Trigger(EventApplicationChanged)
}

// failed turns an API failure into a sign-in redirect or an error modal.
func (c *NoticeDetail) failed(props NoticeDetailProps, action string, err error) shiftview.Result[NoticeDetailProps] {
	if errors.Is(err, api.ErrMissingCredential) || api.StatusCode(err) == http.StatusUnauthorized {
		return shiftview.Err(props, fmt.Errorf("%s: %w", action, shiftview.ErrUnauthorized))
	}
	c.logger.Warn("application_event", "event", action+"_failed", "notice", props.NoticeID, "error", err)
	return shiftview.OK(props).Modal(shiftview.ErrorModal(api.Message(err)))
}

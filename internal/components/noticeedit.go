package components

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/pthm/shiftview"
	"github.com/pthm/shiftview/lib/api"
	"github.com/pthm/shiftview/lib/form"
	"github.com/pthm/shiftview/lib/resource"
	"github.com/pthm/shiftview/lib/session"
)

// startsAtLayout is the value format of a datetime-local input.
const startsAtLayout = "2006-01-02T15:04"

// NoticeFields is the notice edit form as typed by the user.
type NoticeFields struct {
	HourlyPay   string `json:"hourlyPay" validate:"required"`
	StartsAt    string `json:"startsAt" validate:"required"`
	WorkHour    string `json:"workhour" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// fieldsOf fills the form from a fetched notice.
func fieldsOf(n api.Notice, loc *time.Location) NoticeFields {
	f := NoticeFields{Description: n.Description}
	if n.HourlyPay > 0 {
		f.HourlyPay = strconv.Itoa(n.HourlyPay)
	}
	if n.WorkHour > 0 {
		f.WorkHour = strconv.Itoa(n.WorkHour)
	}
	if !n.StartsAt.IsZero() {
		f.StartsAt = n.StartsAt.In(loc).Format(startsAtLayout)
	}
	return f
}

func fieldsFrom(r *http.Request) NoticeFields {
	return NoticeFields{
		HourlyPay:   strings.TrimSpace(r.PostFormValue("hourlyPay")),
		StartsAt:    strings.TrimSpace(r.PostFormValue("startsAt")),
		WorkHour:    strings.TrimSpace(r.PostFormValue("workhour")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
	}
}

// input converts the typed fields. Unparseable fields are reported the
// same way as missing ones.
func (f NoticeFields) input(loc *time.Location) (api.NoticeInput, error) {
	var (
		in   = api.NoticeInput{Description: f.Description}
		errs []form.FieldError
		err  error
	)
	if in.HourlyPay, err = strconv.Atoi(f.HourlyPay); err != nil || in.HourlyPay <= 0 {
		errs = append(errs, form.FieldError{Field: "hourlyPay", Tag: "number"})
	}
	if in.WorkHour, err = strconv.Atoi(f.WorkHour); err != nil || in.WorkHour <= 0 {
		errs = append(errs, form.FieldError{Field: "workhour", Tag: "number"})
	}
	if in.StartsAt, err = time.ParseInLocation(startsAtLayout, f.StartsAt, loc); err != nil {
		errs = append(errs, form.FieldError{Field: "startsAt", Tag: "datetime"})
	}
	if len(errs) > 0 {
		return in, &form.ValidationError{Fields: errs}
	}
	return in, nil
}

// NoticeEditProps identifies the notice being edited.
type NoticeEditProps struct {
	ShopID   string `msgpack:"s"`
	NoticeID string `msgpack:"n"`
	// Populated is the notice the form was filled from. Set once the
	// fetched notice has been copied into the form.
	Populated string `msgpack:"pk,omitempty"`

	Notice  resource.Resource[api.Notice] `msgpack:"-"`
	Fields  NoticeFields                  `msgpack:"-"`
	Invalid *form.ValidationError         `msgpack:"-"`
	Failure string                        `msgpack:"-"`
}

func (p NoticeEditProps) key() string {
	if p.ShopID == "" || p.NoticeID == "" {
		return ""
	}
	return p.ShopID + "/" + p.NoticeID
}

// NoticeEdit is the notice edit form of a shop owner.
type NoticeEdit struct {
	*shiftview.Component[NoticeEditProps]
	*deps
}

// NewNoticeEdit creates the notice edit view.
func NewNoticeEdit(d *deps) *NoticeEdit {
	c := &NoticeEdit{
		Component: shiftview.New[NoticeEditProps]("noticeedit").Sensitive(),
		deps:      d,
	}
	c.Action("save", c.handleSave)
	return c
}

// Hydrate fetches the notice and fills the form from it the first time.
func (c *NoticeEdit) Hydrate(ctx context.Context, props *NoticeEditProps) error {
	key := props.key()
	if key == "" {
		return nil
	}
	props.Notice = resource.Load(ctx, func(ctx context.Context) (api.Notice, error) {
		return c.api.GetNotice(ctx, session.Credential(ctx), props.ShopID, props.NoticeID)
	})
	if !props.Notice.Present {
		return nil
	}

	ctrl := form.New(props.Fields, form.Populated(props.Populated))
	if ctrl.Populate(key, fieldsOf(props.Notice.Data, c.loc)) {
		props.Fields = ctrl.Values()
		props.Populated = ctrl.PopulatedKey()
	}
	return nil
}

func (c *NoticeEdit) handleSave(ctx context.Context, props NoticeEditProps, r *http.Request) shiftview.Result[NoticeEditProps] {
	ctrl := form.New(props.Fields,
		form.Populated(props.Populated),
		form.WithSuccess("Notice updated."),
		form.DismissTo(ShopURL(props.ShopID)),
	)

	m, err := ctrl.Submit(ctx, fieldsFrom(r), func(ctx context.Context, f NoticeFields) error {
		in, err := f.input(c.loc)
		if err != nil {
			return err
		}
		_, err = c.api.UpdateNotice(ctx, session.Credential(ctx), props.ShopID, props.NoticeID, in)
		return err
	})
	props.Fields = ctrl.Values()

	var invalid *form.ValidationError
	switch {
	case err == nil:
		c.logger.Info("notice_event", "event", "notice_updated", "shop", props.ShopID, "notice", props.NoticeID)
		return shiftview.OK(props).Modal(m).Trigger(EventNoticeUpdated)
	case errors.As(err, &invalid):
		props.Invalid = invalid
		return shiftview.OK(props)
	case errors.Is(err, api.ErrMissingCredential), api.StatusCode(err) == http.StatusUnauthorized:
		return shiftview.Err(props, fmt.Errorf("save notice: %w", shiftview.ErrUnauthorized))
	}

	c.logger.Warn("notice_event", "event", "notice_update_failed", "notice", props.NoticeID, "state", ctrl.State(), "error", err)
	props.Failure = api.Message(err)
	return shiftview.OK(props).Modal(shiftview.ErrorModal(props.Failure))
}

// Render produces the HTML output.
func (c *NoticeEdit) Render(ctx context.Context, props NoticeEditProps) templ.Component {
	return noticeEditTemplate(c, props)
}

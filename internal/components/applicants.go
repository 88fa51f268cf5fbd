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

// ApplicantListProps identifies the notice whose applicants are listed.
type ApplicantListProps struct {
	ShopID   string `msgpack:"s"`
	NoticeID string `msgpack:"n"`

	Applicants resource.Resource[api.List[api.Application]] `msgpack:"-"`
}

// ApplicantList shows who applied to a notice. The shop owner can accept
// or reject pending applications.
type ApplicantList struct {
	*shiftview.Component[ApplicantListProps]
	*deps
}

// NewApplicantList creates the applicant list view.
func NewApplicantList(d *deps) *ApplicantList {
	c := &ApplicantList{
		Component: shiftview.New[ApplicantListProps]("applicants").Sensitive(),
		deps:      d,
	}
	c.Action("accept", c.decide(api.StatusAccepted)).Method(http.MethodPut)
	c.Action("reject", c.decide(api.StatusRejected)).Method(http.MethodPut)
	return c
}

// Hydrate fetches up to api.ApplicantLimit applications.
func (c *ApplicantList) Hydrate(ctx context.Context, props *ApplicantListProps) error {
	if props.ShopID == "" || props.NoticeID == "" {
		return nil
	}
	props.Applicants = resource.Load(ctx, func(ctx context.Context) (api.List[api.Application], error) {
		return c.api.ListApplicants(ctx, props.ShopID, props.NoticeID, api.Page{Limit: api.ApplicantLimit})
	})
	return nil
}

// Render produces the HTML output.
func (c *ApplicantList) Render(ctx context.Context, props ApplicantListProps) templ.Component {
	return applicantListTemplate(c, props)
}

// decideAttrs posts applicationID to the accept or reject action.
func (c *ApplicantList) decideAttrs(action string, props ApplicantListProps, applicationID, confirm string) templ.Attributes {
	return c.Call(action, props).
		Vals(map[string]any{"application": applicationID}).
		Target("#applicants").
		Confirm(confirm).
		Attrs()
}

func statusLabel(status string) string {
	switch status {
	case api.StatusPending:
		return "Pending"
	case api.StatusAccepted:
		return "Accepted"
	case api.StatusRejected:
		return "Rejected"
	case api.StatusCanceled:
		return "Canceled"
	}
	return status
}

// decide returns the handler that moves the posted application to status.
func (c *ApplicantList) decide(status string) shiftview.Handler[ApplicantListProps] {
	return func(ctx context.Context, props ApplicantListProps, r *http.Request) shiftview.Result[ApplicantListProps] {
		ref := api.ApplicationRef{ShopID: props.ShopID, NoticeID: props.NoticeID, ApplicationID: r.PostFormValue("application")}
		app, err := c.api.UpdateApplicationStatus(ctx, session.Credential(ctx), ref, status)
		if err != nil {
			if errors.Is(err, api.ErrMissingCredential) || api.StatusCode(err) == http.StatusUnauthorized {
				return shiftview.Err(props, fmt.Errorf("%s: %w", status, shiftview.ErrUnauthorized))
			}
			c.logger.Warn("application_event", "event", "status_update_failed", "application", ref.ApplicationID, "status", status, "error", err)
			return shiftview.OK(props).Modal(shiftview.ErrorModal(api.Message(err)))
		}
		c.logger.Info("application_event", "event", "status_updated", "application", app.ID, "status", app.Status)

		// Replace the row in place rather than refetching the list.
		if props.Applicants.Present {
			items := append([]api.Application(nil), props.Applicants.Data.Items...)
			for i := range items {
				if items[i].ID == app.ID {
					items[i].Status = app.Status
				}
			}
			props.Applicants.Data.Items = items
		}
		return shiftview.OK(props).Modal(shiftview.Alert(fmt.Sprintf("The application was %s.", app.Status)))
	}
}

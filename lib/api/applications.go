package api

import (
	"context"
	"fmt"
	"net/http"
)

// ListApplicants fetches the applications to a notice. A zero limit uses
// ApplicantLimit.
func (c *Client) ListApplicants(ctx context.Context, shopID, noticeID string, page Page) (List[Application], error) {
	if page.Limit == 0 {
		page.Limit = ApplicantLimit
	}
	var out listOf[applicationWire]
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/shops/%s/notices/%s/applications", escape(shopID, noticeID)...),
		query:  page,
	}, &out)
	if err != nil {
		return List[Application]{}, err
	}

	list := flattenList(out, func(w applicationWire) Application {
		a := w.flatten()
		if a.ShopID == "" {
			a.ShopID = shopID
		}
		if a.NoticeID == "" {
			a.NoticeID = noticeID
		}
		return a
	})
	for _, a := range list.Items {
		if err := c.check(a); err != nil {
			return List[Application]{}, err
		}
	}
	return list, nil
}

// Apply submits a pending application for the signed-in user.
func (c *Client) Apply(ctx context.Context, cred Credential, shopID, noticeID string) (Application, error) {
	var out itemOf[applicationWire]
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/shops/%s/notices/%s/applications", escape(shopID, noticeID)...),
		cred:   &cred,
		body:   statusBody{Status: StatusPending},
	}, &out)
	if err != nil {
		return Application{}, err
	}
	return c.application(out.Item, ApplicationRef{ShopID: shopID, NoticeID: noticeID})
}

// UpdateApplicationStatus moves an application to status. Employers accept
// or reject; applicants cancel.
func (c *Client) UpdateApplicationStatus(ctx context.Context, cred Credential, ref ApplicationRef, status string) (Application, error) {
	if err := c.check(ref); err != nil {
		return Application{}, err
	}
	switch status {
	case StatusAccepted, StatusRejected, StatusCanceled:
	default:
		return Application{}, fmt.Errorf("%w: status %q", ErrInvalidPayload, status)
	}

	var out itemOf[applicationWire]
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   fmt.Sprintf("/shops/%s/notices/%s/applications/%s", escape(ref.ShopID, ref.NoticeID, ref.ApplicationID)...),
		cred:   &cred,
		body:   statusBody{Status: status},
	}, &out)
	if err != nil {
		return Application{}, err
	}
	return c.application(out.Item, ref)
}

func (c *Client) application(w applicationWire, ref ApplicationRef) (Application, error) {
	a := w.flatten()
	if a.ShopID == "" {
		a.ShopID = ref.ShopID
	}
	if a.NoticeID == "" {
		a.NoticeID = ref.NoticeID
	}
	if err := c.check(a); err != nil {
		return Application{}, err
	}
	return a, nil
}

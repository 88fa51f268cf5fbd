package api

import (
	"context"
	"fmt"
	"net/http"
)

// Default page sizes used by the views.
const (
	ApplicantLimit   = 100
	ShopNoticeLimit  = 6
	NoticeListLimit  = 6
	CarouselFetchMax = 9
)

// NoticeQuery filters the public notice list.
type NoticeQuery struct {
	Page
	Sort         string   `url:"sort,omitempty"`
	Keyword      string   `url:"keyword,omitempty"`
	Address      []string `url:"address,omitempty"`
	HourlyPayGte int      `url:"hourlyPayGte,omitempty"`
}

// GetNotice fetches one notice with its shop. With a non-empty viewer
// credential the backend also reports the viewer's application as
// CurrentApplication; an empty one fetches anonymously.
func (c *Client) GetNotice(ctx context.Context, viewer Credential, shopID, noticeID string) (Notice, error) {
	var out itemOf[noticeWire]
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/shops/%s/notices/%s", escape(shopID, noticeID)...),
		cred:   &viewer,
		viewer: true,
	}, &out)
	if err != nil {
		return Notice{}, err
	}
	n := out.Item.flatten()
	if err := c.check(n); err != nil {
		return Notice{}, err
	}
	return n, nil
}

// ListNotices fetches the public notice list.
func (c *Client) ListNotices(ctx context.Context, q NoticeQuery) (List[Notice], error) {
	var out listOf[noticeWire]
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/notices",
		query:  q,
	}, &out)
	if err != nil {
		return List[Notice]{}, err
	}
	return c.checkList(flattenList(out, noticeWire.flatten))
}

// ListShopNotices fetches one page of a shop's notices. A zero limit uses
// ShopNoticeLimit.
func (c *Client) ListShopNotices(ctx context.Context, shopID string, page Page) (List[Notice], error) {
	if page.Limit == 0 {
		page.Limit = ShopNoticeLimit
	}
	q := struct {
		Offset int `url:"offset"`
		Limit  int `url:"limit"`
	}{page.Offset, page.Limit}

	var out listOf[noticeWire]
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/shops/%s/notices", escape(shopID)...),
		query:  q,
	}, &out)
	if err != nil {
		return List[Notice]{}, err
	}
	list := flattenList(out, func(w noticeWire) Notice {
		n := w.flatten()
		if n.Shop.ID == "" {
			n.Shop.ID = shopID
		}
		return n
	})
	return c.checkList(list)
}

// UpdateNotice replaces the editable fields of a notice.
func (c *Client) UpdateNotice(ctx context.Context, cred Credential, shopID, noticeID string, in NoticeInput) (Notice, error) {
	if err := c.check(in); err != nil {
		return Notice{}, err
	}
	var out itemOf[noticeWire]
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   fmt.Sprintf("/shops/%s/notices/%s", escape(shopID, noticeID)...),
		cred:   &cred,
		body:   in,
	}, &out)
	if err != nil {
		return Notice{}, err
	}
	n := out.Item.flatten()
	if err := c.check(n); err != nil {
		return Notice{}, err
	}
	return n, nil
}

func (c *Client) checkList(l List[Notice]) (List[Notice], error) {
	for _, n := range l.Items {
		if err := c.check(n); err != nil {
			return List[Notice]{}, err
		}
	}
	return l, nil
}

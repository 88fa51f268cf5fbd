package components

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/pthm/shiftview"
	"github.com/pthm/shiftview/lib/api/apitest"
)

func TestShopNoticesFirstPage(t *testing.T) {
	set, srv := setup(t)

	res, err := shiftview.TestRenderWithContext(employer(), set.ShopNotices, ShopNoticesProps{ShopID: apitest.ShopID})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := strings.Count(res.HTML, `<li class="notice-item"`); got != 6 {
		t.Errorf("items = %d, want 6", got)
	}
	want := []string{`id="shop-notices"`, "More (6 of 7)", `href="/shops/s1/notices/n1/edit"`}
	if !res.HTMLContainsAll(want...) {
		t.Errorf("HTML missing one of %q:\n%s", want, res.HTML)
	}
	if reqs := srv.Requests(); len(reqs) != 1 || reqs[0].Query != "limit=6&offset=0" {
		t.Errorf("requests = %+v, want one call with limit=6 offset=0", reqs)
	}
}

func TestShopNoticesEditLinks(t *testing.T) {
	tests := []struct {
		name  string
		ctx   context.Context
		links bool
	}{
		{"shop owner", employer(), true},
		{"employer of another shop", foreignEmployer(), false},
		{"employee", employee(), false},
		{"signed out", anonymous(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, _ := setup(t)

			res, err := shiftview.TestRenderWithContext(tt.ctx, set.ShopNotices, ShopNoticesProps{ShopID: apitest.ShopID})
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if got := res.HTMLContains("/edit"); got != tt.links {
				t.Errorf("edit links shown = %v, want %v:\n%s", got, tt.links, res.HTML)
			}
		})
	}
}

func TestShopNoticesMore(t *testing.T) {
	set, srv := setup(t)

	first, err := shiftview.TestRender(set.ShopNotices, ShopNoticesProps{ShopID: apitest.ShopID})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !first.HTMLContains(`hx-swap="outerHTML"`) {
		t.Fatalf("more button should replace itself:\n%s", first.HTML)
	}

	next := set.ShopNotices.Call("more", ShopNoticesProps{ShopID: apitest.ShopID, Offset: 6})
	res, err := shiftview.TestGet(set.ShopNotices, next.URL())
	if err != nil {
		t.Fatalf("more: %v", err)
	}
	if res.HTMLContains(`id="shop-notices"`) {
		t.Error("more should render only the appended page")
	}
	if got := strings.Count(res.HTML, `<li class="notice-item"`); got != 1 {
		t.Errorf("items = %d, want 1", got)
	}
	if res.HTMLContains("More (") {
		t.Error("last page should not offer more")
	}

	reqs := srv.Requests()
	if last := reqs[len(reqs)-1]; last.Method != http.MethodGet || last.Query != "limit=6&offset=6" {
		t.Errorf("last request = %+v, want offset=6 limit=6", last)
	}
}

func TestShopNoticesEmpty(t *testing.T) {
	set, srv := setup(t)
	srv.ClearNotices()

	res, err := shiftview.TestRender(set.ShopNotices, ShopNoticesProps{ShopID: apitest.ShopID})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !res.HTMLContains("No notices registered yet.") || res.HTMLContains("More (") {
		t.Errorf("want empty state without more:\n%s", res.HTML)
	}
}

package components

import (
	"net/http"
	"strings"
	"testing"

	"github.com/pthm/shiftview"
)

func TestNoticeCarouselRender(t *testing.T) {
	set, srv := setup(t)

	res, err := shiftview.TestRender(set.Carousel, NoticeCarouselProps{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := strings.Count(res.HTML, `<a class="post`); got != 3 {
		t.Errorf("cards = %d, want 3", got)
	}
	want := []string{`data-page="1"`, `data-pages="3"`, `hx-trigger="every 3s"`, `hx-vals="js:{vw: window.innerWidth}"`}
	if !res.HTMLContainsAll(want...) {
		t.Errorf("HTML missing one of %q:\n%s", want, res.HTML)
	}
	if reqs := srv.Requests(); len(reqs) != 1 || reqs[0].Query != "limit=9" {
		t.Errorf("requests = %+v, want one list call with limit=9", reqs)
	}
}

func TestNoticeCarouselSlide(t *testing.T) {
	tests := []struct {
		name     string
		props    NoticeCarouselProps
		vw       string
		wantPage string
		wantSize int
	}{
		{"desktop advances", NoticeCarouselProps{}, "1440", `data-page="2"`, 3},
		{"desktop wraps", NoticeCarouselProps{Index: 2}, "1440", `data-page="1"`, 3},
		{"tablet shrinks the page", NoticeCarouselProps{}, "800", `data-page="2"`, 2},
		{"tablet wraps after four pages", NoticeCarouselProps{Index: 3, PageSize: 2}, "800", `data-page="1"`, 2},
		{"no width keeps the size", NoticeCarouselProps{PageSize: 2}, "", `data-page="2"`, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, _ := setup(t)

			url := set.Carousel.Call("slide", tt.props).URL()
			if tt.vw != "" {
				sep := "?"
				if strings.Contains(url, "?") {
					sep = "&"
				}
				url += sep + "vw=" + tt.vw
			}
			res, err := shiftview.TestGet(set.Carousel, url)
			if err != nil {
				t.Fatalf("slide: %v", err)
			}
			if !res.IsOK() {
				t.Fatalf("status = %d: %s", res.StatusCode, res.HTML)
			}
			if !res.HTMLContains(tt.wantPage) {
				t.Errorf("want %s:\n%s", tt.wantPage, res.HTML)
			}
			if cards := strings.Count(res.HTML, `<a class="post`); cards != tt.wantSize {
				t.Errorf("cards = %d, want %d", cards, tt.wantSize)
			}
		})
	}
}

func TestNoticeCarouselEmptyAndFailed(t *testing.T) {
	set, srv := setup(t)

	srv.ClearNotices()
	res, err := shiftview.TestRender(set.Carousel, NoticeCarouselProps{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !res.HTMLContains("No notices yet.") || res.HTMLContains("hx-trigger") {
		t.Errorf("empty carousel should show a notice and not poll:\n%s", res.HTML)
	}

	srv.Fail(http.MethodGet, "/notices", http.StatusInternalServerError, "boom")
	res, err = shiftview.TestRender(set.Carousel, NoticeCarouselProps{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !res.HTMLContains("Failed to fetch data") || res.HTMLContains("hx-trigger") {
		t.Errorf("failed carousel should show the error and not poll:\n%s", res.HTML)
	}
}

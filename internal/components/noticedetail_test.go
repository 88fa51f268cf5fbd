package components

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/pthm/shiftview"
	"github.com/pthm/shiftview/lib/api"
	"github.com/pthm/shiftview/lib/api/apitest"
)

const (
	applyPath     = "/shops/s1/notices/n1/applications"
	openApplyPath = "/shops/s1/notices/n2/applications"
)

func detailProps() NoticeDetailProps {
	return NoticeDetailProps{ShopID: apitest.ShopID, NoticeID: apitest.FirstNoticeID}
}

// openProps is a notice the employee has not applied to.
func openProps() NoticeDetailProps {
	return NoticeDetailProps{ShopID: apitest.ShopID, NoticeID: "n2"}
}

func TestNoticeDetailRender(t *testing.T) {
	set, _ := setup(t)

	tests := []struct {
		name  string
		ctx   context.Context
		props NoticeDetailProps
		want  []string
		skip  string
	}{
		{
			name:  "employee can apply",
			ctx:   employee(),
			props: openProps(),
			want:  []string{"Corner Bakery", "12,000원", "▲ 20% over base pay", "<strong>bakery</strong>", ">Apply</button>"},
		},
		{
			name:  "existing application is picked up",
			ctx:   employee(),
			props: detailProps(),
			want:  []string{"Cancel application", `hx-confirm="Cancel your application?"`},
			skip:  ">Apply</button>",
		},
		{
			name:  "applied can cancel",
			ctx:   employee(),
			props: NoticeDetailProps{ShopID: apitest.ShopID, NoticeID: apitest.FirstNoticeID, ApplicationID: apitest.ApplicationID},
			want:  []string{"Cancel application", `hx-confirm="Cancel your application?"`},
		},
		{
			name:  "canceled can apply again",
			ctx:   employee(),
			props: NoticeDetailProps{ShopID: apitest.ShopID, NoticeID: "n2", ApplicationID: "a-old", Canceled: true},
			want:  []string{">Apply</button>"},
			skip:  "Cancel application",
		},
		{
			name:  "owner edits",
			ctx:   employer(),
			props: detailProps(),
			want:  []string{"Edit notice", `href="/shops/s1/notices/n1/edit"`},
		},
		{
			name:  "employer of another shop cannot edit",
			ctx:   foreignEmployer(),
			props: detailProps(),
			want:  []string{"Corner Bakery"},
			skip:  "Edit notice",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := shiftview.TestRenderWithContext(tt.ctx, set.NoticeDetail, tt.props)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if !res.HTMLContainsAll(tt.want...) {
				t.Errorf("HTML missing one of %q:\n%s", tt.want, res.HTML)
			}
			if tt.skip != "" && res.HTMLContains(tt.skip) {
				t.Errorf("HTML should not contain %q:\n%s", tt.skip, res.HTML)
			}
		})
	}
}

func TestNoticeDetailStates(t *testing.T) {
	set, srv := setup(t)

	res, err := shiftview.TestRender(set.NoticeDetail, NoticeDetailProps{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !res.HTMLContains(`class="spinner"`) {
		t.Errorf("missing identifiers should stay loading:\n%s", res.HTML)
	}
	if n := len(srv.Requests()); n != 0 {
		t.Errorf("%d backend requests without identifiers, want 0", n)
	}

	srv.Fail(http.MethodGet, "/shops/s1/notices/n1", http.StatusInternalServerError, "database down")
	res, err = shiftview.TestRender(set.NoticeDetail, detailProps())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !res.HTMLContains("database down") {
		t.Errorf("want error state with the backend message:\n%s", res.HTML)
	}
}

func TestNoticeDetailPastNoticeIsDisabled(t *testing.T) {
	set, _ := setup(t)
	set.NoticeDetail.now = func() time.Time { return testNow.AddDate(5, 0, 0) }

	res, err := shiftview.TestRenderWithContext(employee(), set.NoticeDetail, detailProps())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !res.HTMLContains(`<button class="btn" disabled>Expired</button>`) {
		t.Errorf("past notice should not be open for applications:\n%s", res.HTML)
	}
}

func TestNoticeDetailApply(t *testing.T) {
	set, srv := setup(t)

	res, err := shiftview.TestCallWithContext(employee(), set.NoticeDetail, set.NoticeDetail.Call("apply", openProps()), nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !res.IsOK() {
		t.Fatalf("status = %d, body %s", res.StatusCode, res.HTML)
	}
	if !res.HasModal("Your application was submitted.") {
		t.Errorf("modal = %+v", res.Modal)
	}
	if !res.HasEvent(EventApplicationChanged) {
		t.Errorf("events = %v, want %s", res.TriggeredEvents, EventApplicationChanged)
	}
	if !res.HTMLContains("Cancel application") {
		t.Errorf("applied notice should offer cancel:\n%s", res.HTML)
	}
	if got := srv.Count(http.MethodPost, openApplyPath); got != 1 {
		t.Errorf("apply requests = %d, want 1", got)
	}
	reqs := srv.Requests()
	if last := reqs[len(reqs)-1]; last.Authorization != "Bearer "+apitest.EmployeeToken {
		t.Errorf("Authorization = %q", last.Authorization)
	}
}

func TestNoticeDetailApplyRequiresSignIn(t *testing.T) {
	set, srv := setup(t)

	for name, ctx := range map[string]context.Context{
		"no session":  context.Background(),
		"signed out":  anonymous(),
		"stale token": signedIn("expired", apitest.EmployeeID, api.UserEmployee, ""),
	} {
		t.Run(name, func(t *testing.T) {
			res, err := shiftview.TestCallWithContext(ctx, set.NoticeDetail, set.NoticeDetail.Call("apply", detailProps()), nil)
			if err != nil {
				t.Fatalf("apply: %v", err)
			}
			if !res.RedirectedTo(LoginURL) {
				t.Errorf("redirect = %q, want %s", res.RedirectURL, LoginURL)
			}
		})
	}
	// Only the stale token reaches the backend.
	if got := srv.Count(http.MethodPost, applyPath); got != 1 {
		t.Errorf("apply requests = %d, want 1", got)
	}
}

func TestNoticeDetailApplyRejected(t *testing.T) {
	set, _ := setup(t)

	res, err := shiftview.TestCallWithContext(employer(), set.NoticeDetail, set.NoticeDetail.Call("apply", detailProps()), nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if res.Modal == nil || res.Modal.Kind != shiftview.ModalError || res.Modal.Content != "only employees can apply" {
		t.Errorf("modal = %+v, want error modal", res.Modal)
	}
	if res.HasEvent(EventApplicationChanged) {
		t.Error("failed apply must not announce a change")
	}
}

func TestNoticeDetailCancel(t *testing.T) {
	set, srv := setup(t)
	props := detailProps()
	props.ApplicationID = apitest.ApplicationID

	res, err := shiftview.TestCallWithContext(employee(), set.NoticeDetail, set.NoticeDetail.Call("cancel", props), nil)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if !res.HasModal("Your application was canceled.") {
		t.Errorf("modal = %+v", res.Modal)
	}
	if got := srv.Application(apitest.ApplicationID).Status; got != api.StatusCanceled {
		t.Errorf("status = %q, want %q", got, api.StatusCanceled)
	}
	if !res.HTMLContains(">Apply</button>") {
		t.Errorf("canceled notice should offer apply again:\n%s", res.HTML)
	}
}

package components

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/pthm/shiftview"
	"github.com/pthm/shiftview/lib/api"
	"github.com/pthm/shiftview/lib/api/apitest"
)

func applicantProps() ApplicantListProps {
	return ApplicantListProps{ShopID: apitest.ShopID, NoticeID: apitest.FirstNoticeID}
}

func TestApplicantListRender(t *testing.T) {
	set, srv := setup(t)

	res, err := shiftview.TestRenderWithContext(employer(), set.Applicants, applicantProps())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := []string{"Kim Worker", "010-1234-5678", `href="/users/u1"`, ">Accept</button>", ">Reject</button>", `hx-trigger="application:changed from:body"`}
	if !res.HTMLContainsAll(want...) {
		t.Errorf("HTML missing one of %q:\n%s", want, res.HTML)
	}

	reqs := srv.Requests()
	if len(reqs) != 1 || !strings.Contains(reqs[0].Query, "limit=100") {
		t.Errorf("requests = %+v, want one list call with limit=100", reqs)
	}
}

func TestApplicantListDecisionButtons(t *testing.T) {
	tests := []struct {
		name    string
		ctx     context.Context
		buttons bool
	}{
		{"shop owner", employer(), true},
		{"employer of another shop", foreignEmployer(), false},
		{"employee", employee(), false},
		{"signed out", anonymous(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, _ := setup(t)

			res, err := shiftview.TestRenderWithContext(tt.ctx, set.Applicants, applicantProps())
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if got := res.HTMLContains(">Accept</button>"); got != tt.buttons {
				t.Errorf("Accept shown = %v, want %v:\n%s", got, tt.buttons, res.HTML)
			}
			if !tt.buttons && !res.HTMLContains(`<span class="status status-pending">Pending</span>`) {
				t.Errorf("missing status label:\n%s", res.HTML)
			}
		})
	}
}

func TestApplicantListEmpty(t *testing.T) {
	set, _ := setup(t)

	props := ApplicantListProps{ShopID: apitest.ShopID, NoticeID: "n2"}
	res, err := shiftview.TestRenderWithContext(employer(), set.Applicants, props)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !res.HTMLContains("No applications yet.") {
		t.Errorf("want empty state:\n%s", res.HTML)
	}
}

func TestApplicantListDecide(t *testing.T) {
	tests := []struct {
		action string
		status string
		label  string
	}{
		{"accept", api.StatusAccepted, "Accepted"},
		{"reject", api.StatusRejected, "Rejected"},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			set, srv := setup(t)

			a := set.Applicants.Call(tt.action, applicantProps())
			res, err := shiftview.TestCallWithContext(employer(), set.Applicants, a, map[string]string{"application": apitest.ApplicationID})
			if err != nil {
				t.Fatalf("%s: %v", tt.action, err)
			}
			if !res.IsOK() {
				t.Fatalf("status = %d: %s", res.StatusCode, res.HTML)
			}
			if !res.HasModal("The application was " + tt.status + ".") {
				t.Errorf("modal = %+v", res.Modal)
			}

			stored := srv.Application(apitest.ApplicationID)
			if stored.Status != tt.status {
				t.Errorf("stored status = %q, want %q", stored.Status, tt.status)
			}
			if stored.Applicant.Name != "Kim Worker" || stored.NoticeID != apitest.FirstNoticeID {
				t.Errorf("only the status may change, got %+v", stored)
			}

			// The row is patched in place and the list is fetched once.
			if !res.HTMLContainsAll("Kim Worker", ">"+tt.label+"</span>") {
				t.Errorf("row not updated:\n%s", res.HTML)
			}
			if got := srv.Count(http.MethodGet, "/shops/s1/notices/n1/applications"); got != 1 {
				t.Errorf("list requests = %d, want 1", got)
			}
		})
	}
}

func TestApplicantListDecideErrors(t *testing.T) {
	set, _ := setup(t)
	a := set.Applicants.Call("accept", applicantProps())
	form := map[string]string{"application": apitest.ApplicationID}

	res, err := shiftview.TestCallWithContext(employee(), set.Applicants, a, form)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if res.Modal == nil || res.Modal.Kind != shiftview.ModalError {
		t.Errorf("employee accept: modal = %+v, want error", res.Modal)
	}

	res, err = shiftview.TestCallWithContext(anonymous(), set.Applicants, a, form)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if !res.RedirectedTo(LoginURL) {
		t.Errorf("signed out accept: redirect = %q", res.RedirectURL)
	}
}

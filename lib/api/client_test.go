package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pthm/shiftview/lib/api"
	"github.com/pthm/shiftview/lib/api/apitest"
)

func newClient(t *testing.T) (*api.Client, *apitest.Server) {
	t.Helper()
	srv := apitest.New(t)
	return api.New(srv.URL, api.WithTimeout(2*time.Second)), srv
}

var (
	employee = api.Credential{Token: apitest.EmployeeToken, UserID: apitest.EmployeeID}
	employer = api.Credential{Token: apitest.EmployerToken, UserID: apitest.EmployerID}
)

func TestGetNotice(t *testing.T) {
	c, _ := newClient(t)

	n, err := c.GetNotice(context.Background(), api.Credential{}, apitest.ShopID, "n2")
	if err != nil {
		t.Fatal(err)
	}
	if n.ID != "n2" || n.HourlyPay != 12000 || n.WorkHour != 4 {
		t.Errorf("notice = %+v", n)
	}
	if n.Shop.ID != apitest.ShopID || n.Shop.OriginalHourlyPay != 10000 {
		t.Errorf("shop = %+v", n.Shop)
	}
	if got := n.IncreasePercent(); got != 20 {
		t.Errorf("IncreasePercent() = %d, want 20", got)
	}
}

func TestGetNoticeViewerApplication(t *testing.T) {
	tests := []struct {
		name   string
		viewer api.Credential
		notice string
		want   string
		auth   string
	}{
		{"anonymous", api.Credential{}, apitest.FirstNoticeID, "", ""},
		{"applicant", employee, apitest.FirstNoticeID, apitest.ApplicationID, "Bearer " + apitest.EmployeeToken},
		{"not applied", employee, "n2", "", "Bearer " + apitest.EmployeeToken},
		{"employer", employer, apitest.FirstNoticeID, "", "Bearer " + apitest.EmployerToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, srv := newClient(t)
			n, err := c.GetNotice(context.Background(), tt.viewer, apitest.ShopID, tt.notice)
			if err != nil {
				t.Fatal(err)
			}
			got := ""
			if n.CurrentApplication != nil {
				got = n.CurrentApplication.ID
			}
			if got != tt.want {
				t.Errorf("current application = %q, want %q", got, tt.want)
			}
			reqs := srv.Requests()
			if len(reqs) != 1 || reqs[0].Authorization != tt.auth {
				t.Errorf("requests = %+v, want one with Authorization %q", reqs, tt.auth)
			}
		})
	}
}

func TestGetNoticeNotFound(t *testing.T) {
	c, _ := newClient(t)

	_, err := c.GetNotice(context.Background(), api.Credential{}, apitest.ShopID, "missing")
	if !errors.Is(err, api.ErrRequestFailed) {
		t.Fatalf("err = %v, want ErrRequestFailed", err)
	}
	var re *api.RequestError
	if !errors.As(err, &re) || re.StatusCode != http.StatusNotFound || re.Message != "notice not found" {
		t.Errorf("err = %#v", err)
	}
	if api.StatusCode(err) != http.StatusNotFound || api.Message(err) != "notice not found" {
		t.Errorf("helpers: %d %q", api.StatusCode(err), api.Message(err))
	}
}

func TestListApplicantsDefaultLimit(t *testing.T) {
	c, srv := newClient(t)

	list, err := c.ListApplicants(context.Background(), apitest.ShopID, apitest.FirstNoticeID, api.Page{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Items) != 1 {
		t.Fatalf("items = %+v", list.Items)
	}
	a := list.Items[0]
	if a.Status != api.StatusPending || a.Applicant.Name != "Kim Worker" || a.Ref() != (api.ApplicationRef{ShopID: "s1", NoticeID: "n1", ApplicationID: "a1"}) {
		t.Errorf("application = %+v", a)
	}

	reqs := srv.Requests()
	if got := reqs[len(reqs)-1].Query; got != "limit=100" {
		t.Errorf("query = %q, want limit=100", got)
	}
}

func TestListShopNoticesPaging(t *testing.T) {
	c, srv := newClient(t)

	first, err := c.ListShopNotices(context.Background(), apitest.ShopID, api.Page{})
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Items) != 6 || !first.HasNext || first.Count != apitest.SeedNoticeSize {
		t.Errorf("first page = %+v", first)
	}
	if first.Items[0].Shop.ID != apitest.ShopID {
		t.Error("shop id should be filled from the path")
	}
	reqs := srv.Requests()
	if got := reqs[len(reqs)-1].Query; got != "limit=6&offset=0" {
		t.Errorf("query = %q", got)
	}

	second, err := c.ListShopNotices(context.Background(), apitest.ShopID, api.Page{Offset: 6, Limit: 6})
	if err != nil {
		t.Fatal(err)
	}
	if len(second.Items) != 1 || second.HasNext {
		t.Errorf("second page = %+v", second)
	}
}

func TestListNoticesQuery(t *testing.T) {
	c, srv := newClient(t)

	list, err := c.ListNotices(context.Background(), api.NoticeQuery{
		Page:    api.Page{Limit: 3},
		Sort:    "pay",
		Address: []string{"Mapo-gu"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Items) != 3 || list.Items[0].Shop.Name != "Corner Bakery" {
		t.Errorf("list = %+v", list)
	}
	reqs := srv.Requests()
	q := reqs[len(reqs)-1].Query
	for _, want := range []string{"limit=3", "sort=pay", "address=Mapo-gu"} {
		if !strings.Contains(q, want) {
			t.Errorf("query %q missing %q", q, want)
		}
	}
}

func TestApply(t *testing.T) {
	c, srv := newClient(t)

	a, err := c.Apply(context.Background(), employee, apitest.ShopID, "n3")
	if err != nil {
		t.Fatal(err)
	}
	if a.Status != api.StatusPending || a.NoticeID != "n3" || a.ShopID != apitest.ShopID {
		t.Errorf("application = %+v", a)
	}

	reqs := srv.Requests()
	last := reqs[len(reqs)-1]
	if last.Authorization != "Bearer "+apitest.EmployeeToken {
		t.Errorf("authorization = %q", last.Authorization)
	}
	if !strings.Contains(last.Body, `"status":"pending"`) {
		t.Errorf("body = %q", last.Body)
	}
}

func TestMissingCredentialSkipsNetwork(t *testing.T) {
	c, srv := newClient(t)
	ctx := context.Background()

	_, errApply := c.Apply(ctx, api.Credential{}, apitest.ShopID, "n3")
	_, errStatus := c.UpdateApplicationStatus(ctx, api.Credential{}, api.ApplicationRef{ShopID: "s1", NoticeID: "n1", ApplicationID: "a1"}, api.StatusAccepted)
	_, errNotice := c.UpdateNotice(ctx, api.Credential{}, "s1", "n1", api.NoticeInput{HourlyPay: 1, StartsAt: time.Now(), WorkHour: 1, Description: "x"})

	for _, err := range []error{errApply, errStatus, errNotice} {
		if !errors.Is(err, api.ErrMissingCredential) {
			t.Errorf("err = %v, want ErrMissingCredential", err)
		}
	}
	if n := len(srv.Requests()); n != 0 {
		t.Errorf("%d requests sent", n)
	}
}

func TestUpdateApplicationStatusOnlyChangesStatus(t *testing.T) {
	c, srv := newClient(t)
	before := srv.Application(apitest.ApplicationID)

	a, err := c.UpdateApplicationStatus(context.Background(), employer, before.Ref(), api.StatusAccepted)
	if err != nil {
		t.Fatal(err)
	}
	if a.Status != api.StatusAccepted {
		t.Errorf("status = %q", a.Status)
	}

	after := srv.Application(apitest.ApplicationID)
	before.Status = api.StatusAccepted
	if after.ID != before.ID || after.Status != before.Status || after.NoticeID != before.NoticeID ||
		after.ShopID != before.ShopID || !after.CreatedAt.Equal(before.CreatedAt) || after.Applicant.ID != before.Applicant.ID {
		t.Errorf("stored application changed beyond status: %+v vs %+v", after, before)
	}
}

func TestUpdateApplicationStatusRejectsUnknownStatus(t *testing.T) {
	c, srv := newClient(t)

	_, err := c.UpdateApplicationStatus(context.Background(), employer, api.ApplicationRef{ShopID: "s1", NoticeID: "n1", ApplicationID: "a1"}, "maybe")
	if !errors.Is(err, api.ErrInvalidPayload) {
		t.Errorf("err = %v", err)
	}
	_, err = c.UpdateApplicationStatus(context.Background(), employer, api.ApplicationRef{ShopID: "s1"}, api.StatusAccepted)
	if !errors.Is(err, api.ErrInvalidPayload) {
		t.Errorf("incomplete ref: err = %v", err)
	}
	if len(srv.Requests()) != 0 {
		t.Error("invalid input should not reach the server")
	}
}

func TestUpdateApplicationStatusForbidden(t *testing.T) {
	c, _ := newClient(t)

	_, err := c.UpdateApplicationStatus(context.Background(), employee, api.ApplicationRef{ShopID: "s1", NoticeID: "n1", ApplicationID: "a1"}, api.StatusAccepted)
	if api.StatusCode(err) != http.StatusForbidden {
		t.Errorf("err = %v, want 403", err)
	}
}

func TestUpdateNotice(t *testing.T) {
	c, srv := newClient(t)
	starts := time.Date(2031, 3, 1, 18, 0, 0, 0, time.UTC)

	n, err := c.UpdateNotice(context.Background(), employer, apitest.ShopID, "n1", api.NoticeInput{
		HourlyPay:   15000,
		StartsAt:    starts,
		WorkHour:    6,
		Description: "Evening shift",
	})
	if err != nil {
		t.Fatal(err)
	}
	if n.HourlyPay != 15000 || n.WorkHour != 6 || !n.StartsAt.Equal(starts) {
		t.Errorf("returned %+v", n)
	}
	if stored := srv.Notice("n1"); stored.Description != "Evening shift" {
		t.Errorf("stored %+v", stored)
	}
}

func TestUpdateNoticeValidatesInput(t *testing.T) {
	c, srv := newClient(t)

	_, err := c.UpdateNotice(context.Background(), employer, "s1", "n1", api.NoticeInput{HourlyPay: 15000})
	if !errors.Is(err, api.ErrInvalidPayload) {
		t.Errorf("err = %v", err)
	}
	if len(srv.Requests()) != 0 {
		t.Error("invalid input should not reach the server")
	}
}

func TestAuthenticateAndGetUser(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()

	auth, err := c.Authenticate(ctx, apitest.EmployerEmail, apitest.Password)
	if err != nil {
		t.Fatal(err)
	}
	if auth.Token != apitest.EmployerToken || auth.User.ID != apitest.EmployerID || auth.User.Shop == nil || auth.User.Shop.ID != apitest.ShopID {
		t.Errorf("auth = %+v", auth)
	}

	if _, err := c.Authenticate(ctx, apitest.EmployerEmail, "wrong"); api.StatusCode(err) != http.StatusNotFound {
		t.Errorf("bad password: err = %v", err)
	}

	u, err := c.GetUser(ctx, apitest.EmployeeID)
	if err != nil {
		t.Fatal(err)
	}
	if u.Name != "Kim Worker" || u.Phone != "010-1234-5678" || u.Shop != nil {
		t.Errorf("user = %+v", u)
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := api.New(url).GetNotice(context.Background(), api.Credential{}, "s1", "n1")
	var ne *api.NetworkError
	if !errors.As(err, &ne) || !errors.Is(err, api.ErrRequestFailed) {
		t.Fatalf("err = %v, want NetworkError", err)
	}
	if api.Message(err) != "Could not reach the server." {
		t.Errorf("message = %q", api.Message(err))
	}
}

func TestInvalidPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>`},
		{"missing id", `{"item":{"hourlyPay":1000}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := api.New(srv.URL).GetNotice(context.Background(), api.Credential{}, "s1", "n1")
			if !errors.Is(err, api.ErrInvalidPayload) {
				t.Errorf("err = %v, want ErrInvalidPayload", err)
			}
		})
	}
}

func TestPathSegmentsAreEscaped(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, _ = api.New(srv.URL).GetUser(context.Background(), "a/b")
	if got != "/users/a%2Fb" {
		t.Errorf("path = %q", got)
	}
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := api.New(srv.URL, api.WithTimeout(20*time.Millisecond)).GetUser(context.Background(), "u1")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestTimeoutLeavesSharedClient(t *testing.T) {
	_, srv := newClient(t)
	shared := &http.Client{}

	c := api.New(srv.URL, api.WithHTTPClient(shared), api.WithTimeout(time.Second))
	if _, err := c.GetUser(context.Background(), apitest.EmployeeID); err != nil {
		t.Fatal(err)
	}
	if shared.Timeout != 0 {
		t.Errorf("shared client timeout = %v, want untouched", shared.Timeout)
	}

	c = api.New(srv.URL, api.WithHTTPClient(nil), api.WithTimeout(time.Second))
	if _, err := c.GetUser(context.Background(), apitest.EmployeeID); err != nil {
		t.Errorf("nil http client: %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	c, _ := newClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetNotice(ctx, api.Credential{}, apitest.ShopID, "n1")
	if !errors.Is(err, context.Canceled) || !errors.Is(err, api.ErrRequestFailed) {
		t.Errorf("err = %v", err)
	}
}

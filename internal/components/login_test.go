package components

import (
	"context"
	"net/http"
	"testing"

	"github.com/pthm/shiftview"
	"github.com/pthm/shiftview/lib/api"
	"github.com/pthm/shiftview/lib/api/apitest"
	"github.com/pthm/shiftview/lib/session"
)

func TestLoginSignsIn(t *testing.T) {
	set, _ := setup(t)
	sess := session.NewSession("visitor", nil)
	ctx := session.WithSession(context.Background(), sess)

	a := set.Login.Call("signin", LoginProps{Next: "/notices/s1/n1"})
	res, err := shiftview.TestCallWithContext(ctx, set.Login, a, map[string]string{
		"email":    apitest.EmployerEmail,
		"password": apitest.Password,
	})
	if err != nil {
		t.Fatalf("signin: %v", err)
	}
	if !res.RedirectedTo("/notices/s1/n1") {
		t.Errorf("redirect = %q", res.RedirectURL)
	}
	cred := sess.Credential()
	if cred.Token != apitest.EmployerToken || cred.UserID != apitest.EmployerID {
		t.Errorf("credential = %+v", cred)
	}
	if sess.UserType() != api.UserEmployer {
		t.Errorf("user type = %q", sess.UserType())
	}
	if !sess.Owns(apitest.ShopID) || sess.Owns(apitest.OtherShopID) {
		t.Errorf("session should own only %s, shop = %q", apitest.ShopID, sess.Get(session.KeyShopID))
	}
}

func TestLoginRejects(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		want     string
		calls    int
	}{
		{"bad email", "not-an-email", apitest.Password, "Enter a valid value.", 0},
		{"short password", apitest.EmployeeEmail, "short", "Enter a valid value.", 0},
		{"missing email", "", apitest.Password, "This field is required.", 0},
		{"wrong password", apitest.EmployeeEmail, "password999", "email or password does not match", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, srv := setup(t)
			sess := session.NewSession("visitor", nil)
			ctx := session.WithSession(context.Background(), sess)

			res, err := shiftview.TestCallWithContext(ctx, set.Login, set.Login.Call("signin", LoginProps{}), map[string]string{
				"email":    tt.email,
				"password": tt.password,
			})
			if err != nil {
				t.Fatalf("signin: %v", err)
			}
			if res.WasRedirected() || sess.SignedIn() {
				t.Fatal("rejected sign in must not sign in")
			}
			if !res.IsOK() || !res.HTMLContainsAll(`id="login"`, tt.want) {
				t.Errorf("status %d, want 200 with the form and %q:\n%s", res.StatusCode, tt.want, res.HTML)
			}
			if got := srv.Count(http.MethodPost, "/token"); got != tt.calls {
				t.Errorf("token requests = %d, want %d", got, tt.calls)
			}
		})
	}
}

func TestSafeNext(t *testing.T) {
	tests := map[string]string{
		"":                   "/",
		"/shops/s1":          "/shops/s1",
		"https://evil.test/": "/",
		"//evil.test":        "/",
		`/\evil.test`:        "/",
		"relative/path":      "/",
	}
	for in, want := range tests {
		if got := safeNext(in); got != want {
			t.Errorf("safeNext(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestProfile(t *testing.T) {
	set, _ := setup(t)

	tests := []struct {
		name string
		ctx  context.Context
		user string
		want []string
	}{
		{"employee", employer(), apitest.EmployeeID, []string{"Kim Worker", "010-1234-5678", "<p>Early riser.</p>"}},
		{"employer with shop", employer(), apitest.EmployerID, []string{"Lee Owner", `href="/shops/s1"`, "This is your profile."}},
		{"unknown user", employee(), "nobody", []string{"user not found"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := shiftview.TestRenderWithContext(tt.ctx, set.Profile, ProfileProps{UserID: tt.user})
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if !res.HTMLContainsAll(tt.want...) {
				t.Errorf("HTML missing one of %q:\n%s", tt.want, res.HTML)
			}
		})
	}
}

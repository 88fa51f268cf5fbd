package shiftviewecho

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/pthm/shiftview"
)

type badgeProps struct {
	Label string `msgpack:"l"`
	Count int    `msgpack:"-"`
}

type badge struct {
	*shiftview.Component[badgeProps]
}

func newBadge() *badge {
	b := &badge{Component: shiftview.New[badgeProps]("badge")}
	b.Action("bump", func(ctx context.Context, p badgeProps, r *http.Request) shiftview.Result[badgeProps] {
		p.Count++
		return shiftview.OK(p)
	})
	return b
}

func (b *badge) Hydrate(ctx context.Context, p *badgeProps) error {
	p.Count = len(p.Label)
	return nil
}

func (b *badge) Render(ctx context.Context, p badgeProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, "<span>%s:%d</span>", p.Label, p.Count)
		return err
	})
}

func TestMountServesComponents(t *testing.T) {
	e := echo.New()
	reg := Mount(e, WithKey(make([]byte, 32)))
	b := newBadge()
	reg.Add(b)

	req := httptest.NewRequest(http.MethodGet, b.Refresh(badgeProps{Label: "new"}).URL(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "<span>new:3</span>" {
		t.Errorf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestMountRequiresHTMXForActions(t *testing.T) {
	e := echo.New()
	reg := Mount(e)
	b := newBadge()
	reg.Add(b)

	a := b.Call("bump", badgeProps{Label: "ab"})
	tests := []struct {
		name string
		htmx bool
		want int
	}{
		{"plain post", false, http.StatusForbidden},
		{"htmx post", true, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := a.Attrs()
			body := strings.NewReader(url.Values{"p": {encodedProps(t, attrs)}}.Encode())
			req := httptest.NewRequest(http.MethodPost, a.URL(), body)
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
			if tt.htmx {
				req.Header.Set("HX-Request", "true")
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusOK && rec.Body.String() != "<span>ab:3</span>" {
				t.Errorf("body = %q", rec.Body.String())
			}
		})
	}
}

// encodedProps pulls p out of the hx-vals JSON of a rendered action.
func encodedProps(t *testing.T, attrs templ.Attributes) string {
	t.Helper()
	vals, _ := attrs["hx-vals"].(string)
	const marker = `"p":"`
	i := strings.Index(vals, marker)
	if i == -1 {
		t.Fatalf("no props in hx-vals %q", vals)
	}
	rest := vals[i+len(marker):]
	return rest[:strings.Index(rest, `"`)]
}

func TestMountGroupRunsGroupMiddleware(t *testing.T) {
	e := echo.New()
	var seen int
	g := e.Group("", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			seen++
			return next(c)
		}
	})
	reg := MountGroup(g, WithRegistryOptions(shiftview.WithLoginURL("/login")))
	b := newBadge()
	reg.Add(b)

	if reg.LoginURL != "/login" {
		t.Errorf("LoginURL = %q", reg.LoginURL)
	}

	req := httptest.NewRequest(http.MethodGet, b.Refresh(badgeProps{}).URL(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || seen != 1 {
		t.Errorf("status %d, middleware calls %d", rec.Code, seen)
	}
}

func TestUnknownComponent(t *testing.T) {
	e := echo.New()
	Mount(e)

	req := httptest.NewRequest(http.MethodGet, "/_c/missing", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestRender(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	page := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>gone</p>")
		return err
	})
	if err := Render(c, http.StatusNotFound, page); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusNotFound || rec.Body.String() != "<p>gone</p>" {
		t.Errorf("got %d %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != echo.MIMETextHTMLCharsetUTF8 {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRedirect(t *testing.T) {
	tests := []struct {
		name       string
		htmx       bool
		wantStatus int
		header     string
	}{
		{"browser", false, http.StatusSeeOther, echo.HeaderLocation},
		{"htmx", true, http.StatusOK, "HX-Redirect"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/logout", nil)
			if tt.htmx {
				req.Header.Set("HX-Request", "true")
			}
			rec := httptest.NewRecorder()
			if err := Redirect(e.NewContext(req, rec), "/login"); err != nil {
				t.Fatal(err)
			}
			if rec.Code != tt.wantStatus || rec.Header().Get(tt.header) != "/login" {
				t.Errorf("got %d, %s=%q", rec.Code, tt.header, rec.Header().Get(tt.header))
			}
		})
	}
}

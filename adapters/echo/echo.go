// Package shiftviewecho mounts shiftview components on an Echo server.
//
//	e := echo.New()
//	reg := shiftviewecho.Mount(e, shiftviewecho.WithKey(key))
//	set := components.Init(reg, client)
//
// Mount on a group to share its middleware (sessions, CSRF, logging):
//
//	g := e.Group("", sessionMiddleware)
//	reg := shiftviewecho.MountGroup(g)
package shiftviewecho

import (
	"crypto/rand"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/pthm/shiftview"
)

// Path is where component routes are served.
const Path = "/_c/"

// Option configures Mount and MountGroup.
type Option func(*options)

type options struct {
	key     []byte
	regOpts []shiftview.RegistryOption
}

// WithKey sets the props encryption key. It should be 32 bytes of random
// data. Without it a random key is generated, which invalidates every
// rendered action on restart.
func WithKey(key []byte) Option {
	return func(o *options) { o.key = key }
}

// WithRegistryOptions passes options through to shiftview.NewRegistry.
func WithRegistryOptions(opts ...shiftview.RegistryOption) Option {
	return func(o *options) { o.regOpts = append(o.regOpts, opts...) }
}

// Mount creates a registry and serves it on e.
func Mount(e *echo.Echo, opts ...Option) *shiftview.Registry {
	reg := newRegistry(opts)
	e.Any(Path+"*", echo.WrapHandler(reg.Handler()))
	return reg
}

// MountGroup creates a registry and serves it on g.
func MountGroup(g *echo.Group, opts ...Option) *shiftview.Registry {
	reg := newRegistry(opts)
	g.Any(Path+"*", echo.WrapHandler(reg.Handler()))
	return reg
}

func newRegistry(opts []Option) *shiftview.Registry {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	key := o.key
	if key == nil {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(fmt.Sprintf("shiftviewecho: failed to generate random key: %v", err))
		}
	}
	return shiftview.NewRegistry(key, o.regOpts...)
}

// Render writes a templ component as the response.
//
//	func (h *Handler) Notice(c echo.Context) error {
//	    return shiftviewecho.Render(c, http.StatusOK, page)
//	}
func Render(c echo.Context, status int, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return component.Render(c.Request().Context(), c.Response())
}

// Redirect sends HTMX requests an HX-Redirect header and everything else a
// 303, so a full page navigation happens either way.
func Redirect(c echo.Context, url string) error {
	if shiftview.IsHTMX(c.Request()) {
		c.Response().Header().Set("HX-Redirect", url)
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, url)
}

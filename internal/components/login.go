package components

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/pthm/shiftview"
	"github.com/pthm/shiftview/lib/api"
	"github.com/pthm/shiftview/lib/form"
	"github.com/pthm/shiftview/lib/session"
)

// Credentials is the sign-in form.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginProps carries where to go after signing in.
type LoginProps struct {
	Next string `msgpack:"next,omitempty"`

	Email   string                `msgpack:"-"`
	Invalid *form.ValidationError `msgpack:"-"`
	Failure string                `msgpack:"-"`
}

// Login signs a user in and stores the token in their session.
type Login struct {
	*shiftview.Component[LoginProps]
	*deps
}

// NewLogin creates the sign-in form.
func NewLogin(d *deps) *Login {
	c := &Login{
		Component: shiftview.New[LoginProps]("login"),
		deps:      d,
	}
	c.Action("signin", c.handleSignIn)
	return c
}

func (c *Login) Hydrate(ctx context.Context, props *LoginProps) error {
	props.Next = safeNext(props.Next)
	return nil
}

func (c *Login) handleSignIn(ctx context.Context, props LoginProps, r *http.Request) shiftview.Result[LoginProps] {
	creds := Credentials{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	props.Email = creds.Email

	var invalid *form.ValidationError
	if err := form.Validate(creds); errors.As(err, &invalid) {
		props.Invalid = invalid
		return shiftview.OK(props)
	}

	sess, ok := session.FromContext(ctx)
	if !ok {
		return shiftview.Err(props, errors.New("sign in: no session"))
	}

	auth, err := c.api.Authenticate(ctx, creds.Email, creds.Password)
	if err != nil {
		c.logger.Info("auth_event", "event", "sign_in_failed", "status", api.StatusCode(err))
		props.Failure = api.Message(err)
		return shiftview.OK(props)
	}
	if err := sess.SignIn(ctx, auth); err != nil {
		return shiftview.Err(props, fmt.Errorf("sign in: %w", err))
	}
	c.logger.Info("auth_event", "event", "signed_in", "user", auth.User.ID, "type", auth.User.Type)
	return shiftview.Redirect[LoginProps](props.Next)
}

func (c *Login) Render(ctx context.Context, props LoginProps) templ.Component {
	return loginTemplate(c, props)
}

// safeNext keeps redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

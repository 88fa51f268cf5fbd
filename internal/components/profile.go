package components

import (
	"context"
	"strings"

	"github.com/a-h/templ"

	"github.com/pthm/shiftview"
	"github.com/pthm/shiftview/lib/api"
	"github.com/pthm/shiftview/lib/resource"
	"github.com/pthm/shiftview/lib/session"
)

// ProfileProps identifies the user shown.
type ProfileProps struct {
	UserID string `msgpack:"u"`

	User resource.Resource[api.User] `msgpack:"-"`
}

// Profile shows a user's contact details and, for employers, their shop.
type Profile struct {
	*shiftview.Component[ProfileProps]
	*deps
}

// NewProfile creates the profile view.
func NewProfile(d *deps) *Profile {
	return &Profile{
		Component: shiftview.New[ProfileProps]("profile").Sensitive(),
		deps:      d,
	}
}

func (c *Profile) Hydrate(ctx context.Context, props *ProfileProps) error {
	if props.UserID == "" {
		return nil
	}
	props.User = resource.Load(ctx, func(ctx context.Context) (api.User, error) {
		return c.api.GetUser(ctx, props.UserID)
	})
	if props.User.Failed() {
		c.logger.Warn("fetch_event", "event", "user_load_failed", "user", props.UserID, "error", props.User.Err)
	}
	return nil
}

func (c *Profile) Render(ctx context.Context, props ProfileProps) templ.Component {
	return profileTemplate(props)
}

func ownProfile(ctx context.Context, userID string) bool {
	sess, ok := session.FromContext(ctx)
	return ok && sess.Credential().UserID == userID
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

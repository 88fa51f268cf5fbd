package web

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/a-h/templ"
	"github.com/gorilla/csrf"
	"github.com/labstack/echo/v4"

	shiftviewecho "github.com/pthm/shiftview/adapters/echo"
	"github.com/pthm/shiftview/internal/components"
	"github.com/pthm/shiftview/lib/session"
)

func navFor(r *http.Request) templ.Component {
	sess, ok := session.FromContext(r.Context())
	if !ok || !sess.SignedIn() {
		return signedOutNav()
	}
	return signedInNav(sess.Credential().UserID, csrf.Token(r))
}

func (s *Server) page(c echo.Context, title string, content ...templ.Component) error {
	return shiftviewecho.Render(c, http.StatusOK, layout(title, navFor(c.Request()), content))
}

func (s *Server) home(c echo.Context) error {
	return s.page(c, "Notices",
		s.set.Carousel.Defer(components.NoticeCarouselProps{}, components.Spinner()),
	)
}

func (s *Server) notice(c echo.Context) error {
	shopID, noticeID := c.Param("shop"), c.Param("notice")
	content := []templ.Component{
		s.set.NoticeDetail.Defer(components.NoticeDetailProps{ShopID: shopID, NoticeID: noticeID}, components.Spinner()),
	}
	if session.Owns(c.Request().Context(), shopID) {
		content = append(content, s.set.Applicants.Lazy(components.ApplicantListProps{ShopID: shopID, NoticeID: noticeID}, components.Spinner()))
	} else {
		content = append(content, s.set.Carousel.Lazy(components.NoticeCarouselProps{}, components.Spinner()))
	}
	return s.page(c, "Notice", content...)
}

func (s *Server) shop(c echo.Context) error {
	return s.page(c, "Shop",
		s.set.ShopNotices.Defer(components.ShopNoticesProps{ShopID: c.Param("shop")}, components.Spinner()),
	)
}

func (s *Server) editNotice(c echo.Context) error {
	sess, ok := session.FromContext(c.Request().Context())
	if !ok || !sess.SignedIn() {
		return shiftviewecho.Redirect(c, components.LoginURL+"?next="+url.QueryEscape(c.Request().URL.Path))
	}
	shopID := c.Param("shop")
	if !sess.Owns(shopID) {
		return echo.NewHTTPError(http.StatusForbidden, "only the shop owner can edit its notices")
	}
	props := components.NoticeEditProps{ShopID: shopID, NoticeID: c.Param("notice")}
	return s.page(c, "Edit notice", s.set.NoticeEdit.Defer(props, components.Spinner()))
}

func (s *Server) profile(c echo.Context) error {
	return s.page(c, "Profile",
		s.set.Profile.Defer(components.ProfileProps{UserID: c.Param("user")}, components.Spinner()),
	)
}

func (s *Server) login(c echo.Context) error {
	ctx := c.Request().Context()
	props := components.LoginProps{Next: c.QueryParam("next")}
	if err := s.set.Login.Hydrate(ctx, &props); err != nil {
		return err
	}
	return s.page(c, "Sign in", heading("Welcome back"), s.set.Login.Render(ctx, props))
}

func (s *Server) logout(c echo.Context) error {
	if sess, ok := session.FromContext(c.Request().Context()); ok {
		if err := sess.SignOut(c.Request().Context()); err != nil {
			return fmt.Errorf("sign out: %w", err)
		}
		s.logger.Info("auth_event", "event", "signed_out")
	}
	return shiftviewecho.Redirect(c, "/")
}

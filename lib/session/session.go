package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/pthm/shiftview/lib/api"
)

// Session is the values of one session id, loaded once per request.
type Session struct {
	ID string

	store  *Store
	mu     sync.Mutex
	values map[string]string
}

// NewSession returns a session holding values that is not backed by a
// store. Writes only change the in-memory copy.
func NewSession(id string, values map[string]string) *Session {
	v := make(map[string]string, len(values))
	for k, val := range values {
		v[k] = val
	}
	return &Session{ID: id, values: v}
}

// Load reads session id from the store.
func (s *Store) Load(ctx context.Context, id string) (*Session, error) {
	values, err := s.Values(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Session{ID: id, store: s, values: values}, nil
}

// Get returns the value of key, or "".
func (s *Session) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

// Credential returns the signed-in user's API credential. It is empty when
// nobody is signed in.
func (s *Session) Credential() api.Credential {
	s.mu.Lock()
	defer s.mu.Unlock()
	return api.Credential{Token: s.values[KeyAccessToken], UserID: s.values[KeyUserID]}
}

// SignedIn reports whether the session holds a credential.
func (s *Session) SignedIn() bool {
	return !s.Credential().Empty()
}

// UserType returns the signed-in user's type, or "".
func (s *Session) UserType() string {
	return s.Get(KeyUserType)
}

// Owns reports whether the signed-in user is the employer of shopID.
func (s *Session) Owns(shopID string) bool {
	return shopID != "" && s.SignedIn() && s.UserType() == api.UserEmployer && s.Get(KeyShopID) == shopID
}

// Set writes values to the session and its store.
func (s *Session) Set(ctx context.Context, values map[string]string) error {
	if s.store != nil {
		if err := s.store.Set(ctx, s.ID, values); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.values[k] = v
	}
	return nil
}

// SignIn stores the token and identity returned by the token endpoint.
func (s *Session) SignIn(ctx context.Context, auth api.Auth) error {
	if auth.Token == "" || auth.User.ID == "" {
		return fmt.Errorf("sign in: %w", api.ErrMissingCredential)
	}
	values := map[string]string{
		KeyAccessToken: auth.Token,
		KeyUserID:      auth.User.ID,
		KeyUserType:    auth.User.Type,
		KeyShopID:      "",
	}
	if auth.User.Shop != nil {
		values[KeyShopID] = auth.User.Shop.ID
	}
	return s.Set(ctx, values)
}

// SignOut forgets every value of the session.
func (s *Session) SignOut(ctx context.Context) error {
	if s.store != nil {
		if err := s.store.Delete(ctx, s.ID); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string)
	return nil
}

type contextKey struct{}

// WithSession returns a context carrying sess.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext returns the session stored by Middleware or WithSession.
func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(*Session)
	return sess, ok && sess != nil
}

// Owns reports whether the session in ctx belongs to the employer of
// shopID.
func Owns(ctx context.Context, shopID string) bool {
	sess, ok := FromContext(ctx)
	return ok && sess.Owns(shopID)
}

// Credential returns the credential of the session in ctx, or an empty
// one.
func Credential(ctx context.Context) api.Credential {
	if sess, ok := FromContext(ctx); ok {
		return sess.Credential()
	}
	return api.Credential{}
}

// CookieName is the session id cookie.
const CookieName = "shiftview_session"

// Middleware loads the browser's session into the request context,
// issuing a new session id cookie when the request has none.
func Middleware(store *Store, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(CookieName); err == nil {
				if parsed, err := uuid.Parse(c.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
				SetCookie(w, id, r.TLS != nil)
			}

			sess, err := store.Load(r.Context(), id)
			if err != nil {
				logger.Error("session_event", "event", "load_failed", "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// SetCookie sets the session id cookie.
func SetCookie(w http.ResponseWriter, id string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(DefaultTTL.Seconds()),
	})
}

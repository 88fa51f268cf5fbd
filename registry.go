package shiftview

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
)

// Registry manages component registration and routing.
type Registry struct {
	mu         sync.RWMutex
	mux        *http.ServeMux
	encoder    *Encoder
	components map[string]HXComponent

	// LoginURL is where an unauthorized HTMX request is redirected.
	// Empty means respond 401.
	LoginURL string

	// OnError is called when a component fails to decode, hydrate or handle
	// a request. Customize this to handle errors appropriately for your
	// application.
	OnError ErrorHandler

	logger *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for component failures.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(reg *Registry) { reg.logger = l }
}

// WithLoginURL sets the redirect target for unauthorized requests.
func WithLoginURL(url string) RegistryOption {
	return func(reg *Registry) { reg.LoginURL = url }
}

// NewRegistry creates a new component registry with the given encryption key.
func NewRegistry(encryptionKey []byte, opts ...RegistryOption) *Registry {
	enc, err := NewEncoder(encryptionKey)
	if err != nil {
		panic(fmt.Sprintf("shiftview: failed to create encoder: %v", err))
	}

	reg := &Registry{
		mux:        http.NewServeMux(),
		encoder:    enc,
		components: make(map[string]HXComponent),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(reg)
	}
	reg.OnError = reg.defaultOnError
	return reg
}

func (reg *Registry) defaultOnError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case IsNotFound(err):
		http.Error(w, "Not found", http.StatusNotFound)
	case IsDecryptionError(err), errors.Is(err, ErrInvalidFormat):
		reg.logger.Warn("component_props_rejected", "path", r.URL.Path, "error", err)
		http.Error(w, "Bad request", http.StatusBadRequest)
	case IsUnauthorized(err):
		if reg.LoginURL != "" && IsHTMX(r) {
			w.Header().Set("HX-Redirect", reg.LoginURL)
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	default:
		reg.logger.Error("component_failed", "path", r.URL.Path, "method", r.Method, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}

// Encoder returns the registry's encoder (used by components).
func (reg *Registry) Encoder() *Encoder {
	return reg.encoder
}

// Add registers components with the registry.
// Components must embed *shiftview.Component[P] and implement Hydrate and
// Render for the same P. Panics if a component doesn't meet requirements
// or has a prefix collision.
func (reg *Registry) Add(components ...any) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for _, comp := range components {
		reg.registerComponent(comp)
	}
}

func (reg *Registry) registerComponent(comp any) {
	m, ok := comp.(mountable)
	if !ok {
		panic(fmt.Sprintf("shiftview: %T does not embed *shiftview.Component[P]", comp))
	}
	prefix := m.HXPrefix()
	if _, exists := reg.components[prefix]; exists {
		panic(fmt.Sprintf("shiftview: prefix collision for %q", prefix))
	}
	onError := func(w http.ResponseWriter, r *http.Request, err error) {
		reg.OnError(w, r, err)
	}
	if err := m.mount(reg.encoder, comp, onError); err != nil {
		panic(err.Error())
	}
	reg.components[prefix] = m
	reg.mux.HandleFunc(prefix+"/", m.HXServeHTTP)
}

// Components returns the number of registered components.
func (reg *Registry) Components() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.components)
}

// Handler returns the HTTP handler for component routes.
// Mount this at "/_c/" in your application.
func (reg *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// CSRF protection: mutating methods require HX-Request header
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			if r.Header.Get("HX-Request") != "true" {
				http.Error(w, "Forbidden: HTMX request required", http.StatusForbidden)
				return
			}
		}

		reg.mux.ServeHTTP(w, r)
	})
}

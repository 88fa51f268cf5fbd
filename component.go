package shiftview

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html"
	"io"
	"net/http"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/a-h/templ"
)

// Handler is the signature of an action handler. It receives hydrated
// props and the request (for form values) and returns a Result.
type Handler[P any] func(ctx context.Context, props P, r *http.Request) Result[P]

// actionDef holds metadata about a registered action.
type actionDef[P any] struct {
	name    string
	method  string
	handler Handler[P]
}

// Component[P] is the base type embedded by views.
// P is the Props type for this view.
//
// Views embed *Component[P] to gain action registration, URL generation
// and request dispatch. The embedding pattern promotes methods directly
// onto the view's type, so the view itself satisfies HXComponent:
//
//	type NoticeDetail struct {
//	    *shiftview.Component[NoticeDetailProps]
//	    api *api.Client
//	}
//
//	func NewNoticeDetail(client *api.Client) *NoticeDetail {
//	    c := &NoticeDetail{
//	        Component: shiftview.New[NoticeDetailProps]("noticedetail"),
//	        api:       client,
//	    }
//	    c.Action("apply", c.handleApply)
//	    return c
//	}
//
// Props are serialized into URLs with msgpack. Tag identifier fields with
// `msgpack:"..."` and exclude fetched data with `msgpack:"-"`.
type Component[P any] struct {
	name      string
	prefix    string
	sensitive bool
	actions   map[string]*actionDef[P]
	encoder   *Encoder
	view      View[P]
	onError   ErrorHandler
}

// New creates a new component with the given name.
//
// By default, props are signed (visible in URLs but tamper-proof via HMAC).
// Call .Sensitive() to enable full encryption.
//
// The URL prefix is derived from the name and source location (file:line
// where New is called), so different instances get unique routes even
// with the same name.
func New[P any](name string) *Component[P] {
	prefix := "/_c/" + name + "-" + componentHash(name, 1)
	return &Component[P]{
		name:    name,
		prefix:  prefix,
		actions: make(map[string]*actionDef[P]),
	}
}

// Sensitive marks the component as sensitive, enabling full encryption.
// Use for views whose props carry user or application identifiers.
func (c *Component[P]) Sensitive() *Component[P] {
	c.sensitive = true
	return c
}

// Name returns the component's name.
func (c *Component[P]) Name() string {
	return c.name
}

// Prefix returns the component's URL prefix.
// All actions for this component are mounted under this prefix.
func (c *Component[P]) Prefix() string {
	return c.prefix
}

// HXPrefix implements HXComponent.
func (c *Component[P]) HXPrefix() string {
	return c.prefix
}

// IsSensitive returns whether the component uses encrypted props.
func (c *Component[P]) IsSensitive() bool {
	return c.sensitive
}

// Action registers a named action handler with default POST method.
//
// Actions use semantic names that describe intent (apply, accept, save)
// rather than HTTP methods:
//
//	c.Action("apply", c.handleApply)
//	c.Action("slide", c.handleSlide).Method(http.MethodGet)
//
// The framework calls Hydrate before invoking the handler and Render
// after the handler returns an OK result.
func (c *Component[P]) Action(name string, handler Handler[P]) *ActionBuilder {
	def := &actionDef[P]{
		name:    name,
		method:  http.MethodPost,
		handler: handler,
	}
	c.actions[name] = def
	return &ActionBuilder{method: &def.method}
}

// Call returns an action builder for a registered action, with props
// encoded into the URL (GET) or hx-vals (other methods).
//
//	c.Call("apply", props).Confirm("Apply for this notice?").Attrs()
func (c *Component[P]) Call(name string, props P) *Action {
	def, ok := c.actions[name]
	if !ok {
		panic(fmt.Sprintf("shiftview: %s has no action %q", c.name, name))
	}
	path, encoded := c.buildActionURL(name, props)
	if def.method == http.MethodGet {
		return NewAction(withProps(path, encoded), http.MethodGet)
	}
	a := NewAction(path, def.method)
	if encoded != "" {
		a.Vals(map[string]any{"p": encoded})
	}
	return a
}

// Refresh returns an action builder for the default render (GET).
//
//	c.Refresh(props).Every(3 * time.Second).Attrs()
func (c *Component[P]) Refresh(props P) *Action {
	path, encoded := c.buildActionURL("", props)
	return NewAction(withProps(path, encoded), http.MethodGet)
}

// Lazy returns a templ component that defers the view's first render
// (and therefore its fetch) until the placeholder scrolls into view.
func (c *Component[P]) Lazy(props P, placeholder templ.Component) templ.Component {
	return lazyComponent(c.Refresh(props).URL(), placeholder, "intersect once")
}

// Defer returns a templ component that mounts the view after page load.
// The placeholder is the view's loading state.
func (c *Component[P]) Defer(props P, placeholder templ.Component) templ.Component {
	return lazyComponent(c.Refresh(props).URL(), placeholder, "load")
}

// mount wires the concrete view and the registry's encoder into the
// embedded component. Called once by Registry.Add.
func (c *Component[P]) mount(enc *Encoder, parent any, onError ErrorHandler) error {
	view, ok := parent.(View[P])
	if !ok {
		return fmt.Errorf("shiftview: %T must implement Hydrate(ctx, *P) and Render(ctx, P)", parent)
	}
	c.encoder = enc
	c.view = view
	c.onError = onError
	return nil
}

// HXServeHTTP implements HXComponent: decode props, hydrate, dispatch.
func (c *Component[P]) HXServeHTTP(w http.ResponseWriter, r *http.Request) {
	if c.view == nil {
		http.Error(w, "component not registered", http.StatusInternalServerError)
		return
	}

	var props P
	encoded := r.URL.Query().Get("p")
	if encoded == "" && r.Method != http.MethodGet {
		encoded = r.PostFormValue("p")
	}
	if encoded != "" {
		if err := c.encoder.Decode(encoded, c.sensitive, &props); err != nil {
			c.fail(w, r, WrapDecodeError(err))
			return
		}
	}

	if err := c.view.Hydrate(r.Context(), &props); err != nil {
		c.fail(w, r, fmt.Errorf("%w: %w", ErrHydrationFailed, err))
		return
	}

	action := strings.Trim(strings.TrimPrefix(r.URL.Path, c.prefix), "/")
	if action == "" {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		c.handleResult(w, r, OK(props))
		return
	}

	def, ok := c.actions[action]
	if !ok {
		http.NotFound(w, r)
		return
	}
	if r.Method != def.method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	c.handleResult(w, r, def.handler(r.Context(), props, r))
}

func (c *Component[P]) handleResult(w http.ResponseWriter, r *http.Request, result Result[P]) {
	if err := result.GetErr(); err != nil {
		c.fail(w, r, err)
		return
	}

	for k, v := range result.GetHeaders() {
		w.Header().Set(k, v)
	}
	if redirect := result.GetRedirect(); redirect != "" {
		w.Header().Set("HX-Redirect", redirect)
		w.WriteHeader(http.StatusOK)
		return
	}
	if trigger := BuildTriggerHeader(result.GetTrigger(), result.GetTriggerData()); trigger != "" {
		w.Header().Set("HX-Trigger", trigger)
	}
	if result.ShouldSkip() {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status := result.GetStatus(); status != 0 {
		w.WriteHeader(status)
	}
	if err := c.view.Render(r.Context(), result.GetProps()).Render(r.Context(), w); err != nil {
		return
	}
	if m := result.GetModal(); m != nil {
		RenderModalOOB(*m).Render(r.Context(), w)
	}
}

func (c *Component[P]) fail(w http.ResponseWriter, r *http.Request, err error) {
	if c.onError != nil {
		c.onError(w, r, err)
		return
	}
	http.Error(w, "Internal error", http.StatusInternalServerError)
}

// buildActionURL returns the action path and the encoded props.
// Empty action string means default render (GET).
func (c *Component[P]) buildActionURL(action string, props P) (string, string) {
	path := c.prefix + "/"
	if action != "" {
		path = c.prefix + "/" + action
	}
	if c.encoder == nil {
		return path, ""
	}
	encoded, err := c.encoder.Encode(props, c.sensitive)
	if err != nil {
		return path, ""
	}
	return path, encoded
}

func withProps(path, encoded string) string {
	if encoded == "" {
		return path
	}
	return path + "?p=" + encoded
}

// componentHash generates a deterministic hash based on component name and source location.
func componentHash(name string, skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	var input string
	if ok {
		input = fmt.Sprintf("%s:%d:%s", filepath.Base(file), line, name)
	} else {
		input = name
	}
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:4])
}

// lazyComponent creates a placeholder that loads content on trigger.
func lazyComponent(url string, placeholder templ.Component, trigger string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, fmt.Sprintf(`<div hx-get="%s" hx-trigger="%s" hx-swap="outerHTML">`, html.EscapeString(url), trigger))
		if err != nil {
			return err
		}
		if placeholder != nil {
			if err := placeholder.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, `</div>`)
		return err
	})
}

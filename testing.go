package shiftview

import (
	"bytes"
	"context"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	json "github.com/goccy/go-json"
)

// TestResult holds the result of rendering a component for testing.
//
// Provides convenience methods for asserting on HTML content, headers,
// status codes, events, the modal and redirects.
type TestResult struct {
	HTML            string
	StatusCode      int
	Headers         http.Header
	TriggeredEvents []string
	Modal           *Modal
	RedirectURL     string
}

// TestRender renders a view and returns testable output.
//
// Use this for pure unit tests of rendering logic when you control props
// directly. It bypasses URL encoding and runs only Hydrate + Render.
//
// For testing action handlers (including encoding, routing, and Result
// processing), use TestCall or TestGet.
func TestRender[P any](comp View[P], props P) (*TestResult, error) {
	return TestRenderWithContext(context.Background(), comp, props)
}

// TestRenderWithContext renders a view with a custom context.
//
// Use this when testing views that read session values from context:
//
//	ctx := session.WithSession(context.Background(), sess)
//	result, err := shiftview.TestRenderWithContext(ctx, comp, props)
func TestRenderWithContext[P any](ctx context.Context, comp View[P], props P) (*TestResult, error) {
	if err := comp.Hydrate(ctx, &props); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := comp.Render(ctx, props).Render(ctx, &buf); err != nil {
		return nil, err
	}

	return &TestResult{
		HTML:       buf.String(),
		StatusCode: http.StatusOK,
		Headers:    make(http.Header),
	}, nil
}

// TestAction simulates an action request against a registered component.
//
// This tests the full HTTP lifecycle including decoding, hydration,
// handler execution, and response rendering. The component must have been
// added to a Registry so it can encode and decode props:
//
//	reg := shiftview.NewRegistry(key)
//	reg.Add(comp)
//	a := comp.Call("apply", props)
//	result, err := shiftview.TestAction(comp, a.URL(), http.MethodPost, map[string]string{"p": encoded})
func TestAction(comp HXComponent, actionURL, method string, formData map[string]string) (*TestResult, error) {
	return NewTestRequest(method, actionURL).WithFormValues(formData).Execute(comp)
}

// TestCall runs the request an Action would send, including its hx-vals,
// merged with extra form values.
//
//	result, err := shiftview.TestCall(comp, comp.Call("save", props), map[string]string{"hourlyPay": "12000"})
func TestCall(comp HXComponent, a *Action, formData map[string]string) (*TestResult, error) {
	return TestCallWithContext(context.Background(), comp, a, formData)
}

// TestCallWithContext is TestCall with a custom request context, for
// handlers that read the session.
func TestCallWithContext(ctx context.Context, comp HXComponent, a *Action, formData map[string]string) (*TestResult, error) {
	b := NewTestRequest(a.method, a.url).WithContext(ctx)
	for k, v := range a.vals {
		if s, ok := v.(string); ok {
			b.WithFormData(k, s)
		}
	}
	return b.WithFormValues(formData).Execute(comp)
}

// TestGet simulates a GET request (render) against a component.
func TestGet(comp HXComponent, url string) (*TestResult, error) {
	return TestAction(comp, url, http.MethodGet, nil)
}

// HTMLContains checks if the HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the HTML contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// HasEvent checks if an event was triggered.
func (r *TestResult) HasEvent(event string) bool {
	for _, e := range r.TriggeredEvents {
		if e == event {
			return true
		}
	}
	return false
}

// HasModal checks if a modal with the given content was rendered.
func (r *TestResult) HasModal(content string) bool {
	return r.Modal != nil && r.Modal.Content == content
}

// WasRedirected checks if the response was a redirect.
func (r *TestResult) WasRedirected() bool {
	return r.RedirectURL != ""
}

// RedirectedTo checks if the response was redirected to a specific URL.
func (r *TestResult) RedirectedTo(url string) bool {
	return r.RedirectURL == url
}

// IsOK checks if the status code is 200.
func (r *TestResult) IsOK() bool {
	return r.StatusCode == http.StatusOK
}

// HasStatus checks if the status code matches.
func (r *TestResult) HasStatus(code int) bool {
	return r.StatusCode == code
}

// HasHeader checks if a header is set with the given value.
func (r *TestResult) HasHeader(key, value string) bool {
	return r.Headers.Get(key) == value
}

// GetHeader returns the value of a header.
func (r *TestResult) GetHeader(key string) string {
	return r.Headers.Get(key)
}

// parseTriggerHeader parses the HX-Trigger header value into event names.
// The header is either a comma-separated list or a JSON object keyed by event.
func parseTriggerHeader(trigger string) []string {
	trigger = strings.TrimSpace(trigger)
	if trigger == "" {
		return nil
	}

	if strings.HasPrefix(trigger, "{") {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(trigger), &obj); err != nil {
			return nil
		}
		events := make([]string, 0, len(obj))
		for k := range obj {
			events = append(events, k)
		}
		return events
	}

	parts := strings.Split(trigger, ",")
	events := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			events = append(events, p)
		}
	}
	return events
}

// parseModalFromHTML extracts the modal rendered by RenderModalOOB, if any.
func parseModalFromHTML(body string) *Modal {
	start := strings.Index(body, `<div id="modal" hx-swap-oob="innerHTML">`)
	if start == -1 {
		return nil
	}
	rest := body[start:]

	m := &Modal{}
	if i := strings.Index(rest, `class="modal modal-`); i != -1 {
		kind := rest[i+len(`class="modal modal-`):]
		m.Kind = kind[:strings.Index(kind, `"`)]
	}
	if i := strings.Index(rest, `<p class="modal-content">`); i != -1 {
		content := rest[i+len(`<p class="modal-content">`):]
		m.Content = html.UnescapeString(content[:strings.Index(content, "</p>")])
	}
	if i := strings.Index(rest, `class="modal-button"`); i != -1 {
		button := rest[i:]
		if j := strings.Index(button, `href="`); j != -1 && j < strings.Index(button, ">") {
			href := button[j+len(`href="`):]
			m.DismissURL = html.UnescapeString(href[:strings.Index(href, `"`)])
		}
		label := button[strings.Index(button, ">")+1:]
		if end := strings.Index(label, "</"); end != -1 {
			m.Button = html.UnescapeString(label[:end])
		}
	}
	return m
}

// TestRequestBuilder provides a fluent interface for building test requests.
//
//	result, err := shiftview.NewTestRequest("POST", actionURL).
//	    WithFormData("hourlyPay", "12000").
//	    WithHeader("X-Custom", "header").
//	    WithContext(ctx).
//	    Execute(comp)
type TestRequestBuilder struct {
	method   string
	url      string
	formData map[string]string
	headers  map[string]string
	ctx      context.Context
}

// NewTestRequest creates a new test request builder.
func NewTestRequest(method, url string) *TestRequestBuilder {
	return &TestRequestBuilder{
		method:   method,
		url:      url,
		formData: make(map[string]string),
		headers:  make(map[string]string),
		ctx:      context.Background(),
	}
}

// WithFormData adds form data to the request.
func (b *TestRequestBuilder) WithFormData(key, value string) *TestRequestBuilder {
	b.formData[key] = value
	return b
}

// WithFormValues adds multiple form values to the request.
func (b *TestRequestBuilder) WithFormValues(data map[string]string) *TestRequestBuilder {
	for k, v := range data {
		b.formData[k] = v
	}
	return b
}

// WithHeader adds a header to the request.
func (b *TestRequestBuilder) WithHeader(key, value string) *TestRequestBuilder {
	b.headers[key] = value
	return b
}

// WithContext sets the context for the request.
func (b *TestRequestBuilder) WithContext(ctx context.Context) *TestRequestBuilder {
	b.ctx = ctx
	return b
}

// Execute executes the request against a component.
func (b *TestRequestBuilder) Execute(comp HXComponent) (*TestResult, error) {
	form := url.Values{}
	for k, v := range b.formData {
		form.Set(k, v)
	}

	req := httptest.NewRequest(b.method, b.url, strings.NewReader(form.Encode()))
	req = req.WithContext(b.ctx)
	req.Header.Set("HX-Request", "true")
	if len(b.formData) > 0 {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range b.headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	comp.HXServeHTTP(rec, req)

	result := &TestResult{
		HTML:       rec.Body.String(),
		StatusCode: rec.Code,
		Headers:    rec.Header(),
	}
	if trigger := rec.Header().Get("HX-Trigger"); trigger != "" {
		result.TriggeredEvents = parseTriggerHeader(trigger)
	}
	if redirect := rec.Header().Get("HX-Redirect"); redirect != "" {
		result.RedirectURL = redirect
	}
	result.Modal = parseModalFromHTML(result.HTML)
	return result, nil
}

// MockHydrater wraps a view and replaces its hydration.
//
// Useful for injecting fetched data without a backend:
//
//	mock := shiftview.NewMockHydrater(comp, func(ctx context.Context, props *Props) error {
//	    props.Notice = resource.Of(testNotice)
//	    return nil
//	})
//	result, err := shiftview.TestRender(mock, props)
type MockHydrater[P any] struct {
	Component    View[P]
	HydrateFunc  func(ctx context.Context, props *P) error
	hydrateProps *P
}

// NewMockHydrater creates a MockHydrater that wraps a view.
func NewMockHydrater[P any](comp View[P], hydrateFn func(ctx context.Context, props *P) error) *MockHydrater[P] {
	return &MockHydrater[P]{
		Component:   comp,
		HydrateFunc: hydrateFn,
	}
}

// Hydrate calls the custom hydrate function.
func (m *MockHydrater[P]) Hydrate(ctx context.Context, props *P) error {
	m.hydrateProps = props
	return m.HydrateFunc(ctx, props)
}

// Render delegates to the underlying view.
func (m *MockHydrater[P]) Render(ctx context.Context, props P) templ.Component {
	return m.Component.Render(ctx, props)
}

// LastHydratedProps returns the props from the last Hydrate call.
func (m *MockHydrater[P]) LastHydratedProps() *P {
	return m.hydrateProps
}

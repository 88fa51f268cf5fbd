package shiftview

import (
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
	json "github.com/goccy/go-json"
)

// ActionBuilder configures action registration (e.g., HTTP method override).
//
// Returned by Component.Action() to allow optional method override:
//
//	c.Action("save", handler)  // POST by default
//	c.Action("slide", handler).Method(http.MethodGet)
type ActionBuilder struct {
	method *string
}

// Method overrides the default POST method for an action.
func (ab *ActionBuilder) Method(m string) *ActionBuilder {
	*ab.method = m
	return ab
}

// Action is a fluent builder for the HTMX attributes of one request.
//
// Components produce Actions from Call and Refresh; templates spread the
// result of Attrs onto the triggering element:
//
//	c.Call("accept", props).Target("#applicants").Confirm("Accept applicant?").Attrs()
type Action struct {
	url       string
	method    string
	target    string
	swap      SwapMode
	trigger   string
	confirm   string
	indicator string
	pushURL   bool
	vals      map[string]any
}

// NewAction creates an action for url using method. An empty method is GET.
func NewAction(url, method string) *Action {
	if method == "" {
		method = http.MethodGet
	}
	return &Action{url: url, method: method, swap: SwapOuter}
}

// URL returns the request URL.
func (a *Action) URL() string {
	return a.url
}

// Target sets hx-target to a CSS selector.
func (a *Action) Target(selector string) *Action {
	a.target = selector
	return a
}

// TargetThis targets the triggering element.
func (a *Action) TargetThis() *Action { return a.Target("this") }

// TargetClosest targets the closest ancestor matching selector.
func (a *Action) TargetClosest(selector string) *Action { return a.Target("closest " + selector) }

// TargetFind targets the first descendant matching selector.
func (a *Action) TargetFind(selector string) *Action { return a.Target("find " + selector) }

// TargetNext targets the next sibling matching selector.
func (a *Action) TargetNext(selector string) *Action { return a.Target("next " + selector) }

// TargetPrevious targets the previous sibling matching selector.
func (a *Action) TargetPrevious(selector string) *Action { return a.Target("previous " + selector) }

// Swap sets the hx-swap mode.
func (a *Action) Swap(mode SwapMode) *Action {
	a.swap = mode
	return a
}

func (a *Action) SwapOuter() *Action       { return a.Swap(SwapOuter) }
func (a *Action) SwapInner() *Action       { return a.Swap(SwapInner) }
func (a *Action) SwapBeforeEnd() *Action   { return a.Swap(SwapBeforeEnd) }
func (a *Action) SwapAfterEnd() *Action    { return a.Swap(SwapAfterEnd) }
func (a *Action) SwapBeforeBegin() *Action { return a.Swap(SwapBeforeBegin) }
func (a *Action) SwapAfterBegin() *Action  { return a.Swap(SwapAfterBegin) }
func (a *Action) SwapDelete() *Action      { return a.Swap(SwapDelete) }
func (a *Action) SwapNone() *Action        { return a.Swap(SwapNone) }

// Every polls the action on a fixed interval. The carousel uses this to
// auto-advance its window.
func (a *Action) Every(d time.Duration) *Action {
	a.trigger = "every " + formatDuration(d)
	return a
}

// OnEvent fires the action when event is triggered anywhere on the page
// (for example by another component's Result.Trigger).
func (a *Action) OnEvent(event string) *Action {
	a.trigger = event + " from:body"
	return a
}

// OnLoad fires the action once the element is loaded.
func (a *Action) OnLoad() *Action {
	a.trigger = "load"
	return a
}

// OnIntersect fires the action once when the element enters the viewport.
func (a *Action) OnIntersect() *Action {
	a.trigger = "intersect once"
	return a
}

// OnRevealed fires the action when the element is scrolled into view.
func (a *Action) OnRevealed() *Action {
	a.trigger = "revealed"
	return a
}

// Confirm asks the browser to confirm before sending.
func (a *Action) Confirm(message string) *Action {
	a.confirm = message
	return a
}

// Indicator sets the element that shows the in-flight state.
func (a *Action) Indicator(selector string) *Action {
	a.indicator = selector
	return a
}

// PushURL pushes the request URL onto browser history.
func (a *Action) PushURL() *Action {
	a.pushURL = true
	return a
}

// Vals merges extra values into the request parameters.
func (a *Action) Vals(vals map[string]any) *Action {
	if a.vals == nil {
		a.vals = make(map[string]any, len(vals))
	}
	for k, v := range vals {
		a.vals[k] = v
	}
	return a
}

// Attrs returns the HTMX attributes for this action.
func (a *Action) Attrs() templ.Attributes {
	attrs := templ.Attributes{}

	switch a.method {
	case http.MethodPost:
		attrs["hx-post"] = a.url
	case http.MethodPut:
		attrs["hx-put"] = a.url
	case http.MethodPatch:
		attrs["hx-patch"] = a.url
	case http.MethodDelete:
		attrs["hx-delete"] = a.url
	default:
		attrs["hx-get"] = a.url
	}

	if a.target != "" {
		attrs["hx-target"] = a.target
	}
	if a.swap != "" {
		attrs["hx-swap"] = string(a.swap)
	}
	if a.trigger != "" {
		attrs["hx-trigger"] = a.trigger
	}
	if a.confirm != "" {
		attrs["hx-confirm"] = a.confirm
	}
	if a.indicator != "" {
		attrs["hx-indicator"] = a.indicator
	}
	if a.pushURL {
		attrs["hx-push-url"] = "true"
	}
	if len(a.vals) > 0 {
		data, _ := json.Marshal(a.vals)
		attrs["hx-vals"] = string(data)
	}
	return attrs
}

// AsLink returns plain link attributes for GET actions that should be
// followed as a normal navigation.
func (a *Action) AsLink() templ.Attributes {
	return templ.Attributes{"href": a.url}
}

// formatDuration renders d in HTMX timing syntax. Sub-second durations use
// milliseconds; longer ones are truncated to whole seconds.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%ds", int(d/time.Second))
}

package shiftview

import (
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestNewAction(t *testing.T) {
	a := NewAction("/_c/notice/apply", http.MethodPost)

	if a.URL() != "/_c/notice/apply" {
		t.Errorf("URL() = %q", a.URL())
	}
	attrs := a.Attrs()
	if attrs["hx-post"] != "/_c/notice/apply" {
		t.Errorf("hx-post = %v", attrs["hx-post"])
	}
	if attrs["hx-swap"] != "outerHTML" {
		t.Errorf("hx-swap = %v, want outerHTML", attrs["hx-swap"])
	}
}

func TestActionMethods(t *testing.T) {
	tests := []struct {
		method   string
		wantAttr string
	}{
		{http.MethodGet, "hx-get"},
		{http.MethodPost, "hx-post"},
		{http.MethodPut, "hx-put"},
		{http.MethodPatch, "hx-patch"},
		{http.MethodDelete, "hx-delete"},
		{"", "hx-get"},
	}

	for _, tt := range tests {
		t.Run(tt.wantAttr+"/"+tt.method, func(t *testing.T) {
			attrs := NewAction("/url", tt.method).Attrs()
			if _, ok := attrs[tt.wantAttr]; !ok {
				t.Errorf("missing %q in %v", tt.wantAttr, attrs)
			}
		})
	}
}

func TestActionAttributes(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Action) *Action
		attr  string
		want  string
	}{
		{"target", func(a *Action) *Action { return a.Target("#applicants") }, "hx-target", "#applicants"},
		{"target this", (*Action).TargetThis, "hx-target", "this"},
		{"target closest", func(a *Action) *Action { return a.TargetClosest(".card") }, "hx-target", "closest .card"},
		{"target find", func(a *Action) *Action { return a.TargetFind(".body") }, "hx-target", "find .body"},
		{"target next", func(a *Action) *Action { return a.TargetNext("li") }, "hx-target", "next li"},
		{"target previous", func(a *Action) *Action { return a.TargetPrevious("li") }, "hx-target", "previous li"},
		{"swap inner", (*Action).SwapInner, "hx-swap", "innerHTML"},
		{"swap beforeend", (*Action).SwapBeforeEnd, "hx-swap", "beforeend"},
		{"swap afterend", (*Action).SwapAfterEnd, "hx-swap", "afterend"},
		{"swap beforebegin", (*Action).SwapBeforeBegin, "hx-swap", "beforebegin"},
		{"swap afterbegin", (*Action).SwapAfterBegin, "hx-swap", "afterbegin"},
		{"swap delete", (*Action).SwapDelete, "hx-swap", "delete"},
		{"swap none", (*Action).SwapNone, "hx-swap", "none"},
		{"every 3s", func(a *Action) *Action { return a.Every(3 * time.Second) }, "hx-trigger", "every 3s"},
		{"every ms", func(a *Action) *Action { return a.Every(500 * time.Millisecond) }, "hx-trigger", "every 500ms"},
		{"on event", func(a *Action) *Action { return a.OnEvent("application:changed") }, "hx-trigger", "application:changed from:body"},
		{"on load", (*Action).OnLoad, "hx-trigger", "load"},
		{"on intersect", (*Action).OnIntersect, "hx-trigger", "intersect once"},
		{"on revealed", (*Action).OnRevealed, "hx-trigger", "revealed"},
		{"confirm", func(a *Action) *Action { return a.Confirm("Apply?") }, "hx-confirm", "Apply?"},
		{"indicator", func(a *Action) *Action { return a.Indicator("#spinner") }, "hx-indicator", "#spinner"},
		{"push url", (*Action).PushURL, "hx-push-url", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := tt.setup(NewAction("/url", http.MethodPost)).Attrs()
			if attrs[tt.attr] != tt.want {
				t.Errorf("%s = %v, want %q", tt.attr, attrs[tt.attr], tt.want)
			}
		})
	}
}

func TestActionVals(t *testing.T) {
	a := NewAction("/url", http.MethodPost).
		Vals(map[string]any{"p": "abc"}).
		Vals(map[string]any{"vw": 800})

	vals, _ := a.Attrs()["hx-vals"].(string)
	if !strings.Contains(vals, `"p":"abc"`) || !strings.Contains(vals, `"vw":800`) {
		t.Errorf("hx-vals = %q, want both values merged", vals)
	}

	if _, ok := NewAction("/url", http.MethodPost).Attrs()["hx-vals"]; ok {
		t.Error("hx-vals should be omitted when empty")
	}
}

func TestActionAsLink(t *testing.T) {
	attrs := NewAction("/notices/n1", http.MethodGet).AsLink()

	if attrs["href"] != "/notices/n1" {
		t.Errorf("href = %v", attrs["href"])
	}
	if _, ok := attrs["hx-get"]; ok {
		t.Error("AsLink should not include hx-get")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{3 * time.Second, "3s"},
		{30 * time.Second, "30s"},
		{500 * time.Millisecond, "500ms"},
		{time.Second, "1s"},
		{1500 * time.Millisecond, "1s"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

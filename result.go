package shiftview

// Result[P] is returned from action handlers to control rendering and side effects.
//
// Result is a fluent builder that lets handlers specify a modal, redirects,
// events and custom headers without writing to the ResponseWriter. The
// framework processes the Result after the handler returns, applying
// headers and calling Render as appropriate.
//
//	// Success - auto-render with updated props
//	return shiftview.OK(props)
//
//	// Success with a dismissible modal
//	return shiftview.OK(props).Modal(shiftview.Alert("Notice updated."))
//
//	// Unexpected failure, handled by the registry's OnError
//	return shiftview.Err(props, err)
//
//	// Redirect via HX-Redirect header
//	return shiftview.Redirect[Props]("/login")
//
//	// Broadcast event for loose coupling
//	return shiftview.OK(props).Trigger("application:changed")
type Result[P any] struct {
	props       P
	err         error
	redirect    string
	modal       *Modal
	trigger     string
	triggerData map[string]any
	headers     map[string]string
	status      int
	skip        bool
}

// OK creates a success result that will auto-render with the given props.
func OK[P any](props P) Result[P] {
	return Result[P]{props: props}
}

// Err creates an error result that passes the error to the OnError handler.
//
// Expected failures (rejected requests, validation) should be rendered by
// the view itself, usually as a modal or an error state on props; Err is
// for failures the view has no representation for.
func Err[P any](props P, err error) Result[P] {
	return Result[P]{props: props, err: err}
}

// Skip creates a result indicating the handler wrote its own response.
func Skip[P any]() Result[P] {
	return Result[P]{skip: true}
}

// Redirect creates a result that will redirect via HX-Redirect header.
func Redirect[P any](url string) Result[P] {
	var zero P
	return Result[P]{props: zero, redirect: url}
}

// Modal attaches a modal dialog to the result. The dialog is rendered as
// an out-of-band swap into the #modal container; a later call replaces
// an earlier one since only one dialog is shown at a time.
func (r Result[P]) Modal(m Modal) Result[P] {
	r.modal = &m
	return r
}

// Trigger emits an event via HX-Trigger header for component communication.
//
//	return shiftview.OK(props).Trigger("application:changed", map[string]any{"id": app.ID})
//
// Listeners subscribe with c.Refresh(props).OnEvent("application:changed").
func (r Result[P]) Trigger(event string, data ...map[string]any) Result[P] {
	r.trigger = event
	if len(data) > 0 {
		r.triggerData = data[0]
	}
	return r
}

// Header sets a custom response header.
func (r Result[P]) Header(key, value string) Result[P] {
	if r.headers == nil {
		r.headers = make(map[string]string)
	}
	r.headers[key] = value
	return r
}

// Status sets the HTTP status code (default 200).
func (r Result[P]) Status(code int) Result[P] {
	r.status = code
	return r
}

// GetProps returns the props from the result.
func (r Result[P]) GetProps() P {
	return r.props
}

// GetErr returns the error from the result.
func (r Result[P]) GetErr() error {
	return r.err
}

// GetRedirect returns the redirect URL.
func (r Result[P]) GetRedirect() string {
	return r.redirect
}

// GetModal returns the modal, or nil.
func (r Result[P]) GetModal() *Modal {
	return r.modal
}

// GetTrigger returns the trigger event name.
func (r Result[P]) GetTrigger() string {
	return r.trigger
}

// GetTriggerData returns the trigger event data.
func (r Result[P]) GetTriggerData() map[string]any {
	return r.triggerData
}

// GetHeaders returns the response headers.
func (r Result[P]) GetHeaders() map[string]string {
	return r.headers
}

// GetStatus returns the HTTP status code (0 means not set, use default 200).
func (r Result[P]) GetStatus() int {
	return r.status
}

// ShouldSkip returns whether the handler wrote its own response.
func (r Result[P]) ShouldSkip() bool {
	return r.skip
}

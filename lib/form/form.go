// Package form drives a submit-once form over a remote action.
//
// A Controller holds the user's input, checks the fields tagged
// `validate:"required"` before anything is sent, and turns the outcome into
// a modal for the view host. Input is never discarded on failure.
package form

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/pthm/shiftview"
)

// State is the controller's position in the submit cycle. A failed
// submission goes back to Editing; Err reports why.
type State int

const (
	Editing State = iota
	Submitting
	Succeeded
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	}
	return "unknown"
}

// ErrBusy is returned by Submit while another submission is in flight.
var ErrBusy = errors.New("form: submission in progress")

// FieldError names one field that failed a constraint.
type FieldError struct {
	Field string // json name of the field
	Tag   string // failed constraint, e.g. "required"
}

// ValidationError lists every field that blocked a submission.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return "form: invalid fields: " + strings.Join(names, ", ")
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// SubmitFunc performs the remote action for values.
type SubmitFunc[T any] func(ctx context.Context, values T) error

// Option configures a Controller.
type Option func(*options)

type options struct {
	success    string
	button     string
	dismissURL string
	populated  string
}

// WithSuccess sets the message shown after a successful submission.
func WithSuccess(content string) Option {
	return func(o *options) { o.success = content }
}

// WithButton sets the dismiss button label of the success modal.
func WithButton(label string) Option {
	return func(o *options) { o.button = label }
}

// DismissTo makes the success modal's button navigate to url.
func DismissTo(url string) Option {
	return func(o *options) { o.dismissURL = url }
}

// Populated marks the controller as already populated for key. Stateless
// hosts restore it from the request.
func Populated(key string) Option {
	return func(o *options) { o.populated = key }
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Controller owns the input of one form.
type Controller[T any] struct {
	opts options

	mu     sync.Mutex
	values T
	state  State
	err    error
}

// New creates a controller in the Editing state holding values.
func New[T any](values T, opts ...Option) *Controller[T] {
	o := options{success: "Saved.", button: "OK"}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller[T]{opts: o, values: values}
}

// Populate fills the form from the entity identified by key. Only the
// first call for a given key has an effect, so later refetches of the same
// entity never overwrite what the user typed. It reports whether values
// were applied.
func (c *Controller[T]) Populate(key string, values T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if key == "" || key == c.opts.populated {
		return false
	}
	c.opts.populated = key
	c.values = values
	return true
}

// PopulatedKey returns the key of the last Populate that applied.
func (c *Controller[T]) PopulatedKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts.populated
}

// Update replaces the input while editing.
func (c *Controller[T]) Update(values T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Submitting {
		return
	}
	c.values = values
}

// Values returns the current input.
func (c *Controller[T]) Values() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values
}

// State returns the current state.
func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error of the last submission, if it failed. It is kept
// until the next Submit.
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Submit validates values and, if they pass, calls fn with them.
//
// A *ValidationError leaves the controller Editing and fn is not called.
// A failure from fn also returns it to Editing, with the input retained
// and the error in Err. Success moves it to Succeeded and returns the
// modal to show.
func (c *Controller[T]) Submit(ctx context.Context, values T, fn SubmitFunc[T]) (shiftview.Modal, error) {
	c.mu.Lock()
	if c.state == Submitting {
		c.mu.Unlock()
		return shiftview.Modal{}, ErrBusy
	}
	c.values = values
	if err := Validate(values); err != nil {
		c.state, c.err = Editing, err
		c.mu.Unlock()
		return shiftview.Modal{}, err
	}
	c.state, c.err = Submitting, nil
	c.mu.Unlock()

	err := fn(ctx, values)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state, c.err = Editing, err
		return shiftview.Modal{}, err
	}
	c.state = Succeeded
	m := shiftview.Alert(c.opts.success).WithButton(c.opts.button)
	if c.opts.dismissURL != "" {
		m = m.DismissTo(c.opts.dismissURL)
	}
	return m, nil
}

// Validate checks the struct constraints of values and returns a
// *ValidationError naming every failing field.
func Validate(values any) error {
	err := validate.Struct(values)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		ve.Fields = append(ve.Fields, FieldError{Field: fe.Field(), Tag: fe.Tag()})
	}
	return ve
}

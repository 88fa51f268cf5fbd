// Package resource holds remote data in view state.
//
// A Resource is what a view renders: the last fetched value (if any), a
// status and the failure that ended the last fetch. Load produces one
// for a single request; Fetcher keeps one in sync with a changing key for
// long-lived views.
package resource

import (
	"context"
	"errors"
)

// Status is the lifecycle position of a Resource.
type Status int

const (
	Idle Status = iota
	Loading
	Loaded
	Error
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Error:
		return "error"
	}
	return "unknown"
}

// Resource is remote data as seen by a view.
//
// Loaded always has Present set. Error has Present set only when Stale is
// also set: the data is the last good value kept during a reload.
type Resource[T any] struct {
	Data    T
	Present bool
	Status  Status
	Err     error
	Stale   bool
}

// Of returns a loaded resource holding v.
func Of[T any](v T) Resource[T] {
	return Resource[T]{Data: v, Present: true, Status: Loaded}
}

// Failed returns a resource in the error state without data.
func Failed[T any](err error) Resource[T] {
	return Resource[T]{Status: Error, Err: err}
}

// Pending returns a resource in the loading state without data.
func Pending[T any]() Resource[T] {
	return Resource[T]{Status: Loading}
}

// IsLoading reports whether a fetch is in flight.
func (r Resource[T]) IsLoading() bool { return r.Status == Loading }

// IsLoaded reports whether the resource holds fresh data.
func (r Resource[T]) IsLoaded() bool { return r.Status == Loaded }

// Failed reports whether the last fetch failed.
func (r Resource[T]) Failed() bool { return r.Status == Error }

// ErrorMessage describes Err for display, or "" when there is none.
func (r Resource[T]) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Load runs fn and returns the outcome as a Loaded or Error resource.
// A cancelled context yields an Error resource carrying ctx.Err().
func Load[T any](ctx context.Context, fn func(context.Context) (T, error)) Resource[T] {
	if err := ctx.Err(); err != nil {
		return Failed[T](err)
	}
	v, err := fn(ctx)
	if err != nil {
		return Failed[T](err)
	}
	return Of(v)
}

// IsCanceled reports whether err came from a cancelled or superseded fetch.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

package shiftview

import (
	"context"
	"errors"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/pthm/shiftview/lib/encoding"
)

// Sentinel errors for component operations.
var (
	ErrNotFound         = errors.New("shiftview: resource not found")
	ErrDecryptFailed    = errors.New("shiftview: parameter decryption failed")
	ErrSignatureInvalid = errors.New("shiftview: signature verification failed")
	ErrInvalidFormat    = errors.New("shiftview: invalid parameter format")
	ErrHydrationFailed  = errors.New("shiftview: hydration failed")
	ErrUnauthorized     = errors.New("shiftview: sign-in required")
)

// IsNotFound checks if err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDecryptionError checks if err is a decryption or signature error.
func IsDecryptionError(err error) bool {
	return errors.Is(err, ErrDecryptFailed) || errors.Is(err, ErrSignatureInvalid)
}

// IsUnauthorized checks if err means the view needs a signed-in session.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// WrapDecodeError maps encoding package errors onto the package sentinels
// so OnError handlers only need to know about this package.
func WrapDecodeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, encoding.ErrInvalidFormat):
		return ErrInvalidFormat
	case errors.Is(err, encoding.ErrSignatureInvalid):
		return ErrSignatureInvalid
	case errors.Is(err, encoding.ErrDecryptFailed):
		return ErrDecryptFailed
	}
	return err
}

// ErrorComponent renders an inline error block for a view whose hydration
// failed. The message is HTML-escaped.
func ErrorComponent(err error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, werr := io.WriteString(w, `<div class="shiftview-error">Hydration error: `+html.EscapeString(err.Error())+`</div>`)
		return werr
	})
}

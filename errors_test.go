package shiftview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pthm/shiftview/lib/encoding"
)

func TestSentinelErrors(t *testing.T) {
	errs := []error{
		ErrNotFound,
		ErrDecryptFailed,
		ErrSignatureInvalid,
		ErrInvalidFormat,
		ErrHydrationFailed,
		ErrUnauthorized,
	}

	for i, a := range errs {
		if !strings.HasPrefix(a.Error(), "shiftview:") {
			t.Errorf("%q should start with 'shiftview:'", a)
		}
		for j, b := range errs {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinels should be distinct: %v and %v", a, b)
			}
		}
	}
}

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"nil not found", nil, IsNotFound, false},
		{"not found", ErrNotFound, IsNotFound, true},
		{"wrapped not found", fmt.Errorf("notice n1: %w", ErrNotFound), IsNotFound, true},
		{"other not found", errors.New("x"), IsNotFound, false},
		{"decrypt", ErrDecryptFailed, IsDecryptionError, true},
		{"signature", fmt.Errorf("p: %w", ErrSignatureInvalid), IsDecryptionError, true},
		{"format is not decrypt", ErrInvalidFormat, IsDecryptionError, false},
		{"unauthorized", fmt.Errorf("apply: %w", ErrUnauthorized), IsUnauthorized, true},
		{"not found is not unauthorized", ErrNotFound, IsUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.err); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrapDecodeError(t *testing.T) {
	tests := []struct {
		err  error
		want error
	}{
		{encoding.ErrInvalidFormat, ErrInvalidFormat},
		{encoding.ErrSignatureInvalid, ErrSignatureInvalid},
		{encoding.ErrDecryptFailed, ErrDecryptFailed},
		{fmt.Errorf("decode: %w", encoding.ErrDecryptFailed), ErrDecryptFailed},
	}

	for _, tt := range tests {
		if got := WrapDecodeError(tt.err); !errors.Is(got, tt.want) {
			t.Errorf("WrapDecodeError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}

	if WrapDecodeError(nil) != nil {
		t.Error("nil should stay nil")
	}
	other := errors.New("other")
	if WrapDecodeError(other) != other {
		t.Error("unknown errors pass through")
	}
}

func TestErrorComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := ErrorComponent(errors.New(`<script>alert("x")</script>`)).Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.Contains(out, `class="shiftview-error"`) || !strings.Contains(out, "Hydration error:") {
		t.Errorf("unexpected output: %s", out)
	}
	if strings.Contains(out, "<script>") || !strings.Contains(out, "&lt;script&gt;") {
		t.Errorf("message not escaped: %s", out)
	}
}

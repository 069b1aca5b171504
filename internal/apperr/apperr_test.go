package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "typed error keeps its kind", err: Validationf("bad input"), want: KindValidation},
		{name: "wrapped typed error keeps its kind", err: fmt.Errorf("checkout: %w", ErrInsufficientStock), want: KindInsufficientStock},
		{name: "plain error defaults to internal", err: errors.New("boom"), want: KindInternal},
		{name: "Wrap always yields internal", err: Wrap(errors.New("pq: timeout"), "query failed"), want: KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMessageOfNeverLeaksInternals(t *testing.T) {
	wrapped := Wrap(errors.New("pq: connection refused"), "could not load order")
	if got := MessageOf(wrapped); got != "could not load order" {
		t.Errorf("MessageOf() = %q, want the public message", got)
	}

	if got := MessageOf(errors.New("pq: connection refused")); got != "internal server error" {
		t.Errorf("MessageOf() = %q, want the generic fallback", got)
	}
}

func TestErrorStringIncludesCause(t *testing.T) {
	err := Wrap(errors.New("dial tcp: refused"), "gateway call failed")
	want := "[internal] gateway call failed: dial tcp: refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, err.Err) {
		t.Error("Unwrap should expose the cause")
	}
}

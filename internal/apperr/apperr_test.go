package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewNil(t *testing.T) {
	if err := New(Fetch, "get", nil); err != nil {
		t.Errorf("New with nil error = %v; want nil", err)
	}
}

func TestKindThroughWrapping(t *testing.T) {
	base := errors.New("connection reset")
	err := fmt.Errorf("item 3: %w", New(Fetch, "get https://example.com", base))

	if !Is(err, Fetch) {
		t.Errorf("Is(err, Fetch) = false; want true")
	}
	if Is(err, Parse) {
		t.Errorf("Is(err, Parse) = true; want false")
	}
	if !errors.Is(err, base) {
		t.Errorf("errors.Is lost the wrapped cause")
	}
	if got := KindOf(errors.New("plain")); got != "" {
		t.Errorf("KindOf(plain) = %q; want empty", got)
	}
}

func TestErrorMessage(t *testing.T) {
	err := Newf(Calculation, "roi", "custo zero")
	want := "calculation: roi: custo zero"
	if err.Error() != want {
		t.Errorf("Error() = %q; want %q", err.Error(), want)
	}
}

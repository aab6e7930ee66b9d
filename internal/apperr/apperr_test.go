package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestKindOf(t *testing.T) {
	if KindOf(Validation("empty message")) != KindValidation {
		t.Fatal("expected validation kind")
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Fatal("plain error should be unknown")
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("send message: %w", NotFound("message not found"))
	if !Is(err, KindNotFound) {
		t.Fatal("wrapped error lost its kind")
	}
	if Message(err) != "message not found" {
		t.Fatalf("unexpected message: %q", Message(err))
	}
}

func TestTransientUnwraps(t *testing.T) {
	cause := errors.New("context deadline exceeded")
	err := Transient("store timeout", cause)
	if !errors.Is(err, cause) {
		t.Fatal("transient error should unwrap to its cause")
	}
	if !Is(err, KindTransient) {
		t.Fatal("expected transient kind")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad"), fiber.StatusBadRequest},
		{NotFound("missing"), fiber.StatusNotFound},
		{Authorization("not yours"), fiber.StatusForbidden},
		{Conflict("duplicate"), fiber.StatusConflict},
		{Transient("timeout", nil), fiber.StatusServiceUnavailable},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatus(c.err); got != c.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestMessageHidesInternals(t *testing.T) {
	if Message(errors.New("pq: connection refused")) != "internal server error" {
		t.Fatal("unclassified error message leaked")
	}
}

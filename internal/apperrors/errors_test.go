package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("Invalid status"), http.StatusBadRequest},
		{"conflict", Conflict("duplicate"), http.StatusBadRequest},
		{"unauthenticated", Unauthenticated("Invalid credentials"), http.StatusUnauthorized},
		{"forbidden", Forbidden("Access denied"), http.StatusForbidden},
		{"not found", NotFound("Payment not found"), http.StatusNotFound},
		{"internal", Internal("boom", errors.New("db down")), http.StatusInternalServerError},
		{"plain error", errors.New("plain"), http.StatusInternalServerError},
		{"wrapped typed error", fmt.Errorf("ctx: %w", NotFound("Invoice not found")), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusCode(tt.err); got != tt.want {
				t.Errorf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPublicMessage(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("Could not generate unique invoice number", cause)

	if got := PublicMessage(err); got != "Could not generate unique invoice number" {
		t.Errorf("PublicMessage() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("Internal error should unwrap to its cause")
	}
	if got := PublicMessage(errors.New("pq: secret detail")); got != "Internal server error" {
		t.Errorf("untyped error leaked: %q", got)
	}
}

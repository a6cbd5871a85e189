package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorMessage(t *testing.T) {
	err := NewNetworkError("failed to fetch frame", fmt.Errorf("connection refused"))
	expected := "network: failed to fetch frame (caused by: connection refused)"
	if err.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, err.Error())
	}

	bare := NewInternalError("analyzer closed", nil)
	if bare.Error() != "internal: analyzer closed" {
		t.Errorf("Unexpected message without cause: %q", bare.Error())
	}
}

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code int
	}{
		{"Validation", NewValidationError("bad request", nil), http.StatusBadRequest},
		{"InvalidInput", NewInvalidInputError("empty frame", nil), http.StatusUnprocessableEntity},
		{"DimensionMismatch", NewDimensionMismatchError("frame sizes differ", nil), http.StatusUnprocessableEntity},
		{"Network", NewNetworkError("fetch failed", nil), http.StatusBadGateway},
		{"Processing", NewProcessingError("analysis failed", nil), http.StatusUnprocessableEntity},
		{"Timeout", NewTimeoutError("deadline exceeded", nil), http.StatusGatewayTimeout},
		{"NotFound", NewNotFoundError("no records", nil), http.StatusNotFound},
		{"Internal", NewInternalError("boom", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetStatusCode(tt.err); got != tt.code {
				t.Errorf("GetStatusCode() = %d, want %d", got, tt.code)
			}
		})
	}
}

func TestIsTypeThroughWrapping(t *testing.T) {
	inner := NewDimensionMismatchError("frame sizes differ", nil)
	wrapped := fmt.Errorf("scene change failed: %w", inner)

	if !IsType(wrapped, ErrorTypeDimensionMismatch) {
		t.Error("Expected IsType to see through fmt.Errorf wrapping")
	}
	if IsType(wrapped, ErrorTypeNetwork) {
		t.Error("IsType matched the wrong type")
	}
	if GetStatusCode(wrapped) != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 through wrapping, got %d", GetStatusCode(wrapped))
	}
}

func TestGetStatusCodePlainError(t *testing.T) {
	if got := GetStatusCode(fmt.Errorf("plain")); got != http.StatusInternalServerError {
		t.Errorf("Expected 500 for plain errors, got %d", got)
	}
}

func TestWithDetails(t *testing.T) {
	err := NewInvalidInputError("unsupported format", nil).WithDetails("content type text/html")
	if err.Details != "content type text/html" {
		t.Errorf("Details not attached: %q", err.Details)
	}
}

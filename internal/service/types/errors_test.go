package types

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestValidationError_StatusCode(t *testing.T) {
	if got := NewValidationError("bad %s", "input").StatusCode(); got != http.StatusBadRequest {
		t.Errorf("StatusCode() = %d, want 400", got)
	}
	e := &ValidationError{Message: "no text", Status: http.StatusUnprocessableEntity}
	if got := e.StatusCode(); got != http.StatusUnprocessableEntity {
		t.Errorf("StatusCode() = %d, want 422", got)
	}
}

func TestUpstreamError(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("wrapped: %w", NewUpstreamError("storage.download", "failed to download the file", cause))

	var up *UpstreamError
	if !errors.As(err, &up) {
		t.Fatal("errors.As() did not find UpstreamError")
	}
	if up.StatusCode() != http.StatusInternalServerError {
		t.Errorf("StatusCode() = %d, want 500", up.StatusCode())
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is() should reach the cause")
	}

	up.Status = http.StatusServiceUnavailable
	if up.StatusCode() != http.StatusServiceUnavailable {
		t.Errorf("StatusCode() = %d, want 503", up.StatusCode())
	}
}

func TestLimitExceededError(t *testing.T) {
	err := &LimitExceededError{Limit: 3}
	if err.Error() != "file limit of 3 reached" {
		t.Errorf("Error() = %q", err.Error())
	}
}

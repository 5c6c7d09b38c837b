package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "room type not found",
			},
			expected: "NOT_FOUND: room type not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "failed to persist reservation",
				Err:     errors.New("connection reset"),
			},
			expected: "INTERNAL_ERROR: failed to persist reservation (caused by: connection reset)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("duplicate key")
	appErr := Internal("insert failed", cause)

	if unwrapped := errors.Unwrap(appErr); unwrapped != cause {
		t.Errorf("Unwrap() should return the original error")
	}
}

func TestConstructorStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFound("Reservation"), CodeNotFound, http.StatusNotFound},
		{"invalid input", InvalidInput("bad id"), CodeInvalidInput, http.StatusBadRequest},
		{"validation", Validation("invalid room type", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"conflict", Conflict("already booked"), CodeConflict, http.StatusConflict},
		{"unbookable", Unbookable("party too large"), CodeUnbookable, http.StatusUnprocessableEntity},
		{"timeout", Timeout("request timed out"), CodeTimeout, http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, tt.err.StatusCode())
			}
		})
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("RoomType", "65f0a1b2c3d4e5f6a7b8c9d0")

	if err.Details["id"] != "65f0a1b2c3d4e5f6a7b8c9d0" {
		t.Errorf("expected id detail, got %v", err.Details)
	}
	if err.Details["resource"] != "RoomType" {
		t.Errorf("expected resource detail, got %v", err.Details)
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Conflict("unit already booked")
	if got := AsAppError(appErr); got != appErr {
		t.Errorf("AsAppError should return the same AppError")
	}

	plain := errors.New("boom")
	wrapped := AsAppError(plain)
	if wrapped.Code != CodeInternal {
		t.Errorf("expected plain errors to map to %s, got %s", CodeInternal, wrapped.Code)
	}
	if !errors.Is(wrapped, plain) {
		t.Errorf("wrapped error should preserve the cause")
	}
}

func TestIsAppError(t *testing.T) {
	if !IsAppError(NotFound("Unit")) {
		t.Error("expected AppError to be recognized")
	}
	if IsAppError(errors.New("plain")) {
		t.Error("plain error must not be recognized as AppError")
	}
}

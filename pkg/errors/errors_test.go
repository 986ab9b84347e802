package errors

import (
	"errors"
	"net/http"
	"strings"
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
				Message: "resource not found",
			},
			expected: "NOT_FOUND: resource not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("database connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: database connection failed)",
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
	originalErr := errors.New("original error")
	appErr := Internal("wrapped", originalErr)

	if errors.Unwrap(appErr) != originalErr {
		t.Errorf("Unwrap() should return the original error")
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Booking", "12345")

	if err.Code != CodeNotFound {
		t.Errorf("expected code %s, got %s", CodeNotFound, err.Code)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Details["id"] != "12345" {
		t.Errorf("expected id '12345', got %v", err.Details["id"])
	}
	if err.Details["resource"] != "Booking" {
		t.Errorf("expected resource 'Booking', got %v", err.Details["resource"])
	}
}

func TestValidation(t *testing.T) {
	err := Validation("validation failed", map[string]any{"field": "ceremony_type"})

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
	if err.Details["field"] != "ceremony_type" {
		t.Errorf("expected field 'ceremony_type', got %v", err.Details["field"])
	}
}

func TestSlotConflict(t *testing.T) {
	err := SlotConflict("slot already booked")

	if err.Code != CodeSlotConflict {
		t.Errorf("expected code %s, got %s", CodeSlotConflict, err.Code)
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, err.HTTPStatus)
	}
}

func TestInvalidTransition(t *testing.T) {
	err := InvalidTransition("cancelled", "confirmed")

	if err.Code != CodeInvalidTransition {
		t.Errorf("expected code %s, got %s", CodeInvalidTransition, err.Code)
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, err.HTTPStatus)
	}
	if err.Details["from"] != "cancelled" || err.Details["to"] != "confirmed" {
		t.Errorf("expected transition details, got %v", err.Details)
	}
}

func TestAmountMismatch(t *testing.T) {
	err := AmountMismatch(15750, 15000)

	if err.Code != CodeAmountMismatch {
		t.Errorf("expected code %s, got %s", CodeAmountMismatch, err.Code)
	}
	if err.Details["expected"] != int64(15750) {
		t.Errorf("expected amount 15750, got %v", err.Details["expected"])
	}
	if err.Details["got"] != int64(15000) {
		t.Errorf("expected got 15000, got %v", err.Details["got"])
	}
}

func TestDuplicateRating(t *testing.T) {
	err := DuplicateRating("bk-1")

	if err.Code != CodeDuplicateRating {
		t.Errorf("expected code %s, got %s", CodeDuplicateRating, err.Code)
	}
	if err.Details["booking_id"] != "bk-1" {
		t.Errorf("expected booking_id 'bk-1', got %v", err.Details["booking_id"])
	}
}

func TestBookingNotCompleted(t *testing.T) {
	err := BookingNotCompleted("bk-2")

	if err.Code != CodeBookingNotCompleted {
		t.Errorf("expected code %s, got %s", CodeBookingNotCompleted, err.Code)
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, err.HTTPStatus)
	}
}

func TestInternal(t *testing.T) {
	originalErr := errors.New("database error")
	err := Internal("internal error occurred", originalErr)

	if err.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, err.Code)
	}
	if err.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, err.HTTPStatus)
	}
	if err.Err != originalErr {
		t.Errorf("expected wrapped error to be originalErr")
	}
}

func TestIsAppError(t *testing.T) {
	if !IsAppError(NotFound("Booking")) {
		t.Errorf("IsAppError() should return true for AppError")
	}
	if IsAppError(errors.New("regular error")) {
		t.Errorf("IsAppError() should return false for regular error")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("Booking")
	if AsAppError(appErr) != appErr {
		t.Errorf("AsAppError() should return the same AppError")
	}

	regularErr := errors.New("regular error")
	wrapped := AsAppError(regularErr)
	if wrapped.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap a regular error as internal")
	}
	if wrapped.Err != regularErr {
		t.Errorf("AsAppError() should keep the original error")
	}
}

func TestAppError_ToJSON(t *testing.T) {
	err := NotFoundWithID("Booking", "12345")
	data := string(err.ToJSON())

	if !strings.Contains(data, "NOT_FOUND") {
		t.Errorf("ToJSON() should contain the error code")
	}
	if !strings.Contains(data, "not found") {
		t.Errorf("ToJSON() should contain the error message")
	}
}

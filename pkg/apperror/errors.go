package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Request validation & lookup ----

// Validation returns a bad-request error surfaced synchronously to the caller.
func Validation(message string) *AppError {
	return New("BAD_REQUEST_ERROR", message, http.StatusBadRequest)
}

// ErrNotFound reports a missing entity or record.
func ErrNotFound(entity string) *AppError {
	return New("NOT_FOUND_ERROR", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrInvalidPaymentMethod() *AppError {
	return New("BAD_REQUEST_ERROR", "Invalid payment method", http.StatusBadRequest)
}

func ErrInvalidVPA() *AppError {
	return New("BAD_REQUEST_ERROR", "Invalid VPA", http.StatusBadRequest)
}

func ErrInvalidCardNumber() *AppError {
	return New("BAD_REQUEST_ERROR", "Invalid card number", http.StatusBadRequest)
}

func ErrCardExpired() *AppError {
	return New("BAD_REQUEST_ERROR", "Card expired or invalid expiry date", http.StatusBadRequest)
}

// ---- Payment & refund business logic (PAY) ----

func ErrPaymentNotCapturable() *AppError {
	return New("PAY_001", "Payment not in capturable state", http.StatusBadRequest)
}

func ErrPaymentNotRefundable() *AppError {
	return New("PAY_002", "Payment not in refundable state", http.StatusBadRequest)
}

func ErrRefundExceedsPayment() *AppError {
	return New("PAY_003", "Refund amount exceeds refundable balance of payment", http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New("PAY_004", "Invalid amount", http.StatusBadRequest)
}

// ---- Job queue & webhook delivery (QUEUE / JOB / WH) ----

// ErrQueueUnavailable reports a broker write failure. A dropped job has no
// other failure channel, so enqueue callers must surface this.
func ErrQueueUnavailable(err error) *AppError {
	return Wrap("QUEUE_001", "Job queue unavailable", http.StatusServiceUnavailable, err)
}

// ErrSerializationFailure reports a job or response encode/decode failure.
func ErrSerializationFailure(err error) *AppError {
	return Wrap("JOB_001", "Job payload serialization failed", http.StatusInternalServerError, err)
}

// ---- Authentication (AUTH) ----

func ErrInvalidAPIKey() *AppError {
	return New("AUTH_001", "Invalid API key", http.StatusUnauthorized)
}

func ErrInvalidCredentials() *AppError {
	return New("AUTH_002", "Invalid credentials", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrEmailExists() *AppError {
	return New("AUTH_004", "Email already registered", http.StatusConflict)
}

// ---- System & infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

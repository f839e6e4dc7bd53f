package errcode

import (
	"fmt"
	"net/http"
)

// Error represents a business error with an HTTP status mapping.
type Error struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Status int    `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("errcode: %d, msg: %s", e.Code, e.Msg)
}

// New creates a new error with code, message and HTTP status.
func New(code int, msg string, status int) *Error {
	return &Error{Code: code, Msg: msg, Status: status}
}

// Wrap wraps a cause with additional context, keeping code and status.
func (e *Error) Wrap(err error) *Error {
	if err == nil {
		return e
	}
	return &Error{
		Code:   e.Code,
		Msg:    fmt.Sprintf("%s: %v", e.Msg, err),
		Status: e.Status,
	}
}

// Common error codes
var (
	ErrSuccess = New(0, "success", http.StatusOK)

	// Common errors (1xxx)
	ErrInvalidParam   = New(1001, "invalid parameter", http.StatusBadRequest)
	ErrInternalServer = New(1002, "internal server error", http.StatusInternalServerError)
	ErrUnauthorized   = New(1003, "unauthorized", http.StatusUnauthorized)
	ErrNotFound       = New(1005, "not found", http.StatusNotFound)
	ErrNoPermission   = New(1007, "no permission to access this resource", http.StatusForbidden)

	// Auth errors (2xxx)
	ErrTokenInvalid = New(2001, "token invalid", http.StatusUnauthorized)
	ErrTokenExpired = New(2002, "token expired", http.StatusUnauthorized)
	ErrTokenMissing = New(2003, "token missing", http.StatusUnauthorized)
	ErrUserNotFound = New(2006, "user not found", http.StatusNotFound)

	// Conversation/message errors (4xxx)
	ErrMessageNotFound = New(4001, "message not found", http.StatusNotFound)
	ErrConvNotFound    = New(4003, "conversation not found", http.StatusNotFound)
	ErrSendFailed      = New(4005, "message send failed", http.StatusInternalServerError)
	ErrEmptyContent    = New(4007, "message content is empty", http.StatusBadRequest)

	// WebSocket errors (5xxx)
	ErrConnOverLimit   = New(5001, "connection over max limit", http.StatusServiceUnavailable)
	ErrConnClosed      = New(5002, "connection closed", http.StatusInternalServerError)
	ErrInvalidProtocol = New(5003, "invalid protocol", http.StatusBadRequest)
	ErrPushFailed      = New(5004, "push message failed", http.StatusInternalServerError)
)

// HTTPStatus returns the HTTP status for any error, defaulting to 500.
func HTTPStatus(err error) int {
	if e, ok := err.(*Error); ok && e.Status != 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}

package errcode

import (
	"errors"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", ErrNoPermission, http.StatusForbidden},
		{"not found", ErrConvNotFound, http.StatusNotFound},
		{"bad request", ErrEmptyContent, http.StatusBadRequest},
		{"internal", ErrInternalServer, http.StatusInternalServerError},
		{"plain error defaults to 500", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	wrapped := ErrTokenInvalid.Wrap(errors.New("signature mismatch"))

	if wrapped.Code != ErrTokenInvalid.Code {
		t.Errorf("Code = %d, want %d", wrapped.Code, ErrTokenInvalid.Code)
	}
	if wrapped.Status != ErrTokenInvalid.Status {
		t.Errorf("Status = %d, want %d", wrapped.Status, ErrTokenInvalid.Status)
	}
	if wrapped == ErrTokenInvalid {
		t.Error("Wrap should return a new error, not mutate the sentinel")
	}

	if got := ErrTokenInvalid.Wrap(nil); got != ErrTokenInvalid {
		t.Error("Wrap(nil) should return the original error")
	}
}

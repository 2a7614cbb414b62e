package apperr

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	driverErr := errors.New("connection refused")

	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{Validation("quantidade", "must be >= 0"), http.StatusBadRequest},
		{&MissingColumnsError{Missing: []string{"ean"}}, http.StatusBadRequest},
		{Parse("vendor report", driverErr), http.StatusUnprocessableEntity},
		{ErrNotFound, http.StatusNotFound},
		{ErrConflict, http.StatusConflict},
		{Storage("list products", driverErr), http.StatusServiceUnavailable},
		{driverErr, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestStorageKeepsCause(t *testing.T) {
	cause := errors.New("timeout")
	err := Storage("upsert count", cause)
	if !errors.Is(err, ErrStorage) || !errors.Is(err, cause) {
		t.Fatalf("expected both ErrStorage and cause in chain, got %v", err)
	}
	if Storage("noop", nil) != nil {
		t.Error("Storage(nil) should be nil")
	}
}

func TestMissingColumnsMessage(t *testing.T) {
	err := &MissingColumnsError{
		Expected: []string{"ean", "descricao"},
		Found:    []string{"codigo"},
		Missing:  []string{"ean", "descricao"},
	}
	msg := err.Error()
	for _, part := range []string{"ean, descricao", "codigo"} {
		if !strings.Contains(msg, part) {
			t.Errorf("message %q should mention %q", msg, part)
		}
	}
}

package goerror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asError(t *testing.T, err error) *Error {
	t.Helper()

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	return gerr
}

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "server", err: NewServer(errors.New("boom")), want: http.StatusInternalServerError},
		{name: "transient", err: NewTransient(errors.New("redis down")), want: http.StatusServiceUnavailable},
		{name: "not found or expired", err: NewNotFoundOrExpired(), want: http.StatusGone},
		{name: "invalid proof", err: NewInvalidProof(), want: http.StatusUnauthorized},
		{name: "unauthorized", err: NewBusiness("nope", CodeUnauthorized), want: http.StatusUnauthorized},
		{name: "invalid input", err: NewInvalidInput(errors.New("bad")), want: http.StatusUnprocessableEntity},
		{name: "invalid format", err: NewInvalidFormat(), want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, asError(t, tt.err).StatusCode())
		})
	}
}

func TestDeclinesCarryNoInternalDetail(t *testing.T) {
	gerr := asError(t, NewNotFoundOrExpired())
	assert.Equal(t, "Challenge expired or not found", gerr.Msg())
	assert.Nil(t, gerr.Unwrap())

	gerr = asError(t, NewInvalidProof())
	assert.Equal(t, "Invalid code or token", gerr.Msg())
	assert.Nil(t, gerr.Unwrap())
}

func TestTransientWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")

	gerr := asError(t, NewTransient(cause))
	assert.ErrorIs(t, gerr, cause)
	assert.Equal(t, CodeUnavailable, gerr.Code())
	assert.Equal(t, TypeServer, gerr.Type())
}

func TestInvalidInputFields(t *testing.T) {
	gerr := asError(t, NewInvalidInput(nil, "destination", "must be an email or phone"))

	assert.Equal(t, CodeInvalidInput, gerr.Code())
	assert.Equal(t, map[string]string{"destination": "must be an email or phone"}, gerr.Fields())
}

package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindHTTPStatus(t *testing.T) {
	cases := []struct {
		kind   Kind
		status int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindExpired, http.StatusGone},
		{KindRateLimited, http.StatusTooManyRequests},
		{KindTransient, http.StatusBadGateway},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.kind.HTTPStatus(), tc.kind.String())
	}
}

func TestSentinelMatching(t *testing.T) {
	err := New(KindNotFound, "token not found", "the link is invalid")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrExpired)

	wrapped := fmt.Errorf("handling request: %w", err)
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestKindOfUnclassified(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindTransient, "usv verification failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "usv verification failed")
	assert.Contains(t, err.Error(), "connection refused")
}

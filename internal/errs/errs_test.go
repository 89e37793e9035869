package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		err    *HTTPError
		status int
		code   string
	}{
		{NewBadRequestError("bad", true, nil, nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{NewNotFoundError("missing", true, nil), http.StatusNotFound, "NOT_FOUND"},
		{NewConflictError("taken", true, nil), http.StatusConflict, "CONFLICT"},
		{NewTooManyRequestsError("slow down"), http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestCustomCode(t *testing.T) {
	code := "CONTACT_ALREADY_EXISTS"
	assert.Equal(t, code, NewConflictError("taken", true, &code).Code)
}

func TestHTTPErrorIs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewNotFoundError("missing", false, nil))

	assert.True(t, errors.Is(err, &HTTPError{}))
	assert.False(t, errors.Is(errors.New("plain"), &HTTPError{}))

	var httpErr *HTTPError
	assert.True(t, errors.As(err, &httpErr))
	assert.Equal(t, "missing", httpErr.Error())
}

func TestWithMessage(t *testing.T) {
	original := NewNotFoundError("missing", true, nil)
	changed := original.WithMessage("gone")

	assert.Equal(t, "gone", changed.Message)
	assert.Equal(t, "missing", original.Message)
	assert.Equal(t, original.Status, changed.Status)
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/contacts/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireBadRequest(t *testing.T, err error, message string) {
	t.Helper()

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %v", err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, message, httpErr.Message)
}

func TestContactNameRequest(t *testing.T) {
	requireBadRequest(t, (&ContactNameRequest{}).Validate(), "Bad request: name parameter is required.")

	req := &ContactNameRequest{Name: "50%41"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "50%41", req.Name)

	require.NoError(t, req.unescapePath())
	assert.Equal(t, "50A", req.Name)

	requireBadRequest(t, (&ContactNameRequest{Name: "50%zz"}).unescapePath(), "Bad request: invalid name parameter.")
}

func TestCreateContactRequest(t *testing.T) {
	var req CreateContactRequest
	require.NoError(t, json.Unmarshal([]byte(`{"contact_name":"Alice","extra":true}`), &req))
	require.NoError(t, req.Validate())
	assert.Equal(t, "Alice", req.Contact().ContactName)
	assert.Empty(t, req.Contact().PhoneNumber)

	var empty CreateContactRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	requireBadRequest(t, empty.Validate(), "Bad request: No data provided.")
}

func TestUpdateContactRequest(t *testing.T) {
	decode := func(t *testing.T, body string) *UpdateContactRequest {
		t.Helper()
		req := &UpdateContactRequest{ContactNameRequest: ContactNameRequest{Name: "Alice"}}
		require.NoError(t, json.Unmarshal([]byte(body), req))
		return req
	}

	t.Run("only allowed keys reach the patch", func(t *testing.T) {
		req := decode(t, `{"message":"hi","_id":"x"}`)
		require.NoError(t, req.Validate())

		assert.Equal(t, map[string]string{"message": "hi"}, req.Patch().Fields())
		assert.Equal(t, "Alice", req.Name)
	})

	t.Run("no keys", func(t *testing.T) {
		requireBadRequest(t, decode(t, `{}`).Validate(), "Bad request: No data provided for update.")
	})

	t.Run("no allowed keys", func(t *testing.T) {
		requireBadRequest(t, decode(t, `{"_id":"x"}`).Validate(), "No valid fields provided to update.")
	})

	t.Run("non string value", func(t *testing.T) {
		req := &UpdateContactRequest{}
		assert.Error(t, json.Unmarshal([]byte(`{"message":42}`), req))
	})
}

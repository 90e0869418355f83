// Package testutil holds the shared plumbing for handler and router
// tests: request builders, a recorder runner, and JSON assertions.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewJSONRequest builds a request whose body is v marshaled as JSON.
func NewJSONRequest(t *testing.T, method, path string, v any) *http.Request {
	t.Helper()

	var body io.Reader
	if v != nil {
		b, err := json.Marshal(v)
		require.NoError(t, err, "marshal request body")
		body = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewRequest builds a bodyless request.
func NewRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, path, nil)
}

// NewRequestWithBody builds a request from a raw body string. Used for
// malformed-JSON cases that NewJSONRequest cannot produce.
func NewRequestWithBody(t *testing.T, method, path, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// DoRequest runs req through handler and returns the recorder.
func DoRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// decodeBody reads the buffered body without draining it, so a test can
// make several assertions against one recorder.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), into), "decode response body")
}

// UnmarshalResponse decodes the recorded response body into T.
func UnmarshalResponse[T any](t *testing.T, rec *httptest.ResponseRecorder) *T {
	t.Helper()
	var out T
	decodeBody(t, rec, &out)
	return &out
}

// AssertStatus asserts the recorded status code.
func AssertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	assert.Equal(t, want, rec.Code, "unexpected status code")
}

// AssertStatusOK asserts a 200 response.
func AssertStatusOK(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	AssertStatus(t, rec, http.StatusOK)
}

// AssertJSONContains asserts the response JSON maps key to want.
func AssertJSONContains(t *testing.T, rec *httptest.ResponseRecorder, key string, want any) {
	t.Helper()
	var body map[string]any
	decodeBody(t, rec, &body)
	assert.Equal(t, want, body[key], "unexpected value for key %q", key)
}

// AssertJSONHasKey asserts the response JSON has key, whatever its value.
func AssertJSONHasKey(t *testing.T, rec *httptest.ResponseRecorder, key string) {
	t.Helper()
	var body map[string]any
	decodeBody(t, rec, &body)
	assert.Contains(t, body, key)
}

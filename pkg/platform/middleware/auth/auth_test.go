package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caseline/pkg/requestcontext"
)

const testKey = "test-signing-key"

func mintToken(t *testing.T, key, subject, role string, expiresAt time.Time) string {
	t.Helper()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator(testKey)
	require.NoError(t, err)
	return v
}

func TestNewValidatorRequiresKey(t *testing.T) {
	_, err := NewValidator("")
	assert.Error(t, err)
}

func TestValidateToken(t *testing.T) {
	v := newValidator(t)

	t.Run("valid analyst token", func(t *testing.T) {
		token := mintToken(t, testKey, "ur-4821", RoleAnalyst, time.Now().Add(time.Hour))
		claims, err := v.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "ur-4821", claims.Subject)
		assert.Equal(t, RoleAnalyst, claims.Role)
	})

	t.Run("expired token", func(t *testing.T) {
		token := mintToken(t, testKey, "ur-4821", RoleAnalyst, time.Now().Add(-time.Hour))
		_, err := v.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		token := mintToken(t, "other-key", "ur-4821", RoleAnalyst, time.Now().Add(time.Hour))
		_, err := v.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("unknown role", func(t *testing.T) {
		token := mintToken(t, testKey, "ur-4821", "janitor", time.Now().Add(time.Hour))
		_, err := v.ValidateToken(token)
		assert.Error(t, err)
	})
}

func TestMiddleware(t *testing.T) {
	v := newValidator(t)

	var gotActor, gotRole string
	handler := Middleware(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotActor = requestcontext.ActorID(r.Context())
		gotRole = requestcontext.ActorRole(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("no header", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic abc123")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("valid token reaches handler with actor context", func(t *testing.T) {
		token := mintToken(t, testKey, "dr-lopez", RoleClinician, time.Now().Add(time.Hour))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "dr-lopez", gotActor)
		assert.Equal(t, RoleClinician, gotRole)
	})
}

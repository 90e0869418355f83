// Package auth validates bearer tokens for the review API. Utilization-review
// analysts and clinicians authenticate through the hospital SSO, which issues
// short-lived JWTs carrying an actor ID and a role claim.
package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "caseline/pkg/domain-errors"
	"caseline/pkg/platform/httputil"
	"caseline/pkg/requestcontext"
)

// Roles accepted by the review API.
const (
	RoleAnalyst   = "analyst"
	RoleClinician = "clinician"
	RoleSystem    = "system"
)

// Claims are the JWT claims the review API relies on.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Validator verifies HMAC-signed tokens from the SSO gateway.
type Validator struct {
	signingKey []byte
	leeway     time.Duration
}

// NewValidator constructs a token validator. The signing key is a
// construction-time contract: an empty key is a configuration error, not a
// request-time condition.
func NewValidator(signingKey string) (*Validator, error) {
	if signingKey == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "auth signing key is required")
	}
	return &Validator{signingKey: []byte(signingKey), leeway: 30 * time.Second}, nil
}

// ValidateToken parses and verifies a bearer token, returning its claims.
func (v *Validator) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, dErrors.New(dErrors.CodeUnauthorized, "unexpected signing method")
			}
			return v.signingKey, nil
		},
		jwt.WithLeeway(v.leeway),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid token")
	}
	if !token.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	switch claims.Role {
	case RoleAnalyst, RoleClinician, RoleSystem:
	default:
		return nil, dErrors.New(dErrors.CodeForbidden, "unknown role")
	}
	return claims, nil
}

// Middleware enforces bearer auth and stores the actor in the context.
func Middleware(validator *Validator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authorization header required"))
				return
			}
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authorization header must use the Bearer scheme"))
				return
			}

			claims, err := validator.ValidateToken(tokenString)
			if err != nil {
				httputil.WriteError(w, err)
				return
			}

			ctx := requestcontext.WithActor(r.Context(), claims.Subject, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

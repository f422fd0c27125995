package auth

import (
	"net/http"
	"strings"
)

// SessionCookie carries the portal JWT for browser requests.
const SessionCookie = "portal_session"

// Middleware validates JWTs and enforces role access.
type Middleware struct {
	Secret []byte
	Policy Policy
}

// NewMiddleware constructs an auth middleware.
func NewMiddleware(secret []byte, policy Policy) *Middleware {
	return &Middleware{Secret: secret, Policy: policy}
}

// Wrap applies auth and role checks to the handler.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	if m == nil || len(m.Secret) == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Policy.IsExempt(r) {
			next.ServeHTTP(w, r)
			return
		}

		allowed, ok := m.Policy.AllowedRoles(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := ParseJWT(extractToken(r), m.Secret)
		if err != nil {
			http.Error(w, ErrUnauthorized.Error(), http.StatusUnauthorized)
			return
		}
		role, _ := NormalizeRole(claims.Role)
		if !roleIn(role, allowed) {
			http.Error(w, ErrForbidden.Error(), http.StatusForbidden)
			return
		}
		ctx := WithIdentity(r.Context(), role, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractToken(r *http.Request) string {
	if token := extractBearer(r); token != "" {
		return token
	}
	if r == nil {
		return ""
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func extractBearer(r *http.Request) string {
	if r == nil {
		return ""
	}
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/dallinbsmith/prescription-db-sub001/internal/auth"
	"github.com/dallinbsmith/prescription-db-sub001/internal/domain"
)

type contextKey string

const claimsKey contextKey = "claims"

const unauthenticatedBody = `{"error":{"code":"UNAUTHENTICATED","message":"Missing or invalid token"}}`

// Auth verifies the bearer token and attaches the reconstructed claims to
// the request context. No database lookup happens here: claims are trusted
// as of issuance, so role/email changes take effect on re-login or expiry.
// The distinct verification failures are logged but the response is always
// the same 401.
func Auth(issuer *auth.TokenIssuer, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized, unauthenticatedBody)
				return
			}

			claims, err := issuer.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				logger.Debug("token rejected", zap.Error(err), zap.String("path", r.URL.Path))
				writeAuthError(w, http.StatusUnauthorized, unauthenticatedBody)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole composes after Auth and fails closed: anything but an exact
// role match, including claims missing from the context, is rejected.
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, unauthenticatedBody)
				return
			}

			switch claims.Role {
			case role:
				next.ServeHTTP(w, r)
			case domain.RoleAdmin, domain.RoleUser:
				writeAuthError(w, http.StatusForbidden, `{"error":{"code":"FORBIDDEN","message":"Insufficient role"}}`)
			default:
				// Verify rejects unknown roles; fail closed anyway.
				writeAuthError(w, http.StatusForbidden, `{"error":{"code":"FORBIDDEN","message":"Insufficient role"}}`)
			}
		})
	}
}

// ClaimsFromContext returns the claims attached by Auth.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// WithClaims is used by tests to seed a context.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func writeAuthError(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

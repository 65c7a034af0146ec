// Bearer-token auth for the HTTP transport.
// Accepts either a JWT signed with the configured secret or a static access
// token matching the configured bcrypt hash.
package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/automationtools/n8n-mcp/internal/api/ctxkeys"
	pkgauth "github.com/automationtools/n8n-mcp/pkg/auth"
)

// AuthConfig carries the credentials the middleware verifies against.
// At least one of JWTSecret or AccessTokenHash must be set for Enabled to be
// true; with neither, the caller should not install the middleware.
type AuthConfig struct {
	JWTSecret       []byte
	AccessTokenHash string
}

// Enabled reports whether any credential check is configured.
func (c AuthConfig) Enabled() bool {
	return len(c.JWTSecret) > 0 || c.AccessTokenHash != ""
}

// Auth validates the Authorization: Bearer header and injects the caller
// subject into the request context.
//
// Flow:
//  1. Extract the bearer token; missing or wrong scheme → 401.
//  2. If a JWT secret is configured, try JWT validation first.
//  3. Otherwise (or on JWT failure) compare against the static token hash.
//  4. Inject ctxkeys.Subject and call the next handler.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				writeUnauthorized(w, "missing or invalid Authorization header")
				return
			}

			subject, ok := verify(cfg, token)
			if !ok {
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			ctx := ctxkeys.WithValue(r.Context(), ctxkeys.Subject, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func verify(cfg AuthConfig, token string) (subject string, ok bool) {
	if len(cfg.JWTSecret) > 0 {
		if claims, err := pkgauth.ParseJWT(cfg.JWTSecret, token); err == nil {
			return claims.Subject, true
		}
	}
	if cfg.AccessTokenHash != "" && pkgauth.VerifyToken(cfg.AccessTokenHash, token) {
		return "token", true
	}
	return "", false
}

// extractBearerToken pulls the token out of "Authorization: Bearer <token>".
// Returns "" for a missing header, wrong scheme, or empty token.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	// Scheme is case-sensitive per RFC 7235.
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message}) //nolint:errcheck
}

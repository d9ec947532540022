package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"askboard/pkg/domain"
	"askboard/pkg/requestcontext"
)

// SessionCookie is the cookie carrying the opaque session token.
const SessionCookie = "askboard_session"

// SessionResolver resolves an opaque session token into the principal it was
// issued to. Implemented by the identity service.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (domain.Principal, error)
}

// RequireSession resolves the session token from the request and injects the
// principal into the context. Requests without a resolvable session get a 401;
// handlers behind this middleware can assume a non-zero principal.
func RequireSession(resolver SessionResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := sessionToken(r)
			if token == "" {
				unauthenticated(w)
				return
			}

			principal, err := resolver.Resolve(ctx, token)
			if err != nil {
				logger.WarnContext(ctx, "session resolution failed",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				unauthenticated(w)
				return
			}

			ctx = requestcontext.WithPrincipal(ctx, principal)
			ctx = requestcontext.WithSessionID(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionToken reads the token from the session cookie, falling back to a
// bearer Authorization header for non-browser clients.
func sessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	const bearerPrefix = "Bearer "
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix); ok {
		return after
	}
	return ""
}

func unauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthenticated"}`))
}

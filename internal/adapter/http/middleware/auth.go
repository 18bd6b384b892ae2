package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/groupledger/internal/domain"
	"github.com/iho/groupledger/internal/infrastructure/auth"
	"github.com/iho/groupledger/internal/infrastructure/metrics"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// PrincipalContextKey is the context key for the calling principal
	PrincipalContextKey ContextKey = "principal"

	// GroupIDHeader carries the group when authentication is disabled.
	GroupIDHeader = "X-Group-ID"
	// ActorIDHeader optionally names the caller when authentication is disabled.
	ActorIDHeader = "X-Actor-ID"
)

// Principal is who is calling and on behalf of which group.
type Principal struct {
	ActorID string
	GroupID domain.GroupID
}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, PrincipalContextKey, p)
}

// PrincipalFromContext extracts the calling principal from context
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(PrincipalContextKey).(Principal)
	return p, ok
}

// AuthMiddleware verifies the bearer token and takes the group from its claims.
func AuthMiddleware(jwtManager *auth.JWTManager, m *metrics.Metrics) func(http.Handler) http.Handler {
	reject := func(w http.ResponseWriter, reason, message string) {
		if m != nil {
			m.AuthFailures.WithLabelValues(reason).Inc()
		}
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token from Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				reject(w, "missing_header", "missing authorization header")
				return
			}

			// Parse Bearer token
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				reject(w, "malformed_header", "invalid authorization header format")
				return
			}

			claims, err := jwtManager.Verify(parts[1])
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrExpiredToken):
					reject(w, "expired", "token has expired")
				case errors.Is(err, auth.ErrMissingGroup):
					reject(w, "missing_group", "token carries no group")
				default:
					reject(w, "invalid", "invalid token")
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), Principal{
				ActorID: claims.ActorID,
				GroupID: domain.GroupID(claims.GroupID),
			})))
		})
	}
}

// HeaderGroup reads the group from X-Group-ID. It is used when authentication
// is disabled, e.g. in local development.
func HeaderGroup(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		group := strings.TrimSpace(r.Header.Get(GroupIDHeader))
		if group == "" {
			writeError(w, http.StatusBadRequest, domain.ErrMissingGroup.Code, "missing "+GroupIDHeader+" header")
			return
		}

		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), Principal{
			ActorID: strings.TrimSpace(r.Header.Get(ActorIDHeader)),
			GroupID: domain.GroupID(group),
		})))
	})
}

// withPrincipal also tags the request logger so access logs carry the group.
func withPrincipal(ctx context.Context, p Principal) context.Context {
	zerolog.Ctx(ctx).UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("group_id", string(p.GroupID))
	})
	return WithPrincipal(ctx, p)
}

// Package authn provides the bearer-token verification middleware. It is
// stateless: a token is judged by its signature and expiry alone, so a
// deleted user's still-unexpired token keeps working until it expires.
package authn

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"shop_service/internal/lib/api/response"
	"shop_service/internal/lib/jwt"
	sl "shop_service/internal/lib/logger"
)

type contextKey struct{}

var identityKey = contextKey{}

// Identity is the authenticated subject attached to the request context.
type Identity struct {
	ID    uuid.UUID
	Email string
}

// FromContext returns the identity set by the middleware, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// New builds a middleware that rejects requests without a valid bearer
// token. Every failure (missing header, malformed token, bad signature,
// expiry) gets the same 401 body so callers cannot probe which case hit.
func New(log *slog.Logger, secret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			const op = "middleware.authn.New"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("missing authorization header")

				unauthorized(w, r)

				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Warn("malformed authorization header")

				unauthorized(w, r)

				return
			}

			claims, err := jwt.ParseToken(parts[1], secret)
			if err != nil {
				log.Warn("token rejected", sl.Err(err))

				unauthorized(w, r)

				return
			}

			identity := Identity{
				ID:    claims.UserID,
				Email: claims.Email,
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)

			next.ServeHTTP(w, r.WithContext(ctx))
		}

		return http.HandlerFunc(fn)
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error("unauthorized"))
}

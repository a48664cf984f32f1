package middleware

import (
	"net/http"
	"strings"

	"github.com/elcobre-lavanderia/tracking-backend/api/responses"
	pkgAuth "github.com/elcobre-lavanderia/tracking-backend/pkg/auth"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/config"
	pkgerrors "github.com/elcobre-lavanderia/tracking-backend/pkg/errors"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.ActorID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing actor id"))
				return
			}

			ctx := WithActor(r.Context(), claims.ActorID, claims.Nombre, string(claims.Role))

			if logg != nil {
				ctx = logg.WithActorID(ctx, claims.ActorID)
				ctx = logg.WithActorRole(ctx, string(claims.Role))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

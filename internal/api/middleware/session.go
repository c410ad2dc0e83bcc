package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/seolens/seolens/internal/api/response"
	"github.com/seolens/seolens/internal/core"
	"github.com/seolens/seolens/internal/model"
)

type contextKey string

const sessionKey contextKey = "oauth_session"

// Session returns middleware that loads the encrypted OAuth cookie and
// injects the decoded session into the request context. With skipAuth set
// (dev mode only) a synthetic session is injected instead.
func Session(store *core.SessionStore, skipAuth bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipAuth {
				ctx := context.WithValue(r.Context(), sessionKey, devSession())
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			data, err := store.ReadOAuthData(r)
			if err != nil {
				var serr *core.SessionError
				if errors.As(err, &serr) {
					response.WriteErrorCode(w, http.StatusUnauthorized, serr.Code, serr.Msg)
					return
				}
				response.WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, data)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithSession returns a context carrying the given OAuth session. Handler
// tests use it to stand in for the middleware.
func WithSession(ctx context.Context, data *model.OAuthData) context.Context {
	return context.WithValue(ctx, sessionKey, data)
}

// GetSession extracts the OAuth session from the request context.
func GetSession(ctx context.Context) *model.OAuthData {
	data, _ := ctx.Value(sessionKey).(*model.OAuthData)
	return data
}

func devSession() *model.OAuthData {
	return &model.OAuthData{
		Profile:   model.Profile{Sub: "dev", Email: "dev@localhost", Name: "Dev User"},
		TenantID:  "dev-tenant",
		UserID:    "dev-user",
		Timestamp: time.Now(),
	}
}

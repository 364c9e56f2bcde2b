package http

import (
	"chatwire/internal/entity"
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type contextKey string

const UserContextKey contextKey = "user"

// TokenCookieName is the cookie the web client stores its token in.
const TokenCookieName = "jwt"

type TokenValidator interface {
	ValidateAccessToken(token string) (*entity.TokenClaims, error)
}

type AuthMiddleware struct {
	validator TokenValidator
	logger    *zap.Logger
}

func NewAuthMiddleware(validator TokenValidator, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
		logger:    logger,
	}
}

// Authenticate accepts a bearer token or the jwt cookie.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return m.authenticate(next, false)
}

// AuthenticateHandshake also accepts ?token=, since browsers cannot set
// headers on a websocket upgrade.
func (m *AuthMiddleware) AuthenticateHandshake(next http.Handler) http.Handler {
	return m.authenticate(next, true)
}

func (m *AuthMiddleware) authenticate(next http.Handler, allowQuery bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r, allowQuery)
		if token == "" {
			writeError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		claims, err := m.validator.ValidateAccessToken(token)
		if err != nil {
			m.logger.Debug("rejected token",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Error(err),
			)
			writeError(w, http.StatusUnauthorized, msgInvalidToken)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tokenFromRequest(r *http.Request, allowQuery bool) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}

	if cookie, err := r.Cookie(TokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	if allowQuery {
		return r.URL.Query().Get("token")
	}
	return ""
}

// UserIdFromContext returns the authenticated user id set by AuthMiddleware.
func UserIdFromContext(ctx context.Context) (string, bool) {
	claims, ok := ctx.Value(UserContextKey).(*entity.TokenClaims)
	if !ok || claims == nil || claims.UserId == "" {
		return "", false
	}
	return claims.UserId, true
}

// WithUserId returns a copy of ctx carrying userId as the authenticated user.
func WithUserId(ctx context.Context, userId string) context.Context {
	return context.WithValue(ctx, UserContextKey, &entity.TokenClaims{UserId: userId})
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"bebida-express/internal/domain"
	"bebida-express/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const (
	SessionKey  contextKey = "session"
	UserRoleKey contextKey = "user_role"

	sessionRecorderKey contextKey = "session_recorder"
)

// withSessionRecorder lets an outer middleware learn which session
// AuthMiddleware authenticated.
func withSessionRecorder(ctx context.Context, record func(merchantID, storeID string)) context.Context {
	return context.WithValue(ctx, sessionRecorderKey, record)
}

// AuthMiddleware validates merchant JWT tokens and stores the acting session
func AuthMiddleware(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("Missing authorization header")
				RespondWithError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Debug("Invalid authorization header format")
				RespondWithError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			claims, err := service.ParseToken(parts[1], jwtSecret)
			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				if errors.Is(err, jwt.ErrTokenExpired) {
					RespondWithError(w, http.StatusUnauthorized, "token expired")
				} else {
					RespondWithError(w, http.StatusUnauthorized, "invalid token")
				}
				return
			}

			sess := claims.Session()
			if record, ok := r.Context().Value(sessionRecorderKey).(func(merchantID, storeID string)); ok {
				record(sess.MerchantID, sess.StoreID)
			}
			ctx := context.WithValue(r.Context(), SessionKey, sess)
			ctx = context.WithValue(ctx, UserRoleKey, claims.Role)

			logger.Debug("Merchant authenticated",
				zap.String("merchant_id", sess.MerchantID),
				zap.String("store_id", sess.StoreID),
				zap.String("role", claims.Role),
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession extracts the acting session from request context
func GetSession(ctx context.Context) (domain.Session, bool) {
	sess, ok := ctx.Value(SessionKey).(domain.Session)
	return sess, ok
}

// GetUserRole extracts the token role from request context
func GetUserRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(UserRoleKey).(string)
	return role, ok
}

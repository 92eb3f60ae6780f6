package middleware

import (
	"net/http"

	"bebida-express/internal/domain"

	"go.uber.org/zap"
)

// RequireRole rejects callers whose token role is not in allowedRoles.
// It must run after AuthMiddleware.
func RequireRole(allowedRoles []string, logger *zap.Logger) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedRoles))
	for _, role := range allowedRoles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRole(r.Context())
			if !ok || !allowed[role] {
				logger.Warn("Role not authorized",
					zap.String("role", role),
					zap.Strings("allowed_roles", allowedRoles),
					zap.String("path", r.URL.Path),
				)
				RespondWithError(w, http.StatusForbidden, domain.ErrForbidden.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePlatform admits only the marketplace operator
func RequirePlatform(logger *zap.Logger) func(http.Handler) http.Handler {
	return RequireRole([]string{domain.RolePlatform}, logger)
}

// RequireStoreScope admits sessions that act on a store: a merchant with a
// store, or the platform operator acting on any.
func RequireStoreScope(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := GetSession(r.Context())
			if !ok || (!sess.PlatformAdmin && sess.StoreID == "") {
				logger.Warn("Session has no store scope",
					zap.String("merchant_id", sess.MerchantID),
					zap.String("path", r.URL.Path),
				)
				RespondWithError(w, http.StatusForbidden, domain.ErrForbidden.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

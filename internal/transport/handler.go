// Package transport exposes the marketplace services over HTTP.
package transport

import (
	"net/http"

	"bebida-express/internal/domain"
	"bebida-express/internal/middleware"

	"go.uber.org/zap"
)

// decodeRequest decodes and validates the JSON body into dst, writing the
// error response itself when that fails.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst interface{}, logger *zap.Logger) bool {
	if err := middleware.DecodeAndValidate(r, dst); err != nil {
		logger.Debug("Request validation failed", zap.String("path", r.URL.Path), zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// sessionFrom returns the session set by the auth middleware
func sessionFrom(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (domain.Session, bool) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		logger.Error("Session not found in context", zap.String("path", r.URL.Path))
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
	}
	return sess, ok
}

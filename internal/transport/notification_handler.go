package transport

import (
	"net/http"

	"bebida-express/internal/middleware"
	"bebida-express/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NotificationHandler serves the customer notification feed
type NotificationHandler struct {
	notificationService service.NotificationService
	logger              *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, logger: logger}
}

func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/notifications", h.List)
}

// List returns every notification, newest first
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.notificationService.List(r.Context())
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, notifications)
}

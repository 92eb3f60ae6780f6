package transport

import (
	"net/http"

	"bebida-express/internal/middleware"
	"bebida-express/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RegisterStoreRequest is the platform's store registration payload
type RegisterStoreRequest struct {
	Name     string `json:"name" validate:"required"`
	Image    string `json:"image"`
	WhatsApp string `json:"whatsapp" validate:"required,min=8"`
	Address  string `json:"address" validate:"required"`
	OwnerID  string `json:"owner_id"`
}

// ReputationRequest sets a store's advisory score
type ReputationRequest struct {
	Reputation *int `json:"reputation" validate:"required"`
}

// PlatformHandler serves the marketplace operator routes
type PlatformHandler struct {
	storeService   service.StoreService
	insightService service.InsightService
	logger         *zap.Logger
}

// NewPlatformHandler creates a new PlatformHandler
func NewPlatformHandler(storeService service.StoreService, insightService service.InsightService, logger *zap.Logger) *PlatformHandler {
	return &PlatformHandler{
		storeService:   storeService,
		insightService: insightService,
		logger:         logger,
	}
}

// RegisterRoutes registers the operator routes behind authMiddleware
func (h *PlatformHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/platform", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequirePlatform(h.logger))

		r.Get("/summary", h.Summary)
		r.Post("/stores", h.RegisterStore)
		r.Delete("/stores/{id}", h.DeleteStore)
		r.Put("/stores/{id}/reputation", h.SetReputation)
	})
}

func (h *PlatformHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r, h.logger)
	if !ok {
		return
	}

	summary, err := h.insightService.PlatformSummary(r.Context(), sess)
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, summary)
}

func (h *PlatformHandler) RegisterStore(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r, h.logger)
	if !ok {
		return
	}

	var req RegisterStoreRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	store, err := h.storeService.RegisterStore(r.Context(), sess, service.RegisterStoreInput{
		Name:     req.Name,
		Image:    req.Image,
		WhatsApp: req.WhatsApp,
		Address:  req.Address,
		OwnerID:  req.OwnerID,
	})
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, store)
}

// DeleteStore removes the store and its catalog
func (h *PlatformHandler) DeleteStore(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.storeService.DeleteStore(r.Context(), sess, chi.URLParam(r, "id")); err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PlatformHandler) SetReputation(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r, h.logger)
	if !ok {
		return
	}

	var req ReputationRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	store, err := h.storeService.SetReputation(r.Context(), sess, chi.URLParam(r, "id"), *req.Reputation)
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, store)
}

package transport

import (
	"net/http"
	"strconv"

	"bebida-express/internal/middleware"
	"bebida-express/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// StoreHandler serves the public storefront: stores, catalogs and
// recommendations.
type StoreHandler struct {
	storeService   service.StoreService
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(storeService service.StoreService, catalogService service.CatalogService, logger *zap.Logger) *StoreHandler {
	return &StoreHandler{
		storeService:   storeService,
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers the storefront routes
func (h *StoreHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/stores", func(r chi.Router) {
		r.Get("/", h.ListStores)
		r.Get("/{id}", h.GetStore)
		r.Get("/{id}/products", h.ListProducts)
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListAllProducts)
		r.Get("/recommendations", h.Recommendations)
		r.Get("/combos", h.Combos)
	})
}

func (h *StoreHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.storeService.ListStores(r.Context())
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, stores)
}

func (h *StoreHandler) GetStore(w http.ResponseWriter, r *http.Request) {
	store, err := h.storeService.GetStore(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, store)
}

// ListProducts returns one store's catalog
func (h *StoreHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "id")
	if _, err := h.storeService.GetStore(r.Context(), storeID); err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}

	products, err := h.catalogService.ListProducts(r.Context(), storeID)
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// ListAllProducts returns the marketplace-wide catalog
func (h *StoreHandler) ListAllProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.ListProducts(r.Context(), "")
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Recommendations returns the best sellers; ?limit= overrides the default size
func (h *StoreHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			middleware.RespondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	products, err := h.catalogService.Recommendations(r.Context(), limit)
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

func (h *StoreHandler) Combos(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.Combos(r.Context())
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

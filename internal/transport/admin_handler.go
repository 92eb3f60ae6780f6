package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bebida-express/internal/domain"
	"bebida-express/internal/events"
	"bebida-express/internal/middleware"
	"bebida-express/internal/service"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StreamHeartbeat is how often an idle order stream sends a keep-alive comment
const StreamHeartbeat = 15 * time.Second

// ProductRequest is the admin create-or-replace payload
type ProductRequest struct {
	ID          string           `json:"id"`
	StoreID     string           `json:"store_id"`
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price" validate:"gte=0"`
	Image       string           `json:"image"`
	Category    domain.Category  `json:"category" validate:"required,category"`
	Stock       int              `json:"stock" validate:"gte=0"`
	IsPromo     bool             `json:"is_promo"`
	OldPrice    *decimal.Decimal `json:"old_price" validate:"omitempty,gte=0"`
}

// StatusRequest moves an order along its lifecycle
type StatusRequest struct {
	Status domain.OrderStatus `json:"status" validate:"required,order_status"`
}

// BroadcastRequest is a merchant-authored notification
type BroadcastRequest struct {
	Title   string `json:"title" validate:"required"`
	Message string `json:"message" validate:"required"`
	Type    string `json:"type" validate:"omitempty,oneof=info promo"`
}

// AdminHandler serves the merchant dashboard. Platform sessions see every
// store and may pick one with ?store_id=.
type AdminHandler struct {
	catalogService      service.CatalogService
	orderService        service.OrderService
	storeService        service.StoreService
	insightService      service.InsightService
	notificationService service.NotificationService
	logger              *zap.Logger
	heartbeat           time.Duration
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	catalogService service.CatalogService,
	orderService service.OrderService,
	storeService service.StoreService,
	insightService service.InsightService,
	notificationService service.NotificationService,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		catalogService:      catalogService,
		orderService:        orderService,
		storeService:        storeService,
		insightService:      insightService,
		notificationService: notificationService,
		logger:              logger,
		heartbeat:           StreamHeartbeat,
	}
}

// RegisterRoutes registers the dashboard routes behind authMiddleware
func (h *AdminHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireRole([]string{domain.RoleMerchant, domain.RolePlatform}, h.logger))
		r.Use(middleware.RequireStoreScope(h.logger))

		// The stream must stay uncompressed so events flush immediately.
		r.Get("/orders/stream", h.StreamOrders)

		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Compress(5))

			r.Get("/products", h.ListProducts)
			r.Post("/products", h.SaveProduct)
			r.Delete("/products/{id}", h.DeleteProduct)

			r.Get("/orders", h.ListOrders)
			r.Get("/orders/pending", h.HasPending)
			r.Patch("/orders/{id}/status", h.UpdateStatus)

			r.Post("/store/toggle", h.ToggleStore)
			r.Get("/insights", h.Insights)
			r.Get("/dashboard", h.Dashboard)
			r.Post("/notifications", h.Broadcast)
		})
	})
}

// targetStore resolves the store a request acts on
func targetStore(r *http.Request, sess domain.Session) string {
	if sess.PlatformAdmin {
		return r.URL.Query().Get("store_id")
	}
	return sess.StoreID
}

func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r, h.logger)
	if !ok {
		return
	}

	products, err := h.catalogService.ListProducts(r.Context(), targetStore(r, sess))
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// SaveProduct creates the product when its id is unknown and replaces it otherwise
func (h *AdminHandler) SaveProduct(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r, h.logger)
	if !ok {
		return
	}

	var req ProductRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	product, err := h.catalogService.SaveProduct(r.Context(), sess, &domain.Product{
		ID:          req.ID,
		StoreID:     req.StoreID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
		Stock:       req.Stock,
		IsPromo:     req.IsPromo,
		OldPrice:    req.OldPrice,
	})
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProduct(r.Context(), sess, chi.URLParam(r, "id")); err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r, h.logger)
	if !ok {
		return
	}

	orders, err := h.orderService.ListStoreOrders(r.Context(), sess, targetStore(r, sess))
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// HasPending reports whether a pending order arrived within ?window= (a Go
// duration, default PendingWindow)
func (h *AdminHandler) HasPending(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r, h.logger)
	if !ok {
		return
	}

	storeID := targetStore(r, sess)
	if !sess.CanManageStore(storeID) {
		middleware.RespondWithDomainError(w, domain.ErrForbidden, h.logger)
		return
	}

	window := service.PendingWindow
	if raw := r.URL.Query().Get("window"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			middleware.RespondWithError(w, http.StatusBadRequest, "window must be a positive duration")
			return
		}
		window = parsed
	}

	pending, err := h.orderService.HasRecentPending(r.Context(), storeID, window)
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]bool{"pending": pending})
}

func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r, h.logger)
	if !ok {
		return
	}

	var req StatusRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), sess, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// StreamOrders pushes newly created orders as server-sent events until the
// client disconnects
func (h *AdminHandler) StreamOrders(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r, h.logger)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.RespondWithError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	pending, cancel, err := h.orderService.SubscribePending(sess, targetStore(r, sess))
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	defer cancel()

	// Streams outlive the server write timeout.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debug("Order stream keeps the server write deadline", zap.Error(err))
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	h.logger.Debug("Order stream opened",
		zap.String("merchant_id", sess.MerchantID),
		zap.String("store_id", sess.StoreID),
	)

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Debug("Order stream closed", zap.String("merchant_id", sess.MerchantID))
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case event, open := <-pending:
			if !open {
				return
			}
			if err := writeEvent(w, event); err != nil {
				h.logger.Debug("Order stream write failed", zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event events.OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	_, err = fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", event.OrderID, event.Type, data)
	return err
}

func (h *AdminHandler) ToggleStore(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r, h.logger)
	if !ok {
		return
	}

	online, err := h.storeService.ToggleAvailability(r.Context(), sess, targetStore(r, sess))
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]bool{"is_online": online})
}

func (h *AdminHandler) Insights(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r, h.logger)
	if !ok {
		return
	}

	insights, err := h.insightService.StoreInsights(r.Context(), sess)
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, insights)
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r, h.logger)
	if !ok {
		return
	}

	stats, err := h.insightService.Dashboard(r.Context(), sess)
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) Broadcast(w http.ResponseWriter, r *http.Request) {
	if _, ok := sessionFrom(w, r, h.logger); !ok {
		return
	}

	var req BroadcastRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	notification, err := h.notificationService.Broadcast(r.Context(), req.Title, req.Message, domain.NotificationType(req.Type))
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, notification)
}

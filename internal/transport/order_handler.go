package transport

import (
	"net/http"

	"bebida-express/internal/domain"
	"bebida-express/internal/handoff"
	"bebida-express/internal/middleware"
	"bebida-express/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderItemRequest is one cart line as shown to the customer
type OrderItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	StoreID   string          `json:"store_id"`
	Name      string          `json:"name" validate:"required"`
	Price     decimal.Decimal `json:"price" validate:"gte=0"`
	Category  domain.Category `json:"category" validate:"omitempty,category"`
	Quantity  int             `json:"quantity"`
}

// OrderCustomer identifies who is placing the order
type OrderCustomer struct {
	ID      string `json:"id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address" validate:"required"`
}

// CreateOrderRequest represents the checkout payload
type CreateOrderRequest struct {
	Items         []OrderItemRequest `json:"items" validate:"dive"`
	Total         *decimal.Decimal   `json:"total"`
	Customer      OrderCustomer      `json:"customer"`
	PaymentMethod string             `json:"payment_method" validate:"required,payment_method"`
}

// CreateOrderResponse carries the order and the merchant handoff
type CreateOrderResponse struct {
	Order       *domain.Order `json:"order"`
	Message     string        `json:"message"`
	WhatsAppURL string        `json:"whatsapp_url,omitempty"`
}

func (req CreateOrderRequest) toInput() service.CreateOrderInput {
	items := make([]domain.OrderItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = domain.OrderItem{
			ProductID: it.ProductID,
			StoreID:   it.StoreID,
			Name:      it.Name,
			Price:     it.Price,
			Category:  it.Category,
			Quantity:  it.Quantity,
		}
	}

	return service.CreateOrderInput{
		Items:         items,
		DeclaredTotal: req.Total,
		Customer: domain.Customer{
			ID:      req.Customer.ID,
			Name:    req.Customer.Name,
			Phone:   req.Customer.Phone,
			Address: req.Customer.Address,
		},
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	}
}

// OrderHandler handles customer checkout
type OrderHandler struct {
	orderService service.OrderService
	storeService service.StoreService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, storeService service.StoreService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		storeService: storeService,
		logger:       logger,
	}
}

// RegisterRoutes registers the checkout routes. limiter guards order creation
// and may be nil.
func (h *OrderHandler) RegisterRoutes(r chi.Router, limiter func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(limiter)
			}
			r.Post("/", h.Create)
		})
		r.Get("/{id}", h.Get)
	})
}

// Create places the order and returns the message to hand to the merchant
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	in := req.toInput()
	order, err := h.orderService.CreateOrder(r.Context(), in)
	if err != nil {
		h.logger.Debug("Order rejected", zap.Error(err))
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}

	resp := CreateOrderResponse{Order: order}

	store, err := h.storeService.GetStore(r.Context(), order.StoreID)
	if err != nil {
		// The order is committed; respond without the handoff.
		h.logger.Warn("Failed to load store for handoff",
			zap.String("order_id", order.ID),
			zap.String("store_id", order.StoreID),
			zap.Error(err),
		)
		middleware.RespondWithJSON(w, http.StatusCreated, resp)
		return
	}

	resp.Message = handoff.OrderMessage(order, store, &in.Customer)
	resp.WhatsAppURL = handoff.DeepLink(store.WhatsApp, resp.Message)

	middleware.RespondWithJSON(w, http.StatusCreated, resp)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderService.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

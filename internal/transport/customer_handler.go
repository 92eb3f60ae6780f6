package transport

import (
	"net/http"

	"bebida-express/internal/domain"
	"bebida-express/internal/middleware"
	"bebida-express/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CustomerRequest is the profile payload for create and update
type CustomerRequest struct {
	Name        string            `json:"name" validate:"required"`
	Email       string            `json:"email" validate:"omitempty,email"`
	Phone       string            `json:"phone"`
	Address     string            `json:"address"`
	Preferences []domain.Category `json:"preferences" validate:"dive,category"`
}

func (req CustomerRequest) toCustomer(id string) *domain.Customer {
	return &domain.Customer{
		ID:          id,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		Preferences: req.Preferences,
	}
}

// CustomerHandler handles HTTP requests for storefront customers
type CustomerHandler struct {
	customerService service.CustomerService
	orderService    service.OrderService
	logger          *zap.Logger
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService service.CustomerService, orderService service.OrderService, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		orderService:    orderService,
		logger:          logger,
	}
}

// RegisterRoutes registers all customer routes
func (h *CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/customers", func(r chi.Router) {
		r.Post("/", h.Register)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Get("/{id}/orders", h.ListOrders)
		r.Get("/{id}/greeting", h.Greeting)
	})
}

func (h *CustomerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	customer, err := h.customerService.Register(r.Context(), req.toCustomer(""))
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, customer)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customerService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	customer, err := h.customerService.Update(r.Context(), req.toCustomer(chi.URLParam(r, "id")))
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, customer)
}

// ListOrders returns the customer's order history across every store
func (h *CustomerHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListCustomerOrders(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

func (h *CustomerHandler) Greeting(w http.ResponseWriter, r *http.Request) {
	greeting, err := h.customerService.Greeting(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"greeting": greeting})
}

package transport

import (
	"net/http"
	"time"

	"bebida-express/internal/domain"
	"bebida-express/internal/middleware"
	"bebida-express/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RegisterRequest represents the merchant signup payload
type RegisterRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	StoreName string `json:"store_name" validate:"required"`
	WhatsApp  string `json:"whatsapp" validate:"required,min=8"`
	Address   string `json:"address" validate:"required"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresAt   time.Time       `json:"expires_at"`
	Role        string          `json:"role"`
	Merchant    MerchantProfile `json:"merchant"`
}

// MerchantProfile is the public view of a merchant account
type MerchantProfile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	StoreID string `json:"store_id,omitempty"`
}

// RegisterResponse carries the new account and its store
type RegisterResponse struct {
	Merchant MerchantProfile `json:"merchant"`
	Store    *domain.Store   `json:"store"`
}

func profileOf(m *domain.Merchant) MerchantProfile {
	return MerchantProfile{ID: m.ID, Name: m.Name, Email: m.Email, StoreID: m.StoreID}
}

// MerchantHandler handles HTTP requests for merchant accounts
type MerchantHandler struct {
	merchantService service.MerchantService
	logger          *zap.Logger
}

// NewMerchantHandler creates a new MerchantHandler
func NewMerchantHandler(merchantService service.MerchantService, logger *zap.Logger) *MerchantHandler {
	return &MerchantHandler{
		merchantService: merchantService,
		logger:          logger,
	}
}

// RegisterRoutes registers all merchant routes
func (h *MerchantHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/merchants", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Get("/me", h.GetProfile)
		})
	})
}

// Register handles merchant signup together with their store
func (h *MerchantHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	merchant, store, err := h.merchantService.Register(r.Context(), service.RegisterMerchantInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		StoreName: req.StoreName,
		WhatsApp:  req.WhatsApp,
		Address:   req.Address,
	})
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, RegisterResponse{Merchant: profileOf(merchant), Store: store})
}

// Login handles merchant and platform operator authentication
func (h *MerchantHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	result, err := h.merchantService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Debug("Login failed", zap.Error(err))
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{
		AccessToken: result.AccessToken,
		ExpiresAt:   result.ExpiresAt,
		Role:        result.Role,
		Merchant:    profileOf(result.Merchant),
	})
}

// GetProfile returns the authenticated merchant
func (h *MerchantHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r, h.logger)
	if !ok {
		return
	}

	if sess.PlatformAdmin {
		middleware.RespondWithJSON(w, http.StatusOK, MerchantProfile{ID: sess.MerchantID, Name: "Plataforma"})
		return
	}

	merchant, err := h.merchantService.GetMerchant(r.Context(), sess.MerchantID)
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, profileOf(merchant))
}

package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"bebida-express/internal/config"
	"bebida-express/internal/domain"
	"bebida-express/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10

	// AccessTokenExpiration applies when no expiry is configured
	AccessTokenExpiration = time.Hour

	// PlatformMerchantID identifies the platform operator in tokens
	PlatformMerchantID = "platform"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

// RegisterMerchantInput is a merchant's self-service signup
type RegisterMerchantInput struct {
	Name      string
	Email     string
	Password  string
	StoreName string
	WhatsApp  string
	Address   string
}

// LoginResult is returned on successful authentication
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	Merchant    *domain.Merchant
	Role        string
}

// MerchantService defines the interface for merchant accounts
type MerchantService interface {
	// Register creates the merchant together with their store.
	Register(ctx context.Context, in RegisterMerchantInput) (*domain.Merchant, *domain.Store, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	ValidateToken(tokenString string) (*Claims, error)
	GetMerchant(ctx context.Context, id string) (*domain.Merchant, error)
}

// Claims represents the JWT claims
type Claims struct {
	MerchantID string `json:"merchant_id"`
	StoreID    string `json:"store_id,omitempty"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// Session converts the claims into the acting principal
func (c *Claims) Session() domain.Session {
	return domain.Session{
		MerchantID:    c.MerchantID,
		StoreID:       c.StoreID,
		PlatformAdmin: c.Role == domain.RolePlatform,
	}
}

type merchantService struct {
	uow          repository.UnitOfWork
	merchantRepo repository.MerchantRepository
	jwtSecret    string
	tokenExpiry  time.Duration
	platform     config.PlatformConfig
	cost         int
	logger       *zap.Logger
}

// NewMerchantService creates a new instance of MerchantService
func NewMerchantService(
	uow repository.UnitOfWork,
	merchantRepo repository.MerchantRepository,
	jwtCfg config.JWTConfig,
	platform config.PlatformConfig,
	logger *zap.Logger,
) MerchantService {
	expiry := time.Duration(jwtCfg.AccessExpiry) * time.Minute
	if expiry <= 0 {
		expiry = AccessTokenExpiration
	}

	return &merchantService{
		uow:          uow,
		merchantRepo: merchantRepo,
		jwtSecret:    jwtCfg.Secret,
		tokenExpiry:  expiry,
		platform:     platform,
		cost:         BcryptCost,
		logger:       logger,
	}
}

// Register creates a merchant account with hashed password and the store it
// owns in one atomic write.
func (s *merchantService) Register(ctx context.Context, in RegisterMerchantInput) (*domain.Merchant, *domain.Store, error) {
	email := normalizeEmail(in.Email)
	if strings.EqualFold(email, s.platform.AdminEmail) {
		return nil, nil, domain.ErrDuplicateRegistration
	}

	hashedPassword, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	merchant := &domain.Merchant{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        email,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().UTC(),
	}
	store := NewStore(RegisterStoreInput{
		Name:     in.StoreName,
		WhatsApp: in.WhatsApp,
		Address:  in.Address,
		OwnerID:  merchant.ID,
	})
	merchant.StoreID = store.ID

	err = s.uow.Do(ctx, []string{repository.MerchantsKey, repository.StoresKey}, func(tx *repository.Tx) error {
		merchants, err := tx.Merchants()
		if err != nil {
			return err
		}
		if repository.EmailTaken(merchants, email) {
			return domain.ErrDuplicateRegistration
		}

		stores, err := tx.Stores()
		if err != nil {
			return err
		}
		if err := tx.PutStores(append(stores, *store)); err != nil {
			return err
		}
		return tx.PutMerchants(append(merchants, *merchant))
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateRegistration) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("failed to register merchant: %w", err)
	}

	s.logger.Info("Merchant registered",
		zap.String("merchant_id", merchant.ID),
		zap.String("store_id", store.ID),
	)
	return merchant, store, nil
}

// Login authenticates a merchant, or the platform operator, and returns a
// signed access token.
func (s *merchantService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)

	if s.isPlatformAdmin(email, password) {
		merchant := &domain.Merchant{ID: PlatformMerchantID, Name: "Plataforma", Email: email}
		return s.issue(merchant, domain.RolePlatform)
	}

	merchant, err := s.merchantRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrMerchantNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find merchant: %w", err)
	}

	if err := s.verifyPassword(merchant.PasswordHash, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(merchant, domain.RoleMerchant)
}

func (s *merchantService) isPlatformAdmin(email, password string) bool {
	if s.platform.AdminPassword == "" || !strings.EqualFold(email, s.platform.AdminEmail) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.platform.AdminPassword)) == 1
}

func (s *merchantService) issue(merchant *domain.Merchant, role string) (*LoginResult, error) {
	token, expiresAt, err := s.generateAccessToken(merchant, role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.logger.Info("Merchant logged in",
		zap.String("merchant_id", merchant.ID),
		zap.String("role", role),
	)
	return &LoginResult{AccessToken: token, ExpiresAt: expiresAt, Merchant: merchant, Role: role}, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *merchantService) ValidateToken(tokenString string) (*Claims, error) {
	return ParseToken(tokenString, s.jwtSecret)
}

// ParseToken verifies an HS256 token signed with secret and returns its claims
func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.MerchantID == "" || claims.Role == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *merchantService) GetMerchant(ctx context.Context, id string) (*domain.Merchant, error) {
	merchant, err := s.merchantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get merchant: %w", err)
	}
	return merchant, nil
}

func (s *merchantService) hashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *merchantService) verifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// generateAccessToken signs a token carrying the merchant, their store and role
func (s *merchantService) generateAccessToken(merchant *domain.Merchant, role string) (string, time.Time, error) {
	now := time.Now()
	expirationTime := now.Add(s.tokenExpiry)
	claims := &Claims{
		MerchantID: merchant.ID,
		StoreID:    merchant.StoreID,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   merchant.ID,
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expirationTime, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

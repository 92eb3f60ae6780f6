package domain

import "errors"

var (
	ErrStoreUnavailable      = errors.New("store is unavailable")
	ErrInvalidCart           = errors.New("invalid cart")
	ErrDuplicateRegistration = errors.New("merchant with this email already exists")
	ErrInvalidTransition     = errors.New("invalid order status transition")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrForbidden             = errors.New("insufficient permissions")
	ErrInvalidReputation     = errors.New("reputation must be between 0 and 100")
	ErrInvalidProduct        = errors.New("invalid product")

	ErrOrderNotFound    = errors.New("order not found")
	ErrStoreNotFound    = errors.New("store not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrCustomerNotFound = errors.New("customer not found")
)

package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"bebida-express/internal/domain"
	"bebida-express/internal/seed"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func registration(email string) RegisterMerchantInput {
	return RegisterMerchantInput{
		Name:      "Maria",
		Email:     email,
		Password:  "s3cret-pass",
		StoreName: "Adega da Maria",
		WhatsApp:  "5592988887777",
		Address:   "Rua das Flores, 10",
	}
}

func TestRegister_CreatesMerchantAndStore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	merchant, store, err := env.merchantSvc.Register(ctx, registration("Maria@Example.com "))
	require.NoError(t, err)

	assert.Equal(t, "maria@example.com", merchant.Email)
	assert.Equal(t, store.ID, merchant.StoreID)
	assert.Equal(t, merchant.ID, store.OwnerID)
	assert.True(t, store.IsOnline)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(merchant.PasswordHash), []byte("s3cret-pass")))

	stored, err := env.storeSvc.GetStore(ctx, store.ID)
	require.NoError(t, err)
	assert.Equal(t, "Adega da Maria", stored.Name)

	found, err := env.merchantSvc.GetMerchant(ctx, merchant.ID)
	require.NoError(t, err)
	assert.Equal(t, merchant.Email, found.Email)
}

func TestRegister_DuplicateEmailLeavesNoStore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.merchantSvc.Register(ctx, registration("ADEGA@admin.com"))
	assert.ErrorIs(t, err, domain.ErrDuplicateRegistration)

	_, _, err = env.merchantSvc.Register(ctx, registration("admin@bebidaexpress.com"))
	assert.ErrorIs(t, err, domain.ErrDuplicateRegistration)

	stores, err := env.storeSvc.ListStores(ctx)
	require.NoError(t, err)
	assert.Len(t, stores, 2)
}

func TestProperty_PasswordsAreHashed(t *testing.T) {
	properties := gopter.NewProperties(nil)
	env := newTestEnv(t)
	counter := 0

	properties.Property("stored hash never equals the password and verifies it", prop.ForAll(
		func(password string) bool {
			counter++
			in := registration(fmt.Sprintf("m%d@example.com", counter))
			in.Password = password

			merchant, _, err := env.merchantSvc.Register(context.Background(), in)
			if err != nil {
				return false
			}
			return merchant.PasswordHash != password &&
				bcrypt.CompareHashAndPassword([]byte(merchant.PasswordHash), []byte(password)) == nil
		},
		gen.AlphaString().SuchThat(func(s string) bool { return len(s) >= 8 && len(s) <= 72 }),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestLogin_MerchantToken(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.merchantSvc.Login(context.Background(), "adega@admin.com", seed.DemoPassword)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMerchant, result.Role)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	claims, err := env.merchantSvc.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "m_1", claims.MerchantID)
	assert.Equal(t, "store_1", claims.StoreID)
	assert.Equal(t, domain.Session{MerchantID: "m_1", StoreID: "store_1"}, claims.Session())
}

func TestLogin_PlatformAdmin(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.merchantSvc.Login(context.Background(), "admin@bebidaexpress.com", "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.RolePlatform, result.Role)

	claims, err := ParseToken(result.AccessToken, testSecret)
	require.NoError(t, err)
	assert.True(t, claims.Session().PlatformAdmin)
	assert.Empty(t, claims.StoreID)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.merchantSvc.Login(ctx, "adega@admin.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = env.merchantSvc.Login(ctx, "nobody@admin.com", seed.DemoPassword)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = env.merchantSvc.Login(ctx, "admin@bebidaexpress.com", "guess")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestValidateToken_Rejections(t *testing.T) {
	env := newTestEnv(t)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		MerchantID: "m_1",
		Role:       domain.RoleMerchant,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	signed, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = env.merchantSvc.ValidateToken(signed)
	assert.Error(t, err)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{MerchantID: "m_1", Role: domain.RoleMerchant})
	signed, err = foreign.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = env.merchantSvc.ValidateToken(signed)
	assert.Error(t, err)

	anonymous := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{})
	signed, err = anonymous.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = env.merchantSvc.ValidateToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

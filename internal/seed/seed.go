// Package seed loads the demo marketplace into an empty store.
package seed

import (
	"context"
	"fmt"
	"time"

	"bebida-express/internal/domain"
	"bebida-express/internal/kvstore"
	"bebida-express/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DemoPassword is the password of both seeded merchants
const DemoPassword = "demo1234"

// Data is the full demo dataset
type Data struct {
	Merchants []domain.Merchant
	Stores    []domain.Store
	Products  []domain.Product
	Customers []domain.Customer
}

func price(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

// Demo returns the demo dataset. Merchant passwords are hashed with cost.
func Demo(cost int) (*Data, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo password: %w", err)
	}

	now := time.Now().UTC()
	rate := domain.DefaultCommissionRate

	return &Data{
		Merchants: []domain.Merchant{
			{ID: "m_1", Name: "Admin Adega", Email: "adega@admin.com", PasswordHash: string(hash), StoreID: "store_1", CreatedAt: now},
			{ID: "m_2", Name: "Zé Distribuidora", Email: "ze@admin.com", PasswordHash: string(hash), StoreID: "store_2", CreatedAt: now},
		},
		Stores: []domain.Store{
			{ID: "store_1", Name: "Adega Central", WhatsApp: "5511999999999", Address: "Centro, Juruá - AM", OwnerID: "m_1", CommissionRate: rate, IsOnline: true, Reputation: 98},
			{ID: "store_2", Name: "Distribuidora do Zé", WhatsApp: "5511988888888", Address: "Bairro Alto, Juruá - AM", OwnerID: "m_2", CommissionRate: rate, IsOnline: false, Reputation: 85},
		},
		Products: []domain.Product{
			{ID: "1", StoreID: "store_1", Name: "Heineken 330ml", Description: "Long neck gelada", Price: price("7.50"), Category: domain.CategoryBeer, Stock: 100, SalesCount: 150},
			{ID: "2", StoreID: "store_1", Name: "Skol 350ml", Description: "Lata trincando", Price: price("4.00"), Category: domain.CategoryBeer, Stock: 200, SalesCount: 300},
			{ID: "3", StoreID: "store_1", Name: "Gelo 5kg", Description: "Saco de gelo filtrado", Price: price("12.00"), Category: domain.CategoryIce, Stock: 20, SalesCount: 50},
			{ID: "4", StoreID: "store_2", Name: "Red Bull", Description: "Energético 250ml", Price: price("8.90"), Category: domain.CategoryEnergy, Stock: 50, SalesCount: 80},
			{ID: "5", StoreID: "store_2", Name: "Vodka Absolut", Description: "Garrafa 1L", Price: price("89.90"), Category: domain.CategorySpirits, Stock: 10, SalesCount: 12},
			{ID: "6", StoreID: "store_2", Name: "Carvão Vegetal 3kg", Description: "Ideal para churrasco", Price: price("24.90"), Category: domain.CategoryCharcoal, Stock: 15, SalesCount: 30},
			{ID: "7", StoreID: "store_1", Name: "Kit Churrasco", Description: "Carvão + 12 Skol + Sal Grosso", Price: price("85.00"), Category: domain.CategoryCombo, Stock: 5, SalesCount: 10, IsPromo: true},
			{ID: "8", StoreID: "store_1", Name: "Barra de Chocolate", Description: "Ao Leite 90g", Price: price("6.50"), Category: domain.CategoryChocolate, Stock: 30, SalesCount: 40},
			{ID: "9", StoreID: "store_1", Name: "Batata Pringles", Description: "Original", Price: price("14.90"), Category: domain.CategorySnacks, Stock: 15, SalesCount: 25},
		},
		Customers: []domain.Customer{
			{ID: "u1", Name: "Cliente Exemplo", Email: "cliente@bebidaexpress.com", Phone: "11999999999", Address: "Av. Principal, 1000 - Centro", Preferences: []domain.Category{domain.CategoryBeer, domain.CategoryIce}},
		},
	}, nil
}

// Apply writes every collection of data that is still absent from store.
// Existing collections are left untouched.
func Apply(ctx context.Context, store kvstore.Store, data *Data, logger *zap.Logger) error {
	collections := []struct {
		key   string
		value interface{}
	}{
		{repository.MerchantsKey, data.Merchants},
		{repository.StoresKey, data.Stores},
		{repository.ProductsKey, data.Products},
		{repository.CustomersKey, data.Customers},
		{repository.OrdersKey, []domain.Order{}},
		{repository.NotificationsKey, []domain.Notification{}},
	}

	keys := make([]string, len(collections))
	for i, c := range collections {
		keys[i] = c.key
	}

	return store.Atomic(ctx, keys, func(tx kvstore.Tx) error {
		for _, c := range collections {
			var existing interface{}
			found, err := tx.Get(c.key, &existing)
			if err != nil {
				return err
			}
			if found {
				continue
			}
			if err := tx.Set(c.key, c.value); err != nil {
				return err
			}
			logger.Info("Seeded collection", zap.String("key", c.key))
		}
		return nil
	})
}

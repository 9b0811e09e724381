package service

import (
	"context"
	"testing"

	"sales-ledger/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateListing(t *testing.T) {
	m := store.NewMemoryStore()
	svc := NewProductService(m)

	product, err := svc.CreateListing(context.Background(), 1, &CreateProductRequest{
		Name:     "  Desk Lamp ",
		Price:    decimal.RequireFromString("29.90"),
		Quantity: 4,
		ImageRef: "products/lamp.jpg",
	})
	require.NoError(t, err)
	assert.NotZero(t, product.ID)
	assert.Equal(t, int64(1), product.UserID)
	assert.Equal(t, "Desk Lamp", product.Name)
	assert.Equal(t, 4, product.Quantity)
}

func TestCreateListing_Validation(t *testing.T) {
	m := store.NewMemoryStore()
	svc := NewProductService(m)

	cases := []struct {
		name string
		req  CreateProductRequest
	}{
		{"empty name", CreateProductRequest{Name: "  ", Price: decimal.RequireFromString("1.00"), Quantity: 1}},
		{"negative price", CreateProductRequest{Name: "X", Price: decimal.RequireFromString("-1.00"), Quantity: 1}},
		{"negative quantity", CreateProductRequest{Name: "X", Price: decimal.RequireFromString("1.00"), Quantity: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateListing(context.Background(), 1, &tc.req)
			var invalid *InvalidRequestError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestSearchProducts(t *testing.T) {
	m := store.NewMemoryStore()
	svc := NewProductService(m)

	seedProduct(t, m, 1, "Green Tea", "4.00", 3)
	seedProduct(t, m, 1, "Black Tea", "5.00", 3)
	seedProduct(t, m, 1, "Coffee", "8.00", 3)
	seedProduct(t, m, 2, "Herbal Tea", "6.00", 3)

	found, err := svc.SearchProducts(context.Background(), 1, "TEA")
	require.NoError(t, err)
	assert.Len(t, found, 2, "match is case-insensitive and scoped to the caller")
}

func TestGetProduct_NotFound(t *testing.T) {
	m := store.NewMemoryStore()
	svc := NewProductService(m)

	_, err := svc.GetProduct(context.Background(), 404)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(404), notFound.ProductID)
}

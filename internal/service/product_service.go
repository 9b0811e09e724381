package service

import (
	"context"
	"errors"
	"strings"

	"sales-ledger/internal/models"
	"sales-ledger/internal/store"
	"sales-ledger/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductService handles listing management: creation and the simple
// filtered reads around the inventory store.
type ProductService struct {
	inventory store.InventoryStore
	logger    *zap.Logger
}

func NewProductService(inventory store.InventoryStore) *ProductService {
	return &ProductService{
		inventory: inventory,
		logger:    util.GetLogger(),
	}
}

// CreateProductRequest represents a new listing
type CreateProductRequest struct {
	Name     string          `json:"name" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	ImageRef string          `json:"image_ref"`
}

// CreateListing creates a product owned by userID. Price and quantity
// must be non-negative; owner and price are immutable afterwards.
func (s *ProductService) CreateListing(ctx context.Context, userID int64, req *CreateProductRequest) (*models.Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, &InvalidRequestError{Reason: "name must not be empty"}
	}
	if req.Price.IsNegative() {
		return nil, &InvalidRequestError{Reason: "price must not be negative"}
	}
	if req.Quantity < 0 {
		return nil, &InvalidRequestError{Reason: "quantity must not be negative"}
	}

	product := &models.Product{
		UserID:   userID,
		Name:     strings.TrimSpace(req.Name),
		Price:    req.Price,
		Quantity: req.Quantity,
		ImageRef: req.ImageRef,
	}
	if err := s.inventory.CreateProduct(ctx, product); err != nil {
		return nil, &StorageError{Op: "create product", Err: err}
	}

	util.ListingsCreatedTotal.Inc()
	s.logger.Info("Listing created",
		zap.Int64("product_id", product.ID),
		zap.Int64("user_id", userID))

	return product, nil
}

// GetProduct retrieves a single product by id
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.inventory.GetProductByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &NotFoundError{ProductID: id}
	}
	if err != nil {
		return nil, &StorageError{Op: "load product", Err: err}
	}
	return product, nil
}

// ListProducts returns a user's listings, newest first
func (s *ProductService) ListProducts(ctx context.Context, userID int64) ([]models.Product, error) {
	products, err := s.inventory.ListProductsByUser(ctx, userID)
	if err != nil {
		return nil, &StorageError{Op: "list products", Err: err}
	}
	return products, nil
}

// SearchProducts returns a user's listings whose name contains query,
// case-insensitive, newest first.
func (s *ProductService) SearchProducts(ctx context.Context, userID int64, query string) ([]models.Product, error) {
	products, err := s.inventory.SearchProductsByUser(ctx, userID, query)
	if err != nil {
		return nil, &StorageError{Op: "search products", Err: err}
	}
	return products, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sales-ledger/internal/models"

	"github.com/jmoiron/sqlx"
)

// CreateProduct inserts a new listing
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (user_id, name, price, quantity, image_ref)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return sqlx.GetContext(ctx, s.ext(ctx), p, query,
		p.UserID, p.Name, p.Price, p.Quantity, p.ImageRef)
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := sqlx.GetContext(ctx, s.ext(ctx), &product,
		"SELECT * FROM products WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductForUpdate retrieves a product and locks its row until the
// enclosing transaction ends (FOR UPDATE lock).
func (s *Store) GetProductForUpdate(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := sqlx.GetContext(ctx, s.ext(ctx), &product,
		"SELECT * FROM products WHERE id = $1 FOR UPDATE", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// SetProductQuantity persists a new quantity on hand
func (s *Store) SetProductQuantity(ctx context.Context, id int64, quantity int) error {
	res, err := s.ext(ctx).ExecContext(ctx,
		"UPDATE products SET quantity = $1 WHERE id = $2", quantity, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListProductsByUser retrieves a user's listings, newest first
func (s *Store) ListProductsByUser(ctx context.Context, userID int64) ([]models.Product, error) {
	products := []models.Product{}
	err := sqlx.SelectContext(ctx, s.ext(ctx), &products,
		"SELECT * FROM products WHERE user_id = $1 ORDER BY created_at DESC, id DESC", userID)
	return products, err
}

// SearchProductsByUser retrieves a user's listings matching query by name
func (s *Store) SearchProductsByUser(ctx context.Context, userID int64, query string) ([]models.Product, error) {
	products := []models.Product{}
	err := sqlx.SelectContext(ctx, s.ext(ctx), &products,
		`SELECT * FROM products
		 WHERE user_id = $1 AND name ILIKE '%' || $2 || '%'
		 ORDER BY created_at DESC, id DESC`,
		userID, query)
	return products, err
}

// Package store provides an interface for product storage operations.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry. Image holds the URL of an already-uploaded
// asset; image storage itself lives outside this service.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Brand       string
	Category    string
	Gender      string
	Weight      string
	Quantity    int32
	Image       string
	Rating      float64
	Price       float64
	NewPrice    float64
	Trending    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateProductParams struct {
	Name        string
	Description string
	Brand       string
	Category    string
	Gender      string
	Weight      string
	Quantity    int32
	Image       string
	Rating      float64
	Price       float64
	NewPrice    float64
	Trending    bool
}

type UpdateProductParams struct {
	ID          uuid.UUID
	Name        string
	Description string
	Brand       string
	Category    string
	Gender      string
	Weight      string
	Quantity    int32
	Image       string
	Rating      float64
	Price       float64
	NewPrice    float64
	Trending    bool
}

// ProductStore is an interface for product storage operations.
type ProductStore interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindAll returns products, newest first.
	FindAll(ctx context.Context, offset, limit int32) (*[]Product, error)

	// CountAll returns the total number of products.
	CountAll(ctx context.Context) (int64, error)

	// FindTrending returns up to limit products flagged as trending.
	FindTrending(ctx context.Context, limit int32) (*[]Product, error)

	// Create adds a new product to the catalog.
	// Returns ErrDuplicateProduct on a uniqueness violation.
	Create(ctx context.Context, params *CreateProductParams) (*Product, error)

	// Update replaces an existing product's details.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, params *UpdateProductParams) (*Product, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

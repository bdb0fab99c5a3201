// Package service provides the implementation of catalog business logic.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/viniduminsara/ClearLens-Backend/internal/product/store"
	"github.com/viniduminsara/ClearLens-Backend/pkg/web"
)

const trendingLimit = 4

// ProductService defines the methods for managing the catalog.
type ProductService interface {
	// RetrieveProducts returns a page of catalog entries.
	RetrieveProducts(ctx context.Context, page, limit int32) (*web.Page[ProductDto], error)

	// RetrieveProductByID retrieves a single product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	RetrieveProductByID(ctx context.Context, id uuid.UUID) (*ProductDto, error)

	// RetrieveTrendingProducts returns up to four trending products.
	RetrieveTrendingProducts(ctx context.Context) ([]ProductDto, error)

	// CreateNewProduct adds a product to the catalog.
	CreateNewProduct(ctx context.Context, dto ProductCreateDto) (*ProductDto, error)

	// UpdateProduct replaces a product's details.
	UpdateProduct(ctx context.Context, id uuid.UUID, dto ProductCreateDto) (*ProductDto, error)

	// DeleteProduct removes a product from the catalog. Orders are not
	// affected; they carry their own item snapshots.
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// Service implements ProductService over a ProductStore.
type Service struct {
	productStore store.ProductStore
}

// NewService creates a new instance of ProductService with the provided store.
func NewService(productStore store.ProductStore) *Service {
	return &Service{productStore: productStore}
}

// ProductDto represents the data transfer object for a catalog entry.
type ProductDto struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Brand       string    `json:"brand"`
	Category    string    `json:"category"`
	Gender      string    `json:"gender"`
	Weight      string    `json:"weight"`
	Quantity    int32     `json:"quantity"`
	Image       string    `json:"image"`
	Rating      float64   `json:"rating"`
	Price       float64   `json:"price"`
	NewPrice    float64   `json:"newPrice"`
	Trending    bool      `json:"trending"`
	CreatedAt   string    `json:"created_at"`
}

// ProductCreateDto carries the fields accepted on create and update.
type ProductCreateDto struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category"`
	Gender      string  `json:"gender"`
	Weight      string  `json:"weight"`
	Quantity    int32   `json:"quantity" validate:"min=0"`
	Image       string  `json:"image" validate:"required,url"`
	Rating      float64 `json:"rating" validate:"min=0,max=5"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	NewPrice    float64 `json:"newPrice" validate:"min=0"`
	Trending    bool    `json:"trending"`
}

func (s *Service) RetrieveProducts(ctx context.Context, page, limit int32) (*web.Page[ProductDto], error) {
	products, err := s.productStore.FindAll(ctx, web.Offset(page, limit), limit)
	if err != nil {
		return nil, err
	}
	total, err := s.productStore.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]ProductDto, len(*products))
	for i, p := range *products {
		dtos[i] = *toDto(&p)
	}
	result := web.NewPage(dtos, total, page, limit)
	return &result, nil
}

func (s *Service) RetrieveProductByID(ctx context.Context, id uuid.UUID) (*ProductDto, error) {
	product, err := s.productStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDto(product), nil
}

func (s *Service) RetrieveTrendingProducts(ctx context.Context) ([]ProductDto, error) {
	products, err := s.productStore.FindTrending(ctx, trendingLimit)
	if err != nil {
		return nil, err
	}
	dtos := make([]ProductDto, len(*products))
	for i, p := range *products {
		dtos[i] = *toDto(&p)
	}
	return dtos, nil
}

func (s *Service) CreateNewProduct(ctx context.Context, dto ProductCreateDto) (*ProductDto, error) {
	product, err := s.productStore.Create(ctx, &store.CreateProductParams{
		Name:        dto.Name,
		Description: dto.Description,
		Brand:       dto.Brand,
		Category:    dto.Category,
		Gender:      dto.Gender,
		Weight:      dto.Weight,
		Quantity:    dto.Quantity,
		Image:       dto.Image,
		Rating:      dto.Rating,
		Price:       dto.Price,
		NewPrice:    dto.NewPrice,
		Trending:    dto.Trending,
	})
	if err != nil {
		return nil, err
	}
	return toDto(product), nil
}

func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, dto ProductCreateDto) (*ProductDto, error) {
	product, err := s.productStore.Update(ctx, &store.UpdateProductParams{
		ID:          id,
		Name:        dto.Name,
		Description: dto.Description,
		Brand:       dto.Brand,
		Category:    dto.Category,
		Gender:      dto.Gender,
		Weight:      dto.Weight,
		Quantity:    dto.Quantity,
		Image:       dto.Image,
		Rating:      dto.Rating,
		Price:       dto.Price,
		NewPrice:    dto.NewPrice,
		Trending:    dto.Trending,
	})
	if err != nil {
		return nil, err
	}
	return toDto(product), nil
}

func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.productStore.DeleteByID(ctx, id)
}

// toDto converts a store.Product to a ProductDto.
func toDto(p *store.Product) *ProductDto {
	if p == nil {
		return nil
	}
	return &ProductDto{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Brand:       p.Brand,
		Category:    p.Category,
		Gender:      p.Gender,
		Weight:      p.Weight,
		Quantity:    p.Quantity,
		Image:       p.Image,
		Rating:      p.Rating,
		Price:       p.Price,
		NewPrice:    p.NewPrice,
		Trending:    p.Trending,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

package repository

import (
	"context"

	"bistro/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for catalog persistence.
var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
)

// CatalogRepository defines read access to categories and products, plus the rating
// aggregate maintained after review writes.
type CatalogRepository interface {
	// ListCategories returns all categories ordered by display order.
	ListCategories(ctx context.Context) ([]*entity.Category, error)

	// FindCategoryBySlug retrieves a category by its slug.
	FindCategoryBySlug(ctx context.Context, slug string) (*entity.Category, error)

	// FindCategoryByID retrieves a category by its ID.
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)

	// ListAvailableProducts returns available products ordered by name.
	ListAvailableProducts(ctx context.Context) ([]*entity.Product, error)

	// ListAvailableProductsByCategory returns the available products of one category ordered by name.
	ListAvailableProductsByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entity.Product, error)

	// ListTopRatedProducts returns up to limit available products, best rated first.
	ListTopRatedProducts(ctx context.Context, limit int) ([]*entity.Product, error)

	// FindProductByID retrieves a product by its ID.
	FindProductByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// UpdateProductRating stores the rating aggregate of a product.
	UpdateProductRating(ctx context.Context, id uuid.UUID, avg float64, count int) error
}

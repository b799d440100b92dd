package usecase

import (
	"context"

	"bistro/internal/domain/entity"

	"github.com/google/uuid"
)

// CatalogUsecase defines read access to the menu.
type CatalogUsecase interface {
	Categories(ctx context.Context) ([]*entity.Category, error)
	Products(ctx context.Context) ([]*entity.Product, error)
	ProductsByCategory(ctx context.Context, slug string) ([]*entity.Product, error)
	PopularProducts(ctx context.Context) ([]*entity.Product, error)
	ProductDetail(ctx context.Context, id uuid.UUID) (*entity.ProductDetail, error)
}

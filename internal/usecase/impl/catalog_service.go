package impl

import (
	"context"
	"log/slog"
	"strings"

	"bistro/internal/domain/constants"
	"bistro/internal/domain/entity"
	domainerrors "bistro/internal/domain/errors"
	"bistro/internal/domain/repository"
	"bistro/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	catalog repository.CatalogRepository
	reviews repository.ReviewRepository
	logger  *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(
	catalog repository.CatalogRepository,
	reviews repository.ReviewRepository,
	logger *slog.Logger,
) usecase.CatalogUsecase {
	return &catalogService{
		catalog: catalog,
		reviews: reviews,
		logger:  logger,
	}
}

func (srv *catalogService) Categories(ctx context.Context) ([]*entity.Category, error) {
	categories, err := srv.catalog.ListCategories(ctx)
	if err != nil {
		return nil, domainerrors.NewBackendUnavailableError(errors.Wrap(err, "failed to list categories"))
	}

	return categories, nil
}

func (srv *catalogService) Products(ctx context.Context) ([]*entity.Product, error) {
	products, err := srv.catalog.ListAvailableProducts(ctx)
	if err != nil {
		return nil, domainerrors.NewBackendUnavailableError(errors.Wrap(err, "failed to list products"))
	}

	return products, nil
}

// ProductsByCategory returns an empty list for an unknown slug.
func (srv *catalogService) ProductsByCategory(ctx context.Context, slug string) ([]*entity.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return srv.Products(ctx)
	}

	category, err := srv.catalog.FindCategoryBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			srv.logger.Debug("Unknown category slug", "slug", slug)

			return []*entity.Product{}, nil
		}

		return nil, domainerrors.NewBackendUnavailableError(errors.Wrap(err, "failed to find category"))
	}

	products, err := srv.catalog.ListAvailableProductsByCategory(ctx, category.ID)
	if err != nil {
		return nil, domainerrors.NewBackendUnavailableError(errors.Wrap(err, "failed to list category products"))
	}

	return products, nil
}

func (srv *catalogService) PopularProducts(ctx context.Context) ([]*entity.Product, error) {
	products, err := srv.catalog.ListTopRatedProducts(ctx, constants.PopularProductsLimit)
	if err != nil {
		return nil, domainerrors.NewBackendUnavailableError(errors.Wrap(err, "failed to list popular products"))
	}

	return products, nil
}

// ProductDetail loads the product first. The category label and the reviews are
// best effort: a failure there is logged and the detail is returned without them.
func (srv *catalogService) ProductDetail(ctx context.Context, id uuid.UUID) (*entity.ProductDetail, error) {
	product, err := srv.catalog.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, "product not found")
		}

		return nil, domainerrors.NewBackendUnavailableError(errors.Wrap(err, "failed to find product"))
	}

	detail := &entity.ProductDetail{
		Product: product,
		Reviews: []*entity.Review{},
	}

	category, err := srv.catalog.FindCategoryByID(ctx, product.CategoryID)
	switch {
	case err == nil:
		detail.CategoryName = category.Name
		detail.CategoryEmoji = category.Emoji
	case errors.Is(err, repository.ErrCategoryNotFound):
	default:
		srv.logger.Warn("Failed to load product category", "productID", id, "error", err)
	}

	reviews, err := srv.reviews.ListLatestReviews(ctx, id, constants.ProductDetailReviewLimit)
	if err != nil {
		srv.logger.Warn("Failed to load product reviews", "productID", id, "error", err)
	} else {
		detail.Reviews = reviews
	}

	return detail, nil
}

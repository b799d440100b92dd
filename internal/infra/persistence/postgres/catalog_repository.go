package postgres

import (
	"context"

	"bistro/internal/domain/entity"
	"bistro/internal/domain/repository"
	"bistro/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// catalogRepository implements the repository.CatalogRepository interface.
type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository is the constructor for catalogRepository.
func NewCatalogRepository(db *gorm.DB) repository.CatalogRepository {
	return &catalogRepository{
		db: db,
	}
}

// ListCategories returns all categories ordered by display order.
func (repo *catalogRepository) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	var categoryModels []*model.CategoryModel

	if err := repo.db.WithContext(ctx).
		Order("display_order ASC").
		Find(&categoryModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	categories := make([]*entity.Category, 0, len(categoryModels))
	for _, categoryM := range categoryModels {
		categories = append(categories, toCategoryDomain(categoryM))
	}

	return categories, nil
}

// FindCategoryBySlug retrieves a category by its slug.
func (repo *catalogRepository) FindCategoryBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	var categoryM model.CategoryModel

	if err := repo.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&categoryM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCategoryNotFound
		}

		return nil, errors.Wrap(err, "failed to find category by slug")
	}

	return toCategoryDomain(&categoryM), nil
}

// FindCategoryByID retrieves a category by its ID.
func (repo *catalogRepository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var categoryM model.CategoryModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&categoryM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCategoryNotFound
		}

		return nil, errors.Wrap(err, "failed to find category by ID")
	}

	return toCategoryDomain(&categoryM), nil
}

// ListAvailableProducts returns available products ordered by name.
func (repo *catalogRepository) ListAvailableProducts(ctx context.Context) ([]*entity.Product, error) {
	return findProducts(repo.db.WithContext(ctx).
		Where("is_available = ?", true).
		Order("name ASC"))
}

// ListAvailableProductsByCategory returns the available products of one category ordered by name.
func (repo *catalogRepository) ListAvailableProductsByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entity.Product, error) {
	return findProducts(repo.db.WithContext(ctx).
		Where("category_id = ? AND is_available = ?", categoryID, true).
		Order("name ASC"))
}

// ListTopRatedProducts returns up to limit available products, best rated first.
func (repo *catalogRepository) ListTopRatedProducts(ctx context.Context, limit int) ([]*entity.Product, error) {
	return findProducts(repo.db.WithContext(ctx).
		Where("is_available = ?", true).
		Order("rating_avg DESC").
		Order("rating_count DESC").
		Limit(limit))
}

func findProducts(query *gorm.DB) ([]*entity.Product, error) {
	var productModels []*model.ProductModel

	if err := query.Find(&productModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	products := make([]*entity.Product, 0, len(productModels))
	for _, productM := range productModels {
		products = append(products, toProductDomain(productM))
	}

	return products, nil
}

// FindProductByID retrieves a product by its ID.
func (repo *catalogRepository) FindProductByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var productM model.ProductModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&productM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by ID")
	}

	return toProductDomain(&productM), nil
}

// UpdateProductRating stores the rating aggregate of a product.
func (repo *catalogRepository) UpdateProductRating(ctx context.Context, id uuid.UUID, avg float64, count int) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"rating_avg":   avg,
			"rating_count": count,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update product rating")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

func toCategoryDomain(data *model.CategoryModel) *entity.Category {
	if data == nil {
		return nil
	}

	return &entity.Category{
		ID:           data.ID,
		Name:         data.Name,
		Slug:         data.Slug,
		Emoji:        data.Emoji,
		DisplayOrder: data.DisplayOrder,
		CreatedAt:    data.CreatedAt,
	}
}

func toProductDomain(data *model.ProductModel) *entity.Product {
	if data == nil {
		return nil
	}

	return &entity.Product{
		ID:              data.ID,
		CategoryID:      data.CategoryID,
		Name:            data.Name,
		Description:     data.Description,
		Price:           data.Price,
		ImageURL:        data.ImageURL,
		PreparationTime: data.PreparationTime,
		IsAvailable:     data.IsAvailable,
		IsVegetarian:    data.IsVegetarian,
		IsVegan:         data.IsVegan,
		IsSpicy:         data.IsSpicy,
		Allergens:       data.Allergens,
		Ingredients:     data.Ingredients,
		Calories:        data.Calories,
		RatingAvg:       data.RatingAvg,
		RatingCount:     data.RatingCount,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

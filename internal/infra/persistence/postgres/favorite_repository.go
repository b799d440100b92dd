package postgres

import (
	"context"

	"bistro/internal/domain/entity"
	domainerrors "bistro/internal/domain/errors"
	"bistro/internal/domain/repository"
	"bistro/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// favoriteRepository implements the repository.FavoriteRepository interface.
type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository is the constructor for favoriteRepository.
func NewFavoriteRepository(db *gorm.DB) repository.FavoriteRepository {
	return &favoriteRepository{
		db: db,
	}
}

// ListFavorites returns the user's favorites newest first with the product display fields.
func (repo *favoriteRepository) ListFavorites(ctx context.Context, userID uuid.UUID) ([]*entity.FavoriteEntry, error) {
	var favoriteModels []*model.FavoriteModel

	if err := repo.db.WithContext(ctx).
		Joins("Product").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Find(&favoriteModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list favorites")
	}

	entries := make([]*entity.FavoriteEntry, 0, len(favoriteModels))
	for _, favoriteM := range favoriteModels {
		// The product was removed from the catalog.
		if favoriteM.Product == nil || favoriteM.Product.ID == uuid.Nil {
			continue
		}
		entries = append(entries, toFavoriteDomain(favoriteM))
	}

	return entries, nil
}

// AddFavorite inserts the (user, product) pair.
func (repo *favoriteRepository) AddFavorite(ctx context.Context, userID uuid.UUID, productID string) error {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return repository.ErrProductNotFound
	}

	favoriteM := &model.FavoriteModel{
		UserID:    userID,
		ProductID: pid,
	}

	if err := repo.db.WithContext(ctx).Create(favoriteM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateFavorite
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrProductNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to add favorite")
	}

	return nil
}

// RemoveFavorite deletes the (user, product) pair.
func (repo *favoriteRepository) RemoveFavorite(ctx context.Context, userID uuid.UUID, productID string) error {
	pid, err := uuid.Parse(productID)
	if err != nil {
		// Nothing can be stored under an id that is not a uuid.
		return nil
	}

	if err := repo.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, pid).
		Delete(&model.FavoriteModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to remove favorite")
	}

	return nil
}

// ClearFavorites deletes every favorite of the user.
func (repo *favoriteRepository) ClearFavorites(ctx context.Context, userID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.FavoriteModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to clear favorites")
	}

	return nil
}

// toFavoriteDomain converts a joined FavoriteModel into a favorite entry.
func toFavoriteDomain(data *model.FavoriteModel) *entity.FavoriteEntry {
	return &entity.FavoriteEntry{
		ID:       data.ProductID.String(),
		Name:     data.Product.Name,
		Price:    data.Product.Price,
		ImageURL: data.Product.ImageURL,
		AddedAt:  data.CreatedAt,
	}
}

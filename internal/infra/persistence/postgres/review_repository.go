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

// reviewRepository implements the repository.ReviewRepository interface.
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository is the constructor for reviewRepository.
func NewReviewRepository(db *gorm.DB) repository.ReviewRepository {
	return &reviewRepository{
		db: db,
	}
}

// CreateReview persists a new review.
func (repo *reviewRepository) CreateReview(ctx context.Context, review *entity.Review) error {
	reviewM := fromReviewDomain(review)

	if err := repo.db.WithContext(ctx).Omit("Profile").Create(reviewM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateReview
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrProductNotFound
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("rating out of range")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create review")
	}

	review.ID = reviewM.ID
	review.CreatedAt = reviewM.CreatedAt
	review.UpdatedAt = reviewM.UpdatedAt

	return nil
}

// UpdateReview writes rating, comment and updated_at of an existing review.
func (repo *reviewRepository) UpdateReview(ctx context.Context, review *entity.Review) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Where("id = ?", review.ID).
		Updates(map[string]any{
			"rating":     review.Rating,
			"comment":    review.Comment,
			"updated_at": review.UpdatedAt,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update review")
	}
	if result.RowsAffected == 0 {
		return repository.ErrReviewNotFound
	}

	return nil
}

// FindReviewByID retrieves a review by its ID.
func (repo *reviewRepository) FindReviewByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	return repo.findOne(repo.db.WithContext(ctx).Where("id = ?", id))
}

// FindReviewByUserAndProduct retrieves the review a user left on a product.
func (repo *reviewRepository) FindReviewByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*entity.Review, error) {
	return repo.findOne(repo.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID))
}

func (repo *reviewRepository) findOne(query *gorm.DB) (*entity.Review, error) {
	var reviewM model.ReviewModel

	if err := query.First(&reviewM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to find review")
	}

	return toReviewDomain(&reviewM), nil
}

// ListLatestReviews returns up to limit reviews of a product, newest first, with the reviewer name.
func (repo *reviewRepository) ListLatestReviews(ctx context.Context, productID uuid.UUID, limit int) ([]*entity.Review, error) {
	var reviewModels []*model.ReviewModel

	if err := repo.db.WithContext(ctx).
		Preload("Profile").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Find(&reviewModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list reviews")
	}

	reviews := make([]*entity.Review, 0, len(reviewModels))
	for _, reviewM := range reviewModels {
		reviews = append(reviews, toReviewDomain(reviewM))
	}

	return reviews, nil
}

// RatingSummary returns the average rating and the number of reviews of a product.
func (repo *reviewRepository) RatingSummary(ctx context.Context, productID uuid.UUID) (float64, int, error) {
	var row struct {
		AvgRating   float64
		ReviewCount int
	}

	if err := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Select("COALESCE(AVG(rating), 0) AS avg_rating, COUNT(*) AS review_count").
		Where("product_id = ?", productID).
		Scan(&row).Error; err != nil {
		return 0, 0, errors.Wrap(err, "failed to compute rating summary")
	}

	return row.AvgRating, row.ReviewCount, nil
}

func toReviewDomain(data *model.ReviewModel) *entity.Review {
	review := &entity.Review{
		ID:        data.ID,
		UserID:    data.UserID,
		ProductID: data.ProductID,
		OrderID:   data.OrderID,
		Rating:    data.Rating,
		Comment:   data.Comment,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
	if data.Profile != nil {
		review.ReviewerName = data.Profile.FullName
	}

	return review
}

func fromReviewDomain(data *entity.Review) *model.ReviewModel {
	return &model.ReviewModel{
		ID:        data.ID,
		UserID:    data.UserID,
		ProductID: data.ProductID,
		OrderID:   data.OrderID,
		Rating:    data.Rating,
		Comment:   data.Comment,
	}
}

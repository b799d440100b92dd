package impl

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"bistro/internal/domain/entity"
	domainerrors "bistro/internal/domain/errors"
	"bistro/internal/domain/repository"
	"bistro/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	minReviewRating        = 1
	maxReviewRating        = 5
	minReviewCommentLength = 10
)

// reviewService implements the ReviewUsecase interface.
type reviewService struct {
	txManager repository.TransactionManager
	auth      usecase.AuthContext
	now       func() time.Time
	logger    *slog.Logger
}

// NewReviewService is the constructor for reviewService.
func NewReviewService(
	txManager repository.TransactionManager,
	auth usecase.AuthContext,
	logger *slog.Logger,
) usecase.ReviewUsecase {
	return &reviewService{
		txManager: txManager,
		auth:      auth,
		now:       time.Now,
		logger:    logger,
	}
}

// AddReview stores the first review of the signed-in user on a product and refreshes the product rating.
func (srv *reviewService) AddReview(ctx context.Context, productID uuid.UUID, input *usecase.ReviewInput) (*entity.Review, error) {
	user := srv.auth.CurrentUser()
	if user == nil {
		return nil, errors.Wrap(domainerrors.ErrSignInRequired, "reviews require a session")
	}

	comment, err := validateReview(input)
	if err != nil {
		return nil, err
	}

	now := srv.now().UTC()
	review := &entity.Review{
		UserID:    user.ID,
		ProductID: productID,
		OrderID:   input.OrderID,
		Rating:    input.Rating,
		Comment:   &comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		catalogRepo := repoFactory.NewCatalogRepository()
		reviewRepo := repoFactory.NewReviewRepository()

		if _, err := catalogRepo.FindProductByID(ctx, productID); err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrProductNotFound, "cannot review unknown product")
			}

			return errors.Wrap(err, "failed to find product")
		}

		existing, err := reviewRepo.FindReviewByUserAndProduct(ctx, user.ID, productID)
		if err != nil && !errors.Is(err, repository.ErrReviewNotFound) {
			return errors.Wrap(err, "failed to check existing review")
		}
		if existing != nil {
			return errors.Wrap(domainerrors.ErrReviewAlreadyExists.WithDetails("review "+existing.ID.String()), "duplicate review")
		}

		if err := reviewRepo.CreateReview(ctx, review); err != nil {
			if errors.Is(err, repository.ErrDuplicateReview) {
				return errors.Wrap(domainerrors.ErrReviewAlreadyExists, "duplicate review")
			}

			return errors.Wrap(err, "failed to create review")
		}

		return refreshRating(ctx, reviewRepo, catalogRepo, productID)
	})
	if err != nil {
		return nil, reviewError(err, "failed to add review")
	}

	srv.logger.Info("Review added", "reviewID", review.ID, "productID", productID, "rating", review.Rating)

	return review, nil
}

// UpdateReview lets the author change rating and comment, then refreshes the product rating.
func (srv *reviewService) UpdateReview(ctx context.Context, reviewID uuid.UUID, input *usecase.ReviewInput) (*entity.Review, error) {
	user := srv.auth.CurrentUser()
	if user == nil {
		return nil, errors.Wrap(domainerrors.ErrSignInRequired, "reviews require a session")
	}

	comment, err := validateReview(input)
	if err != nil {
		return nil, err
	}

	var review *entity.Review

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		reviewRepo := repoFactory.NewReviewRepository()

		found, err := reviewRepo.FindReviewByID(ctx, reviewID)
		if err != nil {
			if errors.Is(err, repository.ErrReviewNotFound) {
				return errors.Wrap(domainerrors.ErrReviewNotFound, "review not found")
			}

			return errors.Wrap(err, "failed to find review")
		}

		if found.UserID != user.ID {
			return errors.Wrap(domainerrors.ErrForbidden.WithDetails("only the author can edit a review"), "not the author")
		}

		found.Rating = input.Rating
		found.Comment = &comment
		found.UpdatedAt = srv.now().UTC()

		if err := reviewRepo.UpdateReview(ctx, found); err != nil {
			return errors.Wrap(err, "failed to update review")
		}
		review = found

		return refreshRating(ctx, reviewRepo, repoFactory.NewCatalogRepository(), found.ProductID)
	})
	if err != nil {
		return nil, reviewError(err, "failed to update review")
	}

	srv.logger.Info("Review updated", "reviewID", reviewID, "rating", review.Rating)

	return review, nil
}

// refreshRating recomputes the rating aggregate of a product, average rounded to two decimals.
func refreshRating(ctx context.Context, reviewRepo repository.ReviewRepository, catalogRepo repository.CatalogRepository, productID uuid.UUID) error {
	avg, count, err := reviewRepo.RatingSummary(ctx, productID)
	if err != nil {
		return errors.Wrap(err, "failed to summarize ratings")
	}

	if err := catalogRepo.UpdateProductRating(ctx, productID, math.Round(avg*100)/100, count); err != nil {
		return errors.Wrap(err, "failed to update product rating")
	}

	return nil
}

// validateReview returns the trimmed comment.
func validateReview(input *usecase.ReviewInput) (string, error) {
	if input == nil {
		return "", errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("review is required"), "invalid review")
	}

	if input.Rating < minReviewRating || input.Rating > maxReviewRating {
		return "", errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("rating must be between 1 and 5"), "invalid review")
	}

	comment := strings.TrimSpace(input.Comment)
	if utf8.RuneCountInString(comment) < minReviewCommentLength {
		return "", errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("comment must be at least 10 characters"), "invalid review")
	}

	return comment, nil
}

// reviewError keeps domain errors raised inside the transaction and reports anything else as a backend failure.
func reviewError(err error, message string) error {
	var appErr *domainerrors.BaseError
	if errors.As(err, &appErr) {
		return errors.Wrap(err, message)
	}

	return domainerrors.NewBackendUnavailableError(errors.Wrap(err, message))
}

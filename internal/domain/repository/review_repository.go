package repository

import (
	"context"

	"bistro/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for review persistence.
var (
	// ErrReviewNotFound is returned when a review is not found.
	ErrReviewNotFound = errors.New("review not found")
	// ErrDuplicateReview is returned when the user already reviewed the product.
	ErrDuplicateReview = errors.New("review already exists")
)

// ReviewRepository defines the interface for review-related database operations.
type ReviewRepository interface {
	// CreateReview persists a new review.
	CreateReview(ctx context.Context, review *entity.Review) error

	// UpdateReview writes rating, comment and updated_at of an existing review.
	UpdateReview(ctx context.Context, review *entity.Review) error

	// FindReviewByID retrieves a review by its ID.
	FindReviewByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)

	// FindReviewByUserAndProduct retrieves the review a user left on a product.
	FindReviewByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*entity.Review, error)

	// ListLatestReviews returns up to limit reviews of a product, newest first, with the reviewer name.
	ListLatestReviews(ctx context.Context, productID uuid.UUID, limit int) ([]*entity.Review, error)

	// RatingSummary returns the average rating and the number of reviews of a product.
	RatingSummary(ctx context.Context, productID uuid.UUID) (avg float64, count int, err error)
}

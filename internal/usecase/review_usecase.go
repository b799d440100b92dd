package usecase

import (
	"context"

	"bistro/internal/domain/entity"

	"github.com/google/uuid"
)

// ReviewUsecase defines product reviews by signed-in users.
type ReviewUsecase interface {
	AddReview(ctx context.Context, productID uuid.UUID, input *ReviewInput) (*entity.Review, error)
	UpdateReview(ctx context.Context, reviewID uuid.UUID, input *ReviewInput) (*entity.Review, error)
}

// --- Input DTOs ---

// ReviewInput carries a rating and its comment.
type ReviewInput struct {
	Rating  int        `json:"rating"`
	Comment string     `json:"comment"`
	OrderID *uuid.UUID `json:"order_id,omitempty"`
}

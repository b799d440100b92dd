package usecase

import (
	"context"

	"bistro/internal/domain/entity"
)

// CheckoutUsecase turns the cart into an order.
type CheckoutUsecase interface {
	PlaceOrder(ctx context.Context, input *CheckoutInput) (*entity.Receipt, error)
}

// --- Input DTOs ---

// CheckoutInput is the checkout form.
type CheckoutInput struct {
	Name         string              `json:"name"`
	Phone        string              `json:"phone"`
	Address      string              `json:"address"`
	City         string              `json:"city"`
	DeliveryMode entity.DeliveryMode `json:"delivery_mode"`
	Notes        string              `json:"notes"`
}

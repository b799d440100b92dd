package usecase

import (
	"context"

	"bistro/internal/domain/entity"

	"github.com/google/uuid"
)

// OrderUsecase defines order history and status tracking.
type OrderUsecase interface {
	MyOrders(ctx context.Context) ([]*entity.Order, error)
	GuestOrdersByPhone(ctx context.Context, phone string) ([]*entity.Order, error)
	Order(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error
	Cancel(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*entity.OrderStats, error)

	// PickupTicket renders the order number as a PNG QR code.
	PickupTicket(ctx context.Context, id uuid.UUID) ([]byte, error)
}

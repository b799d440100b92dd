package repository

import (
	"context"

	"bistro/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for order persistence.
var (
	// ErrOrderNotFound is returned when an order is not found.
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines the interface for order-related database operations.
type OrderRepository interface {
	// CreateOrder persists the order header. ID and CreatedAt are filled in.
	CreateOrder(ctx context.Context, order *entity.Order) error

	// CreateOrderItems persists the line items of an order.
	CreateOrderItems(ctx context.Context, items []*entity.OrderItem) error

	// FindOrderByID retrieves an order with its items.
	FindOrderByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// ListOrdersByUser returns the user's orders with items, newest first.
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)

	// ListGuestOrdersByPhone returns up to limit guest orders placed with the phone number, newest first.
	ListGuestOrdersByPhone(ctx context.Context, phone string, limit int) ([]*entity.Order, error)

	// UpdateOrderStatus writes the status and the timestamps set in update.
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, update entity.OrderStatusUpdate) error

	// OrderStatsByUser counts the user's orders and sums their totals.
	OrderStatsByUser(ctx context.Context, userID uuid.UUID) (*entity.OrderStats, error)
}

package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the kitchen lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusPreparing  OrderStatus = "preparing"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid reports whether the status is one of the known values.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing, OrderStatusReady,
		OrderStatusDelivering, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}

	return false
}

// PaymentStatus tracks the payment of an order. Payment itself happens outside this app.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// PaymentMethodCash is the only payment method the app records.
const PaymentMethodCash = "cash"

// Order is a placed order with its line items.
type Order struct {
	ID                  uuid.UUID       `json:"id"`
	UserID              *uuid.UUID      `json:"user_id"` // Nil for guest orders.
	CustomerName        string          `json:"customer_name"`
	CustomerPhone       string          `json:"customer_phone"`
	CustomerAddress     *string         `json:"customer_address"`
	CustomerCity        *string         `json:"customer_city"`
	DeliveryMode        DeliveryMode    `json:"delivery_mode"`
	Status              OrderStatus     `json:"status"`
	SpecialInstructions *string         `json:"special_instructions"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	DeliveryFee         decimal.Decimal `json:"delivery_fee"`
	Total               decimal.Decimal `json:"total"`
	PaymentMethod       *string         `json:"payment_method"`
	PaymentStatus       PaymentStatus   `json:"payment_status"`
	CreatedAt           time.Time       `json:"created_at"`
	ConfirmedAt         *time.Time      `json:"confirmed_at"`
	PreparedAt          *time.Time      `json:"prepared_at"`
	DeliveredAt         *time.Time      `json:"delivered_at"`
	CancelledAt         *time.Time      `json:"cancelled_at"`
	Items               []*OrderItem    `json:"order_items"`
}

// Number is the short customer-facing order reference.
func (o *Order) Number() string {
	id := o.ID.String()

	return id[:8]
}

// OrderItem is a frozen copy of a cart line inside an order.
type OrderItem struct {
	ID              uuid.UUID       `json:"id"`
	OrderID         uuid.UUID       `json:"order_id"`
	ProductID       *string         `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductPrice    decimal.Decimal `json:"product_price"`
	ProductImageURL *string         `json:"product_image_url"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	SpecialRequests *string         `json:"special_requests"`
	CreatedAt       time.Time       `json:"created_at"`
}

// OrderStatusUpdate is the set of columns written when an order changes status.
type OrderStatusUpdate struct {
	Status      OrderStatus
	ConfirmedAt *time.Time
	PreparedAt  *time.Time
	DeliveredAt *time.Time
	CancelledAt *time.Time
}

// OrderStats summarizes the orders of one user.
type OrderStats struct {
	TotalOrders int             `json:"total_orders"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
}

// Receipt is what checkout hands back once the order is stored.
type Receipt struct {
	Order         *Order `json:"order"`
	Number        string `json:"number"`
	ItemCount     int    `json:"item_count"`
	EstimatedTime string `json:"estimated_time"`
}

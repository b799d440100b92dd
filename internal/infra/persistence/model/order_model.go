package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the GORM-specific struct for the 'orders' table.
type OrderModel struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID              *uuid.UUID      `gorm:"type:uuid;index"`
	CustomerName        string          `gorm:"type:varchar(255);not null"`
	CustomerPhone       string          `gorm:"type:varchar(32);not null;index"`
	CustomerAddress     *string         `gorm:"type:text"`
	CustomerCity        *string         `gorm:"type:varchar(255)"`
	DeliveryMode        string          `gorm:"type:varchar(16);not null"`
	Status              string          `gorm:"type:varchar(16);not null;default:'pending'"`
	SpecialInstructions *string         `gorm:"type:text"`
	Subtotal            decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	DeliveryFee         decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	Total               decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	PaymentMethod       *string         `gorm:"type:varchar(32)"`
	PaymentStatus       string          `gorm:"type:varchar(16);not null;default:'pending'"`
	CreatedAt           time.Time       `gorm:"index"`
	ConfirmedAt         *time.Time
	PreparedAt          *time.Time
	DeliveredAt         *time.Time
	CancelledAt         *time.Time
	Items               []*OrderItemModel `gorm:"foreignKey:OrderID"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is the GORM-specific struct for the 'order_items' table.
type OrderItemModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       *string         `gorm:"type:varchar(64)"`
	ProductName     string          `gorm:"type:varchar(255);not null"`
	ProductPrice    decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	ProductImageURL *string         `gorm:"type:text"`
	Quantity        int             `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	TotalPrice      decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	SpecialRequests *string         `gorm:"type:text"`
	CreatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}

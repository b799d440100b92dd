package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category groups menu products.
type Category struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Emoji        *string   `json:"emoji"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// Product is a menu entry of the external catalog.
type Product struct {
	ID              uuid.UUID       `json:"id"`
	CategoryID      uuid.UUID       `json:"category_id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	ImageURL        *string         `json:"image_url"`
	PreparationTime *int            `json:"preparation_time"` // Minutes.
	IsAvailable     bool            `json:"is_available"`
	IsVegetarian    bool            `json:"is_vegetarian"`
	IsVegan         bool            `json:"is_vegan"`
	IsSpicy         bool            `json:"is_spicy"`
	Allergens       []string        `json:"allergens"`
	Ingredients     []string        `json:"ingredients"`
	Calories        *int            `json:"calories"`
	RatingAvg       float64         `json:"rating_avg"`
	RatingCount     int             `json:"rating_count"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Review is a rating left by a signed-in user on a product.
type Review struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	ProductID    uuid.UUID  `json:"product_id"`
	OrderID      *uuid.UUID `json:"order_id"`
	Rating       int        `json:"rating"`
	Comment      *string    `json:"comment"`
	ReviewerName *string    `json:"reviewer_name"` // Joined from profiles.full_name.
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ProductDetail bundles a product with its category label and latest reviews.
type ProductDetail struct {
	Product       *Product  `json:"product"`
	CategoryName  string    `json:"category_name"`
	CategoryEmoji *string   `json:"category_emoji"`
	Reviews       []*Review `json:"reviews"`
}

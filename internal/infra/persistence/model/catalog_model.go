package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryModel is the GORM-specific struct for the 'categories' table.
type CategoryModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Slug         string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Emoji        *string   `gorm:"type:varchar(16)"`
	DisplayOrder int       `gorm:"not null;default:0"`
	CreatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (CategoryModel) TableName() string {
	return "categories"
}

// ProductModel is the GORM-specific struct for the 'products' table.
// Allergens and ingredients are stored as JSON arrays.
type ProductModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CategoryID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Category        *CategoryModel  `gorm:"foreignKey:CategoryID"`
	Name            string          `gorm:"type:varchar(255);not null"`
	Description     string          `gorm:"type:text"`
	Price           decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	ImageURL        *string         `gorm:"type:text"`
	PreparationTime *int
	IsAvailable     bool     `gorm:"not null;default:true;index"`
	IsVegetarian    bool     `gorm:"not null;default:false"`
	IsVegan         bool     `gorm:"not null;default:false"`
	IsSpicy         bool     `gorm:"not null;default:false"`
	Allergens       []string `gorm:"type:jsonb;serializer:json"`
	Ingredients     []string `gorm:"type:jsonb;serializer:json"`
	Calories        *int
	RatingAvg       float64 `gorm:"type:numeric(3,2);not null;default:0"`
	RatingCount     int     `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}

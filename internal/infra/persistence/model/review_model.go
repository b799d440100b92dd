package model

import (
	"time"

	"github.com/google/uuid"
)

// ReviewModel is the GORM-specific struct for the 'reviews' table.
type ReviewModel struct {
	ID        uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_product"`
	ProductID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_product;index"`
	OrderID   *uuid.UUID    `gorm:"type:uuid"`
	Rating    int           `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment   *string       `gorm:"type:text"`
	Profile   *ProfileModel `gorm:"foreignKey:UserID;references:ID"`
	CreatedAt time.Time     `gorm:"index"`
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ReviewModel) TableName() string {
	return "reviews"
}

// ProfileModel is the GORM-specific struct for the 'profiles' table.
// Only the columns read by this module are mapped.
type ProfileModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	FullName *string   `gorm:"type:varchar(255)"`
}

// TableName explicitly sets the table name for GORM.
func (ProfileModel) TableName() string {
	return "profiles"
}

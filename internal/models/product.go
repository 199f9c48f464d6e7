// internal/models/product.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	BaseModel
	Name          string     `json:"name" gorm:"size:255;not null"`
	Description   string     `json:"description" gorm:"type:text"`
	Price         float64    `json:"price" gorm:"type:decimal(10,2);not null"`
	Image         string     `json:"image" gorm:"size:500"`
	ShopID        uuid.UUID  `json:"shop_id" gorm:"type:uuid;not null;index"`
	CategoryID    uuid.UUID  `json:"category_id" gorm:"type:uuid;not null;index"`
	ProductType   StringList `json:"product_type" gorm:"type:jsonb"`
	IsHotOffer    bool       `json:"is_hot_offer" gorm:"default:false;index"`
	IsActive      bool       `json:"is_active" gorm:"default:false;index"`
	IsApproved    bool       `json:"is_approved" gorm:"default:false"`
	AverageRating float64    `json:"average_rating" gorm:"type:decimal(3,2);default:2.5"`
	TotalReviews  int64      `json:"total_reviews" gorm:"default:0"`
	CreatedBy     uuid.UUID  `json:"created_by" gorm:"type:uuid"`
	UpdatedBy     *uuid.UUID `json:"updated_by" gorm:"type:uuid"`
	ApprovedBy    *uuid.UUID `json:"approved_by" gorm:"type:uuid"`
	ApprovedAt    *time.Time `json:"approved_at"`

	// Relationships
	Shop     Shop     `json:"shop,omitempty" gorm:"foreignKey:ShopID"`
	Category Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Reviews  []Review `json:"reviews,omitempty" gorm:"foreignKey:ProductID"`
}

type Review struct {
	BaseModel
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:text"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	User    User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// DefaultRating is the synthesized rating for products with zero reviews.
const DefaultRating = 2.5

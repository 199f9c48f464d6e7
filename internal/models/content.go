// internal/models/content.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CartItem struct {
	BaseModel
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int       `json:"quantity" gorm:"default:1"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

type Advertisement struct {
	BaseModel
	Title     string         `json:"title" gorm:"size:255;not null"`
	Images    pq.StringArray `json:"images" gorm:"type:text[]"`
	Link      string         `json:"link" gorm:"size:1000"`
	Placement string         `json:"placement" gorm:"size:50;index"`
	StartDate *time.Time     `json:"start_date"`
	EndDate   *time.Time     `json:"end_date"`
	Priority  int            `json:"priority" gorm:"default:0"`
	IsActive  bool           `json:"is_active" gorm:"default:true;index"`
	CreatedBy uuid.UUID      `json:"created_by" gorm:"type:uuid"`
}

type Video struct {
	BaseModel
	Title     string    `json:"title" gorm:"size:255;not null"`
	URL       string    `json:"url" gorm:"size:1000;not null"`
	Priority  int       `json:"priority" gorm:"default:0"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedBy uuid.UUID `json:"created_by" gorm:"type:uuid"`
}

type Page struct {
	BaseModel
	Slug      string    `json:"slug" gorm:"uniqueIndex;size:100;not null"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Content   string    `json:"content" gorm:"type:text"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedBy uuid.UUID `json:"created_by" gorm:"type:uuid"`
}

type ContactRequest struct {
	BaseModel
	Name    string        `json:"name" gorm:"size:100;not null"`
	Email   string        `json:"email" gorm:"size:255;not null"`
	Phone   string        `json:"phone" gorm:"size:20"`
	Subject string        `json:"subject" gorm:"size:255"`
	Message string        `json:"message" gorm:"type:text;not null"`
	Status  ContactStatus `json:"status" gorm:"type:varchar(20);default:'new';index"`
}

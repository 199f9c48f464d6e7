// internal/models/shop.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Shop struct {
	BaseModel
	Name       string     `json:"name" gorm:"size:255;not null"`
	Email      string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Mobile     string     `json:"mobile" gorm:"size:20;not null"`
	Whatsapp   string     `json:"whatsapp" gorm:"size:20;not null"`
	Logo       string     `json:"logo" gorm:"size:500"`
	Address    string     `json:"address" gorm:"type:text"`
	CategoryID uuid.UUID  `json:"category_id" gorm:"type:uuid;not null;index"`
	Priority   int        `json:"priority" gorm:"default:0;index"`
	ShareLink  string     `json:"share_link" gorm:"size:100;index"`
	IsActive   bool       `json:"is_active" gorm:"default:false;index"`
	IsApproved bool       `json:"is_approved" gorm:"default:false"`
	CreatedBy  uuid.UUID  `json:"created_by" gorm:"type:uuid;index"`
	ApprovedBy *uuid.UUID `json:"approved_by" gorm:"type:uuid"`
	ApprovedAt *time.Time `json:"approved_at"`

	// Relationships
	Category Category  `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Products []Product `json:"products,omitempty" gorm:"foreignKey:ShopID"`
}

// The share link is a stable public slug derived from the document id.
func (s *Shop) AfterCreate(tx *gorm.DB) error {
	if s.ShareLink == "" {
		s.ShareLink = "/s/" + s.ID.String()
		return tx.Model(&Shop{}).Where("id = ?", s.ID).
			UpdateColumn("share_link", s.ShareLink).Error
	}
	return nil
}

// internal/models/logs.go
package models

import (
	"github.com/google/uuid"
)

// OrderLog is the append-only record of a WhatsApp order handoff. It is never
// updated after creation.
type OrderLog struct {
	BaseModel
	ShopID       uuid.UUID  `json:"shop_id" gorm:"type:uuid;not null;index"`
	UserID       *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Items        JSONB      `json:"items" gorm:"type:jsonb;not null"`
	TotalPrice   float64    `json:"total_price" gorm:"type:decimal(10,2)"`
	WhatsappLink string     `json:"whatsapp_link" gorm:"size:1000"`

	// Relationships
	Shop Shop  `json:"shop,omitempty" gorm:"foreignKey:ShopID"`
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// ShareLog records a single share event for a shop's public share link.
type ShareLog struct {
	BaseModel
	ShopID   uuid.UUID  `json:"shop_id" gorm:"type:uuid;not null;index"`
	UserID   *uuid.UUID `json:"user_id" gorm:"type:uuid"`
	Platform string     `json:"platform" gorm:"size:50"`

	// Relationships
	Shop Shop `json:"shop,omitempty" gorm:"foreignKey:ShopID"`
}

type AuditLog struct {
	BaseModel
	UserID       *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Action       string     `json:"action" gorm:"size:100;not null;index"`
	ResourceType string     `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   *uuid.UUID `json:"resource_id" gorm:"type:uuid;index"`
	OldValues    JSONB      `json:"old_values" gorm:"type:jsonb"`
	NewValues    JSONB      `json:"new_values" gorm:"type:jsonb"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"type:text"`

	// Relationships
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

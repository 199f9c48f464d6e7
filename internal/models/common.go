// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// StringList is a JSON-encoded string slice column. It is used instead of a
// native array where the column must also load under the sqlite test driver.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return nil
		}
	}

	return json.Unmarshal(bytes, l)
}

// Enums

// Built-in role names. Role.Name is free-form; these are the seeded defaults
// the router's coarse role gates refer to.
const (
	RoleSuperAdmin = "superAdmin"
	RoleShopAdmin  = "shopAdmin"
	RoleMallAdmin  = "mallAdmin"
	RoleGuest      = "guest"
)

type PermissionResource string

const (
	ResourceShops         PermissionResource = "shops"
	ResourceProducts      PermissionResource = "products"
	ResourceCategories    PermissionResource = "categories"
	ResourceUsers         PermissionResource = "users"
	ResourceRoles         PermissionResource = "roles"
	ResourcePermissions   PermissionResource = "permissions"
	ResourceReviews       PermissionResource = "reviews"
	ResourceCart          PermissionResource = "cart"
	ResourceOrders        PermissionResource = "orders"
	ResourceAds           PermissionResource = "advertisements"
	ResourceVideos        PermissionResource = "videos"
	ResourcePages         PermissionResource = "pages"
	ResourceContacts      PermissionResource = "contacts"
	ResourceSubscriptions PermissionResource = "subscriptions"
	ResourceReports       PermissionResource = "reports"
)

type PermissionAction string

const (
	ActionCreate   PermissionAction = "create"
	ActionRead     PermissionAction = "read"
	ActionUpdate   PermissionAction = "update"
	ActionDelete   PermissionAction = "delete"
	ActionActivate PermissionAction = "activate"
	ActionExport   PermissionAction = "export"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusPending   SubscriptionStatus = "pending"
)

// Plan limit keys
const (
	LimitMaxProducts  = "max_products"
	LimitMaxHotOffers = "max_hot_offers"
)

// LimitUnlimited is the sentinel limit value meaning "no cap".
const LimitUnlimited = -1

type SubscriptionEvent string

const (
	SubscriptionEventSubscribed         SubscriptionEvent = "subscribed"
	SubscriptionEventActivated          SubscriptionEvent = "activated"
	SubscriptionEventCancelled          SubscriptionEvent = "cancelled"
	SubscriptionEventExpired            SubscriptionEvent = "expired"
	SubscriptionEventDowngradeScheduled SubscriptionEvent = "downgrade_scheduled"
	SubscriptionEventDowngraded         SubscriptionEvent = "downgraded"
)

type ContactStatus string

const (
	ContactStatusNew      ContactStatus = "new"
	ContactStatusRead     ContactStatus = "read"
	ContactStatusResolved ContactStatus = "resolved"
)

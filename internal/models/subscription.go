// internal/models/subscription.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionPlan struct {
	BaseModel
	Name        string  `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Description string  `json:"description" gorm:"type:text"`
	Price       float64 `json:"price" gorm:"type:decimal(10,2);default:0"`
	IsActive    bool    `json:"is_active" gorm:"default:true"`

	// Relationships
	Limits []SubscriptionPlanLimit `json:"limits,omitempty" gorm:"foreignKey:PlanID"`
}

// BillingCycle is a named duration used to compute subscription end dates.
type BillingCycle struct {
	BaseModel
	Name   string `json:"name" gorm:"uniqueIndex;size:50;not null"`
	Months int    `json:"months" gorm:"not null"`
}

type ShopSubscription struct {
	BaseModel
	ShopID         uuid.UUID          `json:"shop_id" gorm:"type:uuid;uniqueIndex;not null"`
	PlanID         uuid.UUID          `json:"plan_id" gorm:"type:uuid;not null;index"`
	BillingCycleID uuid.UUID          `json:"billing_cycle_id" gorm:"type:uuid;not null"`
	StartDate      time.Time          `json:"start_date" gorm:"not null"`
	EndDate        time.Time          `json:"end_date" gorm:"not null;index"`
	Status         SubscriptionStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`

	// When set, the subscription moves to this plan at the end of the
	// current period instead of renewing.
	ScheduledDowngradePlanID *uuid.UUID `json:"scheduled_downgrade_plan_id" gorm:"type:uuid"`

	PaymentReference string `json:"payment_reference,omitempty" gorm:"size:255"`

	// Relationships
	Shop         Shop              `json:"shop,omitempty" gorm:"foreignKey:ShopID"`
	Plan         SubscriptionPlan  `json:"plan,omitempty" gorm:"foreignKey:PlanID"`
	BillingCycle BillingCycle      `json:"billing_cycle,omitempty" gorm:"foreignKey:BillingCycleID"`
	Downgrade    *SubscriptionPlan `json:"downgrade,omitempty" gorm:"foreignKey:ScheduledDowngradePlanID"`
}

type SubscriptionPlanLimit struct {
	BaseModel
	PlanID     uuid.UUID `json:"plan_id" gorm:"type:uuid;not null;uniqueIndex:idx_plan_limit_key"`
	LimitKey   string    `json:"limit_key" gorm:"size:50;not null;uniqueIndex:idx_plan_limit_key"`
	LimitValue int64     `json:"limit_value" gorm:"not null"`
}

type SubscriptionUsage struct {
	BaseModel
	ShopID   uuid.UUID `json:"shop_id" gorm:"type:uuid;not null;uniqueIndex:idx_shop_usage_key"`
	LimitKey string    `json:"limit_key" gorm:"size:50;not null;uniqueIndex:idx_shop_usage_key"`
	Used     int64     `json:"used" gorm:"default:0"`
}

// SubscriptionLog is an append-only record of subscription state changes.
type SubscriptionLog struct {
	BaseModel
	ShopID  uuid.UUID         `json:"shop_id" gorm:"type:uuid;not null;index"`
	PlanID  uuid.UUID         `json:"plan_id" gorm:"type:uuid;not null"`
	Event   SubscriptionEvent `json:"event" gorm:"type:varchar(30);not null;index"`
	Details JSONB             `json:"details" gorm:"type:jsonb"`

	// Relationships
	Shop Shop             `json:"shop,omitempty" gorm:"foreignKey:ShopID"`
	Plan SubscriptionPlan `json:"plan,omitempty" gorm:"foreignKey:PlanID"`
}

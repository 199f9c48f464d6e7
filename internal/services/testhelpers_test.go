// internal/services/testhelpers_test.go
package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/idreamhq/idream-backend/internal/config"
	"github.com/idreamhq/idream-backend/internal/models"
	"github.com/idreamhq/idream-backend/internal/utils"
)

// newTestDB opens an isolated in-memory database and migrates the models the
// service tests touch.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		&models.Role{},
		&models.Permission{},
		&models.User{},
		&models.Category{},
		&models.Shop{},
		&models.Product{},
		&models.Review{},
		&models.SubscriptionPlan{},
		&models.SubscriptionPlanLimit{},
		&models.BillingCycle{},
		&models.ShopSubscription{},
		&models.SubscriptionUsage{},
		&models.SubscriptionLog{},
		&models.OrderLog{},
		&models.ShareLog{},
		&models.CartItem{},
	)
	require.NoError(t, err)

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
		Payment: config.PaymentConfig{Currency: "egp"},
	}
}

func testPaginationParams() utils.PaginationParams {
	return utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}
}

func createTestRole(t *testing.T, db *gorm.DB, name string) *models.Role {
	t.Helper()
	role := &models.Role{Name: name, IsActive: true}
	require.NoError(t, db.Create(role).Error)
	return role
}

func createTestCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, IsActive: true}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createTestShop(t *testing.T, db *gorm.DB, name string, categoryID uuid.UUID) *models.Shop {
	t.Helper()
	shop := &models.Shop{
		Name:       name,
		Email:      name + "@shops.test",
		Mobile:     "01001234567",
		Whatsapp:   "01001234567",
		CategoryID: categoryID,
		IsActive:   true,
		IsApproved: true,
		CreatedBy:  uuid.New(),
	}
	require.NoError(t, db.Create(shop).Error)
	return shop
}

func createTestProduct(t *testing.T, db *gorm.DB, shop *models.Shop, name string, price float64) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:          name,
		Price:         price,
		ShopID:        shop.ID,
		CategoryID:    shop.CategoryID,
		IsActive:      true,
		IsApproved:    true,
		AverageRating: models.DefaultRating,
		CreatedBy:     uuid.New(),
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// createTestPlan seeds a plan with the given limits. Price zero makes it the
// free fallback plan when it is the first one created.
func createTestPlan(t *testing.T, db *gorm.DB, name string, price float64, limits map[string]int64) *models.SubscriptionPlan {
	t.Helper()
	plan := &models.SubscriptionPlan{Name: name, Price: price, IsActive: true}
	require.NoError(t, db.Create(plan).Error)
	for key, value := range limits {
		require.NoError(t, db.Create(&models.SubscriptionPlanLimit{
			PlanID:     plan.ID,
			LimitKey:   key,
			LimitValue: value,
		}).Error)
	}
	return plan
}

func createTestBillingCycle(t *testing.T, db *gorm.DB, name string, months int) *models.BillingCycle {
	t.Helper()
	cycle := &models.BillingCycle{Name: name, Months: months}
	require.NoError(t, db.Create(cycle).Error)
	return cycle
}

// activateTestSubscription puts the shop on the plan with a one-month period,
// bypassing the payment flow.
func activateTestSubscription(t *testing.T, db *gorm.DB, shopID, planID uuid.UUID) *models.ShopSubscription {
	t.Helper()
	cycle := &models.BillingCycle{Name: fmt.Sprintf("monthly-%s", uuid.NewString()[:8]), Months: 1}
	require.NoError(t, db.Create(cycle).Error)
	sub := &models.ShopSubscription{
		ShopID:         shopID,
		PlanID:         planID,
		BillingCycleID: cycle.ID,
		StartDate:      time.Now(),
		EndDate:        time.Now().AddDate(0, 1, 0),
		Status:         models.SubscriptionStatusActive,
	}
	require.NoError(t, db.Create(sub).Error)
	return sub
}

func createTestUser(t *testing.T, db *gorm.DB, email string, role *models.Role) *models.User {
	t.Helper()
	user := &models.User{
		Email:    email,
		Name:     "Test User",
		RoleID:   role.ID,
		IsActive: true,
	}
	require.NoError(t, user.SetPassword("Passw0rd1"))
	require.NoError(t, db.Create(user).Error)
	user.Role = *role
	return user
}

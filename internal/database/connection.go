// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/idreamhq/idream-backend/internal/config"
	"github.com/idreamhq/idream-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.Permission{},
		&models.Role{},
		&models.User{},
		&models.Category{},
		&models.Shop{},
		&models.Product{},
		&models.Review{},
		&models.CartItem{},
		&models.SubscriptionPlan{},
		&models.BillingCycle{},
		&models.ShopSubscription{},
		&models.SubscriptionPlanLimit{},
		&models.SubscriptionUsage{},
		&models.SubscriptionLog{},
		&models.OrderLog{},
		&models.ShareLog{},
		&models.AuditLog{},
		&models.Advertisement{},
		&models.Video{},
		&models.Page{},
		&models.ContactRequest{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_role_active ON users(role_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_users_shop ON users(shop_id)",

		// Shop indexes
		"CREATE INDEX IF NOT EXISTS idx_shops_category_active ON shops(category_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_shops_priority ON shops(priority DESC)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_shop_active ON products(shop_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_hot_offer ON products(is_hot_offer) WHERE is_hot_offer",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		// Review indexes
		"CREATE INDEX IF NOT EXISTS idx_reviews_product_active ON reviews(product_id, is_active)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_reviews_user_product ON reviews(user_id, product_id) WHERE deleted_at IS NULL",

		// Log indexes
		"CREATE INDEX IF NOT EXISTS idx_order_logs_shop_created ON order_logs(shop_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_share_logs_shop_created ON share_logs(shop_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_subscription_logs_shop ON subscription_logs(shop_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",

		// Full-text search indexes
		"CREATE INDEX IF NOT EXISTS idx_products_search ON products USING GIN(to_tsvector('simple', name || ' ' || COALESCE(description, '')))",
		"CREATE INDEX IF NOT EXISTS idx_shops_search ON shops USING GIN(to_tsvector('simple', name))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Seed initial data
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	if err := SeedPermissions(db); err != nil {
		return err
	}
	if err := SeedRoles(db); err != nil {
		return err
	}
	if err := seedAdminUser(db); err != nil {
		return err
	}
	if err := seedBillingCycles(db); err != nil {
		return err
	}
	if err := seedFreePlan(db); err != nil {
		return err
	}

	log.Println("Initial data seeding completed")
	return nil
}

// SeedPermissions creates the full resource.action permission matrix.
func SeedPermissions(db *gorm.DB) error {
	resources := []models.PermissionResource{
		models.ResourceShops, models.ResourceProducts, models.ResourceCategories,
		models.ResourceUsers, models.ResourceRoles, models.ResourcePermissions,
		models.ResourceReviews, models.ResourceCart, models.ResourceOrders,
		models.ResourceAds, models.ResourceVideos, models.ResourcePages,
		models.ResourceContacts, models.ResourceSubscriptions, models.ResourceReports,
	}
	actions := []models.PermissionAction{
		models.ActionCreate, models.ActionRead, models.ActionUpdate,
		models.ActionDelete, models.ActionActivate, models.ActionExport,
	}

	for _, resource := range resources {
		for _, action := range actions {
			name := models.PermissionName(resource, action)
			var count int64
			db.Model(&models.Permission{}).Where("name = ?", name).Count(&count)
			if count == 0 {
				p := &models.Permission{
					Name:     name,
					Resource: resource,
					Action:   action,
					IsActive: true,
				}
				if err := db.Create(p).Error; err != nil {
					return fmt.Errorf("failed to create permission %s: %w", name, err)
				}
			}
		}
	}
	return nil
}

// SeedRoles creates the default roles and attaches their permission sets.
func SeedRoles(db *gorm.DB) error {
	var allPermissions []models.Permission
	if err := db.Find(&allPermissions).Error; err != nil {
		return fmt.Errorf("failed to load permissions: %w", err)
	}

	byName := make(map[string]models.Permission, len(allPermissions))
	for _, p := range allPermissions {
		byName[p.Name] = p
	}

	pick := func(names ...string) []models.Permission {
		perms := make([]models.Permission, 0, len(names))
		for _, n := range names {
			if p, ok := byName[n]; ok {
				perms = append(perms, p)
			}
		}
		return perms
	}

	roleSets := map[string][]models.Permission{
		models.RoleSuperAdmin: allPermissions,
		models.RoleShopAdmin: pick(
			"products.create", "products.read", "products.update", "products.delete",
			"reviews.read", "orders.read", "shops.read", "shops.update",
			"subscriptions.read", "reports.read",
		),
		models.RoleMallAdmin: pick(
			"shops.create", "shops.read", "shops.update",
			"products.read", "categories.read", "reports.read",
		),
		models.RoleGuest: pick(
			"shops.read", "products.read", "categories.read",
			"reviews.create", "reviews.read", "cart.create", "cart.read",
			"cart.update", "cart.delete", "orders.create", "pages.read",
		),
	}

	for name, perms := range roleSets {
		var role models.Role
		err := db.Where("name = ?", name).First(&role).Error
		if err == gorm.ErrRecordNotFound {
			role = models.Role{Name: name, IsActive: true}
			if err := db.Create(&role).Error; err != nil {
				return fmt.Errorf("failed to create role %s: %w", name, err)
			}
			if err := db.Model(&role).Association("Permissions").Replace(perms); err != nil {
				return fmt.Errorf("failed to attach permissions to role %s: %w", name, err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to look up role %s: %w", name, err)
		}
	}
	return nil
}

func seedAdminUser(db *gorm.DB) error {
	var adminRole models.Role
	if err := db.Where("name = ?", models.RoleSuperAdmin).First(&adminRole).Error; err != nil {
		return fmt.Errorf("superAdmin role missing: %w", err)
	}

	var count int64
	db.Model(&models.User{}).Where("role_id = ?", adminRole.ID).Count(&count)
	if count == 0 {
		admin := &models.User{
			Email:           "admin@idream.app",
			Name:            "System Administrator",
			RoleID:          adminRole.ID,
			IsActive:        true,
			IsEmailVerified: true,
		}
		if err := admin.SetPassword("ChangeMe123"); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}
		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		log.Println("Default admin user created successfully")
	}
	return nil
}

func seedBillingCycles(db *gorm.DB) error {
	cycles := []models.BillingCycle{
		{Name: "monthly", Months: 1},
		{Name: "yearly", Months: 12},
	}
	for _, cycle := range cycles {
		var count int64
		db.Model(&models.BillingCycle{}).Where("name = ?", cycle.Name).Count(&count)
		if count == 0 {
			c := cycle
			if err := db.Create(&c).Error; err != nil {
				return fmt.Errorf("failed to create billing cycle %s: %w", cycle.Name, err)
			}
		}
	}
	return nil
}

func seedFreePlan(db *gorm.DB) error {
	var plan models.SubscriptionPlan
	err := db.Where("name = ?", "free").First(&plan).Error
	if err == gorm.ErrRecordNotFound {
		plan = models.SubscriptionPlan{
			Name:        "free",
			Description: "Default free plan",
			Price:       0,
			IsActive:    true,
		}
		if err := db.Create(&plan).Error; err != nil {
			return fmt.Errorf("failed to create free plan: %w", err)
		}

		limits := []models.SubscriptionPlanLimit{
			{PlanID: plan.ID, LimitKey: models.LimitMaxProducts, LimitValue: 10},
			{PlanID: plan.ID, LimitKey: models.LimitMaxHotOffers, LimitValue: 1},
		}
		for _, limit := range limits {
			l := limit
			if err := db.Create(&l).Error; err != nil {
				return fmt.Errorf("failed to create plan limit %s: %w", limit.LimitKey, err)
			}
		}
	} else if err != nil {
		return fmt.Errorf("failed to look up free plan: %w", err)
	}
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

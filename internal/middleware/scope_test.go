// internal/middleware/scope_test.go
package middleware

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/idreamhq/idream-backend/internal/models"
)

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

	require.NoError(t, db.AutoMigrate(
		&models.Role{},
		&models.Permission{},
		&models.User{},
		&models.Category{},
		&models.Shop{},
		&models.Product{},
	))
	return db
}

func userWithRole(roleName string) *models.User {
	return &models.User{Role: models.Role{Name: roleName}}
}

func seedShop(t *testing.T, db *gorm.DB, categoryID, createdBy uuid.UUID) *models.Shop {
	t.Helper()
	shop := &models.Shop{
		Name:       "shop-" + uuid.NewString()[:8],
		Email:      uuid.NewString() + "@shops.test",
		Mobile:     "01001234567",
		Whatsapp:   "01001234567",
		CategoryID: categoryID,
		CreatedBy:  createdBy,
	}
	require.NoError(t, db.Create(shop).Error)
	return shop
}

func TestScopeForSuperAdminSeesEverything(t *testing.T) {
	scope := ScopeForUser(userWithRole(models.RoleSuperAdmin))
	assert.True(t, scope.All)
}

func TestScopeForShopAdminPinnedToShop(t *testing.T) {
	shopID := uuid.New()
	user := userWithRole(models.RoleShopAdmin)
	user.ShopID = &shopID

	scope := ScopeForUser(user)
	assert.False(t, scope.All)
	require.NotNil(t, scope.ShopID)
	assert.Equal(t, shopID, *scope.ShopID)
}

func TestScopeForMallAdminUsesAllowedCategories(t *testing.T) {
	user := userWithRole(models.RoleMallAdmin)
	catA, catB := uuid.New(), uuid.New()
	user.AllowedCategories = []models.Category{
		{BaseModel: models.BaseModel{ID: catA}},
		{BaseModel: models.BaseModel{ID: catB}},
	}

	scope := ScopeForUser(user)
	assert.ElementsMatch(t, []uuid.UUID{catA, catB}, scope.CategoryIDs)
	assert.Nil(t, scope.CreatedBy)
}

func TestScopeForMallAdminFallsBackToCreatedBy(t *testing.T) {
	user := userWithRole(models.RoleMallAdmin)
	user.ID = uuid.New()

	scope := ScopeForUser(user)
	assert.Empty(t, scope.CategoryIDs)
	require.NotNil(t, scope.CreatedBy)
	assert.Equal(t, user.ID, *scope.CreatedBy)
}

func TestApplyShopsByCategory(t *testing.T) {
	db := newTestDB(t)

	catA := &models.Category{Name: "A"}
	catB := &models.Category{Name: "B"}
	require.NoError(t, db.Create(catA).Error)
	require.NoError(t, db.Create(catB).Error)

	inScope := seedShop(t, db, catA.ID, uuid.New())
	seedShop(t, db, catB.ID, uuid.New())

	scope := &Scope{CategoryIDs: []uuid.UUID{catA.ID}}

	var shops []models.Shop
	require.NoError(t, scope.ApplyShops(db.Model(&models.Shop{})).Find(&shops).Error)
	require.Len(t, shops, 1)
	assert.Equal(t, inScope.ID, shops[0].ID)
}

func TestApplyShopsByCreator(t *testing.T) {
	db := newTestDB(t)
	category := &models.Category{Name: "A"}
	require.NoError(t, db.Create(category).Error)

	creator := uuid.New()
	mine := seedShop(t, db, category.ID, creator)
	seedShop(t, db, category.ID, uuid.New())

	creatorID := creator
	scope := &Scope{CreatedBy: &creatorID}

	var shops []models.Shop
	require.NoError(t, scope.ApplyShops(db.Model(&models.Shop{})).Find(&shops).Error)
	require.Len(t, shops, 1)
	assert.Equal(t, mine.ID, shops[0].ID)
}

func TestEmptyScopeMatchesNothing(t *testing.T) {
	db := newTestDB(t)
	category := &models.Category{Name: "A"}
	require.NoError(t, db.Create(category).Error)
	seedShop(t, db, category.ID, uuid.New())

	scope := &Scope{}

	var count int64
	require.NoError(t, scope.ApplyShops(db.Model(&models.Shop{})).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestAllowsShop(t *testing.T) {
	db := newTestDB(t)
	category := &models.Category{Name: "A"}
	require.NoError(t, db.Create(category).Error)
	shop := seedShop(t, db, category.ID, uuid.New())
	other := seedShop(t, db, category.ID, uuid.New())

	all := &Scope{All: true}
	assert.True(t, all.AllowsShop(db, shop.ID))

	pinned := &Scope{ShopID: &shop.ID}
	assert.True(t, pinned.AllowsShop(db, shop.ID))
	assert.False(t, pinned.AllowsShop(db, other.ID))

	byCategory := &Scope{CategoryIDs: []uuid.UUID{category.ID}}
	assert.True(t, byCategory.AllowsShop(db, shop.ID))
	assert.False(t, byCategory.AllowsShop(db, uuid.New()))
}

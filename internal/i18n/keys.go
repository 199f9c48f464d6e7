// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess      = "success"
	KeyError        = "error"
	KeyAccessDenied = "access_denied"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthAccountInactive    = "auth.account_inactive"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// Users
	KeyUserNotFound = "user.not_found"
	KeyUserUpdated  = "user.updated"

	// Roles and permissions
	KeyRoleNotFound       = "role.not_found"
	KeyRoleInUse          = "role.in_use"
	KeyPermissionNotFound = "permission.not_found"
	KeyPermissionDenied   = "permission.denied"

	// Shops
	KeyShopNotFound    = "shop.not_found"
	KeyShopCreated     = "shop.created"
	KeyShopActivated   = "shop.activated"
	KeyShopDeactivated = "shop.deactivated"

	// Products
	KeyProductNotFound    = "product.not_found"
	KeyProductCreated     = "product.created"
	KeyProductLimit       = "product.limit_reached"
	KeyHotOfferLimit      = "product.hot_offer_limit"
	KeyProductActivated   = "product.activated"
	KeyProductDeactivated = "product.deactivated"

	// Categories
	KeyCategoryNotFound = "category.not_found"

	// Reviews
	KeyReviewNotFound  = "review.not_found"
	KeyReviewDuplicate = "review.duplicate"

	// Cart
	KeyCartItemNotFound = "cart.item_not_found"

	// Subscriptions
	KeySubscriptionNotFound = "subscription.not_found"
	KeyPlanNotFound         = "subscription.plan_not_found"

	// Orders
	KeyOrderCreated = "order.created"

	// AI chat
	KeyAIProductsIntro = "ai.products_intro"
	KeyAIShopsIntro    = "ai.shops_intro"
	KeyAINoResults     = "ai.no_results"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
)

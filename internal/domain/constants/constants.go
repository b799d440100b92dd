// Package constants holds values shared across layers.
package constants

// Deployment environments.
const (
	EnvDevelop    = "develop"
	EnvProduction = "production"
)

// Default device-local storage keys.
const (
	DefaultFavoritesKey = "@bistro_favorites"
	DefaultSessionKey   = "@bistro_session"
)

// Estimated preparation windows shown on the receipt.
const (
	EstimatedTimeDelivery = "30-40 min"
	EstimatedTimePickup   = "20-30 min"
)

// Catalog limits.
const (
	ProductDetailReviewLimit = 20
	PopularProductsLimit     = 3
	GuestOrderLookupLimit    = 10
)

package constants

import "time"

const (
	UserCachePrefix      = "user"       // User by ID (CacheBuilder adds colon)
	UserEmailCachePrefix = "user_email" // User ID by normalized email
	UserCacheExpiry      = 24 * time.Hour

	HotelSettingsCacheKey    = "hotel_settings"
	HotelSettingsCacheExpiry = time.Hour

	TokenCachePrefix = "token" // Session registry entry by token digest
	TokenCacheExpiry = 5 * time.Minute
)

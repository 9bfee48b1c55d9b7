package config

import (
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"

	minJWTSecretLength = 32
)

type Config struct {
	GeneralVersion        string  `mapstructure:"GENERAL_VERSION"`
	Environment           string  `mapstructure:"ENVIRONMENT"`
	ServerPort            int     `mapstructure:"SERVER_PORT"`
	DatabaseHost          string  `mapstructure:"DB_HOST"`
	DatabasePort          int     `mapstructure:"DB_PORT"`
	DatabaseName          string  `mapstructure:"DB_NAME"`
	DatabaseUser          string  `mapstructure:"DB_USER"`
	DatabasePassword      string  `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress  string  `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort     int     `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset    int     `mapstructure:"DB_CACHE_RESET"`
	CorsAllowOrigins      string  `mapstructure:"CORS_ALLOW_ORIGINS"`
	JWTSecret             string  `mapstructure:"JWT_SECRET"`
	JWTAccessExpiration   int64   `mapstructure:"JWT_ACCESS_EXPIRATION"`
	JWTRefreshExpiration  int64   `mapstructure:"JWT_REFRESH_EXPIRATION"`
	SchedulerEnabled      bool    `mapstructure:"SCHEDULER_ENABLED"`
	CleaningCheckInterval int     `mapstructure:"CLEANING_CHECK_INTERVAL"`
	DefaultCleaningTime   string  `mapstructure:"DEFAULT_CLEANING_TIME"`
	HotelTimezone         string  `mapstructure:"HOTEL_TIMEZONE"`
	LoginRateLimit        float64 `mapstructure:"LOGIN_RATE_LIMIT"`
	LoginRateBurst        int     `mapstructure:"LOGIN_RATE_BURST"`
	StorageDriver         string  `mapstructure:"STORAGE_DRIVER"`
	StorageUploadDir      string  `mapstructure:"STORAGE_UPLOAD_DIR"`
	StoragePublicURL      string  `mapstructure:"STORAGE_PUBLIC_URL"`
	S3Endpoint            string  `mapstructure:"S3_ENDPOINT"`
	S3Region              string  `mapstructure:"S3_REGION"`
	S3Bucket              string  `mapstructure:"S3_BUCKET"`
	S3AccessKeyID         string  `mapstructure:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey     string  `mapstructure:"S3_SECRET_ACCESS_KEY"`
	S3PublicDomain        string  `mapstructure:"S3_PUBLIC_DOMAIN"`
	AMQPURL               string  `mapstructure:"AMQP_URL"`
	PushQueue             string  `mapstructure:"PUSH_QUEUE"`
}

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	// Enable automatic environment variable reading first
	viper.AutomaticEnv()

	envVars := []string{
		"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET",
		"CORS_ALLOW_ORIGINS",
		"JWT_SECRET", "JWT_ACCESS_EXPIRATION", "JWT_REFRESH_EXPIRATION",
		"SCHEDULER_ENABLED", "CLEANING_CHECK_INTERVAL", "DEFAULT_CLEANING_TIME", "HOTEL_TIMEZONE",
		"LOGIN_RATE_LIMIT", "LOGIN_RATE_BURST",
		"STORAGE_DRIVER", "STORAGE_UPLOAD_DIR", "STORAGE_PUBLIC_URL",
		"S3_ENDPOINT", "S3_REGION", "S3_BUCKET", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY", "S3_PUBLIC_DOMAIN",
		"AMQP_URL", "PUSH_QUEUE",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	setDefaults()

	// Check if key environment variables are already set
	envVarsSet := viper.IsSet("SERVER_PORT") && viper.IsSet("DB_HOST")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		// Load .env.local overrides if it exists
		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	log.Info(
		"Successfully initialized config",
		"environment", config.Environment,
		"port", config.ServerPort,
		"storageDriver", config.StorageDriver,
		"schedulerEnabled", config.SchedulerEnabled,
	)

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("JWT_ACCESS_EXPIRATION", 86400000)
	viper.SetDefault("JWT_REFRESH_EXPIRATION", 604800000)
	viper.SetDefault("SCHEDULER_ENABLED", true)
	viper.SetDefault("CLEANING_CHECK_INTERVAL", 15)
	viper.SetDefault("DEFAULT_CLEANING_TIME", "14:00")
	viper.SetDefault("HOTEL_TIMEZONE", "UTC")
	viper.SetDefault("LOGIN_RATE_LIMIT", 1.0)
	viper.SetDefault("LOGIN_RATE_BURST", 5)
	viper.SetDefault("STORAGE_DRIVER", StorageDriverLocal)
	viper.SetDefault("STORAGE_UPLOAD_DIR", "uploads/incidents")
	viper.SetDefault("STORAGE_PUBLIC_URL", "/api/incidents/images")
	viper.SetDefault("S3_REGION", "auto")
	viper.SetDefault("PUSH_QUEUE", "notifications.push")
	viper.SetDefault("DB_CACHE_RESET", -1)
}

// AccessTokenLifetime returns the configured access token lifetime (configured in milliseconds).
func (c Config) AccessTokenLifetime() time.Duration {
	return time.Duration(c.JWTAccessExpiration) * time.Millisecond
}

func (c Config) RefreshTokenLifetime() time.Duration {
	return time.Duration(c.JWTRefreshExpiration) * time.Millisecond
}

func (c Config) CleaningCheckEvery() time.Duration {
	return time.Duration(c.CleaningCheckInterval) * time.Second
}

// Location resolves the hotel timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	if c.HotelTimezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.HotelTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if len(config.JWTSecret) < minJWTSecretLength {
		return log.Error(
			"Fatal error: JWT_SECRET must be at least 32 bytes",
			"length", len(config.JWTSecret),
		)
	}

	if config.JWTAccessExpiration <= 0 || config.JWTRefreshExpiration <= 0 {
		return log.Error(
			"Fatal error: token lifetimes must be positive",
			"access", config.JWTAccessExpiration,
			"refresh", config.JWTRefreshExpiration,
		)
	}

	if config.CleaningCheckInterval <= 0 {
		return log.Error(
			"Fatal error: CLEANING_CHECK_INTERVAL must be positive",
			"interval", config.CleaningCheckInterval,
		)
	}

	if _, err := time.Parse("15:04", config.DefaultCleaningTime); err != nil {
		return log.Err(
			"Fatal error: DEFAULT_CLEANING_TIME must use HH:MM",
			err,
			"value", config.DefaultCleaningTime,
		)
	}

	switch config.StorageDriver {
	case StorageDriverLocal:
		if config.StorageUploadDir == "" {
			return log.ErrMsg("Fatal error: STORAGE_UPLOAD_DIR required for local storage")
		}
	case StorageDriverS3:
		if config.S3Bucket == "" || config.S3AccessKeyID == "" || config.S3SecretAccessKey == "" {
			return log.ErrMsg(
				"Fatal error: S3_BUCKET, S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY required for s3 storage",
			)
		}
	default:
		return log.Error("Fatal error: unknown storage driver", "driver", config.StorageDriver)
	}

	return nil
}

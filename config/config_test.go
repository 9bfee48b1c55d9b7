package config

import (
	"strings"
	"testing"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		ServerPort:            8280,
		JWTSecret:             strings.Repeat("s", minJWTSecretLength),
		JWTAccessExpiration:   86400000,
		JWTRefreshExpiration:  604800000,
		CleaningCheckInterval: 15,
		DefaultCleaningTime:   "14:00",
		StorageDriver:         StorageDriverLocal,
		StorageUploadDir:      "uploads/incidents",
	}
}

func TestValidateConfig(t *testing.T) {
	log := logger.New("config_test")

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "Valid local", mutate: func(c *Config) {}},
		{name: "Zero port", mutate: func(c *Config) { c.ServerPort = 0 }, wantErr: true},
		{name: "Short secret", mutate: func(c *Config) { c.JWTSecret = "short" }, wantErr: true},
		{name: "Negative lifetime", mutate: func(c *Config) { c.JWTAccessExpiration = -1 }, wantErr: true},
		{name: "Zero check interval", mutate: func(c *Config) { c.CleaningCheckInterval = 0 }, wantErr: true},
		{name: "Bad cleaning time", mutate: func(c *Config) { c.DefaultCleaningTime = "2pm" }, wantErr: true},
		{name: "Unknown driver", mutate: func(c *Config) { c.StorageDriver = "ftp" }, wantErr: true},
		{name: "S3 without credentials", mutate: func(c *Config) { c.StorageDriver = StorageDriverS3 }, wantErr: true},
		{
			name: "S3 with credentials",
			mutate: func(c *Config) {
				c.StorageDriver = StorageDriverS3
				c.S3Bucket = "incidents"
				c.S3AccessKeyID = "key"
				c.S3SecretAccessKey = "secret"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(&config)

			err := validateConfig(config, log)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigDurations(t *testing.T) {
	config := validConfig()

	assert.Equal(t, 24*time.Hour, config.AccessTokenLifetime())
	assert.Equal(t, 7*24*time.Hour, config.RefreshTokenLifetime())
	assert.Equal(t, 15*time.Second, config.CleaningCheckEvery())
}

func TestLocation(t *testing.T) {
	assert.Equal(t, time.UTC, Config{}.Location())
	assert.Equal(t, time.UTC, Config{HotelTimezone: "Mars/Olympus"}.Location())
	assert.Equal(t, "Europe/Madrid", Config{HotelTimezone: "Europe/Madrid"}.Location().String())
}

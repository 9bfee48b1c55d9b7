package database

import (
	"testing"

	"hotelparadise/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestCacheConstants(t *testing.T) {
	assert.Equal(t, 0, GENERAL_CACHE_INDEX)
	assert.Equal(t, 1, USER_CACHE_INDEX)
	assert.Equal(t, 2, EVENTS_CACHE_INDEX)
	assert.Equal(t, 3, SESSION_CACHE_INDEX)
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.Config{
		DatabaseHost:     "postgres",
		DatabasePort:     5432,
		DatabaseUser:     "hotel",
		DatabasePassword: "secret",
		DatabaseName:     "paradise",
	})

	assert.Equal(
		t,
		"host=postgres port=5432 user=hotel password=secret dbname=paradise sslmode=disable TimeZone=UTC",
		dsn,
	)
}

func TestNewWithSQL(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	db := NewWithSQL(gormDB)

	assert.Equal(t, gormDB, db.SQL)
	assert.False(t, db.HasCache())
}

func TestCacheBuilder_WithoutClient(t *testing.T) {
	builder := NewCacheBuilder(nil, uuid.New()).WithHash("user")

	found, err := builder.Get(&struct{}{})
	assert.False(t, found)
	assert.Error(t, err)
	assert.Error(t, builder.WithValue("x").Set())
	assert.Error(t, builder.Delete())
}

func TestCacheBuilder_WithHash(t *testing.T) {
	builder := NewCacheBuilder(nil, "admin@hotel.com").WithHash("user_email")
	assert.Equal(t, "user_email:admin@hotel.com", builder.Key())
}

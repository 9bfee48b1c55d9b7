package database

import (
	"context"
	"fmt"
	"time"

	"hotelparadise/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
)

// Valkey database indexes, one per cache category.
const (
	// GENERAL_CACHE_INDEX holds hotel wide data such as the settings row.
	GENERAL_CACHE_INDEX = iota

	// USER_CACHE_INDEX holds user profiles looked up on every authenticated request.
	USER_CACHE_INDEX

	// EVENTS_CACHE_INDEX carries the pub/sub channels used for realtime updates.
	EVENTS_CACHE_INDEX

	// SESSION_CACHE_INDEX holds session registry entries keyed by token digest.
	SESSION_CACHE_INDEX
)

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.Errorf("failed to initialize cache database", "address or port is empty")
	}

	clients := []struct {
		target *CacheClient
		index  int
		name   string
	}{
		{&s.Cache.General, GENERAL_CACHE_INDEX, "general"},
		{&s.Cache.User, USER_CACHE_INDEX, "user"},
		{&s.Cache.Events, EVENTS_CACHE_INDEX, "events"},
		{&s.Cache.Session, SESSION_CACHE_INDEX, "session"},
	}

	for _, c := range clients {
		client, err := valkey.NewClient(valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    c.index,
		})
		if err != nil {
			return log.Err("failed to create valkey client", err, "cache", c.name)
		}
		*c.target = client
	}

	if config.DatabaseCacheReset != -1 {
		go clearCacheDB(config.DatabaseCacheReset, s.Cache)
	}

	return nil
}

func clearCacheDB(index int, cacheDB Cache) {
	log := logger.New("database").File("cache.database").Function("clearCacheDB")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var client CacheClient
	var dbName string

	switch index {
	case GENERAL_CACHE_INDEX:
		client = cacheDB.General
		dbName = "General"
	case USER_CACHE_INDEX:
		client = cacheDB.User
		dbName = "User"
	case EVENTS_CACHE_INDEX:
		client = cacheDB.Events
		dbName = "Events"
	case SESSION_CACHE_INDEX:
		client = cacheDB.Session
		dbName = "Session"
	default:
		log.Warn("Invalid cache database index", "index", index)
		return
	}

	if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
		log.Er("Failed to clear cache database", err, "index", index, "dbName", dbName)
		return
	}

	log.Info("Successfully cleared cache database", "index", index, "dbName", dbName)
}

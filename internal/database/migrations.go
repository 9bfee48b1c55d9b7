package database

import (
	"hotelparadise/internal/models"
)

// Models lists every table managed by the migration command, in creation order.
var Models = []any{
	&models.User{},
	&models.Token{},
	&models.HotelSettings{},
	&models.Room{},
	&models.RoomAssignment{},
	&models.Cleaning{},
	&models.Incident{},
	&models.IncidentPhoto{},
	&models.Notification{},
}

// Indexes gorm tags cannot express.
var partialIndexes = []string{
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_room_assignments_active_room ON room_assignments(room_id) WHERE active AND deleted_at IS NULL",
	"CREATE INDEX IF NOT EXISTS idx_tokens_user_live ON tokens(user_id, type) WHERE NOT revoked AND NOT expired",
	"CREATE INDEX IF NOT EXISTS idx_incidents_room_unresolved ON incidents(room_id) WHERE status <> 'RESOLVED' AND deleted_at IS NULL",
	"CREATE INDEX IF NOT EXISTS idx_notifications_user_unread ON notifications(user_id, created_at DESC) WHERE NOT is_read",
}

func (db *DB) CreateIndexes() error {
	log := db.log.Function("CreateIndexes")
	log.Info("Creating partial indexes")

	for _, indexSQL := range partialIndexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			return log.Err("failed to create index", err, "sql", indexSQL)
		}
	}

	return nil
}

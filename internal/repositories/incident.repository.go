package repositories

import (
	"context"
	"time"

	. "hotelparadise/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IncidentRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Incident, error)
	Create(ctx context.Context, tx *gorm.DB, incident *Incident) error
	List(ctx context.Context, tx *gorm.DB) ([]*Incident, error)
	ListByRoom(ctx context.Context, tx *gorm.DB, roomID uuid.UUID) ([]*Incident, error)
	ListByStatus(ctx context.Context, tx *gorm.DB, status IncidentStatus) ([]*Incident, error)
	ListPendingSync(ctx context.Context, tx *gorm.DB) ([]*Incident, error)
	UpdateStatus(
		ctx context.Context,
		tx *gorm.DB,
		id uuid.UUID,
		status IncidentStatus,
		resolvedAt *time.Time,
	) error
	DeletePhotos(ctx context.Context, tx *gorm.DB, incidentID uuid.UUID) error
}

type incidentRepository struct {
	log logger.Logger
}

func NewIncidentRepository() IncidentRepository {
	return &incidentRepository{
		log: logger.New("incidentRepository"),
	}
}

func (r *incidentRepository) withRelations(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Photos", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Room").
		Preload("ReportedBy").
		Order("created_at DESC")
}

func (r *incidentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Incident, error) {
	var incident Incident
	if err := r.withRelations(tx.WithContext(ctx)).First(&incident, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "incident not found")
	}
	return &incident, nil
}

// Create inserts the incident together with its photos.
func (r *incidentRepository) Create(ctx context.Context, tx *gorm.DB, incident *Incident) error {
	if err := tx.WithContext(ctx).Create(incident).Error; err != nil {
		return r.log.Function("Create").Err("failed to create incident", err, "roomID", incident.RoomID)
	}
	return nil
}

func (r *incidentRepository) find(ctx context.Context, tx *gorm.DB, function string, query any, args ...any) ([]*Incident, error) {
	var incidents []*Incident
	db := r.withRelations(tx.WithContext(ctx))
	if query != nil {
		db = db.Where(query, args...)
	}
	if err := db.Find(&incidents).Error; err != nil {
		return nil, r.log.Function(function).Err("failed to list incidents", err)
	}
	return incidents, nil
}

func (r *incidentRepository) List(ctx context.Context, tx *gorm.DB) ([]*Incident, error) {
	return r.find(ctx, tx, "List", nil)
}

func (r *incidentRepository) ListByRoom(ctx context.Context, tx *gorm.DB, roomID uuid.UUID) ([]*Incident, error) {
	return r.find(ctx, tx, "ListByRoom", "room_id = ?", roomID)
}

func (r *incidentRepository) ListByStatus(ctx context.Context, tx *gorm.DB, status IncidentStatus) ([]*Incident, error) {
	return r.find(ctx, tx, "ListByStatus", "status = ?", status)
}

func (r *incidentRepository) ListPendingSync(ctx context.Context, tx *gorm.DB) ([]*Incident, error) {
	return r.find(ctx, tx, "ListPendingSync", "is_synced = ?", false)
}

func (r *incidentRepository) UpdateStatus(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	status IncidentStatus,
	resolvedAt *time.Time,
) error {
	result := tx.WithContext(ctx).
		Model(&Incident{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "resolved_at": resolvedAt})
	if result.Error != nil {
		return r.log.Function("UpdateStatus").Err("failed to update incident status", result.Error, "incidentID", id)
	}
	if result.RowsAffected == 0 {
		return notFoundOr(gorm.ErrRecordNotFound, "incident not found")
	}
	return nil
}

// DeletePhotos hard deletes the photo rows; stored objects are the caller's concern.
func (r *incidentRepository) DeletePhotos(ctx context.Context, tx *gorm.DB, incidentID uuid.UUID) error {
	if err := tx.WithContext(ctx).
		Unscoped().
		Where("incident_id = ?", incidentID).
		Delete(&IncidentPhoto{}).Error; err != nil {
		return r.log.Function("DeletePhotos").Err("failed to delete incident photos", err, "incidentID", incidentID)
	}
	return nil
}

package incidentController

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"hotelparadise/config"
	"hotelparadise/internal/database"
	. "hotelparadise/internal/models"
	"hotelparadise/internal/repositories"
	"hotelparadise/internal/services"
	"hotelparadise/internal/storage"
	"hotelparadise/internal/types"
	"hotelparadise/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MaxPhotos             = 10
	newIncidentTitle      = "Nueva incidencia reportada"
	newIncidentBodyFormat = "Habitación %s - Piso %s: %s"
)

type IncidentRequest struct {
	RoomID      uuid.UUID `json:"roomId"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	PhotoURLs   []string  `json:"photoUrls"`
	IsOffline   bool      `json:"isOffline"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

// IncidentResponse exposes photo references as public URLs.
type IncidentResponse struct {
	*Incident
	PhotoURLs []string `json:"photoUrls"`
}

type IncidentControllerInterface interface {
	Create(ctx context.Context, user *User, req IncidentRequest, uploads []storage.Upload) (*IncidentResponse, error)
	UpdateStatus(ctx context.Context, user *User, id uuid.UUID, req StatusRequest) (*IncidentResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*IncidentResponse, error)
	List(ctx context.Context) ([]*IncidentResponse, error)
	ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*IncidentResponse, error)
	ListByStatus(ctx context.Context, status string) ([]*IncidentResponse, error)
	ListPendingSync(ctx context.Context) ([]*IncidentResponse, error)
	OpenImage(ctx context.Context, folder, filename string) (io.ReadCloser, string, error)
}

type IncidentController struct {
	incidentRepo repositories.IncidentRepository
	roomRepo     repositories.RoomRepository
	userRepo     repositories.UserRepository
	roomState    *services.RoomStateService
	notification *services.NotificationService
	transaction  *services.TransactionService
	storage      storage.PhotoStorage
	db           database.DB
	now          func() time.Time
	log          logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) IncidentControllerInterface {
	return &IncidentController{
		incidentRepo: repos.Incident,
		roomRepo:     repos.Room,
		userRepo:     repos.User,
		roomState:    services.RoomState,
		notification: services.Notification,
		transaction:  services.Transaction,
		storage:      services.Storage,
		db:           db,
		now:          time.Now,
		log:          logger.New("incidentController"),
	}
}

// Create reports an incident and blocks its room. Uploaded photos are stored
// in the room's folder before the transaction and removed again if it fails.
// Every active administrator is notified.
func (ic *IncidentController) Create(
	ctx context.Context,
	user *User,
	req IncidentRequest,
	uploads []storage.Upload,
) (*IncidentResponse, error) {
	log := ic.log.Function("Create").TraceFromContext(ctx)

	title := utils.CleanText(req.Title)
	if req.RoomID == uuid.Nil || title == "" {
		return nil, types.NewValidationError("roomId and title are required")
	}

	refs := make([]string, 0, len(req.PhotoURLs))
	for _, ref := range req.PhotoURLs {
		if ref = strings.TrimSpace(ref); ref != "" {
			refs = append(refs, ref)
		}
	}
	if len(refs)+len(uploads) > MaxPhotos {
		return nil, types.NewValidationError("at most %d photos per incident", MaxPhotos)
	}

	room, err := ic.roomRepo.GetByID(ctx, ic.db.SQL, req.RoomID)
	if err != nil {
		return nil, err
	}

	var saved []string
	if len(uploads) > 0 {
		saved, err = ic.storage.Save(ctx, room.PhotoFolder(), uploads)
		if err != nil {
			return nil, err
		}
	}

	now := ic.now()
	incident := &Incident{
		RoomID:           room.ID,
		ReportedByUserID: user.ID,
		Title:            title,
		Description:      utils.OptionalText(req.Description),
		Status:           IncidentStatusOpen,
		IsOffline:        req.IsOffline,
		IsSynced:         !req.IsOffline,
	}
	if !req.IsOffline {
		incident.SyncedAt = &now
	}
	for _, ref := range refs {
		incident.Photos = append(incident.Photos, IncidentPhoto{PhotoURL: ref, Position: len(incident.Photos)})
	}
	for _, key := range saved {
		incident.Photos = append(incident.Photos, IncidentPhoto{
			PhotoURL: key,
			Position: len(incident.Photos),
			Stored:   true,
		})
	}

	var change *services.RoomChange
	var deliveries []*services.Delivery
	err = ic.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		change, err = ic.roomState.Apply(ctx, tx, room.ID, IncidentOpened{})
		if err != nil {
			return err
		}

		if err := ic.incidentRepo.Create(ctx, tx, incident); err != nil {
			return err
		}

		admins, err := ic.userRepo.ListActiveByRole(ctx, tx, RoleAdmin)
		if err != nil {
			return err
		}

		body := fmt.Sprintf(newIncidentBodyFormat, room.RoomNumber, room.Floor, title)
		for _, admin := range admins {
			delivery, err := ic.notification.Create(ctx, tx, admin, NotificationTypeIncident, newIncidentTitle, body)
			if err != nil {
				return err
			}
			deliveries = append(deliveries, delivery)
		}
		return nil
	})
	if err != nil {
		if len(saved) > 0 {
			if cleanupErr := ic.storage.Delete(ctx, saved); cleanupErr != nil {
				log.Er("failed to remove photos of rejected incident", cleanupErr, "roomID", room.ID)
			}
		}
		return nil, err
	}

	ic.roomState.Publish(ctx, change)
	ic.notification.Dispatch(ctx, deliveries...)

	incident.Room = change.Room

	log.Info(
		"Incident reported",
		"incidentID", incident.ID,
		"roomID", room.ID,
		"userID", user.ID,
		"photos", len(refs),
		"roomStatus", change.To,
	)

	return ic.toResponse(incident), nil
}

// UpdateStatus moves an incident between OPEN, IN_REVIEW and RESOLVED.
// Resolving clears the incident's photos and sends the room back to
// PENDING_CLEANING.
func (ic *IncidentController) UpdateStatus(
	ctx context.Context,
	user *User,
	id uuid.UUID,
	req StatusRequest,
) (*IncidentResponse, error) {
	log := ic.log.Function("UpdateStatus").TraceFromContext(ctx)

	status := IncidentStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !status.IsValid() {
		return nil, types.NewValidationError("invalid incident status %q", req.Status)
	}

	var incident *Incident
	var change *services.RoomChange
	var photoKeys []string
	err := ic.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		incident, err = ic.incidentRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		var resolvedAt *time.Time
		if status == IncidentStatusResolved {
			if incident.IsResolved() {
				resolvedAt = incident.ResolvedAt
			} else {
				now := ic.now()
				resolvedAt = &now
			}
		}

		if err := ic.incidentRepo.UpdateStatus(ctx, tx, id, status, resolvedAt); err != nil {
			return err
		}
		wasResolved := incident.IsResolved()
		incident.Status = status
		incident.ResolvedAt = resolvedAt

		if status != IncidentStatusResolved || wasResolved {
			return nil
		}

		photoKeys, err = ic.clearPhotos(ctx, tx, incident)
		if err != nil {
			return err
		}

		change, err = ic.roomState.Apply(ctx, tx, incident.RoomID, IncidentResolved{})
		return err
	})
	if err != nil {
		return nil, err
	}

	ic.removeStoredPhotos(ctx, incident, photoKeys)
	ic.roomState.Publish(ctx, change)

	if change != nil {
		incident.Room = change.Room
	}

	log.Info("Incident status updated", "incidentID", id, "status", status, "userID", user.ID)
	return ic.toResponse(incident), nil
}

// clearPhotos deletes the incident's photo rows and returns the keys of the
// objects it uploaded, to remove once the transaction has committed.
func (ic *IncidentController) clearPhotos(ctx context.Context, tx *gorm.DB, incident *Incident) ([]string, error) {
	keys := storage.OwnedKeys(incident.StoredKeys())

	if err := ic.incidentRepo.DeletePhotos(ctx, tx, incident.ID); err != nil {
		return nil, err
	}
	incident.Photos = nil

	return keys, nil
}

func (ic *IncidentController) removeStoredPhotos(ctx context.Context, incident *Incident, keys []string) {
	if len(keys) == 0 {
		return
	}

	log := ic.log.Function("removeStoredPhotos").TraceFromContext(ctx)

	if err := ic.storage.Delete(ctx, keys); err != nil {
		log.Er("failed to delete incident photos", err, "incidentID", incident.ID)
		return
	}

	folder, _, _ := strings.Cut(keys[0], "/")
	if err := ic.storage.DeleteFolderIfEmpty(ctx, folder); err != nil {
		log.Er("failed to remove empty photo folder", err, "folder", folder)
	}
}

func (ic *IncidentController) Get(ctx context.Context, id uuid.UUID) (*IncidentResponse, error) {
	incident, err := ic.incidentRepo.GetByID(ctx, ic.db.SQL, id)
	if err != nil {
		return nil, err
	}
	return ic.toResponse(incident), nil
}

func (ic *IncidentController) List(ctx context.Context) ([]*IncidentResponse, error) {
	return ic.toResponses(ic.incidentRepo.List(ctx, ic.db.SQL))
}

func (ic *IncidentController) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*IncidentResponse, error) {
	return ic.toResponses(ic.incidentRepo.ListByRoom(ctx, ic.db.SQL, roomID))
}

func (ic *IncidentController) ListByStatus(ctx context.Context, status string) ([]*IncidentResponse, error) {
	parsed := IncidentStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !parsed.IsValid() {
		return nil, types.NewValidationError("invalid incident status %q", status)
	}
	return ic.toResponses(ic.incidentRepo.ListByStatus(ctx, ic.db.SQL, parsed))
}

func (ic *IncidentController) ListPendingSync(ctx context.Context) ([]*IncidentResponse, error) {
	return ic.toResponses(ic.incidentRepo.ListPendingSync(ctx, ic.db.SQL))
}

func (ic *IncidentController) OpenImage(ctx context.Context, folder, filename string) (io.ReadCloser, string, error) {
	return ic.storage.Open(ctx, folder+"/"+filename)
}

func (ic *IncidentController) toResponse(incident *Incident) *IncidentResponse {
	urls := make([]string, 0, len(incident.Photos))
	for _, ref := range incident.PhotoKeys() {
		urls = append(urls, storage.ResolveURL(ic.storage, ref))
	}
	return &IncidentResponse{Incident: incident, PhotoURLs: urls}
}

func (ic *IncidentController) toResponses(incidents []*Incident, err error) ([]*IncidentResponse, error) {
	if err != nil {
		return nil, err
	}

	responses := make([]*IncidentResponse, 0, len(incidents))
	for _, incident := range incidents {
		responses = append(responses, ic.toResponse(incident))
	}
	return responses, nil
}

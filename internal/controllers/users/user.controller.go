package userController

import (
	"context"

	"hotelparadise/config"
	"hotelparadise/internal/database"
	. "hotelparadise/internal/models"
	"hotelparadise/internal/repositories"
	"hotelparadise/internal/services"
	"hotelparadise/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StatusRequest struct {
	Status *bool `json:"status"`
}

type UserControllerInterface interface {
	Me(ctx context.Context, user *User) UserResponse
	ListByRole(ctx context.Context, role string) ([]UserResponse, error)
	UpdateStatus(ctx context.Context, admin *User, id uuid.UUID, req StatusRequest) (*UserResponse, error)
}

type UserController struct {
	userRepo    repositories.UserRepository
	session     *services.SessionService
	transaction *services.TransactionService
	db          database.DB
	Config      config.Config
	log         logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) UserControllerInterface {
	return &UserController{
		userRepo:    repos.User,
		session:     services.Session,
		transaction: services.Transaction,
		db:          db,
		Config:      config,
		log:         logger.New("userController"),
	}
}

func (uc *UserController) Me(ctx context.Context, user *User) UserResponse {
	return user.ToResponse()
}

func (uc *UserController) ListByRole(ctx context.Context, role string) ([]UserResponse, error) {
	parsed, ok := ParseRole(role)
	if !ok {
		return nil, types.NewValidationError("unknown role %q", role)
	}

	users, err := uc.userRepo.ListByRole(ctx, uc.db.SQL, parsed)
	if err != nil {
		return nil, err
	}

	response := make([]UserResponse, 0, len(users))
	for _, user := range users {
		response = append(response, user.ToResponse())
	}
	return response, nil
}

// UpdateStatus activates or deactivates an account. Deactivation also revokes
// every live token so the user is signed out on all devices.
func (uc *UserController) UpdateStatus(
	ctx context.Context,
	admin *User,
	id uuid.UUID,
	req StatusRequest,
) (*UserResponse, error) {
	log := uc.log.Function("UpdateStatus").TraceFromContext(ctx)

	if req.Status == nil {
		return nil, types.NewValidationError("status is required")
	}
	if admin.ID == id && !*req.Status {
		return nil, types.NewValidationError("administrators cannot deactivate themselves")
	}

	var user *User
	err := uc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		user, err = uc.userRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := uc.userRepo.UpdateStatus(ctx, tx, user, *req.Status); err != nil {
			return err
		}

		if !*req.Status {
			return uc.session.RevokeAll(ctx, tx, user.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("User status changed", "userID", id, "status", *req.Status, "adminID", admin.ID)

	response := user.ToResponse()
	return &response, nil
}

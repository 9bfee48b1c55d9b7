package repositories

import (
	"context"
	"strings"

	"hotelparadise/internal/constants"
	appContext "hotelparadise/internal/context"
	"hotelparadise/internal/database"
	. "hotelparadise/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*User, error)
	GetWithCredentials(ctx context.Context, tx *gorm.DB, email string) (*User, error)
	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error)
	Create(ctx context.Context, tx *gorm.DB, user *User) error
	ListByRole(ctx context.Context, tx *gorm.DB, role Role) ([]*User, error)
	ListActiveByRole(ctx context.Context, tx *gorm.DB, role Role) ([]*User, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, user *User, status bool) error
	UpdateFCMToken(ctx context.Context, tx *gorm.DB, user *User, fcmToken *string) error
}

type userRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewUserRepository(cache database.CacheClient) UserRepository {
	return &userRepository{
		cache: cache,
		log:   logger.New("userRepository"),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetByID serves from the user cache when possible. Cached users never carry
// the password hash.
func (r *userRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error) {
	log := r.log.Function("GetByID").TraceFromContext(ctx)

	var user User
	found, err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(constants.UserCachePrefix).
		Get(&user)
	if err != nil {
		log.Debug("user cache unavailable", "userID", id, "error", err)
	}
	if found {
		return &user, nil
	}

	if err := tx.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get user by id", notFoundOr(err, "user not found"), "userID", id)
	}

	r.addUserToCache(ctx, &user)

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*User, error) {
	log := r.log.Function("GetByEmail").TraceFromContext(ctx)
	email = normalizeEmail(email)

	var userID uuid.UUID
	found, err := database.NewCacheBuilder(r.cache, email).
		WithContext(ctx).
		WithHash(constants.UserEmailCachePrefix).
		Get(&userID)
	if err == nil && found {
		return r.GetByID(ctx, tx, userID)
	}

	var user User
	if err := tx.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, log.Err("failed to get user by email", notFoundOr(err, "user not found"), "email", email)
	}

	r.addUserToCache(ctx, &user)

	return &user, nil
}

// GetWithCredentials always reads the database so the password hash is present.
func (r *userRepository) GetWithCredentials(ctx context.Context, tx *gorm.DB, email string) (*User, error) {
	var user User
	if err := tx.WithContext(ctx).First(&user, "email = ?", normalizeEmail(email)).Error; err != nil {
		return nil, notFoundOr(err, "user not found")
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	var count int64
	if err := tx.WithContext(ctx).
		Model(&User{}).
		Where("email = ?", normalizeEmail(email)).
		Count(&count).Error; err != nil {
		return false, r.log.Function("ExistsByEmail").Err("failed to count users by email", err)
	}
	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *User) error {
	log := r.log.Function("Create").TraceFromContext(ctx)

	if err := tx.WithContext(ctx).Create(user).Error; err != nil {
		return log.Err("failed to create user", err, "email", user.Email)
	}

	return nil
}

func (r *userRepository) ListByRole(ctx context.Context, tx *gorm.DB, role Role) ([]*User, error) {
	var users []*User
	if err := tx.WithContext(ctx).
		Where("role = ?", role).
		Order("name ASC").
		Find(&users).Error; err != nil {
		return nil, r.log.Function("ListByRole").Err("failed to list users by role", err, "role", role)
	}
	return users, nil
}

func (r *userRepository) ListActiveByRole(ctx context.Context, tx *gorm.DB, role Role) ([]*User, error) {
	var users []*User
	if err := tx.WithContext(ctx).
		Where("role = ? AND status = ?", role, true).
		Find(&users).Error; err != nil {
		return nil, r.log.Function("ListActiveByRole").Err("failed to list active users", err, "role", role)
	}
	return users, nil
}

func (r *userRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, user *User, status bool) error {
	if err := tx.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", user.ID).
		Update("status", status).Error; err != nil {
		return r.log.Function("UpdateStatus").Err("failed to update user status", err, "userID", user.ID)
	}

	user.Status = status
	r.clearUserCache(ctx, user)

	return nil
}

func (r *userRepository) UpdateFCMToken(ctx context.Context, tx *gorm.DB, user *User, fcmToken *string) error {
	if err := tx.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", user.ID).
		Update("fcm_token", fcmToken).Error; err != nil {
		return r.log.Function("UpdateFCMToken").Err("failed to update push address", err, "userID", user.ID)
	}

	user.FCMToken = fcmToken
	r.clearUserCache(ctx, user)

	return nil
}

func (r *userRepository) addUserToCache(ctx context.Context, user *User) {
	log := r.log.Function("addUserToCache")

	if err := database.NewCacheBuilder(r.cache, user.ID).
		WithContext(ctx).
		WithHash(constants.UserCachePrefix).
		WithStruct(user).
		WithTTL(constants.UserCacheExpiry).
		Set(); err != nil {
		log.Debug("failed to add user to cache", "userID", user.ID, "error", err)
		return
	}

	if err := database.NewCacheBuilder(r.cache, user.Email).
		WithContext(ctx).
		WithHash(constants.UserEmailCachePrefix).
		WithStruct(user.ID).
		WithTTL(constants.UserCacheExpiry).
		Set(); err != nil {
		log.Debug("failed to cache email mapping", "userID", user.ID, "error", err)
	}
}

// clearUserCache drops the cached user once the surrounding transaction
// commits, so a concurrent read cannot cache the uncommitted row.
func (r *userRepository) clearUserCache(ctx context.Context, user *User) {
	id, email := user.ID, user.Email
	appContext.AfterCommit(ctx, func() {
		r.deleteCachedUser(ctx, id, email)
	})
}

func (r *userRepository) deleteCachedUser(ctx context.Context, id uuid.UUID, email string) {
	log := r.log.Function("deleteCachedUser")

	if err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(constants.UserCachePrefix).
		Delete(); err != nil {
		log.Debug("failed to clear user cache", "userID", id, "error", err)
	}

	if email == "" {
		return
	}

	if err := database.NewCacheBuilder(r.cache, email).
		WithContext(ctx).
		WithHash(constants.UserEmailCachePrefix).
		Delete(); err != nil {
		log.Debug("failed to clear email mapping", "userID", id, "error", err)
	}
}

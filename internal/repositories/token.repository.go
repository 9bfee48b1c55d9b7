package repositories

import (
	"context"
	"time"

	"hotelparadise/internal/constants"
	appContext "hotelparadise/internal/context"
	"hotelparadise/internal/database"
	. "hotelparadise/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenRepository persists the session registry. Token values are stored as
// digests; callers pass the digest, never the raw bearer string. Lookups by
// digest are cached and every write drops the affected entries once its
// transaction commits.
type TokenRepository interface {
	Create(ctx context.Context, tx *gorm.DB, token *Token) error
	GetByDigest(ctx context.Context, tx *gorm.DB, digest string) (*Token, error)
	Revoke(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	RevokeAllForUser(
		ctx context.Context,
		tx *gorm.DB,
		userID uuid.UUID,
		tokenTypes ...TokenType,
	) (int64, error)
	ExpireCreatedBefore(
		ctx context.Context,
		tx *gorm.DB,
		tokenType TokenType,
		before time.Time,
	) (int64, error)
}

type tokenRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewTokenRepository(cache database.CacheClient) TokenRepository {
	return &tokenRepository{
		cache: cache,
		log:   logger.New("tokenRepository"),
	}
}

func (r *tokenRepository) Create(ctx context.Context, tx *gorm.DB, token *Token) error {
	if err := tx.WithContext(ctx).Create(token).Error; err != nil {
		return r.log.Function("Create").
			Err("failed to record token", err, "userID", token.UserID, "type", token.Type)
	}
	return nil
}

func (r *tokenRepository) GetByDigest(ctx context.Context, tx *gorm.DB, digest string) (*Token, error) {
	log := r.log.Function("GetByDigest").TraceFromContext(ctx)

	var token Token
	found, err := database.NewCacheBuilder(r.cache, digest).
		WithContext(ctx).
		WithHash(constants.TokenCachePrefix).
		Get(&token)
	if err != nil {
		log.Debug("token cache unavailable", "error", err)
	}
	if found {
		return &token, nil
	}

	if err := tx.WithContext(ctx).First(&token, "token = ?", digest).Error; err != nil {
		return nil, notFoundOr(err, "token not found")
	}

	if err := database.NewCacheBuilder(r.cache, digest).
		WithContext(ctx).
		WithHash(constants.TokenCachePrefix).
		WithStruct(&token).
		WithTTL(constants.TokenCacheExpiry).
		Set(); err != nil {
		log.Debug("failed to cache token", "tokenID", token.ID, "error", err)
	}

	return &token, nil
}

func (r *tokenRepository) Revoke(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := r.log.Function("Revoke").TraceFromContext(ctx)

	var digests []string
	if err := tx.WithContext(ctx).
		Model(&Token{}).
		Where("id = ?", id).
		Pluck("token", &digests).Error; err != nil {
		return log.Err("failed to load token", err, "tokenID", id)
	}

	if err := tx.WithContext(ctx).
		Model(&Token{}).
		Where("id = ?", id).
		Updates(map[string]any{"expired": true, "revoked": true}).Error; err != nil {
		return log.Err("failed to revoke token", err, "tokenID", id)
	}

	r.clearTokenCache(ctx, digests)
	return nil
}

// RevokeAllForUser marks every live token of the user as expired and revoked.
// With no types given, tokens of every type are revoked.
func (r *tokenRepository) RevokeAllForUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	tokenTypes ...TokenType,
) (int64, error) {
	log := r.log.Function("RevokeAllForUser").TraceFromContext(ctx)

	live := func() *gorm.DB {
		query := tx.WithContext(ctx).
			Model(&Token{}).
			Where("user_id = ? AND expired = ? AND revoked = ?", userID, false, false)
		if len(tokenTypes) > 0 {
			query = query.Where("type IN ?", tokenTypes)
		}
		return query
	}

	var digests []string
	if err := live().Pluck("token", &digests).Error; err != nil {
		return 0, log.Err("failed to load user tokens", err, "userID", userID)
	}

	result := live().Updates(map[string]any{"expired": true, "revoked": true})
	if result.Error != nil {
		return 0, log.Err("failed to revoke user tokens", result.Error, "userID", userID)
	}

	r.clearTokenCache(ctx, digests)
	return result.RowsAffected, nil
}

// ExpireCreatedBefore flags tokens whose signed lifetime has certainly ended.
func (r *tokenRepository) ExpireCreatedBefore(
	ctx context.Context,
	tx *gorm.DB,
	tokenType TokenType,
	before time.Time,
) (int64, error) {
	log := r.log.Function("ExpireCreatedBefore").TraceFromContext(ctx)

	stale := func() *gorm.DB {
		return tx.WithContext(ctx).
			Model(&Token{}).
			Where("type = ? AND expired = ? AND created_at < ?", tokenType, false, before)
	}

	var digests []string
	if err := stale().Pluck("token", &digests).Error; err != nil {
		return 0, log.Err("failed to load stale tokens", err, "type", tokenType)
	}

	result := stale().Update("expired", true)
	if result.Error != nil {
		return 0, log.Err("failed to expire tokens", result.Error, "type", tokenType)
	}

	r.clearTokenCache(ctx, digests)
	return result.RowsAffected, nil
}

// clearTokenCache drops cached registry entries after the surrounding
// transaction commits.
func (r *tokenRepository) clearTokenCache(ctx context.Context, digests []string) {
	if r.cache == nil || len(digests) == 0 {
		return
	}

	appContext.AfterCommit(ctx, func() {
		log := r.log.Function("clearTokenCache")
		for _, digest := range digests {
			if err := database.NewCacheBuilder(r.cache, digest).
				WithContext(ctx).
				WithHash(constants.TokenCachePrefix).
				Delete(); err != nil {
				log.Debug("failed to clear token cache", "error", err)
			}
		}
	})
}

package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"hotelparadise/internal/database"
	. "hotelparadise/internal/models"
	"hotelparadise/internal/repositories"
	"hotelparadise/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionService is the registry of issued tokens. A bearer string is only
// accepted while its registry entry is live, it verifies, and its subject
// still resolves to an active user.
type SessionService struct {
	db     database.DB
	tokens repositories.TokenRepository
	users  repositories.UserRepository
	issuer *TokenService
	log    logger.Logger
}

func NewSessionService(
	db database.DB,
	repos repositories.Repository,
	tokenService *TokenService,
) *SessionService {
	return &SessionService{
		db:     db,
		tokens: repos.Token,
		users:  repos.User,
		issuer: tokenService,
		log:    logger.New("sessionService"),
	}
}

// Digest is the registry key of a bearer string.
func Digest(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func (s *SessionService) Record(
	ctx context.Context,
	tx *gorm.DB,
	user *User,
	raw string,
	tokenType TokenType,
) error {
	token := &Token{
		Token:  Digest(raw),
		Type:   tokenType,
		UserID: user.ID,
	}

	if err := s.tokens.Create(ctx, tx, token); err != nil {
		return s.log.Function("Record").Err("failed to record token", err, "userID", user.ID)
	}

	return nil
}

func (s *SessionService) Lookup(ctx context.Context, tx *gorm.DB, raw string) (*Token, error) {
	return s.tokens.GetByDigest(ctx, tx, Digest(raw))
}

// RevokeAll expires every live token of the user, or only those of the given types.
func (s *SessionService) RevokeAll(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	tokenTypes ...TokenType,
) error {
	log := s.log.TraceFromContext(ctx).Function("RevokeAll")

	revoked, err := s.tokens.RevokeAllForUser(ctx, tx, userID, tokenTypes...)
	if err != nil {
		return log.Err("failed to revoke tokens", err, "userID", userID)
	}

	log.Info("Revoked user tokens", "userID", userID, "count", revoked, "types", tokenTypes)
	return nil
}

// RevokeOne revokes exactly the presented token. An unknown token is a
// validation error, matching logout semantics.
func (s *SessionService) RevokeOne(ctx context.Context, tx *gorm.DB, raw string) (*Token, error) {
	log := s.log.TraceFromContext(ctx).Function("RevokeOne")

	token, err := s.Lookup(ctx, tx, raw)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.NewValidationError("token not found")
		}
		return nil, log.Err("failed to look up token", err)
	}

	if err := s.tokens.Revoke(ctx, tx, token.ID); err != nil {
		return nil, log.Err("failed to revoke token", err, "tokenID", token.ID)
	}

	token.Expired = true
	token.Revoked = true

	return token, nil
}

// Authenticate resolves a bearer string to its user. Every failure is an
// AuthenticationError; storage failures surface unchanged.
func (s *SessionService) Authenticate(
	ctx context.Context,
	raw string,
	tokenType TokenType,
) (*User, error) {
	log := s.log.TraceFromContext(ctx).Function("Authenticate")

	claims, err := s.issuer.Verify(raw)
	if err != nil {
		return nil, err
	}

	if claims.Type != tokenType {
		return nil, types.NewAuthenticationError("token type %s not accepted", claims.Type)
	}

	token, err := s.Lookup(ctx, s.db.SQL, raw)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.NewAuthenticationError("token not registered")
		}
		return nil, log.Err("failed to look up token", err)
	}

	if !token.IsLive() {
		return nil, types.NewAuthenticationError("token revoked or expired")
	}

	user, err := s.users.GetByEmail(ctx, s.db.SQL, claims.Subject)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.NewAuthenticationError("unknown subject")
		}
		return nil, log.Err("failed to load user", err, "email", claims.Subject)
	}

	if user.ID != token.UserID || !s.issuer.IsValidFor(raw, user) {
		return nil, types.NewAuthenticationError("token does not belong to user")
	}

	if !user.Status {
		return nil, types.NewAuthenticationError("user is inactive")
	}

	return user, nil
}

package services

import (
	"time"

	"hotelparadise/config"
	. "hotelparadise/internal/models"
	"hotelparadise/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims is the payload of every bearer token. Subject is the user's email.
type TokenClaims struct {
	Name string    `json:"name,omitempty"`
	Type TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies bearer tokens. It holds no revocation
// state; that lives in the session registry.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	log        logger.Logger
}

func NewTokenService(config config.Config) *TokenService {
	return &TokenService{
		secret:     []byte(config.JWTSecret),
		accessTTL:  config.AccessTokenLifetime(),
		refreshTTL: config.RefreshTokenLifetime(),
		now:        time.Now,
		log:        logger.New("tokenService"),
	}
}

func (s *TokenService) IssueAccess(user *User) (string, error) {
	return s.issue(user, TokenTypeAccess, s.accessTTL)
}

func (s *TokenService) IssueRefresh(user *User) (string, error) {
	return s.issue(user, TokenTypeRefresh, s.refreshTTL)
}

func (s *TokenService) issue(user *User, tokenType TokenType, lifetime time.Duration) (string, error) {
	now := s.now().UTC()

	claims := TokenClaims{
		Name: user.Name,
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", s.log.Function("issue").Err("failed to sign token", err, "type", tokenType)
	}

	return signed, nil
}

// Verify checks signature, structure and expiry. Every failure is an
// authentication error so callers can treat it as "unauthenticated".
func (s *TokenService) Verify(tokenString string) (*TokenClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	claims := &TokenClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, types.NewAuthenticationError("invalid token: %v", err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, types.NewAuthenticationError("invalid token")
	}

	return claims, nil
}

// ExtractSubject returns the email a valid token was issued to.
func (s *TokenService) ExtractSubject(tokenString string) (string, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// IsValidFor reports whether the token verifies and belongs to user.
func (s *TokenService) IsValidFor(tokenString string, user *User) bool {
	claims, err := s.Verify(tokenString)
	if err != nil || user == nil {
		return false
	}
	return claims.Subject == user.Email
}

package middleware

import (
	"context"

	"hotelparadise/config"
	. "hotelparadise/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// Authenticator resolves a bearer string to its live user.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string, tokenType TokenType) (*User, error)
}

type Middleware struct {
	session Authenticator
	Config  config.Config
	log     logger.Logger
	limiter *loginLimiter
}

func New(session Authenticator, config config.Config) Middleware {
	return Middleware{
		session: session,
		Config:  config,
		log:     logger.New("middleware"),
		limiter: newLoginLimiter(config.LoginRateLimit, config.LoginRateBurst),
	}
}

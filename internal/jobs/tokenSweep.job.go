package jobs

import (
	"context"
	"time"

	"hotelparadise/config"
	"hotelparadise/internal/database"
	. "hotelparadise/internal/models"
	"hotelparadise/internal/repositories"
	"hotelparadise/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// TokenSweepJob flags registry entries whose signed lifetime has ended so
// the live-token indexes stay small.
type TokenSweepJob struct {
	db         database.DB
	tokens     repositories.TokenRepository
	accessTTL  time.Duration
	refreshTTL time.Duration
	schedule   services.Schedule
	now        func() time.Time
	log        logger.Logger
}

func NewTokenSweepJob(db database.DB, repos repositories.Repository, config config.Config) *TokenSweepJob {
	return &TokenSweepJob{
		db:         db,
		tokens:     repos.Token,
		accessTTL:  config.AccessTokenLifetime(),
		refreshTTL: config.RefreshTokenLifetime(),
		schedule:   services.DailyAt("03:00"),
		now:        time.Now,
		log:        logger.New("tokenSweepJob"),
	}
}

func (j *TokenSweepJob) Name() string {
	return "TokenSweep"
}

func (j *TokenSweepJob) Schedule() services.Schedule {
	return j.schedule
}

func (j *TokenSweepJob) Execute(ctx context.Context) error {
	log := j.log.TraceFromContext(ctx).Function("Execute")
	now := j.now()

	access, err := j.tokens.ExpireCreatedBefore(ctx, j.db.SQL, TokenTypeAccess, now.Add(-j.accessTTL))
	if err != nil {
		return log.Err("failed to expire access tokens", err)
	}

	refresh, err := j.tokens.ExpireCreatedBefore(ctx, j.db.SQL, TokenTypeRefresh, now.Add(-j.refreshTTL))
	if err != nil {
		return log.Err("failed to expire refresh tokens", err)
	}

	log.Info("Token sweep completed", "accessExpired", access, "refreshExpired", refresh)
	return nil
}

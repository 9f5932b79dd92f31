package usecase

import (
	"context"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/logger"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthUsecase struct {
	db      Pinger
	version string
}

func NewHealthUsecase(db Pinger, version string) domain.HealthUsecase {
	return &healthUsecase{db: db, version: version}
}

func (u *healthUsecase) Info() domain.APIInfo {
	return domain.APIInfo{Message: "Portfolio API is running", Version: u.version}
}

func (u *healthUsecase) Check(ctx context.Context) domain.HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := u.db.Ping(ctx); err != nil {
		logger.Log.Warnw("Health check: database unreachable", "error", err)
		return domain.HealthStatus{Status: "unhealthy", Database: "disconnected"}
	}
	return domain.HealthStatus{Status: "healthy", Database: "connected"}
}

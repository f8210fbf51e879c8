package usecase

import (
	"time"

	"github.com/LafyOjo/APIShield-Plus-sub000/config"
	analyticsRepo "github.com/LafyOjo/APIShield-Plus-sub000/internal/analytics/repository"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/notification"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/notification/repository"
	pkgLog "github.com/LafyOjo/APIShield-Plus-sub000/pkg/log"
)

type usecase struct {
	l         pkgLog.Logger
	cfg       config.EngineConfig
	repo      repository.Repository
	analytics analyticsRepo.Repository
	clock     func() time.Time
}

func New(
	l pkgLog.Logger,
	cfg config.EngineConfig,
	repo repository.Repository,
	analytics analyticsRepo.Repository,
) notification.UseCase {
	return &usecase{
		l:         l,
		cfg:       cfg,
		repo:      repo,
		analytics: analytics,
		clock:     time.Now,
	}
}

package usecase

import (
	"fmt"
	"time"

	"github.com/LafyOjo/APIShield-Plus-sub000/config"
	analyticsRepo "github.com/LafyOjo/APIShield-Plus-sub000/internal/analytics/repository"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/incident"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/incident/repository"
	"github.com/LafyOjo/APIShield-Plus-sub000/pkg/lock"
	pkgLog "github.com/LafyOjo/APIShield-Plus-sub000/pkg/log"
)

type usecase struct {
	l         pkgLog.Logger
	cfg       config.EngineConfig
	repo      repository.Repository
	analytics analyticsRepo.Repository
	locker    lock.Locker
	clock     func() time.Time
}

func New(
	l pkgLog.Logger,
	cfg config.EngineConfig,
	repo repository.Repository,
	analytics analyticsRepo.Repository,
	locker lock.Locker,
) incident.UseCase {
	return &usecase{
		l:         l,
		cfg:       cfg,
		repo:      repo,
		analytics: analytics,
		locker:    locker,
		clock:     time.Now,
	}
}

func (uc *usecase) thresholds() incident.StatusThresholds {
	return incident.StatusThresholds{
		Mitigated: uc.cfg.MitigatedRatio,
		Resolved:  uc.cfg.ResolvedRatio,
	}
}

func incidentLockKey(tenantID, incidentID string) string {
	return fmt.Sprintf("incident-lock:%s:%s", tenantID, incidentID)
}

package usecase

import (
	"context"
	"time"

	analyticsRepo "github.com/LafyOjo/APIShield-Plus-sub000/internal/analytics/repository"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"
)

// baselineFunnel computes trailing-window baseline stats ending at windowStart,
// extending the lookback once when the default window is too thin. ok is false
// when even the extended window misses the session floor.
func (uc *usecase) baselineFunnel(
	ctx context.Context,
	sc model.Scope,
	inc model.Incident,
	paths []string,
	windowStart time.Time,
) (stats model.FunnelStats, lookback time.Duration, ok bool, err error) {
	for _, lookback = range []time.Duration{uc.cfg.BaselineLookback, uc.cfg.ExtendedLookback} {
		stats, err = uc.analytics.FunnelStats(ctx, sc, analyticsRepo.FunnelStatsOptions{
			WebsiteID:     inc.WebsiteID,
			EnvironmentID: inc.EnvironmentID,
			Paths:         paths,
			From:          windowStart.Add(-lookback),
			To:            windowStart,
		})
		if err != nil {
			uc.l.Errorf(ctx, "internal.incident.usecase.baselineFunnel: %v", err)
			return model.FunnelStats{}, 0, false, err
		}
		if stats.Sessions >= uc.cfg.MinBaselineSessions {
			return stats, lookback, true, nil
		}
	}
	return stats, lookback, false, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

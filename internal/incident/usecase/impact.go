package usecase

import (
	"context"
	"fmt"

	analyticsRepo "github.com/LafyOjo/APIShield-Plus-sub000/internal/analytics/repository"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/incident"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/incident/repository"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/metrics"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"
	"github.com/LafyOjo/APIShield-Plus-sub000/pkg/lock"
	postgresPkg "github.com/LafyOjo/APIShield-Plus-sub000/pkg/postgre"

	"github.com/aarondl/null/v8"
)

func (uc *usecase) EstimateImpact(ctx context.Context, sc model.Scope, ip incident.EstimateImpactInput) (incident.EstimateImpactOutput, error) {
	inc, err := uc.repo.Detail(ctx, sc, ip.IncidentID)
	if err != nil {
		if err == repository.ErrNotFound {
			return incident.EstimateImpactOutput{}, incident.ErrIncidentNotFound
		}
		uc.l.Errorf(ctx, "internal.incident.usecase.EstimateImpact.Detail: %v", err)
		return incident.EstimateImpactOutput{}, err
	}

	out := incident.EstimateImpactOutput{Status: inc.Status}

	computed, err := uc.computeImpact(ctx, sc, inc)
	if err != nil {
		return out, err
	}
	if computed == nil {
		// Not enough signal yet. Expected steady state for low-traffic
		// sites, so no error and no transition.
		metrics.ObserveImpactEstimate(metrics.OutcomeInsufficientData)
		return out, nil
	}

	release, err := uc.locker.Acquire(ctx, incidentLockKey(sc.TenantID, inc.ID), uc.cfg.LockTTL)
	if err != nil {
		if err == lock.ErrNotAcquired {
			return out, incident.ErrIncidentBusy
		}
		uc.l.Errorf(ctx, "internal.incident.usecase.EstimateImpact.Acquire: %v", err)
		return out, err
	}
	defer release()

	est, err := uc.repo.UpsertImpact(ctx, sc, *computed)
	if err != nil {
		uc.l.Errorf(ctx, "internal.incident.usecase.EstimateImpact.UpsertImpact: %v", err)
		return out, err
	}

	summary := impactSummary(est)
	inc, err = uc.repo.Update(ctx, sc, repository.UpdateOptions{
		ID:               inc.ID,
		Summary:          &summary,
		ImpactEstimateID: &est.ID,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.incident.usecase.EstimateImpact.Update: %v", err)
		return out, err
	}
	metrics.ObserveImpactEstimate(metrics.OutcomeEstimated)
	out.Estimate = &est

	status, changed, err := uc.applyStatus(ctx, sc, inc, &est, nil)
	if err != nil {
		return out, err
	}
	out.Status, out.StatusChanged = status, changed
	return out, nil
}

// computeImpact runs the estimator against the event store. A nil estimate
// with a nil error means insufficient data.
func (uc *usecase) computeImpact(ctx context.Context, sc model.Scope, inc model.Incident) (*model.ImpactEstimate, error) {
	start, end, minutes := inc.Window()
	paths := affectedPaths(inc, uc.cfg.MaxAffectedPaths)
	metricKey := inferMetricKey(paths, inc.Category)

	observed, err := uc.analytics.FunnelStats(ctx, sc, analyticsRepo.FunnelStatsOptions{
		WebsiteID:     inc.WebsiteID,
		EnvironmentID: inc.EnvironmentID,
		Paths:         paths,
		From:          start,
		To:            end,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.incident.usecase.computeImpact.FunnelStats: %v", err)
		return nil, err
	}
	if observed.Sessions < uc.cfg.MinObservedSessions {
		return nil, nil
	}

	baseline, lookback, ok, err := uc.baselineFunnel(ctx, sc, inc, paths, start)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	baseFrom := start.Add(-lookback)

	baselineRate := baseline.ConversionRate()
	source := model.BaselineSourceEvents
	var revenuePerConversion *float64

	agg, err := uc.analytics.ConversionBaseline(ctx, sc, analyticsRepo.BaselineOptions{
		MetricKey:     metricKey,
		WebsiteID:     inc.WebsiteID,
		EnvironmentID: inc.EnvironmentID,
		From:          baseFrom,
		To:            start,
	})
	switch {
	case err == nil:
		baselineRate = agg.ConversionRate()
		source = model.BaselineSourceAggregate
		revenuePerConversion = agg.RevenuePerConversion
	case err != analyticsRepo.ErrNotFound:
		uc.l.Errorf(ctx, "internal.incident.usecase.computeImpact.ConversionBaseline: %v", err)
		return nil, err
	}

	if revenuePerConversion == nil {
		settings, err := uc.analytics.TenantSettings(ctx, sc)
		switch {
		case err == nil:
			if settings.RevenuePerConversion.Valid {
				v := settings.RevenuePerConversion.Float64
				revenuePerConversion = &v
			}
		case err != analyticsRepo.ErrNotFound:
			uc.l.Errorf(ctx, "internal.incident.usecase.computeImpact.TenantSettings: %v", err)
			return nil, err
		}
	}

	observedRate := observed.ConversionRate()
	var lostConversions float64
	if baselineRate > observedRate {
		lostConversions = (baselineRate - observedRate) * float64(observed.Sessions)
	}
	var lostRevenue null.Float64
	if revenuePerConversion != nil {
		lostRevenue = null.Float64From(lostConversions * *revenuePerConversion)
	}

	signalsPerMinute := float64(inc.Evidence.TotalSignals()) / minutes
	confidence, factors := confidenceScore(inc, observed, baseline, baselineRate, paths, signalsPerMinute)

	return &model.ImpactEstimate{
		ID:                       postgresPkg.NewUUID(),
		IncidentID:               inc.ID,
		TenantID:                 sc.TenantID,
		MetricKey:                metricKey,
		WindowStart:              start,
		WindowEnd:                end,
		ObservedRate:             observedRate,
		BaselineRate:             baselineRate,
		DeltaRate:                observedRate - baselineRate,
		EstimatedLostConversions: lostConversions,
		EstimatedLostRevenue:     lostRevenue,
		Confidence:               confidence,
		Explanation: model.ImpactExplanation{
			WindowStart:      start,
			WindowEnd:        end,
			Paths:            paths,
			BaselineSource:   source,
			LookbackDays:     int(lookback.Hours() / 24),
			Observed:         observed,
			Baseline:         baseline,
			Factors:          factors,
			SignalsPerMinute: signalsPerMinute,
		},
	}, nil
}

// impactSummary renders the one-line human summary stored on the incident.
func impactSummary(est model.ImpactEstimate) string {
	s := fmt.Sprintf("%s at %.1f%% vs %.1f%% baseline, ~%.0f lost conversions",
		est.MetricKey, est.ObservedRate*100, est.BaselineRate*100, est.EstimatedLostConversions)
	if est.EstimatedLostRevenue.Valid {
		s += fmt.Sprintf(" (~%.2f revenue)", est.EstimatedLostRevenue.Float64)
	}
	return s
}

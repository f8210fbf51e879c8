package usecase

import (
	"context"
	"time"

	analyticsRepo "github.com/LafyOjo/APIShield-Plus-sub000/internal/analytics/repository"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/incident"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/incident/repository"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/metrics"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"
	"github.com/LafyOjo/APIShield-Plus-sub000/pkg/lock"
	postgresPkg "github.com/LafyOjo/APIShield-Plus-sub000/pkg/postgre"
)

// recoveryConfidenceCap keeps a single measurement from claiming certainty;
// stability is established by the resolved threshold over time, not by one row.
const recoveryConfidenceCap = 0.95

func (uc *usecase) MeasureRecovery(ctx context.Context, sc model.Scope, ip incident.MeasureRecoveryInput) (incident.MeasureRecoveryOutput, error) {
	inc, err := uc.repo.Detail(ctx, sc, ip.IncidentID)
	if err != nil {
		if err == repository.ErrNotFound {
			return incident.MeasureRecoveryOutput{}, incident.ErrIncidentNotFound
		}
		uc.l.Errorf(ctx, "internal.incident.usecase.MeasureRecovery.Detail: %v", err)
		return incident.MeasureRecoveryOutput{}, err
	}

	out := incident.MeasureRecoveryOutput{Status: inc.Status}

	prescriptions, err := uc.repo.ListPrescriptions(ctx, sc, inc.ID)
	if err != nil {
		uc.l.Errorf(ctx, "internal.incident.usecase.MeasureRecovery.ListPrescriptions: %v", err)
		return out, err
	}
	postStart, applied := earliestApplied(prescriptions)
	if !applied {
		// Nothing has been mitigated; there is no post-window to measure.
		return out, nil
	}

	window := ip.Window
	if window <= 0 {
		window = uc.cfg.RecoveryWindow
	}
	postEnd := postStart.Add(window)

	rec, err := uc.computeRecovery(ctx, sc, inc, postStart, postEnd)
	if err != nil {
		return out, err
	}
	if rec == nil {
		return out, nil
	}

	appended, err := uc.repo.AppendRecovery(ctx, sc, *rec)
	if err != nil {
		uc.l.Errorf(ctx, "internal.incident.usecase.MeasureRecovery.AppendRecovery: %v", err)
		return out, err
	}
	metrics.ObserveRecoveryMeasurement()
	out.Recovery = &appended

	release, err := uc.locker.Acquire(ctx, incidentLockKey(sc.TenantID, inc.ID), uc.cfg.LockTTL)
	if err != nil {
		if err == lock.ErrNotAcquired {
			// Another evaluation holds the incident; it will see this
			// measurement on its own pass. The appended row stands.
			uc.l.Warnf(ctx, "incident %s busy, skipping status evaluation", inc.ID)
			return out, nil
		}
		uc.l.Errorf(ctx, "internal.incident.usecase.MeasureRecovery.Acquire: %v", err)
		return out, err
	}
	defer release()

	// The first read predates the lock; reload so the state machine never
	// evaluates a snapshot another evaluation has already advanced past.
	inc, err = uc.repo.Detail(ctx, sc, inc.ID)
	if err != nil {
		if err == repository.ErrNotFound {
			return out, incident.ErrIncidentNotFound
		}
		uc.l.Errorf(ctx, "internal.incident.usecase.MeasureRecovery.Detail: %v", err)
		return out, err
	}
	out.Status = inc.Status

	status, changed, err := uc.applyStatus(ctx, sc, inc, nil, &appended)
	if err != nil {
		return out, err
	}
	out.Status, out.StatusChanged = status, changed
	return out, nil
}

// computeRecovery measures post-mitigation behavior against the incident
// window and baseline. A nil result means there is not enough post-window
// traffic or baseline volume to say anything.
func (uc *usecase) computeRecovery(ctx context.Context, sc model.Scope, inc model.Incident, postStart, postEnd time.Time) (*model.IncidentRecovery, error) {
	paths := affectedPaths(inc, uc.cfg.MaxAffectedPaths)

	post, err := uc.analytics.FunnelStats(ctx, sc, analyticsRepo.FunnelStatsOptions{
		WebsiteID:     inc.WebsiteID,
		EnvironmentID: inc.EnvironmentID,
		Paths:         paths,
		From:          postStart,
		To:            postEnd,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.incident.usecase.computeRecovery.PostStats: %v", err)
		return nil, err
	}
	if post.Sessions == 0 {
		return nil, nil
	}

	start, end, incidentMinutes := inc.Window()
	observed, err := uc.analytics.FunnelStats(ctx, sc, analyticsRepo.FunnelStatsOptions{
		WebsiteID:     inc.WebsiteID,
		EnvironmentID: inc.EnvironmentID,
		Paths:         paths,
		From:          start,
		To:            end,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.incident.usecase.computeRecovery.IncidentStats: %v", err)
		return nil, err
	}

	baseline, _, ok, err := uc.baselineFunnel(ctx, sc, inc, paths, start)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	preThreats, err := uc.analytics.SecurityEventCount(ctx, sc, analyticsRepo.SecurityEventOptions{
		Category: inc.Category,
		From:     start,
		To:       end,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.incident.usecase.computeRecovery.PreThreats: %v", err)
		return nil, err
	}
	postThreats, err := uc.analytics.SecurityEventCount(ctx, sc, analyticsRepo.SecurityEventOptions{
		Category: inc.Category,
		From:     postStart,
		To:       postEnd,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.incident.usecase.computeRecovery.PostThreats: %v", err)
		return nil, err
	}

	postMinutes := postEnd.Sub(postStart).Minutes()
	if postMinutes < 1 {
		postMinutes = 1
	}
	preThreatRate := float64(preThreats) / incidentMinutes
	postThreatRate := float64(postThreats) / postMinutes

	// Each component expresses how much of the incident's damage in that
	// signal has been undone, 1 meaning full return to baseline. Signals the
	// incident never degraded count as fully recovered.
	conversion := 1.0
	if gap := baseline.ConversionRate() - observed.ConversionRate(); gap > 0 {
		conversion = clamp01((post.ConversionRate() - observed.ConversionRate()) / gap)
	}
	errorRed := 1.0
	if excess := observed.ErrorRate() - baseline.ErrorRate(); excess > 0 {
		errorRed = clamp01((observed.ErrorRate() - post.ErrorRate()) / excess)
	}
	threatRed := 1.0
	if preThreatRate > 0 {
		threatRed = clamp01((preThreatRate - postThreatRate) / preThreatRate)
	}

	cw, ew, tw := uc.cfg.ConversionWeight, uc.cfg.ErrorWeight, uc.cfg.ThreatWeight
	ratio := clamp01((cw*conversion + ew*errorRed + tw*threatRed) / (cw + ew + tw))

	confidence := recoveryConfidence(post.Sessions, uc.cfg.MinBaselineSessions, conversion, errorRed, threatRed)

	return &model.IncidentRecovery{
		ID:                 postgresPkg.NewUUID(),
		IncidentID:         inc.ID,
		TenantID:           sc.TenantID,
		MeasuredAt:         uc.clock(),
		WindowStart:        postStart,
		WindowEnd:          postEnd,
		PostConversionRate: post.ConversionRate(),
		ChangeInErrors:     post.ErrorRate() - observed.ErrorRate(),
		ChangeInThreats:    postThreatRate - preThreatRate,
		RecoveryRatio:      ratio,
		Confidence:         confidence,
	}, nil
}

// recoveryConfidence starts from a volume-trust floor and grows when
// independent signals agree on the recovery direction.
func recoveryConfidence(postSessions, trustFloorSessions int64, components ...float64) float64 {
	volumeTrust := float64(postSessions) / float64(trustFloorSessions)
	if volumeTrust > 1 {
		volumeTrust = 1
	}
	confidence := 0.2 + 0.3*volumeTrust

	agreeing := 0
	for _, c := range components {
		if c >= 0.5 {
			agreeing++
		}
	}
	if agreeing > 1 {
		confidence += 0.1 * float64(agreeing-1)
	}

	if confidence > recoveryConfidenceCap {
		confidence = recoveryConfidenceCap
	}
	return clamp01(confidence)
}

func earliestApplied(prescriptions []model.Prescription) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, p := range prescriptions {
		if p.AppliedAt == nil {
			continue
		}
		if !found || p.AppliedAt.Before(earliest) {
			earliest = *p.AppliedAt
			found = true
		}
	}
	return earliest, found
}

package usecase

import (
	"context"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/incident"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/incident/repository"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/metrics"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"
)

// applyStatus runs the state machine against the incident's current evidence
// and persists a qualifying transition. Callers must hold the incident lock.
// Nil impact/recovery arguments are loaded from storage.
func (uc *usecase) applyStatus(
	ctx context.Context,
	sc model.Scope,
	inc model.Incident,
	impact *model.ImpactEstimate,
	recovery *model.IncidentRecovery,
) (model.IncidentStatus, bool, error) {
	if impact == nil {
		current, err := uc.repo.CurrentImpact(ctx, sc, inc.ID)
		switch {
		case err == nil:
			impact = &current
		case err != repository.ErrNotFound:
			uc.l.Errorf(ctx, "internal.incident.usecase.applyStatus.CurrentImpact: %v", err)
			return inc.Status, false, err
		}
	}
	if recovery == nil {
		latest, err := uc.repo.LatestRecovery(ctx, sc, inc.ID)
		switch {
		case err == nil:
			recovery = &latest
		case err != repository.ErrNotFound:
			uc.l.Errorf(ctx, "internal.incident.usecase.applyStatus.LatestRecovery: %v", err)
			return inc.Status, false, err
		}
	}

	prescriptions, err := uc.repo.ListPrescriptions(ctx, sc, inc.ID)
	if err != nil {
		uc.l.Errorf(ctx, "internal.incident.usecase.applyStatus.ListPrescriptions: %v", err)
		return inc.Status, false, err
	}
	hasMitigation := false
	for _, p := range prescriptions {
		if p.AppliedAt != nil {
			hasMitigation = true
			break
		}
	}

	next, ok := incident.NextStatus(inc, impact, recovery, hasMitigation, uc.thresholds(), uc.clock())
	if !ok {
		return inc.Status, false, nil
	}

	if _, err := uc.repo.Update(ctx, sc, repository.UpdateOptions{ID: inc.ID, Status: &next}); err != nil {
		uc.l.Errorf(ctx, "internal.incident.usecase.applyStatus.Update: %v", err)
		return inc.Status, false, err
	}

	metrics.ObserveStatusTransition(next.String())
	uc.l.Infof(ctx, "incident %s advanced %s -> %s", inc.ID, inc.Status, next)
	return next, true, nil
}

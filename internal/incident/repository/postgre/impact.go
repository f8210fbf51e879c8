package postgres

import (
	"context"
	"database/sql"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/incident/repository"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"

	"github.com/friendsofgo/errors"
)

// upsertImpactQuery keeps exactly one current estimate per incident: the
// incident_id conflict target overwrites every computed field in place while
// preserving the original row id and created_at.
const upsertImpactQuery = `
INSERT INTO impact_estimates (
	id, incident_id, tenant_id, metric_key, window_start, window_end,
	observed_rate, baseline_rate, delta_rate,
	estimated_lost_conversions, estimated_lost_revenue,
	confidence, explanation, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
ON CONFLICT (incident_id) DO UPDATE SET
	metric_key = EXCLUDED.metric_key,
	window_start = EXCLUDED.window_start,
	window_end = EXCLUDED.window_end,
	observed_rate = EXCLUDED.observed_rate,
	baseline_rate = EXCLUDED.baseline_rate,
	delta_rate = EXCLUDED.delta_rate,
	estimated_lost_conversions = EXCLUDED.estimated_lost_conversions,
	estimated_lost_revenue = EXCLUDED.estimated_lost_revenue,
	confidence = EXCLUDED.confidence,
	explanation = EXCLUDED.explanation,
	updated_at = EXCLUDED.updated_at
RETURNING id, created_at, updated_at`

func (r *implRepository) UpsertImpact(ctx context.Context, sc model.Scope, est model.ImpactEstimate) (model.ImpactEstimate, error) {
	now := r.clock()
	err := r.db.QueryRowContext(ctx, upsertImpactQuery,
		est.ID, est.IncidentID, sc.TenantID, string(est.MetricKey),
		est.WindowStart, est.WindowEnd,
		est.ObservedRate, est.BaselineRate, est.DeltaRate,
		est.EstimatedLostConversions, est.EstimatedLostRevenue,
		est.Confidence, est.Explanation, now,
	).Scan(&est.ID, &est.CreatedAt, &est.UpdatedAt)
	if err != nil {
		r.l.Errorf(ctx, "internal.incident.repository.postgres.UpsertImpact: %v", err)
		return model.ImpactEstimate{}, errors.Wrap(err, "upsert impact estimate")
	}

	est.TenantID = sc.TenantID
	return est, nil
}

const currentImpactQuery = `
SELECT
	id, incident_id, tenant_id, metric_key, window_start, window_end,
	observed_rate, baseline_rate, delta_rate,
	estimated_lost_conversions, estimated_lost_revenue,
	confidence, explanation, created_at, updated_at
FROM impact_estimates
WHERE incident_id = $1 AND tenant_id = $2`

func (r *implRepository) CurrentImpact(ctx context.Context, sc model.Scope, incidentID string) (model.ImpactEstimate, error) {
	var est model.ImpactEstimate
	err := r.db.QueryRowContext(ctx, currentImpactQuery, incidentID, sc.TenantID).Scan(
		&est.ID, &est.IncidentID, &est.TenantID, &est.MetricKey,
		&est.WindowStart, &est.WindowEnd,
		&est.ObservedRate, &est.BaselineRate, &est.DeltaRate,
		&est.EstimatedLostConversions, &est.EstimatedLostRevenue,
		&est.Confidence, &est.Explanation, &est.CreatedAt, &est.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.ImpactEstimate{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.incident.repository.postgres.CurrentImpact: %v", err)
		return model.ImpactEstimate{}, errors.Wrap(err, "query impact estimate")
	}

	return est, nil
}

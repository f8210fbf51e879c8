package postgres

import (
	"context"
	"database/sql"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/incident/repository"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"

	"github.com/friendsofgo/errors"
)

const appendRecoveryQuery = `
INSERT INTO incident_recoveries (
	id, incident_id, tenant_id, measured_at, window_start, window_end,
	post_conversion_rate, change_in_errors, change_in_threats,
	recovery_ratio, confidence, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING created_at`

func (r *implRepository) AppendRecovery(ctx context.Context, sc model.Scope, rec model.IncidentRecovery) (model.IncidentRecovery, error) {
	err := r.db.QueryRowContext(ctx, appendRecoveryQuery,
		rec.ID, rec.IncidentID, sc.TenantID, rec.MeasuredAt,
		rec.WindowStart, rec.WindowEnd,
		rec.PostConversionRate, rec.ChangeInErrors, rec.ChangeInThreats,
		rec.RecoveryRatio, rec.Confidence, r.clock(),
	).Scan(&rec.CreatedAt)
	if err != nil {
		r.l.Errorf(ctx, "internal.incident.repository.postgres.AppendRecovery: %v", err)
		return model.IncidentRecovery{}, errors.Wrap(err, "insert recovery")
	}

	rec.TenantID = sc.TenantID
	return rec, nil
}

const latestRecoveryQuery = `
SELECT
	id, incident_id, tenant_id, measured_at, window_start, window_end,
	post_conversion_rate, change_in_errors, change_in_threats,
	recovery_ratio, confidence, created_at
FROM incident_recoveries
WHERE incident_id = $1 AND tenant_id = $2
ORDER BY measured_at DESC
LIMIT 1`

func (r *implRepository) LatestRecovery(ctx context.Context, sc model.Scope, incidentID string) (model.IncidentRecovery, error) {
	var rec model.IncidentRecovery
	err := r.db.QueryRowContext(ctx, latestRecoveryQuery, incidentID, sc.TenantID).Scan(
		&rec.ID, &rec.IncidentID, &rec.TenantID, &rec.MeasuredAt,
		&rec.WindowStart, &rec.WindowEnd,
		&rec.PostConversionRate, &rec.ChangeInErrors, &rec.ChangeInThreats,
		&rec.RecoveryRatio, &rec.Confidence, &rec.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.IncidentRecovery{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.incident.repository.postgres.LatestRecovery: %v", err)
		return model.IncidentRecovery{}, errors.Wrap(err, "query latest recovery")
	}

	return rec, nil
}

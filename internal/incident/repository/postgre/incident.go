package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/incident/repository"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"

	"github.com/friendsofgo/errors"
)

const incidentColumns = `
	id, tenant_id, website_id, environment_id, category, severity,
	status, status_manual, summary, first_seen_at, last_seen_at,
	evidence, impact_estimate_id, created_at, updated_at`

func scanIncident(row *sql.Row) (model.Incident, error) {
	var (
		inc      model.Incident
		summary  sql.NullString
		impactID sql.NullString
	)
	err := row.Scan(
		&inc.ID, &inc.TenantID, &inc.WebsiteID, &inc.EnvironmentID,
		&inc.Category, &inc.Severity, &inc.Status, &inc.StatusManual,
		&summary, &inc.FirstSeenAt, &inc.LastSeenAt,
		&inc.Evidence, &impactID, &inc.CreatedAt, &inc.UpdatedAt,
	)
	if err != nil {
		return model.Incident{}, err
	}
	inc.Summary = summary.String
	if impactID.Valid {
		inc.ImpactEstimateID = &impactID.String
	}
	return inc, nil
}

func (r *implRepository) Detail(ctx context.Context, sc model.Scope, id string) (model.Incident, error) {
	query := fmt.Sprintf(`SELECT %s FROM incidents WHERE id = $1 AND tenant_id = $2`, incidentColumns)

	inc, err := scanIncident(r.db.QueryRowContext(ctx, query, id, sc.TenantID))
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Incident{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.incident.repository.postgres.Detail: %v", err)
		return model.Incident{}, errors.Wrap(err, "query incident")
	}

	return inc, nil
}

func (r *implRepository) Update(ctx context.Context, sc model.Scope, opts repository.UpdateOptions) (model.Incident, error) {
	sets := []string{"updated_at = $3"}
	args := []any{opts.ID, sc.TenantID, r.clock()}

	if opts.Status != nil {
		args = append(args, string(*opts.Status))
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if opts.Summary != nil {
		args = append(args, *opts.Summary)
		sets = append(sets, fmt.Sprintf("summary = $%d", len(args)))
	}
	if opts.ImpactEstimateID != nil {
		args = append(args, *opts.ImpactEstimateID)
		sets = append(sets, fmt.Sprintf("impact_estimate_id = $%d", len(args)))
	}

	query := fmt.Sprintf(`UPDATE incidents SET %s WHERE id = $1 AND tenant_id = $2 RETURNING %s`,
		strings.Join(sets, ", "), incidentColumns)

	inc, err := scanIncident(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Incident{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.incident.repository.postgres.Update: %v", err)
		return model.Incident{}, errors.Wrap(err, "update incident")
	}

	return inc, nil
}

const listPrescriptionsQuery = `
SELECT id, incident_id, tenant_id, action, applied_at, created_at
FROM incident_prescriptions
WHERE incident_id = $1 AND tenant_id = $2
ORDER BY created_at`

func (r *implRepository) ListPrescriptions(ctx context.Context, sc model.Scope, incidentID string) ([]model.Prescription, error) {
	rows, err := r.db.QueryContext(ctx, listPrescriptionsQuery, incidentID, sc.TenantID)
	if err != nil {
		r.l.Errorf(ctx, "internal.incident.repository.postgres.ListPrescriptions: %v", err)
		return nil, errors.Wrap(err, "query prescriptions")
	}
	defer rows.Close()

	var out []model.Prescription
	for rows.Next() {
		var (
			p       model.Prescription
			applied sql.NullTime
		)
		if err := rows.Scan(&p.ID, &p.IncidentID, &p.TenantID, &p.Action, &applied, &p.CreatedAt); err != nil {
			r.l.Errorf(ctx, "internal.incident.repository.postgres.ListPrescriptions.Scan: %v", err)
			return nil, errors.Wrap(err, "scan prescription")
		}
		if applied.Valid {
			t := applied.Time
			p.AppliedAt = &t
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate prescriptions")
	}

	return out, nil
}

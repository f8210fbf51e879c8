package postgres

import (
	"context"
	"database/sql"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/analytics/repository"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"

	"github.com/aarondl/null/v8"
	"github.com/friendsofgo/errors"
)

const conversionBaselineQuery = `
SELECT
	COALESCE(SUM(sessions), 0)    AS sessions,
	COALESCE(SUM(conversions), 0) AS conversions,
	MAX(revenue_per_conversion)   AS revenue_per_conversion
FROM conversion_metrics
WHERE tenant_id = $1
  AND website_id = $2
  AND ($3 = '' OR environment_id = $3)
  AND metric_key = $4
  AND window_start >= $5
  AND window_end <= $6`

// ConversionBaseline aggregates pre-computed conversion metric rows inside
// the window. Returns ErrNotFound when no rows (zero sessions) back the
// window, so callers fall through to raw funnel events.
func (r *implRepository) ConversionBaseline(ctx context.Context, sc model.Scope, opts repository.BaselineOptions) (model.ConversionBaseline, error) {
	var (
		sessions    int64
		conversions int64
		revenue     null.Float64
	)
	err := r.db.QueryRowContext(ctx, conversionBaselineQuery,
		sc.TenantID, opts.WebsiteID, opts.EnvironmentID,
		string(opts.MetricKey), opts.From, opts.To,
	).Scan(&sessions, &conversions, &revenue)
	if err != nil {
		r.l.Errorf(ctx, "internal.analytics.repository.postgres.ConversionBaseline: %v", err)
		return model.ConversionBaseline{}, errors.Wrap(err, "query conversion baseline")
	}

	if sessions == 0 {
		return model.ConversionBaseline{}, repository.ErrNotFound
	}

	baseline := model.ConversionBaseline{
		TenantID:      sc.TenantID,
		WebsiteID:     opts.WebsiteID,
		EnvironmentID: opts.EnvironmentID,
		MetricKey:     opts.MetricKey,
		WindowStart:   opts.From,
		WindowEnd:     opts.To,
		Sessions:      sessions,
		Conversions:   conversions,
	}
	if revenue.Valid {
		baseline.RevenuePerConversion = &revenue.Float64
	}

	return baseline, nil
}

const tenantSettingsQuery = `
SELECT revenue_per_conversion, geo_granularity
FROM tenant_settings
WHERE tenant_id = $1`

func (r *implRepository) TenantSettings(ctx context.Context, sc model.Scope) (model.TenantSettings, error) {
	settings := model.TenantSettings{TenantID: sc.TenantID}

	var granularity string
	err := r.db.QueryRowContext(ctx, tenantSettingsQuery, sc.TenantID).
		Scan(&settings.RevenuePerConversion, &granularity)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.TenantSettings{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.analytics.repository.postgres.TenantSettings: %v", err)
		return model.TenantSettings{}, errors.Wrap(err, "query tenant settings")
	}
	settings.GeoGranularity = model.GeoGranularity(granularity)

	return settings, nil
}

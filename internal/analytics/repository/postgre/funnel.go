package postgres

import (
	"context"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/analytics/repository"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"

	"github.com/friendsofgo/errors"
	"github.com/lib/pq"
)

const funnelStatsQuery = `
SELECT
	COUNT(DISTINCT session_id) FILTER (WHERE event_type = 'page_view')   AS sessions,
	COUNT(DISTINCT session_id) FILTER (WHERE event_type = 'form_submit') AS submit_sessions,
	COUNT(DISTINCT session_id) FILTER (WHERE event_type = 'error')       AS error_sessions
FROM web_events
WHERE tenant_id = $1
  AND website_id = $2
  AND ($3 = '' OR environment_id = $3)
  AND occurred_at >= $4
  AND occurred_at < $5
  AND (cardinality($6::text[]) = 0 OR request_path = ANY($6::text[]))`

func (r *implRepository) FunnelStats(ctx context.Context, sc model.Scope, opts repository.FunnelStatsOptions) (model.FunnelStats, error) {
	paths := opts.Paths
	if paths == nil {
		paths = []string{}
	}

	var stats model.FunnelStats
	err := r.db.QueryRowContext(ctx, funnelStatsQuery,
		sc.TenantID, opts.WebsiteID, opts.EnvironmentID,
		opts.From, opts.To, pq.Array(paths),
	).Scan(&stats.Sessions, &stats.SubmitSessions, &stats.ErrorSessions)
	if err != nil {
		r.l.Errorf(ctx, "internal.analytics.repository.postgres.FunnelStats: %v", err)
		return model.FunnelStats{}, errors.Wrap(err, "query funnel stats")
	}

	return stats, nil
}

package postgres

import (
	"context"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/analytics/repository"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"

	"github.com/friendsofgo/errors"
)

const securityEventCountQuery = `
SELECT COUNT(*)
FROM security_events
WHERE tenant_id = $1
  AND ($2 = '' OR category = $2)
  AND occurred_at >= $3
  AND occurred_at < $4`

func (r *implRepository) SecurityEventCount(ctx context.Context, sc model.Scope, opts repository.SecurityEventOptions) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, securityEventCountQuery,
		sc.TenantID, string(opts.Category), opts.From, opts.To,
	).Scan(&count)
	if err != nil {
		r.l.Errorf(ctx, "internal.analytics.repository.postgres.SecurityEventCount: %v", err)
		return 0, errors.Wrap(err, "query security event count")
	}

	return count, nil
}

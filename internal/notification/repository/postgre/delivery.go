package postgres

import (
	"context"

	"github.com/friendsofgo/errors"
	"github.com/lib/pq"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"
)

const existingDedupeKeysQuery = `
SELECT dedupe_key
FROM notification_deliveries
WHERE tenant_id = $1 AND dedupe_key = ANY($2::text[])`

func (r *implRepository) ExistingDedupeKeys(ctx context.Context, sc model.Scope, keys []string) (map[string]struct{}, error) {
	if len(keys) == 0 {
		return map[string]struct{}{}, nil
	}

	rows, err := r.db.QueryContext(ctx, existingDedupeKeysQuery, sc.TenantID, pq.Array(keys))
	if err != nil {
		r.l.Errorf(ctx, "internal.notification.repository.postgres.ExistingDedupeKeys: %v", err)
		return nil, errors.Wrap(err, "query dedupe keys")
	}
	defer rows.Close()

	existing := make(map[string]struct{}, len(keys))
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			r.l.Errorf(ctx, "internal.notification.repository.postgres.ExistingDedupeKeys: %v", err)
			return nil, errors.Wrap(err, "scan dedupe key")
		}
		existing[key] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "internal.notification.repository.postgres.ExistingDedupeKeys: %v", err)
		return nil, errors.Wrap(err, "iterate dedupe keys")
	}

	return existing, nil
}

// createDeliveryQuery relies on the (tenant_id, dedupe_key) unique index to
// make dispatch idempotent under concurrent triggers.
const createDeliveryQuery = `
INSERT INTO notification_deliveries (
	id, tenant_id, rule_id, channel_id, dedupe_key,
	status, error, payload, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (tenant_id, dedupe_key) DO NOTHING`

func (r *implRepository) CreateDeliveries(ctx context.Context, sc model.Scope, deliveries []model.NotificationDelivery) ([]model.NotificationDelivery, error) {
	if len(deliveries) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "internal.notification.repository.postgres.CreateDeliveries: %v", err)
		return nil, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	created := make([]model.NotificationDelivery, 0, len(deliveries))
	for _, d := range deliveries {
		res, err := tx.ExecContext(ctx, createDeliveryQuery,
			d.ID, sc.TenantID, d.RuleID, d.ChannelID, d.DedupeKey,
			string(d.Status), d.Error, d.Payload, d.CreatedAt)
		if err != nil {
			r.l.Errorf(ctx, "internal.notification.repository.postgres.CreateDeliveries: %v", err)
			return nil, errors.Wrap(err, "insert delivery")
		}

		affected, err := res.RowsAffected()
		if err != nil {
			r.l.Errorf(ctx, "internal.notification.repository.postgres.CreateDeliveries: %v", err)
			return nil, errors.Wrap(err, "rows affected")
		}
		if affected == 0 {
			// lost the dedupe race, another dispatch already recorded it
			continue
		}

		d.TenantID = sc.TenantID
		created = append(created, d)
	}

	if err := tx.Commit(); err != nil {
		r.l.Errorf(ctx, "internal.notification.repository.postgres.CreateDeliveries: %v", err)
		return nil, errors.Wrap(err, "commit tx")
	}

	return created, nil
}

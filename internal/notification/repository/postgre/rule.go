package postgres

import (
	"context"
	"encoding/json"

	"github.com/friendsofgo/errors"
	"github.com/lib/pq"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/notification/repository"
)

const listRulesQuery = `
SELECT
	id, tenant_id, trigger_type, enabled,
	filters, thresholds, quiet_hours, channel_ids,
	created_at, updated_at
FROM notification_rules
WHERE tenant_id = $1
	AND ($2 = '' OR trigger_type = $2)
	AND (NOT $3 OR enabled)
ORDER BY created_at`

// ListRules returns the tenant's matching rules. Rules whose JSONB blobs
// fail to parse are logged and dropped so one broken row cannot block the
// whole dispatch.
func (r *implRepository) ListRules(ctx context.Context, sc model.Scope, opts repository.ListRulesOptions) ([]model.NotificationRule, error) {
	rows, err := r.db.QueryContext(ctx, listRulesQuery,
		sc.TenantID, string(opts.Trigger), opts.EnabledOnly)
	if err != nil {
		r.l.Errorf(ctx, "internal.notification.repository.postgres.ListRules: %v", err)
		return nil, errors.Wrap(err, "query notification rules")
	}
	defer rows.Close()

	var rules []model.NotificationRule
	for rows.Next() {
		var (
			rule                          model.NotificationRule
			filters, thresholds, quietRaw []byte
		)
		if err := rows.Scan(
			&rule.ID, &rule.TenantID, &rule.Trigger, &rule.Enabled,
			&filters, &thresholds, &quietRaw, pq.Array(&rule.ChannelIDs),
			&rule.CreatedAt, &rule.UpdatedAt,
		); err != nil {
			r.l.Errorf(ctx, "internal.notification.repository.postgres.ListRules: %v", err)
			return nil, errors.Wrap(err, "scan notification rule")
		}

		if err := parseRuleBlobs(&rule, filters, thresholds, quietRaw); err != nil {
			r.l.Warnf(ctx, "internal.notification.repository.postgres.ListRules: dropping rule %s: %v", rule.ID, err)
			continue
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "internal.notification.repository.postgres.ListRules: %v", err)
		return nil, errors.Wrap(err, "iterate notification rules")
	}

	return rules, nil
}

func parseRuleBlobs(rule *model.NotificationRule, filters, thresholds, quiet []byte) error {
	if len(filters) > 0 {
		if err := json.Unmarshal(filters, &rule.Filters); err != nil {
			return errors.Wrap(err, "filters")
		}
	}
	if len(thresholds) > 0 {
		if err := json.Unmarshal(thresholds, &rule.Thresholds); err != nil {
			return errors.Wrap(err, "thresholds")
		}
	}
	if len(quiet) > 0 {
		if err := json.Unmarshal(quiet, &rule.QuietHours); err != nil {
			return errors.Wrap(err, "quiet hours")
		}
	}
	return nil
}

const listChannelsQuery = `
SELECT id, tenant_id, type, enabled
FROM notification_channels
WHERE tenant_id = $1 AND enabled AND id = ANY($2::uuid[])`

// ListChannels resolves the given channel ids, keeping only enabled
// channels the tenant actually owns.
func (r *implRepository) ListChannels(ctx context.Context, sc model.Scope, ids []string) ([]model.NotificationChannel, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, listChannelsQuery, sc.TenantID, pq.Array(ids))
	if err != nil {
		r.l.Errorf(ctx, "internal.notification.repository.postgres.ListChannels: %v", err)
		return nil, errors.Wrap(err, "query notification channels")
	}
	defer rows.Close()

	var channels []model.NotificationChannel
	for rows.Next() {
		var ch model.NotificationChannel
		if err := rows.Scan(&ch.ID, &ch.TenantID, &ch.Type, &ch.Enabled); err != nil {
			r.l.Errorf(ctx, "internal.notification.repository.postgres.ListChannels: %v", err)
			return nil, errors.Wrap(err, "scan notification channel")
		}
		channels = append(channels, ch)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "internal.notification.repository.postgres.ListChannels: %v", err)
		return nil, errors.Wrap(err, "iterate notification channels")
	}

	return channels, nil
}

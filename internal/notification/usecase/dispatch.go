package usecase

import (
	"context"
	"fmt"

	"github.com/aarondl/null/v8"

	analyticsRepo "github.com/LafyOjo/APIShield-Plus-sub000/internal/analytics/repository"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/metrics"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/notification"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/notification/repository"
	pkgPostgre "github.com/LafyOjo/APIShield-Plus-sub000/pkg/postgre"
)

// Dispatch evaluates the tenant's enabled rules for the trigger and records
// one deduplicated delivery per matching (rule, channel, context, cooldown
// bucket). Deliveries falling inside a rule's quiet hours are recorded as
// skipped instead of queued. Malformed rules are skipped, never fatal.
func (uc *usecase) Dispatch(ctx context.Context, sc model.Scope, ip notification.DispatchInput) (notification.DispatchOutput, error) {
	if !sc.Valid() {
		return notification.DispatchOutput{}, notification.ErrInvalidScope
	}
	if !ip.Trigger.IsValid() {
		return notification.DispatchOutput{}, notification.ErrInvalidTrigger
	}

	rules, err := uc.repo.ListRules(ctx, sc, repository.ListRulesOptions{
		Trigger:     ip.Trigger,
		EnabledOnly: true,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.notification.usecase.Dispatch: %v", err)
		return notification.DispatchOutput{}, err
	}

	var out notification.DispatchOutput
	if len(rules) == 0 {
		return out, nil
	}

	settings, err := uc.analytics.TenantSettings(ctx, sc)
	if err != nil {
		if err != analyticsRepo.ErrNotFound {
			uc.l.Errorf(ctx, "internal.notification.usecase.Dispatch: %v", err)
			return notification.DispatchOutput{}, err
		}
		settings = model.TenantSettings{
			TenantID:       sc.TenantID,
			GeoGranularity: model.GeoGranularityCountry,
		}
	}

	now := uc.clock()
	seen := map[string]struct{}{}
	var candidates []model.NotificationDelivery

	for _, rule := range rules {
		if err := rule.Validate(); err != nil {
			uc.l.Warnf(ctx, "internal.notification.usecase.Dispatch: skipping rule %s: %v", rule.ID, err)
			out.SkippedRules++
			continue
		}
		if !matchFilters(rule.Filters, ip.Context) || !matchThresholds(rule.Thresholds, ip.Context) {
			continue
		}
		out.MatchedRules++

		channels, err := uc.repo.ListChannels(ctx, sc, rule.ChannelIDs)
		if err != nil {
			uc.l.Errorf(ctx, "internal.notification.usecase.Dispatch: %v", err)
			return notification.DispatchOutput{}, err
		}
		if len(channels) == 0 {
			continue
		}

		quiet, err := rule.QuietHours.Covers(ip.Context.OccurredAt)
		if err != nil {
			// Validate already checked this, a failure here means the rule
			// changed underneath us
			uc.l.Warnf(ctx, "internal.notification.usecase.Dispatch: skipping rule %s: %v", rule.ID, err)
			out.SkippedRules++
			continue
		}

		bucket := cooldownBucket(ip.Context.OccurredAt.Unix(), uc.cooldownSeconds(rule.Thresholds))
		payload := buildPayload(ip.Trigger, ip.Context, settings)

		for _, ch := range channels {
			key := dedupeKey(rule.ID, ch.ID, ip.Context.Key(), bucket)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			d := model.NotificationDelivery{
				ID:        pkgPostgre.NewUUID(),
				TenantID:  sc.TenantID,
				RuleID:    rule.ID,
				ChannelID: ch.ID,
				DedupeKey: key,
				Status:    model.DeliveryStatusQueued,
				Payload:   payload,
				CreatedAt: now,
			}
			if quiet {
				d.Status = model.DeliveryStatusSkipped
				d.Error = null.StringFrom(model.SkipReasonQuietHours)
			}
			candidates = append(candidates, d)
		}
	}

	if len(candidates) == 0 {
		return out, nil
	}

	keys := make([]string, len(candidates))
	for i, d := range candidates {
		keys[i] = d.DedupeKey
	}
	existing, err := uc.repo.ExistingDedupeKeys(ctx, sc, keys)
	if err != nil {
		uc.l.Errorf(ctx, "internal.notification.usecase.Dispatch: %v", err)
		return notification.DispatchOutput{}, err
	}

	fresh := candidates[:0]
	for _, d := range candidates {
		if _, done := existing[d.DedupeKey]; done {
			continue
		}
		fresh = append(fresh, d)
	}
	if len(fresh) == 0 {
		return out, nil
	}

	created, err := uc.repo.CreateDeliveries(ctx, sc, fresh)
	if err != nil {
		uc.l.Errorf(ctx, "internal.notification.usecase.Dispatch: %v", err)
		return notification.DispatchOutput{}, err
	}

	for _, d := range created {
		metrics.ObserveDelivery(string(d.Status))
	}

	out.Deliveries = created
	return out, nil
}

func (uc *usecase) cooldownSeconds(t model.RuleThresholds) int64 {
	if t.CooldownSeconds > 0 {
		return t.CooldownSeconds
	}
	return int64(uc.cfg.DefaultCooldown.Seconds())
}

// cooldownBucket floors the event time to the cooldown grid so repeats
// within one cooldown window share a dedupe key.
func cooldownBucket(unix, cooldown int64) int64 {
	return unix / cooldown * cooldown
}

func dedupeKey(ruleID, channelID, contextKey string, bucket int64) string {
	return fmt.Sprintf("%s:%s:%s:%d", ruleID, channelID, contextKey, bucket)
}

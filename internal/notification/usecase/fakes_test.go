package usecase

import (
	"context"
	"time"

	"github.com/LafyOjo/APIShield-Plus-sub000/config"
	analyticsRepo "github.com/LafyOjo/APIShield-Plus-sub000/internal/analytics/repository"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/notification/repository"
	"github.com/LafyOjo/APIShield-Plus-sub000/pkg/log"
)

// fakeNotifRepo serves rules and channels from memory and records inserted
// deliveries, feeding them back through ExistingDedupeKeys like the unique
// index would.
type fakeNotifRepo struct {
	rules    []model.NotificationRule
	channels []model.NotificationChannel

	created []model.NotificationDelivery
	stored  map[string]struct{}
}

var _ repository.Repository = &fakeNotifRepo{}

func (f *fakeNotifRepo) ListRules(ctx context.Context, sc model.Scope, opts repository.ListRulesOptions) ([]model.NotificationRule, error) {
	var out []model.NotificationRule
	for _, r := range f.rules {
		if opts.Trigger != "" && r.Trigger != opts.Trigger {
			continue
		}
		if opts.EnabledOnly && !r.Enabled {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeNotifRepo) ListChannels(ctx context.Context, sc model.Scope, ids []string) ([]model.NotificationChannel, error) {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []model.NotificationChannel
	for _, ch := range f.channels {
		if _, ok := want[ch.ID]; ok && ch.Enabled {
			out = append(out, ch)
		}
	}
	return out, nil
}

func (f *fakeNotifRepo) ExistingDedupeKeys(ctx context.Context, sc model.Scope, keys []string) (map[string]struct{}, error) {
	existing := map[string]struct{}{}
	for _, k := range keys {
		if _, ok := f.stored[k]; ok {
			existing[k] = struct{}{}
		}
	}
	return existing, nil
}

func (f *fakeNotifRepo) CreateDeliveries(ctx context.Context, sc model.Scope, deliveries []model.NotificationDelivery) ([]model.NotificationDelivery, error) {
	if f.stored == nil {
		f.stored = map[string]struct{}{}
	}
	var inserted []model.NotificationDelivery
	for _, d := range deliveries {
		if _, dup := f.stored[d.DedupeKey]; dup {
			continue
		}
		f.stored[d.DedupeKey] = struct{}{}
		inserted = append(inserted, d)
	}
	f.created = append(f.created, inserted...)
	return inserted, nil
}

// fakeTenantAnalytics only answers TenantSettings; the dispatcher never
// touches the event store.
type fakeTenantAnalytics struct {
	settings model.TenantSettings
	err      error
}

var _ analyticsRepo.Repository = &fakeTenantAnalytics{}

func (f *fakeTenantAnalytics) FunnelStats(ctx context.Context, sc model.Scope, opts analyticsRepo.FunnelStatsOptions) (model.FunnelStats, error) {
	return model.FunnelStats{}, nil
}

func (f *fakeTenantAnalytics) SecurityEventCount(ctx context.Context, sc model.Scope, opts analyticsRepo.SecurityEventOptions) (int64, error) {
	return 0, nil
}

func (f *fakeTenantAnalytics) ConversionBaseline(ctx context.Context, sc model.Scope, opts analyticsRepo.BaselineOptions) (model.ConversionBaseline, error) {
	return model.ConversionBaseline{}, analyticsRepo.ErrNotFound
}

func (f *fakeTenantAnalytics) TenantSettings(ctx context.Context, sc model.Scope) (model.TenantSettings, error) {
	if f.err != nil {
		return model.TenantSettings{}, f.err
	}
	return f.settings, nil
}

func newTestUsecase(repo *fakeNotifRepo, analytics *fakeTenantAnalytics, now time.Time) *usecase {
	if analytics == nil {
		analytics = &fakeTenantAnalytics{err: analyticsRepo.ErrNotFound}
	}
	return &usecase{
		l:         log.NewNop(),
		cfg:       config.EngineConfig{DefaultCooldown: 15 * time.Minute},
		repo:      repo,
		analytics: analytics,
		clock:     func() time.Time { return now },
	}
}

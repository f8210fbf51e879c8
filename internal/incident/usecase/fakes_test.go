package usecase

import (
	"context"
	"time"

	"github.com/LafyOjo/APIShield-Plus-sub000/config"
	analyticsRepo "github.com/LafyOjo/APIShield-Plus-sub000/internal/analytics/repository"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/incident/repository"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"
	"github.com/LafyOjo/APIShield-Plus-sub000/pkg/log"
)

func testEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		MinObservedSessions: 20,
		MinBaselineSessions: 50,
		BaselineLookback:    336 * time.Hour,
		ExtendedLookback:    672 * time.Hour,
		MaxAffectedPaths:    5,
		RecoveryWindow:      6 * time.Hour,
		ConversionWeight:    0.5,
		ErrorWeight:         0.3,
		ThreatWeight:        0.2,
		MitigatedRatio:      0.7,
		ResolvedRatio:       0.9,
		DefaultCooldown:     15 * time.Minute,
		LockTTL:             30 * time.Second,
	}
}

// fakeRepo is an in-memory incident repository recording every mutation.
type fakeRepo struct {
	incident      model.Incident
	detailErr     error
	prescriptions []model.Prescription

	upserted      []model.ImpactEstimate
	currentImpact *model.ImpactEstimate

	appended       []model.IncidentRecovery
	latestRecovery *model.IncidentRecovery

	updates []repository.UpdateOptions
}

var _ repository.Repository = &fakeRepo{}

func (f *fakeRepo) Detail(ctx context.Context, sc model.Scope, id string) (model.Incident, error) {
	if f.detailErr != nil {
		return model.Incident{}, f.detailErr
	}
	return f.incident, nil
}

func (f *fakeRepo) Update(ctx context.Context, sc model.Scope, opts repository.UpdateOptions) (model.Incident, error) {
	f.updates = append(f.updates, opts)
	if opts.Status != nil {
		f.incident.Status = *opts.Status
	}
	if opts.Summary != nil {
		f.incident.Summary = *opts.Summary
	}
	if opts.ImpactEstimateID != nil {
		f.incident.ImpactEstimateID = opts.ImpactEstimateID
	}
	return f.incident, nil
}

func (f *fakeRepo) ListPrescriptions(ctx context.Context, sc model.Scope, incidentID string) ([]model.Prescription, error) {
	return f.prescriptions, nil
}

func (f *fakeRepo) UpsertImpact(ctx context.Context, sc model.Scope, est model.ImpactEstimate) (model.ImpactEstimate, error) {
	f.upserted = append(f.upserted, est)
	f.currentImpact = &est
	return est, nil
}

func (f *fakeRepo) CurrentImpact(ctx context.Context, sc model.Scope, incidentID string) (model.ImpactEstimate, error) {
	if f.currentImpact == nil {
		return model.ImpactEstimate{}, repository.ErrNotFound
	}
	return *f.currentImpact, nil
}

func (f *fakeRepo) AppendRecovery(ctx context.Context, sc model.Scope, rec model.IncidentRecovery) (model.IncidentRecovery, error) {
	f.appended = append(f.appended, rec)
	f.latestRecovery = &rec
	return rec, nil
}

func (f *fakeRepo) LatestRecovery(ctx context.Context, sc model.Scope, incidentID string) (model.IncidentRecovery, error) {
	if f.latestRecovery == nil {
		return model.IncidentRecovery{}, repository.ErrNotFound
	}
	return *f.latestRecovery, nil
}

// fakeAnalytics answers event-store queries from configurable functions.
// Unset functions report not found / empty.
type fakeAnalytics struct {
	funnel   func(opts analyticsRepo.FunnelStatsOptions) (model.FunnelStats, error)
	security func(opts analyticsRepo.SecurityEventOptions) (int64, error)
	baseline func(opts analyticsRepo.BaselineOptions) (model.ConversionBaseline, error)
	settings func() (model.TenantSettings, error)
}

var _ analyticsRepo.Repository = &fakeAnalytics{}

func (f *fakeAnalytics) FunnelStats(ctx context.Context, sc model.Scope, opts analyticsRepo.FunnelStatsOptions) (model.FunnelStats, error) {
	if f.funnel == nil {
		return model.FunnelStats{}, nil
	}
	return f.funnel(opts)
}

func (f *fakeAnalytics) SecurityEventCount(ctx context.Context, sc model.Scope, opts analyticsRepo.SecurityEventOptions) (int64, error) {
	if f.security == nil {
		return 0, nil
	}
	return f.security(opts)
}

func (f *fakeAnalytics) ConversionBaseline(ctx context.Context, sc model.Scope, opts analyticsRepo.BaselineOptions) (model.ConversionBaseline, error) {
	if f.baseline == nil {
		return model.ConversionBaseline{}, analyticsRepo.ErrNotFound
	}
	return f.baseline(opts)
}

func (f *fakeAnalytics) TenantSettings(ctx context.Context, sc model.Scope) (model.TenantSettings, error) {
	if f.settings == nil {
		return model.TenantSettings{}, analyticsRepo.ErrNotFound
	}
	return f.settings()
}

// fakeLocker grants or denies every acquisition. onAcquire, when set, runs
// before the grant, standing in for work a concurrent holder finished first.
type fakeLocker struct {
	err       error
	acquired  []string
	onAcquire func()
}

func (f *fakeLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.onAcquire != nil {
		f.onAcquire()
	}
	f.acquired = append(f.acquired, key)
	return func() {}, nil
}

func newTestUsecase(repo *fakeRepo, analytics *fakeAnalytics, locker *fakeLocker, now time.Time) *usecase {
	return &usecase{
		l:         log.NewNop(),
		cfg:       testEngineConfig(),
		repo:      repo,
		analytics: analytics,
		locker:    locker,
		clock:     func() time.Time { return now },
	}
}

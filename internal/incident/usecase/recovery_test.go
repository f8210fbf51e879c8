package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analyticsRepo "github.com/LafyOjo/APIShield-Plus-sub000/internal/analytics/repository"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/incident"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"
)

func mitigatedAt(ts time.Time) []model.Prescription {
	return []model.Prescription{
		{ID: "p1", Action: "block offending ASN", AppliedAt: &ts},
	}
}

// recoveryAnalytics wires the three funnel windows and threat counts for the
// partial-recovery fixture: conversion back to 7.25% of an 8% baseline after
// a 2% incident trough, error rate down from 10% to 4% against a 2% baseline,
// and threat rate down from 0.5/min to 1/6 per minute.
func recoveryAnalytics(postStart, postEnd time.Time) *fakeAnalytics {
	return &fakeAnalytics{
		funnel: func(opts analyticsRepo.FunnelStatsOptions) (model.FunnelStats, error) {
			switch {
			case opts.From.Equal(postStart) && opts.To.Equal(postEnd):
				return model.FunnelStats{Sessions: 400, SubmitSessions: 29, ErrorSessions: 16}, nil
			case opts.From.Equal(testStart) && opts.To.Equal(testEnd):
				return model.FunnelStats{Sessions: 200, SubmitSessions: 4, ErrorSessions: 20}, nil
			default:
				return model.FunnelStats{Sessions: 1000, SubmitSessions: 80, ErrorSessions: 20}, nil
			}
		},
		security: func(opts analyticsRepo.SecurityEventOptions) (int64, error) {
			if opts.From.Equal(postStart) {
				return 60, nil
			}
			return 30, nil
		},
	}
}

func TestMeasureRecoveryPartial(t *testing.T) {
	inc := incidentWithPaths()
	inc.Status = model.IncidentStatusInvestigating

	postStart := testEnd
	postEnd := postStart.Add(6 * time.Hour)

	repo := &fakeRepo{
		incident:      inc,
		prescriptions: mitigatedAt(postStart),
	}
	locker := &fakeLocker{}
	uc := newTestUsecase(repo, recoveryAnalytics(postStart, postEnd), locker, testEvalClock)

	out, err := uc.MeasureRecovery(context.Background(), testScope, incident.MeasureRecoveryInput{IncidentID: inc.ID})
	require.NoError(t, err)
	require.NotNil(t, out.Recovery)

	rec := *out.Recovery
	// conversion 0.875, error reduction 0.75, threat reduction 2/3,
	// weighted 0.5/0.3/0.2.
	assert.InDelta(t, 0.7958, rec.RecoveryRatio, 0.001)
	assert.InDelta(t, 0.0725, rec.PostConversionRate, 1e-9)
	assert.InDelta(t, -0.06, rec.ChangeInErrors, 1e-9)
	assert.InDelta(t, -1.0/3, rec.ChangeInThreats, 1e-9)

	// Full volume trust plus two extra agreeing components.
	assert.InDelta(t, 0.7, rec.Confidence, 1e-9)

	assert.Equal(t, testEvalClock, rec.MeasuredAt)
	assert.Equal(t, postStart, rec.WindowStart)
	assert.Equal(t, postEnd, rec.WindowEnd)
	require.Len(t, repo.appended, 1)

	// 0.7958 crosses the mitigated threshold.
	assert.Equal(t, model.IncidentStatusMitigated, out.Status)
	assert.True(t, out.StatusChanged)
}

func TestMeasureRecoveryStable(t *testing.T) {
	inc := incidentWithPaths()
	inc.Status = model.IncidentStatusMitigated

	postStart := testEnd
	postEnd := postStart.Add(6 * time.Hour)

	repo := &fakeRepo{
		incident:      inc,
		prescriptions: mitigatedAt(postStart),
	}
	analytics := &fakeAnalytics{
		funnel: func(opts analyticsRepo.FunnelStatsOptions) (model.FunnelStats, error) {
			switch {
			case opts.From.Equal(postStart) && opts.To.Equal(postEnd):
				// Fully back to baseline.
				return model.FunnelStats{Sessions: 400, SubmitSessions: 32, ErrorSessions: 8}, nil
			case opts.From.Equal(testStart) && opts.To.Equal(testEnd):
				return model.FunnelStats{Sessions: 200, SubmitSessions: 4, ErrorSessions: 20}, nil
			default:
				return model.FunnelStats{Sessions: 1000, SubmitSessions: 80, ErrorSessions: 20}, nil
			}
		},
		security: func(opts analyticsRepo.SecurityEventOptions) (int64, error) {
			if opts.From.Equal(postStart) {
				return 0, nil
			}
			return 30, nil
		},
	}
	uc := newTestUsecase(repo, analytics, &fakeLocker{}, testEvalClock)

	out, err := uc.MeasureRecovery(context.Background(), testScope, incident.MeasureRecoveryInput{IncidentID: inc.ID})
	require.NoError(t, err)
	require.NotNil(t, out.Recovery)

	assert.InDelta(t, 1.0, out.Recovery.RecoveryRatio, 1e-9)
	assert.Equal(t, model.IncidentStatusResolved, out.Status)
	assert.True(t, out.StatusChanged)
}

// A concurrent evaluation can advance the incident between the initial read
// and the lock grant; the status evaluation must run against the reloaded
// incident, never the stale snapshot.
func TestMeasureRecoveryStatusNeverRegresses(t *testing.T) {
	inc := incidentWithPaths()
	inc.Status = model.IncidentStatusInvestigating

	postStart := testEnd
	postEnd := postStart.Add(6 * time.Hour)

	repo := &fakeRepo{
		incident:      inc,
		prescriptions: mitigatedAt(postStart),
	}
	locker := &fakeLocker{
		onAcquire: func() {
			repo.incident.Status = model.IncidentStatusResolved
		},
	}
	uc := newTestUsecase(repo, recoveryAnalytics(postStart, postEnd), locker, testEvalClock)

	out, err := uc.MeasureRecovery(context.Background(), testScope, incident.MeasureRecoveryInput{IncidentID: inc.ID})
	require.NoError(t, err)
	require.NotNil(t, out.Recovery)

	// Ratio 0.7958 would have advanced the stale investigating snapshot to
	// mitigated; the reloaded resolved incident stays put.
	assert.Equal(t, model.IncidentStatusResolved, out.Status)
	assert.False(t, out.StatusChanged)
	for _, u := range repo.updates {
		assert.Nil(t, u.Status)
	}
}

func TestMeasureRecoveryHonorsFreshManualFreeze(t *testing.T) {
	inc := incidentWithPaths()
	inc.Status = model.IncidentStatusInvestigating

	postStart := testEnd
	postEnd := postStart.Add(6 * time.Hour)

	repo := &fakeRepo{
		incident:      inc,
		prescriptions: mitigatedAt(postStart),
	}
	locker := &fakeLocker{
		onAcquire: func() {
			repo.incident.StatusManual = true
		},
	}
	uc := newTestUsecase(repo, recoveryAnalytics(postStart, postEnd), locker, testEvalClock)

	out, err := uc.MeasureRecovery(context.Background(), testScope, incident.MeasureRecoveryInput{IncidentID: inc.ID})
	require.NoError(t, err)
	require.NotNil(t, out.Recovery)

	assert.Equal(t, model.IncidentStatusInvestigating, out.Status)
	assert.False(t, out.StatusChanged)
	for _, u := range repo.updates {
		assert.Nil(t, u.Status)
	}
}

func TestMeasureRecoveryWithoutMitigation(t *testing.T) {
	inc := incidentWithPaths()
	inc.Status = model.IncidentStatusInvestigating

	repo := &fakeRepo{
		incident: inc,
		prescriptions: []model.Prescription{
			{ID: "p1", Action: "pending rollout"}, // never applied
		},
	}
	uc := newTestUsecase(repo, &fakeAnalytics{}, &fakeLocker{}, testEvalClock)

	out, err := uc.MeasureRecovery(context.Background(), testScope, incident.MeasureRecoveryInput{IncidentID: inc.ID})
	require.NoError(t, err)

	assert.Nil(t, out.Recovery)
	assert.Equal(t, model.IncidentStatusInvestigating, out.Status)
	assert.False(t, out.StatusChanged)
	assert.Empty(t, repo.appended)
}

func TestMeasureRecoveryNoPostTraffic(t *testing.T) {
	inc := incidentWithPaths()
	inc.Status = model.IncidentStatusInvestigating

	postStart := testEnd
	repo := &fakeRepo{
		incident:      inc,
		prescriptions: mitigatedAt(postStart),
	}
	analytics := &fakeAnalytics{
		funnel: func(opts analyticsRepo.FunnelStatsOptions) (model.FunnelStats, error) {
			return model.FunnelStats{}, nil
		},
	}
	uc := newTestUsecase(repo, analytics, &fakeLocker{}, testEvalClock)

	out, err := uc.MeasureRecovery(context.Background(), testScope, incident.MeasureRecoveryInput{IncidentID: inc.ID})
	require.NoError(t, err)

	assert.Nil(t, out.Recovery)
	assert.Empty(t, repo.appended)
}

func TestRecoveryConfidence(t *testing.T) {
	tests := []struct {
		name       string
		sessions   int64
		components []float64
		want       float64
	}{
		{
			name:       "thin traffic and one recovered signal",
			sessions:   10,
			components: []float64{0.9, 0.1, 0.2},
			want:       0.2 + 0.3*0.2,
		},
		{
			name:       "full volume, all signals agree",
			sessions:   500,
			components: []float64{0.9, 0.8, 0.7},
			want:       0.7,
		},
		{
			name:       "volume trust is capped",
			sessions:   5000,
			components: []float64{0.1, 0.1, 0.1},
			want:       0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recoveryConfidence(tt.sessions, 50, tt.components...)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

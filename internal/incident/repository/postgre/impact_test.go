package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/incident/repository"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"
	"github.com/LafyOjo/APIShield-Plus-sub000/pkg/log"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var repoNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func setupMockRepo(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *implRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := New(log.NewNop(), db)
	repo.clock = func() time.Time { return repoNow }

	return db, mock, repo
}

func TestUpsertImpact(t *testing.T) {
	db, mock, repo := setupMockRepo(t)
	defer db.Close()

	sc := model.Scope{TenantID: "2d1c9f6e-30a1-4a3e-9f8a-6f3d9c5b1a20"}
	est := model.ImpactEstimate{
		ID:                       "7b2e4f10-88aa-4c3e-b1d2-0f9e8d7c6b5a",
		IncidentID:               "b4f1c2d3-e4a5-4b6c-8d7e-9f0a1b2c3d4e",
		MetricKey:                model.MetricCheckoutConversion,
		WindowStart:              repoNow.Add(-2 * time.Hour),
		WindowEnd:                repoNow.Add(-time.Hour),
		ObservedRate:             0.02,
		BaselineRate:             0.10,
		DeltaRate:                -0.08,
		EstimatedLostConversions: 10,
		EstimatedLostRevenue:     null.Float64From(500),
		Confidence:               0.85,
		Explanation: model.ImpactExplanation{
			WindowStart: repoNow.Add(-2 * time.Hour),
			WindowEnd:   repoNow.Add(-time.Hour),
			Paths:       []string{"/checkout"},
		},
	}

	created := repoNow.Add(-30 * time.Minute)
	mock.ExpectQuery(`INSERT INTO impact_estimates`).
		WithArgs(
			est.ID, est.IncidentID, sc.TenantID, "checkout_conversion",
			est.WindowStart, est.WindowEnd,
			est.ObservedRate, est.BaselineRate, est.DeltaRate,
			est.EstimatedLostConversions, est.EstimatedLostRevenue,
			est.Confidence, est.Explanation, repoNow,
		).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(est.ID, created, repoNow))

	got, err := repo.UpsertImpact(context.Background(), sc, est)

	require.NoError(t, err)
	assert.Equal(t, est.ID, got.ID)
	assert.Equal(t, sc.TenantID, got.TenantID)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, repoNow, got.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCurrentImpactNotFound(t *testing.T) {
	db, mock, repo := setupMockRepo(t)
	defer db.Close()

	sc := model.Scope{TenantID: "2d1c9f6e-30a1-4a3e-9f8a-6f3d9c5b1a20"}
	mock.ExpectQuery(`FROM impact_estimates`).
		WithArgs("b4f1c2d3-e4a5-4b6c-8d7e-9f0a1b2c3d4e", sc.TenantID).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.CurrentImpact(context.Background(), sc, "b4f1c2d3-e4a5-4b6c-8d7e-9f0a1b2c3d4e")

	assert.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestRecovery(t *testing.T) {
	db, mock, repo := setupMockRepo(t)
	defer db.Close()

	sc := model.Scope{TenantID: "2d1c9f6e-30a1-4a3e-9f8a-6f3d9c5b1a20"}
	incidentID := "b4f1c2d3-e4a5-4b6c-8d7e-9f0a1b2c3d4e"
	measured := repoNow.Add(-15 * time.Minute)

	rows := sqlmock.NewRows([]string{
		"id", "incident_id", "tenant_id", "measured_at", "window_start", "window_end",
		"post_conversion_rate", "change_in_errors", "change_in_threats",
		"recovery_ratio", "confidence", "created_at",
	}).AddRow(
		"9a8b7c6d-5e4f-4a3b-2c1d-0e9f8a7b6c5d", incidentID, sc.TenantID,
		measured, measured.Add(-30*time.Minute), measured,
		0.0725, -0.06, -0.33,
		0.79, 0.7, measured,
	)

	mock.ExpectQuery(`FROM incident_recoveries`).
		WithArgs(incidentID, sc.TenantID).
		WillReturnRows(rows)

	rec, err := repo.LatestRecovery(context.Background(), sc, incidentID)

	require.NoError(t, err)
	assert.Equal(t, incidentID, rec.IncidentID)
	assert.Equal(t, measured, rec.MeasuredAt)
	assert.InDelta(t, 0.79, rec.RecoveryRatio, 1e-9)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestRecoveryNotFound(t *testing.T) {
	db, mock, repo := setupMockRepo(t)
	defer db.Close()

	sc := model.Scope{TenantID: "2d1c9f6e-30a1-4a3e-9f8a-6f3d9c5b1a20"}
	mock.ExpectQuery(`FROM incident_recoveries`).
		WithArgs("b4f1c2d3-e4a5-4b6c-8d7e-9f0a1b2c3d4e", sc.TenantID).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.LatestRecovery(context.Background(), sc, "b4f1c2d3-e4a5-4b6c-8d7e-9f0a1b2c3d4e")

	assert.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

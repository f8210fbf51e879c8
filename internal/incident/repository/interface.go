package repository

import (
	"context"
	"errors"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"
)

// ErrNotFound is returned when no matching row exists.
var ErrNotFound = errors.New("not found")

// Repository persists incidents and their derived records. Impact estimates
// are a single current row per incident (upserted in place); recovery
// measurements are append-only.
//
//go:generate mockery --name Repository
type Repository interface {
	Detail(ctx context.Context, sc model.Scope, id string) (model.Incident, error)
	Update(ctx context.Context, sc model.Scope, opts UpdateOptions) (model.Incident, error)
	ListPrescriptions(ctx context.Context, sc model.Scope, incidentID string) ([]model.Prescription, error)

	UpsertImpact(ctx context.Context, sc model.Scope, est model.ImpactEstimate) (model.ImpactEstimate, error)
	CurrentImpact(ctx context.Context, sc model.Scope, incidentID string) (model.ImpactEstimate, error)

	AppendRecovery(ctx context.Context, sc model.Scope, rec model.IncidentRecovery) (model.IncidentRecovery, error)
	LatestRecovery(ctx context.Context, sc model.Scope, incidentID string) (model.IncidentRecovery, error)
}

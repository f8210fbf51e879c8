package repository

import (
	"context"
	"errors"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"
)

// ErrNotFound is returned when no matching row exists.
var ErrNotFound = errors.New("not found")

// Repository reads the ingestion-owned stores this engine consumes:
// raw funnel events, security events, pre-aggregated conversion baselines
// and tenant settings. All methods are read-only.
//
//go:generate mockery --name Repository
type Repository interface {
	FunnelStats(ctx context.Context, sc model.Scope, opts FunnelStatsOptions) (model.FunnelStats, error)
	SecurityEventCount(ctx context.Context, sc model.Scope, opts SecurityEventOptions) (int64, error)
	ConversionBaseline(ctx context.Context, sc model.Scope, opts BaselineOptions) (model.ConversionBaseline, error)
	TenantSettings(ctx context.Context, sc model.Scope) (model.TenantSettings, error)
}

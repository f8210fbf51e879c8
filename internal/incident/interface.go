package incident

import (
	"context"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"
)

// UseCase drives an incident through impact estimation, recovery
// measurement and automatic status advancement. Both operations treat
// "not enough signal" as a nil result, never an error.
//
//go:generate mockery --name UseCase
type UseCase interface {
	EstimateImpact(ctx context.Context, sc model.Scope, ip EstimateImpactInput) (EstimateImpactOutput, error)
	MeasureRecovery(ctx context.Context, sc model.Scope, ip MeasureRecoveryInput) (MeasureRecoveryOutput, error)
}

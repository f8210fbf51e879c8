package notification

import (
	"context"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"
)

// UseCase evaluates notification rules against an event and records
// deduplicated deliveries for an external send worker.
//
//go:generate mockery --name UseCase
type UseCase interface {
	Dispatch(ctx context.Context, sc model.Scope, ip DispatchInput) (DispatchOutput, error)
}

package repository

import (
	"context"
	"errors"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"
)

var ErrNotFound = errors.New("not found")

// Repository reads notification configuration and records deliveries.
// Rules and channels are owned by the configuration surface; this engine
// only reads them.
//
//go:generate mockery --name Repository
type Repository interface {
	ListRules(ctx context.Context, sc model.Scope, opts ListRulesOptions) ([]model.NotificationRule, error)
	ListChannels(ctx context.Context, sc model.Scope, ids []string) ([]model.NotificationChannel, error)

	// ExistingDedupeKeys returns the subset of keys that already have a
	// delivery row for the tenant.
	ExistingDedupeKeys(ctx context.Context, sc model.Scope, keys []string) (map[string]struct{}, error)

	// CreateDeliveries inserts the given deliveries, silently dropping any
	// that lose a dedupe race. It returns the rows actually inserted.
	CreateDeliveries(ctx context.Context, sc model.Scope, deliveries []model.NotificationDelivery) ([]model.NotificationDelivery, error)
}

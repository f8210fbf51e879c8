package repository

import "github.com/LafyOjo/APIShield-Plus-sub000/internal/model"

// ListRulesOptions filters the tenant's notification rules.
type ListRulesOptions struct {
	Trigger     model.TriggerType
	EnabledOnly bool
}

package repository

import "github.com/LafyOjo/APIShield-Plus-sub000/internal/model"

// UpdateOptions mutates an incident. Only non-nil fields are written.
// Status updates never touch StatusManual; clearing that flag is an
// operator action outside this engine.
type UpdateOptions struct {
	ID               string
	Status           *model.IncidentStatus
	Summary          *string
	ImpactEstimateID *string
}

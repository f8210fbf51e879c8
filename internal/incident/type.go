package incident

import (
	"time"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"
)

type EstimateImpactInput struct {
	IncidentID string
}

// EstimateImpactOutput carries the persisted estimate (nil when the incident
// window lacks enough sessions to measure) and the status the incident holds
// after evaluation.
type EstimateImpactOutput struct {
	Estimate      *model.ImpactEstimate
	Status        model.IncidentStatus
	StatusChanged bool
}

type MeasureRecoveryInput struct {
	IncidentID string
	// Window is the post-mitigation measurement length. Zero means the
	// configured default.
	Window time.Duration
}

// MeasureRecoveryOutput carries the appended measurement (nil when no
// mitigation has been applied or the post-window has no traffic) and the
// status the incident holds after evaluation.
type MeasureRecoveryOutput struct {
	Recovery      *model.IncidentRecovery
	Status        model.IncidentStatus
	StatusChanged bool
}

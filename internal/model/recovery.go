package model

import "time"

// IncidentRecovery is one post-mitigation measurement for an incident.
// Rows are append-only; the latest measurement is the one with the greatest
// MeasuredAt. Collapsing these into a single row would lose the time series
// needed for stability checks.
type IncidentRecovery struct {
	ID                 string    `json:"id"`
	IncidentID         string    `json:"incident_id"`
	TenantID           string    `json:"tenant_id"`
	MeasuredAt         time.Time `json:"measured_at"`
	WindowStart        time.Time `json:"window_start"`
	WindowEnd          time.Time `json:"window_end"`
	PostConversionRate float64   `json:"post_conversion_rate"`
	ChangeInErrors     float64   `json:"change_in_errors"`
	ChangeInThreats    float64   `json:"change_in_threats"`
	RecoveryRatio      float64   `json:"recovery_ratio"`
	Confidence         float64   `json:"confidence"`
	CreatedAt          time.Time `json:"created_at"`
}

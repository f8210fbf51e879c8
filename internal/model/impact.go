package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aarondl/null/v8"
)

// MetricKey identifies which conversion funnel an impact estimate measures.
type MetricKey string

const (
	MetricCheckoutConversion MetricKey = "checkout_conversion"
	MetricSignupConversion   MetricKey = "signup_conversion"
	MetricLoginConversion    MetricKey = "login_conversion"
	MetricGenericConversion  MetricKey = "generic_conversion"
)

// BaselineSource records which data backed the baseline rate.
type BaselineSource string

const (
	// BaselineSourceAggregate means a pre-aggregated conversion metric row was used.
	BaselineSourceAggregate BaselineSource = "aggregate"
	// BaselineSourceEvents means the baseline was computed from raw funnel events.
	BaselineSourceEvents BaselineSource = "events"
)

// ConfidenceFactor is one additive contribution to the confidence score,
// kept for auditability.
type ConfidenceFactor struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// ImpactExplanation is the structured audit record for an impact estimate:
// the window and paths evaluated, both sides of the comparison, and the
// confidence factor breakdown.
type ImpactExplanation struct {
	WindowStart      time.Time          `json:"window_start"`
	WindowEnd        time.Time          `json:"window_end"`
	Paths            []string           `json:"paths"`
	BaselineSource   BaselineSource     `json:"baseline_source"`
	LookbackDays     int                `json:"lookback_days"`
	Observed         FunnelStats        `json:"observed"`
	Baseline         FunnelStats        `json:"baseline"`
	Factors          []ConfidenceFactor `json:"factors"`
	SignalsPerMinute float64            `json:"signals_per_minute"`
}

// Value implements driver.Valuer.
func (e ImpactExplanation) Value() (driver.Value, error) {
	return json.Marshal(e)
}

// Scan implements sql.Scanner.
func (e *ImpactExplanation) Scan(src any) error {
	if src == nil {
		*e = ImpactExplanation{}
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("impact explanation: unsupported scan type %T", src)
	}
	return json.Unmarshal(data, e)
}

// ImpactEstimate quantifies the business impact of an incident by comparing
// observed conversion-funnel behavior against a baseline. Each incident owns
// exactly one current estimate; recomputation overwrites it in place.
type ImpactEstimate struct {
	ID                       string            `json:"id"`
	IncidentID               string            `json:"incident_id"`
	TenantID                 string            `json:"tenant_id"`
	MetricKey                MetricKey         `json:"metric_key"`
	WindowStart              time.Time         `json:"window_start"`
	WindowEnd                time.Time         `json:"window_end"`
	ObservedRate             float64           `json:"observed_rate"`
	BaselineRate             float64           `json:"baseline_rate"`
	DeltaRate                float64           `json:"delta_rate"`
	EstimatedLostConversions float64           `json:"estimated_lost_conversions"`
	EstimatedLostRevenue     null.Float64      `json:"estimated_lost_revenue,omitempty"`
	Confidence               float64           `json:"confidence"`
	Explanation              ImpactExplanation `json:"explanation"`
	CreatedAt                time.Time         `json:"created_at"`
	UpdatedAt                time.Time         `json:"updated_at"`
}

// DeltaPercent returns the relative conversion drop as a positive
// percentage, or zero when there is no drop or no baseline.
func (e ImpactEstimate) DeltaPercent() float64 {
	if e.BaselineRate <= 0 || e.DeltaRate >= 0 {
		return 0
	}
	return -e.DeltaRate / e.BaselineRate * 100
}

package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aarondl/null/v8"
)

// PayloadKind discriminates the delivery payload union.
type PayloadKind string

const (
	PayloadKindIncident       PayloadKind = "incident"
	PayloadKindConversionDrop PayloadKind = "conversion_drop"
	PayloadKindSecuritySpike  PayloadKind = "security_spike"
)

// CountItem is one key with its count in a top-N breakdown.
type CountItem struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// ImpactFigures are the impact-estimate numbers embedded in payloads.
type ImpactFigures struct {
	MetricKey       MetricKey    `json:"metric_key"`
	ObservedRate    float64      `json:"observed_rate"`
	BaselineRate    float64      `json:"baseline_rate"`
	DeltaPercent    float64      `json:"delta_percent"`
	LostConversions float64      `json:"lost_conversions"`
	LostRevenue     null.Float64 `json:"lost_revenue,omitempty"`
	Confidence      float64      `json:"confidence"`
}

// IncidentPayload summarizes an incident for channel-agnostic delivery.
type IncidentPayload struct {
	IncidentID  string           `json:"incident_id"`
	Category    IncidentCategory `json:"category"`
	Severity    IncidentSeverity `json:"severity"`
	Status      IncidentStatus   `json:"status"`
	Summary     string           `json:"summary,omitempty"`
	FirstSeenAt time.Time        `json:"first_seen_at"`
	Paths       []string         `json:"paths,omitempty"`
	Impact      *ImpactFigures   `json:"impact,omitempty"`
}

// ConversionDropPayload carries conversion-drop figures.
type ConversionDropPayload struct {
	MetricKey    MetricKey `json:"metric_key"`
	WindowStart  time.Time `json:"window_start"`
	WindowEnd    time.Time `json:"window_end"`
	ObservedRate float64   `json:"observed_rate"`
	BaselineRate float64   `json:"baseline_rate"`
	DeltaPercent float64   `json:"delta_percent"`
	Confidence   float64   `json:"confidence"`
	Paths        []string  `json:"paths,omitempty"`
}

// SecuritySpikePayload carries top-N breakdowns for a security spike. City
// and ASN breakdowns are stripped for tenants without city-level geo
// entitlement before the payload is persisted.
type SecuritySpikePayload struct {
	Category       IncidentCategory `json:"category"`
	CountPerMinute float64          `json:"count_per_minute"`
	TopPaths       []CountItem      `json:"top_paths,omitempty"`
	TopCountries   []CountItem      `json:"top_countries,omitempty"`
	TopCities      []CountItem      `json:"top_cities,omitempty"`
	TopASNs        []CountItem      `json:"top_asns,omitempty"`
}

// DeliveryPayload is a tagged union: exactly the member matching Kind is set.
type DeliveryPayload struct {
	Kind           PayloadKind            `json:"kind"`
	Incident       *IncidentPayload       `json:"incident,omitempty"`
	ConversionDrop *ConversionDropPayload `json:"conversion_drop,omitempty"`
	SecuritySpike  *SecuritySpikePayload  `json:"security_spike,omitempty"`
}

// Validate checks the union invariant.
func (p DeliveryPayload) Validate() error {
	switch p.Kind {
	case PayloadKindIncident:
		if p.Incident == nil {
			return fmt.Errorf("incident payload missing for kind %q", p.Kind)
		}
	case PayloadKindConversionDrop:
		if p.ConversionDrop == nil {
			return fmt.Errorf("conversion drop payload missing for kind %q", p.Kind)
		}
	case PayloadKindSecuritySpike:
		if p.SecuritySpike == nil {
			return fmt.Errorf("security spike payload missing for kind %q", p.Kind)
		}
	default:
		return fmt.Errorf("unknown payload kind %q", p.Kind)
	}
	return nil
}

// Value implements driver.Valuer.
func (p DeliveryPayload) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner.
func (p *DeliveryPayload) Scan(src any) error {
	return scanJSON(src, p, "delivery payload")
}

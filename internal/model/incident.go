package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// IncidentStatus represents the lifecycle state of an incident.
// Automatic transitions only ever move forward.
type IncidentStatus string

const (
	IncidentStatusOpen          IncidentStatus = "open"
	IncidentStatusInvestigating IncidentStatus = "investigating"
	IncidentStatusMitigated     IncidentStatus = "mitigated"
	IncidentStatusResolved      IncidentStatus = "resolved"
)

// IsValid checks if the incident status is valid.
func (s IncidentStatus) IsValid() bool {
	switch s {
	case IncidentStatusOpen,
		IncidentStatusInvestigating,
		IncidentStatusMitigated,
		IncidentStatusResolved:
		return true
	default:
		return false
	}
}

// Rank returns the ordinal position of the status in the lifecycle.
// Unknown statuses rank lowest.
func (s IncidentStatus) Rank() int {
	switch s {
	case IncidentStatusOpen:
		return 0
	case IncidentStatusInvestigating:
		return 1
	case IncidentStatusMitigated:
		return 2
	case IncidentStatusResolved:
		return 3
	default:
		return -1
	}
}

// String returns the string representation of the status.
func (s IncidentStatus) String() string {
	return string(s)
}

// IncidentSeverity represents how severe an incident is.
type IncidentSeverity string

const (
	SeverityLow      IncidentSeverity = "low"
	SeverityMedium   IncidentSeverity = "medium"
	SeverityHigh     IncidentSeverity = "high"
	SeverityCritical IncidentSeverity = "critical"
)

// IsValid checks if the severity is valid.
func (s IncidentSeverity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	default:
		return false
	}
}

// Rank returns the ordinal position of the severity (low < medium < high < critical).
// Unknown severities rank lowest.
func (s IncidentSeverity) Rank() int {
	switch s {
	case SeverityLow:
		return 0
	case SeverityMedium:
		return 1
	case SeverityHigh:
		return 2
	case SeverityCritical:
		return 3
	default:
		return -1
	}
}

// IncidentCategory classifies the kind of anomaly the incident captures.
type IncidentCategory string

const (
	CategoryLogin        IncidentCategory = "login"
	CategoryThreat       IncidentCategory = "threat"
	CategoryIntegrity    IncidentCategory = "integrity"
	CategoryPerformance  IncidentCategory = "performance"
	CategoryAvailability IncidentCategory = "availability"
)

// PathCount is one affected request path together with how often it appeared
// in the incident's evidence.
type PathCount struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

// IncidentEvidence is the structured form of the incident's evidence blob:
// signal counts by type and affected request paths. It is parsed and
// validated at the storage boundary; business logic never sees raw JSON.
type IncidentEvidence struct {
	SignalCounts map[string]int64 `json:"signal_counts,omitempty"`
	Paths        []PathCount      `json:"paths,omitempty"`
}

// Validate rejects evidence with negative counts or empty path entries.
func (e IncidentEvidence) Validate() error {
	for signal, count := range e.SignalCounts {
		if signal == "" {
			return fmt.Errorf("evidence signal type cannot be empty")
		}
		if count < 0 {
			return fmt.Errorf("evidence signal %q has negative count", signal)
		}
	}
	for _, p := range e.Paths {
		if p.Path == "" {
			return fmt.Errorf("evidence path cannot be empty")
		}
		if p.Count < 0 {
			return fmt.Errorf("evidence path %q has negative count", p.Path)
		}
	}
	return nil
}

// TopPaths returns up to limit affected paths, most frequent first.
// Ties break lexically so the result is deterministic.
func (e IncidentEvidence) TopPaths(limit int) []string {
	paths := make([]PathCount, len(e.Paths))
	copy(paths, e.Paths)
	sort.Slice(paths, func(i, j int) bool {
		if paths[i].Count != paths[j].Count {
			return paths[i].Count > paths[j].Count
		}
		return paths[i].Path < paths[j].Path
	})

	if limit > 0 && len(paths) > limit {
		paths = paths[:limit]
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p.Path
	}
	return out
}

// TotalSignals returns the sum of all evidence signal counts.
func (e IncidentEvidence) TotalSignals() int64 {
	var total int64
	for _, count := range e.SignalCounts {
		total += count
	}
	return total
}

// Value implements driver.Valuer, serializing the evidence as JSON.
func (e IncidentEvidence) Value() (driver.Value, error) {
	return json.Marshal(e)
}

// Scan implements sql.Scanner, parsing and validating the evidence blob.
func (e *IncidentEvidence) Scan(src any) error {
	if src == nil {
		*e = IncidentEvidence{}
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("incident evidence: unsupported scan type %T", src)
	}
	var parsed IncidentEvidence
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("incident evidence: %w", err)
	}
	if err := parsed.Validate(); err != nil {
		return fmt.Errorf("incident evidence: %w", err)
	}
	*e = parsed
	return nil
}

// Incident is a time-bounded record of anomalous behavior on a tenant's
// website. Created by upstream anomaly aggregation; this engine mutates its
// status, summary and impact-estimate reference.
type Incident struct {
	ID               string           `json:"id"`
	TenantID         string           `json:"tenant_id"`
	WebsiteID        string           `json:"website_id"`
	EnvironmentID    string           `json:"environment_id"`
	Category         IncidentCategory `json:"category"`
	Severity         IncidentSeverity `json:"severity"`
	Status           IncidentStatus   `json:"status"`
	StatusManual     bool             `json:"status_manual"`
	Summary          string           `json:"summary,omitempty"`
	FirstSeenAt      time.Time        `json:"first_seen_at"`
	LastSeenAt       time.Time        `json:"last_seen_at"`
	Evidence         IncidentEvidence `json:"evidence"`
	ImpactEstimateID *string          `json:"impact_estimate_id,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// Window returns the incident window with inverted bounds swapped and the
// duration floored to one minute.
func (i Incident) Window() (start, end time.Time, minutes float64) {
	start, end = i.FirstSeenAt, i.LastSeenAt
	if end.Before(start) {
		start, end = end, start
	}
	minutes = end.Sub(start).Minutes()
	if minutes < 1 {
		minutes = 1
	}
	return start, end, minutes
}

// Prescription is an operator-facing remediation action attached to an
// incident. Its AppliedAt timestamp anchors the recovery monitor's
// post-mitigation window.
type Prescription struct {
	ID         string     `json:"id"`
	IncidentID string     `json:"incident_id"`
	TenantID   string     `json:"tenant_id"`
	Action     string     `json:"action"`
	AppliedAt  *time.Time `json:"applied_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

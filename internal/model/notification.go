package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/aarondl/null/v8"
)

// TriggerType is the closed set of events a notification rule can match.
type TriggerType string

const (
	TriggerIncidentCreated   TriggerType = "incident_created"
	TriggerSeverityThreshold TriggerType = "severity_threshold"
	TriggerConversionDrop    TriggerType = "conversion_drop"
	TriggerSecuritySpike     TriggerType = "security_spike"
)

// IsValid checks if the trigger type is valid.
func (t TriggerType) IsValid() bool {
	switch t {
	case TriggerIncidentCreated, TriggerSeverityThreshold,
		TriggerConversionDrop, TriggerSecuritySpike:
		return true
	default:
		return false
	}
}

// RuleFilters narrows which events a rule applies to. Zero values mean
// "match anything" for that dimension.
type RuleFilters struct {
	WebsiteID     string             `json:"website_id,omitempty"`
	EnvironmentID string             `json:"environment_id,omitempty"`
	Categories    []IncidentCategory `json:"categories,omitempty"`
	SeverityMin   IncidentSeverity   `json:"severity_min,omitempty"`
	PathPatterns  []string           `json:"path_patterns,omitempty"`
}

// Validate rejects unknown severities and malformed glob patterns.
func (f RuleFilters) Validate() error {
	if f.SeverityMin != "" && !f.SeverityMin.IsValid() {
		return fmt.Errorf("unknown severity_min %q", f.SeverityMin)
	}
	for _, pattern := range f.PathPatterns {
		if pattern == "" {
			return fmt.Errorf("path pattern cannot be empty")
		}
		if _, err := path.Match(pattern, "/"); err != nil {
			return fmt.Errorf("malformed path pattern %q", pattern)
		}
	}
	return nil
}

// Value implements driver.Valuer.
func (f RuleFilters) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// Scan implements sql.Scanner.
func (f *RuleFilters) Scan(src any) error {
	return scanJSON(src, f, "rule filters")
}

// RuleThresholds are the numeric gates a matching event must meet or exceed.
// Nil thresholds are not evaluated; a present threshold with no corresponding
// context value fails the match.
type RuleThresholds struct {
	CountPerMinute  *float64 `json:"count_per_minute,omitempty"`
	DeltaPercent    *float64 `json:"delta_percent,omitempty"`
	LostRevenueMin  *float64 `json:"lost_revenue_min,omitempty"`
	ConfidenceMin   *float64 `json:"confidence_min,omitempty"`
	CooldownSeconds int64    `json:"cooldown_seconds,omitempty"`
}

// Validate rejects negative thresholds and out-of-range confidence floors.
// A zero cooldown is allowed here; the dispatcher substitutes the default.
func (t RuleThresholds) Validate() error {
	for name, v := range map[string]*float64{
		"count_per_minute": t.CountPerMinute,
		"delta_percent":    t.DeltaPercent,
		"lost_revenue_min": t.LostRevenueMin,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("threshold %s cannot be negative", name)
		}
	}
	if t.ConfidenceMin != nil && (*t.ConfidenceMin < 0 || *t.ConfidenceMin > 1) {
		return fmt.Errorf("threshold confidence_min must be in [0, 1]")
	}
	if t.CooldownSeconds < 0 {
		return fmt.Errorf("cooldown_seconds cannot be negative")
	}
	return nil
}

// Value implements driver.Valuer.
func (t RuleThresholds) Value() (driver.Value, error) {
	return json.Marshal(t)
}

// Scan implements sql.Scanner.
func (t *RuleThresholds) Scan(src any) error {
	return scanJSON(src, t, "rule thresholds")
}

// QuietRange is a time-of-day range in "15:04" notation. Start after End
// means the range wraps midnight (e.g. 22:00-06:00).
type QuietRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// QuietHours suppresses sending (but not recording) of matching deliveries
// during the configured time-of-day ranges, evaluated in the rule's timezone.
type QuietHours struct {
	Timezone string       `json:"timezone,omitempty"`
	Ranges   []QuietRange `json:"ranges,omitempty"`
}

const quietTimeLayout = "15:04"

func parseMinuteOfDay(s string) (int, error) {
	t, err := time.Parse(quietTimeLayout, s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Validate checks the timezone and every range parses.
func (q QuietHours) Validate() error {
	if len(q.Ranges) == 0 {
		return nil
	}
	if q.Timezone != "" {
		if _, err := time.LoadLocation(q.Timezone); err != nil {
			return fmt.Errorf("unknown timezone %q", q.Timezone)
		}
	}
	for _, r := range q.Ranges {
		if _, err := parseMinuteOfDay(r.Start); err != nil {
			return fmt.Errorf("malformed quiet range start %q", r.Start)
		}
		if _, err := parseMinuteOfDay(r.End); err != nil {
			return fmt.Errorf("malformed quiet range end %q", r.End)
		}
	}
	return nil
}

// Covers reports whether t falls inside any quiet range, evaluated in the
// configured timezone (UTC when unset). An identical start and end covers
// nothing.
func (q QuietHours) Covers(t time.Time) (bool, error) {
	if len(q.Ranges) == 0 {
		return false, nil
	}

	loc := time.UTC
	if q.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(q.Timezone)
		if err != nil {
			return false, fmt.Errorf("unknown timezone %q", q.Timezone)
		}
	}

	local := t.In(loc)
	minute := local.Hour()*60 + local.Minute()

	for _, r := range q.Ranges {
		start, err := parseMinuteOfDay(r.Start)
		if err != nil {
			return false, fmt.Errorf("malformed quiet range start %q", r.Start)
		}
		end, err := parseMinuteOfDay(r.End)
		if err != nil {
			return false, fmt.Errorf("malformed quiet range end %q", r.End)
		}

		switch {
		case start == end:
			continue
		case start < end:
			if minute >= start && minute < end {
				return true, nil
			}
		default: // wraps midnight
			if minute >= start || minute < end {
				return true, nil
			}
		}
	}
	return false, nil
}

// Value implements driver.Valuer.
func (q QuietHours) Value() (driver.Value, error) {
	return json.Marshal(q)
}

// Scan implements sql.Scanner.
func (q *QuietHours) Scan(src any) error {
	return scanJSON(src, q, "quiet hours")
}

// NotificationRule is an operator-configured subscription: when an event of
// TriggerType matching the filters and thresholds occurs, deliveries are
// produced for each channel. Read-only to this engine.
type NotificationRule struct {
	ID         string         `json:"id"`
	TenantID   string         `json:"tenant_id"`
	Trigger    TriggerType    `json:"trigger_type"`
	Enabled    bool           `json:"enabled"`
	Filters    RuleFilters    `json:"filters"`
	Thresholds RuleThresholds `json:"thresholds"`
	QuietHours QuietHours     `json:"quiet_hours"`
	ChannelIDs []string       `json:"channel_ids"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Validate checks the whole rule configuration. The dispatcher skips rules
// that fail this instead of aborting the batch.
func (r NotificationRule) Validate() error {
	if !r.Trigger.IsValid() {
		return fmt.Errorf("unknown trigger type %q", r.Trigger)
	}
	if err := r.Filters.Validate(); err != nil {
		return err
	}
	if err := r.Thresholds.Validate(); err != nil {
		return err
	}
	return r.QuietHours.Validate()
}

// NotificationChannel is a tenant-owned destination (Slack, webhook, email).
// The secret config and the actual send are handled by an external worker.
type NotificationChannel struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Type     string `json:"type"`
	Enabled  bool   `json:"enabled"`
}

// DeliveryStatus tracks a notification delivery through the send pipeline.
type DeliveryStatus string

const (
	DeliveryStatusQueued  DeliveryStatus = "queued"
	DeliveryStatusSkipped DeliveryStatus = "skipped"
	DeliveryStatusSent    DeliveryStatus = "sent"
	DeliveryStatusFailed  DeliveryStatus = "failed"
)

// SkipReasonQuietHours marks deliveries recorded during quiet hours.
const SkipReasonQuietHours = "quiet_hours"

// NotificationDelivery is one at-most-once notification for a
// (rule, channel, context, cooldown bucket). (tenant_id, dedupe_key) is
// unique in storage; an external worker moves queued rows to sent/failed.
type NotificationDelivery struct {
	ID        string          `json:"id"`
	TenantID  string          `json:"tenant_id"`
	RuleID    string          `json:"rule_id"`
	ChannelID string          `json:"channel_id"`
	DedupeKey string          `json:"dedupe_key"`
	Status    DeliveryStatus  `json:"status"`
	Error     null.String     `json:"error,omitempty"`
	Payload   DeliveryPayload `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	SentAt    null.Time       `json:"sent_at,omitempty"`
}

func scanJSON(src any, dst any, what string) error {
	if src == nil {
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("%s: unsupported scan type %T", what, src)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}

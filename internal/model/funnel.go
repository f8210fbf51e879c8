package model

import "time"

// FunnelStats holds distinct-session counts for a site/path set over a
// window, as reported by the event store.
type FunnelStats struct {
	Sessions       int64 `json:"sessions"`
	SubmitSessions int64 `json:"submit_sessions"`
	ErrorSessions  int64 `json:"error_sessions"`
}

// ConversionRate returns form-submit sessions over page-view sessions,
// or zero when there were no sessions.
func (f FunnelStats) ConversionRate() float64 {
	if f.Sessions == 0 {
		return 0
	}
	return float64(f.SubmitSessions) / float64(f.Sessions)
}

// ErrorRate returns error sessions over page-view sessions, or zero when
// there were no sessions.
func (f FunnelStats) ErrorRate() float64 {
	if f.Sessions == 0 {
		return 0
	}
	return float64(f.ErrorSessions) / float64(f.Sessions)
}

// ConversionBaseline is a pre-aggregated conversion metric row maintained by
// the ingestion pipeline. When present it is preferred over raw baseline
// funnel stats.
type ConversionBaseline struct {
	TenantID             string    `json:"tenant_id"`
	WebsiteID            string    `json:"website_id"`
	EnvironmentID        string    `json:"environment_id"`
	MetricKey            MetricKey `json:"metric_key"`
	WindowStart          time.Time `json:"window_start"`
	WindowEnd            time.Time `json:"window_end"`
	Sessions             int64     `json:"sessions"`
	Conversions          int64     `json:"conversions"`
	RevenuePerConversion *float64  `json:"revenue_per_conversion,omitempty"`
}

// ConversionRate returns conversions over sessions, or zero when empty.
func (b ConversionBaseline) ConversionRate() float64 {
	if b.Sessions == 0 {
		return 0
	}
	return float64(b.Conversions) / float64(b.Sessions)
}

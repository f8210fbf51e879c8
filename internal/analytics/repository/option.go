package repository

import (
	"time"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"
)

// FunnelStatsOptions selects distinct-session funnel counts for a window.
// An empty Paths slice means no path restriction.
type FunnelStatsOptions struct {
	WebsiteID     string
	EnvironmentID string
	Paths         []string
	From          time.Time
	To            time.Time
}

// SecurityEventOptions selects security-event counts for a window.
// An empty Category counts every category.
type SecurityEventOptions struct {
	Category model.IncidentCategory
	From     time.Time
	To       time.Time
}

// BaselineOptions selects pre-aggregated conversion metric rows overlapping
// a window for one metric key on one site/environment.
type BaselineOptions struct {
	MetricKey     model.MetricKey
	WebsiteID     string
	EnvironmentID string
	From          time.Time
	To            time.Time
}

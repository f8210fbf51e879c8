package notification

import (
	"fmt"
	"time"

	"github.com/aarondl/null/v8"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"
)

// EventContext carries everything a rule can match on for a single
// triggering event. Metric fields are null when the trigger does not
// produce them; a threshold on an absent metric never matches.
type EventContext struct {
	IncidentID    string
	ImpactID      string
	WebsiteID     string
	EnvironmentID string

	Category model.IncidentCategory
	Severity model.IncidentSeverity
	Status   model.IncidentStatus
	Summary  string
	Paths    []string

	FirstSeenAt time.Time
	OccurredAt  time.Time

	CountPerMinute null.Float64
	DeltaPercent   null.Float64
	LostRevenue    null.Float64
	Confidence     null.Float64

	Impact *model.ImpactFigures
	Drop   *model.ConversionDropPayload
	Spike  *model.SecuritySpikePayload
}

// Key identifies the underlying subject for dedupe purposes. Incidents
// win over impact estimates, which win over site-level aggregates.
func (c EventContext) Key() string {
	if c.IncidentID != "" {
		return "incident:" + c.IncidentID
	}

	if c.ImpactID != "" {
		return "impact:" + c.ImpactID
	}

	return fmt.Sprintf("site:%s:cat:%s", c.WebsiteID, c.Category)
}

// NewIncidentContext builds the context for incident_created and
// severity_threshold triggers. The impact estimate is optional.
func NewIncidentContext(inc model.Incident, est *model.ImpactEstimate) EventContext {
	c := EventContext{
		IncidentID:    inc.ID,
		WebsiteID:     inc.WebsiteID,
		EnvironmentID: inc.EnvironmentID,
		Category:      inc.Category,
		Severity:      inc.Severity,
		Status:        inc.Status,
		Summary:       inc.Summary,
		Paths:         inc.Evidence.TopPaths(0),
		FirstSeenAt:   inc.FirstSeenAt,
		OccurredAt:    inc.FirstSeenAt,
	}

	if est != nil {
		c.ImpactID = est.ID
		c.DeltaPercent = null.Float64From(est.DeltaPercent())
		c.LostRevenue = est.EstimatedLostRevenue
		c.Confidence = null.Float64From(est.Confidence)
		c.Impact = &model.ImpactFigures{
			MetricKey:       est.MetricKey,
			ObservedRate:    est.ObservedRate,
			BaselineRate:    est.BaselineRate,
			DeltaPercent:    est.DeltaPercent(),
			LostConversions: est.EstimatedLostConversions,
			LostRevenue:     est.EstimatedLostRevenue,
			Confidence:      est.Confidence,
		}
	}

	return c
}

// NewConversionDropContext builds the context for conversion_drop
// triggers from a stored impact estimate.
func NewConversionDropContext(inc model.Incident, est model.ImpactEstimate) EventContext {
	c := NewIncidentContext(inc, &est)
	c.OccurredAt = est.WindowEnd
	c.Drop = &model.ConversionDropPayload{
		MetricKey:    est.MetricKey,
		WindowStart:  est.WindowStart,
		WindowEnd:    est.WindowEnd,
		ObservedRate: est.ObservedRate,
		BaselineRate: est.BaselineRate,
		DeltaPercent: est.DeltaPercent(),
		Confidence:   est.Confidence,
		Paths:        est.Explanation.Paths,
	}

	return c
}

// NewSecuritySpikeContext builds the context for security_spike
// triggers. The spike payload carries the geo breakdowns that get
// stripped for tenants without city-level entitlement.
func NewSecuritySpikeContext(websiteID, environmentID string, category model.IncidentCategory, severity model.IncidentSeverity, occurredAt time.Time, countPerMinute float64, spike model.SecuritySpikePayload) EventContext {
	return EventContext{
		WebsiteID:      websiteID,
		EnvironmentID:  environmentID,
		Category:       category,
		Severity:       severity,
		OccurredAt:     occurredAt,
		CountPerMinute: null.Float64From(countPerMinute),
		Spike:          &spike,
	}
}

type DispatchInput struct {
	Trigger model.TriggerType
	Context EventContext
}

type DispatchOutput struct {
	Deliveries   []model.NotificationDelivery
	MatchedRules int
	SkippedRules int
}

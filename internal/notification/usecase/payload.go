package usecase

import (
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/notification"
)

// buildPayload assembles the channel-agnostic payload for the trigger,
// stripping geo breakdowns the tenant's plan does not allow.
func buildPayload(trigger model.TriggerType, c notification.EventContext, settings model.TenantSettings) model.DeliveryPayload {
	switch trigger {
	case model.TriggerConversionDrop:
		drop := c.Drop
		if drop == nil {
			drop = &model.ConversionDropPayload{Paths: c.Paths}
			if c.DeltaPercent.Valid {
				drop.DeltaPercent = c.DeltaPercent.Float64
			}
			if c.Confidence.Valid {
				drop.Confidence = c.Confidence.Float64
			}
		}
		return model.DeliveryPayload{
			Kind:           model.PayloadKindConversionDrop,
			ConversionDrop: drop,
		}

	case model.TriggerSecuritySpike:
		spike := model.SecuritySpikePayload{Category: c.Category}
		if c.Spike != nil {
			spike = *c.Spike
		}
		if c.CountPerMinute.Valid {
			spike.CountPerMinute = c.CountPerMinute.Float64
		}
		if !settings.AllowsCityGeo() {
			spike.TopCities = nil
			spike.TopASNs = nil
		}
		return model.DeliveryPayload{
			Kind:          model.PayloadKindSecuritySpike,
			SecuritySpike: &spike,
		}

	default: // incident_created, severity_threshold
		return model.DeliveryPayload{
			Kind: model.PayloadKindIncident,
			Incident: &model.IncidentPayload{
				IncidentID:  c.IncidentID,
				Category:    c.Category,
				Severity:    c.Severity,
				Status:      c.Status,
				Summary:     c.Summary,
				FirstSeenAt: c.FirstSeenAt,
				Paths:       c.Paths,
				Impact:      c.Impact,
			},
		}
	}
}

package httpserver

import (
	"net/http"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/gin-gonic/gin"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/incident"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/notification"
	pkgPostgre "github.com/LafyOjo/APIShield-Plus-sub000/pkg/postgre"
	"github.com/LafyOjo/APIShield-Plus-sub000/pkg/response"
)

const tenantHeader = "X-Tenant-ID"

var incidentErrMapping = response.ErrorMapping{
	incident.ErrIncidentNotFound: response.NewHTTPError(http.StatusNotFound, "incident not found"),
	incident.ErrIncidentBusy:     response.NewHTTPError(http.StatusConflict, "incident is being evaluated by another worker"),
}

func (srv *HTTPServer) scopeFromRequest(c *gin.Context) (model.Scope, bool) {
	tenantID := c.GetHeader(tenantHeader)
	if !pkgPostgre.IsValidUUID(tenantID) {
		response.BadRequest(c, "missing or malformed "+tenantHeader+" header")
		return model.Scope{}, false
	}
	return model.Scope{TenantID: tenantID}, true
}

// estimateImpact recomputes the impact estimate for one incident.
func (srv *HTTPServer) estimateImpact(c *gin.Context) {
	ctx := c.Request.Context()

	sc, ok := srv.scopeFromRequest(c)
	if !ok {
		return
	}

	incidentID := c.Param("id")
	if !pkgPostgre.IsValidUUID(incidentID) {
		response.BadRequest(c, "malformed incident id")
		return
	}

	out, err := srv.incidentUC.EstimateImpact(ctx, sc, incident.EstimateImpactInput{
		IncidentID: incidentID,
	})
	if err != nil {
		response.ErrorWithMap(c, err, incidentErrMapping)
		return
	}

	response.OK(c, gin.H{
		"estimate":       out.Estimate,
		"status":         out.Status,
		"status_changed": out.StatusChanged,
	})
}

type measureRecoveryRequest struct {
	// WindowMinutes overrides the configured post-mitigation window.
	WindowMinutes int `json:"window_minutes"`
}

// measureRecovery appends a recovery measurement for one incident.
func (srv *HTTPServer) measureRecovery(c *gin.Context) {
	ctx := c.Request.Context()

	sc, ok := srv.scopeFromRequest(c)
	if !ok {
		return
	}

	incidentID := c.Param("id")
	if !pkgPostgre.IsValidUUID(incidentID) {
		response.BadRequest(c, "malformed incident id")
		return
	}

	var req measureRecoveryRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "malformed request body")
			return
		}
	}
	if req.WindowMinutes < 0 {
		response.BadRequest(c, "window_minutes cannot be negative")
		return
	}

	out, err := srv.incidentUC.MeasureRecovery(ctx, sc, incident.MeasureRecoveryInput{
		IncidentID: incidentID,
		Window:     time.Duration(req.WindowMinutes) * time.Minute,
	})
	if err != nil {
		response.ErrorWithMap(c, err, incidentErrMapping)
		return
	}

	response.OK(c, gin.H{
		"recovery":       out.Recovery,
		"status":         out.Status,
		"status_changed": out.StatusChanged,
	})
}

type dispatchRequest struct {
	Trigger string          `json:"trigger" binding:"required"`
	Context dispatchContext `json:"context" binding:"required"`
}

// dispatchContext is the wire form of the event context. Pointer metric
// fields distinguish absent from zero.
type dispatchContext struct {
	IncidentID    string `json:"incident_id"`
	ImpactID      string `json:"impact_id"`
	WebsiteID     string `json:"website_id" binding:"required"`
	EnvironmentID string `json:"environment_id"`

	Category string   `json:"category"`
	Severity string   `json:"severity"`
	Status   string   `json:"status"`
	Summary  string   `json:"summary"`
	Paths    []string `json:"paths"`

	FirstSeenAt time.Time `json:"first_seen_at"`
	OccurredAt  time.Time `json:"occurred_at" binding:"required"`

	CountPerMinute *float64 `json:"count_per_minute"`
	DeltaPercent   *float64 `json:"delta_percent"`
	LostRevenue    *float64 `json:"lost_revenue"`
	Confidence     *float64 `json:"confidence"`

	Impact *model.ImpactFigures         `json:"impact"`
	Drop   *model.ConversionDropPayload `json:"conversion_drop"`
	Spike  *model.SecuritySpikePayload  `json:"security_spike"`
}

func (r dispatchRequest) toInput() notification.DispatchInput {
	return notification.DispatchInput{
		Trigger: model.TriggerType(r.Trigger),
		Context: notification.EventContext{
			IncidentID:    r.Context.IncidentID,
			ImpactID:      r.Context.ImpactID,
			WebsiteID:     r.Context.WebsiteID,
			EnvironmentID: r.Context.EnvironmentID,

			Category: model.IncidentCategory(r.Context.Category),
			Severity: model.IncidentSeverity(r.Context.Severity),
			Status:   model.IncidentStatus(r.Context.Status),
			Summary:  r.Context.Summary,
			Paths:    r.Context.Paths,

			FirstSeenAt: r.Context.FirstSeenAt,
			OccurredAt:  r.Context.OccurredAt,

			CountPerMinute: null.Float64FromPtr(r.Context.CountPerMinute),
			DeltaPercent:   null.Float64FromPtr(r.Context.DeltaPercent),
			LostRevenue:    null.Float64FromPtr(r.Context.LostRevenue),
			Confidence:     null.Float64FromPtr(r.Context.Confidence),

			Impact: r.Context.Impact,
			Drop:   r.Context.Drop,
			Spike:  r.Context.Spike,
		},
	}
}

// dispatch evaluates notification rules for one triggering event.
func (srv *HTTPServer) dispatch(c *gin.Context) {
	ctx := c.Request.Context()

	sc, ok := srv.scopeFromRequest(c)
	if !ok {
		return
	}

	var req dispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "malformed request body")
		return
	}

	out, err := srv.notificationUC.Dispatch(ctx, sc, req.toInput())
	if err != nil {
		response.ErrorWithMap(c, err, response.ErrorMapping{
			notification.ErrInvalidTrigger: response.NewHTTPError(http.StatusBadRequest, "unknown trigger type"),
			notification.ErrInvalidScope:   response.NewHTTPError(http.StatusBadRequest, "invalid scope"),
		})
		return
	}

	response.OK(c, gin.H{
		"matched_rules": out.MatchedRules,
		"skipped_rules": out.SkippedRules,
		"deliveries":    out.Deliveries,
	})
}

package model

import "github.com/aarondl/null/v8"

// GeoGranularity is the finest geographic breakdown a tenant's plan allows
// in notification payloads.
type GeoGranularity string

const (
	GeoGranularityCountry GeoGranularity = "country"
	GeoGranularityCity    GeoGranularity = "city"
)

// TenantSettings are the per-tenant knobs this engine reads: an optional
// default revenue-per-conversion for loss estimates and the geo-granularity
// entitlement gating spike payloads.
type TenantSettings struct {
	TenantID             string         `json:"tenant_id"`
	RevenuePerConversion null.Float64   `json:"revenue_per_conversion,omitempty"`
	GeoGranularity       GeoGranularity `json:"geo_granularity"`
}

// AllowsCityGeo reports whether payloads may include city/ASN breakdowns.
func (s TenantSettings) AllowsCityGeo() bool {
	return s.GeoGranularity == GeoGranularityCity
}

package model

// Scope carries the tenant context for every repository and usecase call.
// All queries are tenant-fenced; an empty TenantID is always an error.
type Scope struct {
	TenantID string `json:"tenant_id"`
}

// Valid reports whether the scope identifies a tenant.
func (s Scope) Valid() bool {
	return s.TenantID != ""
}

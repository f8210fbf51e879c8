package incident

import "errors"

var (
	ErrIncidentNotFound = errors.New("incident not found")
	// ErrIncidentBusy means another evaluation holds the incident's lock;
	// callers should retry rather than treating it as a failure.
	ErrIncidentBusy = errors.New("incident is being evaluated elsewhere")
)

package incident

import (
	"time"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"
)

// StatusThresholds are the recovery-ratio gates for the two recovery-driven
// transitions. Reference values are 0.7 and 0.9; they come from config.
type StatusThresholds struct {
	Mitigated float64
	Resolved  float64
}

// NextStatus is the incident lifecycle state machine. It is pure: given the
// current incident and its latest evidence, it returns the next status and
// true, or false when nothing qualifies. It never regresses and never errors.
//
// Transitions:
//   - open → investigating: an impact estimate exists. The estimator's
//     session floors already filter low-volume noise, so a produced estimate
//     is itself the confirmation signal.
//   - investigating → mitigated: the latest recovery ratio meets the
//     substantial-recovery threshold and a mitigation has been applied.
//   - mitigated → resolved: the latest recovery ratio meets the full-stability
//     threshold. Recovery is only measurable after the first applied
//     mitigation, so this inherently enforces a settling period.
//
// A manually edited status freezes automation until the flag is cleared.
// Recovery rows stamped after now are ignored to keep evaluation stable under
// clock skew between the measuring and evaluating processes.
func NextStatus(
	inc model.Incident,
	impact *model.ImpactEstimate,
	recovery *model.IncidentRecovery,
	hasMitigation bool,
	th StatusThresholds,
	now time.Time,
) (model.IncidentStatus, bool) {
	if inc.StatusManual {
		return "", false
	}
	if recovery != nil && recovery.MeasuredAt.After(now) {
		recovery = nil
	}

	switch inc.Status {
	case model.IncidentStatusOpen:
		if impact != nil {
			return model.IncidentStatusInvestigating, true
		}
	case model.IncidentStatusInvestigating:
		if recovery != nil && hasMitigation && recovery.RecoveryRatio >= th.Mitigated {
			return model.IncidentStatusMitigated, true
		}
	case model.IncidentStatusMitigated:
		if recovery != nil && recovery.RecoveryRatio >= th.Resolved {
			return model.IncidentStatusResolved, true
		}
	}
	return "", false
}

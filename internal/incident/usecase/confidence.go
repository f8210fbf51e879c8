package usecase

import (
	"strings"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"
)

const (
	confidenceFloor = 0.05
	confidenceCap   = 0.85
)

// highValuePaths are the funnel entry points whose disruption is most likely
// to cost revenue.
var highValuePaths = []string{"/checkout", "/payment", "/cart", "/login", "/signup", "/register"}

var severityConfidenceWeight = map[model.IncidentSeverity]float64{
	model.SeverityLow:      0.05,
	model.SeverityMedium:   0.10,
	model.SeverityHigh:     0.15,
	model.SeverityCritical: 0.20,
}

func anyHighValuePath(paths []string) bool {
	for _, p := range paths {
		lower := strings.ToLower(p)
		for _, hv := range highValuePaths {
			if strings.HasPrefix(lower, hv) {
				return true
			}
		}
	}
	return false
}

// confidenceScore computes the additive confidence for an impact estimate.
// Each factor contributes independently on top of the floor; the result is
// capped so a single estimate never claims near-certainty. The factor
// breakdown is returned for the explanation record.
func confidenceScore(
	inc model.Incident,
	observed, baseline model.FunnelStats,
	baselineRate float64,
	paths []string,
	signalsPerMinute float64,
) (float64, []model.ConfidenceFactor) {
	var factors []model.ConfidenceFactor
	add := func(name string, weight float64) {
		factors = append(factors, model.ConfidenceFactor{Name: name, Weight: weight})
	}

	if anyHighValuePath(paths) {
		add("high_value_path", 0.20)
	}
	if w, ok := severityConfidenceWeight[inc.Severity]; ok {
		add("severity_"+string(inc.Severity), w)
	}
	switch inc.Category {
	case model.CategoryLogin, model.CategoryThreat, model.CategoryIntegrity:
		add("sensitive_category", 0.05)
	}

	observedErr, baselineErr := observed.ErrorRate(), baseline.ErrorRate()
	if observedErr >= 1.5*baselineErr && observedErr-baselineErr >= 0.05 {
		add("error_rate_increase", 0.15)
	}
	if baseline.ConversionRate()-observed.ConversionRate() >= 0.05 {
		add("submit_rate_drop", 0.15)
	}
	if baselineRate-observed.ConversionRate() >= 0.05 {
		add("baseline_rate_drop", 0.20)
	}
	if signalsPerMinute >= 2 {
		add("signal_rate", 0.05)
	}

	score := confidenceFloor
	for _, f := range factors {
		score += f.Weight
	}
	if score > confidenceCap {
		score = confidenceCap
	}
	return score, factors
}

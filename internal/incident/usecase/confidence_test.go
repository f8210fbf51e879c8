package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"
)

func factorNames(factors []model.ConfidenceFactor) []string {
	names := make([]string, len(factors))
	for i, f := range factors {
		names[i] = f.Name
	}
	return names
}

func TestConfidenceScoreFloor(t *testing.T) {
	// Nothing fires: generic category, unranked severity, quiet paths,
	// rates identical to baseline.
	inc := model.Incident{Category: model.CategoryPerformance}
	stats := model.FunnelStats{Sessions: 100, SubmitSessions: 10, ErrorSessions: 2}

	score, factors := confidenceScore(inc, stats, stats, stats.ConversionRate(), []string{"/blog"}, 0.5)

	assert.InDelta(t, 0.05, score, 1e-9)
	assert.Empty(t, factors)
}

func TestConfidenceScoreCap(t *testing.T) {
	inc := model.Incident{Category: model.CategoryThreat, Severity: model.SeverityCritical}
	observed := model.FunnelStats{Sessions: 200, SubmitSessions: 10, ErrorSessions: 30}
	baseline := model.FunnelStats{Sessions: 1000, SubmitSessions: 100, ErrorSessions: 20}

	score, factors := confidenceScore(inc, observed, baseline, baseline.ConversionRate(), []string{"/checkout"}, 5)

	assert.InDelta(t, 0.85, score, 1e-9)
	assert.ElementsMatch(t, []string{
		"high_value_path",
		"severity_critical",
		"sensitive_category",
		"error_rate_increase",
		"submit_rate_drop",
		"baseline_rate_drop",
		"signal_rate",
	}, factorNames(factors))
}

func TestConfidenceScoreSingleFactors(t *testing.T) {
	quiet := model.FunnelStats{Sessions: 100, SubmitSessions: 10, ErrorSessions: 2}

	tests := []struct {
		name       string
		inc        model.Incident
		paths      []string
		signals    float64
		wantScore  float64
		wantFactor string
	}{
		{
			name:       "high value path",
			inc:        model.Incident{Category: model.CategoryPerformance},
			paths:      []string{"/checkout/step-2"},
			wantScore:  0.25,
			wantFactor: "high_value_path",
		},
		{
			name:       "medium severity",
			inc:        model.Incident{Category: model.CategoryPerformance, Severity: model.SeverityMedium},
			paths:      []string{"/blog"},
			wantScore:  0.15,
			wantFactor: "severity_medium",
		},
		{
			name:       "sensitive category",
			inc:        model.Incident{Category: model.CategoryIntegrity},
			paths:      []string{"/blog"},
			wantScore:  0.10,
			wantFactor: "sensitive_category",
		},
		{
			name:       "sustained signal rate",
			inc:        model.Incident{Category: model.CategoryPerformance},
			paths:      []string{"/blog"},
			signals:    2,
			wantScore:  0.10,
			wantFactor: "signal_rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, factors := confidenceScore(tt.inc, quiet, quiet, quiet.ConversionRate(), tt.paths, tt.signals)
			assert.InDelta(t, tt.wantScore, score, 1e-9)
			assert.Equal(t, []string{tt.wantFactor}, factorNames(factors))
		})
	}
}

package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"
)

func TestAffectedPaths(t *testing.T) {
	tests := []struct {
		name string
		inc  model.Incident
		want []string
	}{
		{
			name: "evidence paths ordered by frequency",
			inc: model.Incident{
				Category: model.CategoryThreat,
				Evidence: model.IncidentEvidence{Paths: []model.PathCount{
					{Path: "/cart", Count: 10},
					{Path: "/checkout", Count: 90},
				}},
			},
			want: []string{"/checkout", "/cart"},
		},
		{
			name: "login category fallback without evidence",
			inc:  model.Incident{Category: model.CategoryLogin},
			want: []string{"/login", "/auth"},
		},
		{
			name: "threat category fallback without evidence",
			inc:  model.Incident{Category: model.CategoryThreat},
			want: []string{"/checkout", "/payment"},
		},
		{
			name: "unlisted category leaves the query unrestricted",
			inc:  model.Incident{Category: model.CategoryAvailability},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, affectedPaths(tt.inc, 5))
		})
	}
}

func TestAffectedPathsLimit(t *testing.T) {
	inc := model.Incident{
		Evidence: model.IncidentEvidence{Paths: []model.PathCount{
			{Path: "/a", Count: 6}, {Path: "/b", Count: 5}, {Path: "/c", Count: 4},
			{Path: "/d", Count: 3}, {Path: "/e", Count: 2}, {Path: "/f", Count: 1},
		}},
	}
	assert.Equal(t, []string{"/a", "/b", "/c", "/d", "/e"}, affectedPaths(inc, 5))
}

func TestInferMetricKey(t *testing.T) {
	tests := []struct {
		name     string
		paths    []string
		category model.IncidentCategory
		want     model.MetricKey
	}{
		{
			name:  "checkout keyword",
			paths: []string{"/checkout/payment"},
			want:  model.MetricCheckoutConversion,
		},
		{
			name:  "checkout keywords beat signup keywords",
			paths: []string{"/signup", "/cart"},
			want:  model.MetricCheckoutConversion,
		},
		{
			name:  "signup keyword",
			paths: []string{"/register/confirm"},
			want:  model.MetricSignupConversion,
		},
		{
			name:  "login keyword",
			paths: []string{"/auth/session"},
			want:  model.MetricLoginConversion,
		},
		{
			name:     "login category fallback",
			paths:    []string{"/account"},
			category: model.CategoryLogin,
			want:     model.MetricLoginConversion,
		},
		{
			name:     "threat category fallback",
			paths:    nil,
			category: model.CategoryThreat,
			want:     model.MetricCheckoutConversion,
		},
		{
			name:     "generic fallback",
			paths:    []string{"/contact"},
			category: model.CategoryPerformance,
			want:     model.MetricGenericConversion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inferMetricKey(tt.paths, tt.category))
		})
	}
}

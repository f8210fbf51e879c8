package usecase

import (
	"strings"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"
)

// categoryFallbackPaths approximates the affected surface when the incident
// evidence carries no request paths. Categories not listed here leave the
// funnel query unrestricted.
var categoryFallbackPaths = map[model.IncidentCategory][]string{
	model.CategoryLogin:     {"/login", "/auth"},
	model.CategoryThreat:    {"/checkout", "/payment"},
	model.CategoryIntegrity: {"/checkout", "/payment"},
}

// affectedPaths returns up to limit paths from the incident evidence,
// most frequent first, falling back to the category heuristic.
func affectedPaths(inc model.Incident, limit int) []string {
	if paths := inc.Evidence.TopPaths(limit); len(paths) > 0 {
		return paths
	}
	return categoryFallbackPaths[inc.Category]
}

// metricKeyKeywords pairs path keywords with the funnel metric they imply,
// in precedence order.
var metricKeyKeywords = []struct {
	keywords []string
	key      model.MetricKey
}{
	{[]string{"checkout", "payment", "cart"}, model.MetricCheckoutConversion},
	{[]string{"signup", "register"}, model.MetricSignupConversion},
	{[]string{"login", "auth"}, model.MetricLoginConversion},
}

// inferMetricKey picks the funnel metric to measure from path keywords,
// falling back to the incident category.
func inferMetricKey(paths []string, category model.IncidentCategory) model.MetricKey {
	for _, entry := range metricKeyKeywords {
		for _, p := range paths {
			lower := strings.ToLower(p)
			for _, kw := range entry.keywords {
				if strings.Contains(lower, kw) {
					return entry.key
				}
			}
		}
	}

	switch category {
	case model.CategoryLogin:
		return model.MetricLoginConversion
	case model.CategoryThreat, model.CategoryIntegrity:
		return model.MetricCheckoutConversion
	default:
		return model.MetricGenericConversion
	}
}

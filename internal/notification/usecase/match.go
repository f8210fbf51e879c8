package usecase

import (
	"path"

	"github.com/aarondl/null/v8"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/model"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/notification"
)

// matchFilters applies every set filter dimension; unset dimensions match
// anything. A severity floor fails events without a known severity, and a
// path pattern filter fails events without paths.
func matchFilters(f model.RuleFilters, c notification.EventContext) bool {
	if f.WebsiteID != "" && f.WebsiteID != c.WebsiteID {
		return false
	}
	if f.EnvironmentID != "" && f.EnvironmentID != c.EnvironmentID {
		return false
	}

	if len(f.Categories) > 0 && !containsCategory(f.Categories, c.Category) {
		return false
	}

	if f.SeverityMin != "" && c.Severity.Rank() < f.SeverityMin.Rank() {
		return false
	}

	if len(f.PathPatterns) > 0 && !anyPathMatches(f.PathPatterns, c.Paths) {
		return false
	}

	return true
}

// matchThresholds requires every set threshold to be met. A threshold whose
// corresponding context value is absent fails the match.
func matchThresholds(t model.RuleThresholds, c notification.EventContext) bool {
	return meets(t.CountPerMinute, c.CountPerMinute) &&
		meets(t.DeltaPercent, c.DeltaPercent) &&
		meets(t.LostRevenueMin, c.LostRevenue) &&
		meets(t.ConfidenceMin, c.Confidence)
}

func meets(threshold *float64, value null.Float64) bool {
	if threshold == nil {
		return true
	}
	if !value.Valid {
		return false
	}
	return value.Float64 >= *threshold
}

func containsCategory(cats []model.IncidentCategory, c model.IncidentCategory) bool {
	for _, cat := range cats {
		if cat == c {
			return true
		}
	}
	return false
}

func anyPathMatches(patterns, paths []string) bool {
	for _, pattern := range patterns {
		for _, p := range paths {
			// patterns are validated before matching, Match cannot fail here
			if ok, _ := path.Match(pattern, p); ok {
				return true
			}
		}
	}
	return false
}

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuietHoursCovers(t *testing.T) {
	wrap := QuietHours{Ranges: []QuietRange{{Start: "22:00", End: "06:00"}}}
	day := QuietHours{Ranges: []QuietRange{{Start: "09:00", End: "17:00"}}}
	empty := QuietHours{Ranges: []QuietRange{{Start: "12:00", End: "12:00"}}}

	at := func(hour, min int) time.Time {
		return time.Date(2026, 3, 10, hour, min, 0, 0, time.UTC)
	}

	tests := []struct {
		name  string
		quiet QuietHours
		t     time.Time
		want  bool
	}{
		{"inside a plain range", day, at(12, 30), true},
		{"start is inclusive", day, at(9, 0), true},
		{"end is exclusive", day, at(17, 0), false},
		{"outside a plain range", day, at(8, 59), false},
		{"wrap range covers late evening", wrap, at(23, 30), true},
		{"wrap range covers early morning", wrap, at(5, 59), true},
		{"wrap range excludes midday", wrap, at(12, 0), false},
		{"identical start and end covers nothing", empty, at(12, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.quiet.Covers(tt.t)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuietHoursCoversTimezone(t *testing.T) {
	quiet := QuietHours{
		Timezone: "America/New_York",
		Ranges:   []QuietRange{{Start: "22:00", End: "06:00"}},
	}

	// 03:30 UTC is 22:30 or 23:30 in New York depending on DST; either way
	// it falls inside the 22:00-06:00 window.
	covered, err := quiet.Covers(time.Date(2026, 3, 10, 3, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, covered)

	// 16:00 UTC is midday in New York.
	covered, err = quiet.Covers(time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, covered)
}

func TestQuietHoursValidate(t *testing.T) {
	assert.NoError(t, QuietHours{}.Validate())
	assert.NoError(t, QuietHours{
		Timezone: "Europe/London",
		Ranges:   []QuietRange{{Start: "22:00", End: "06:00"}},
	}.Validate())

	assert.Error(t, QuietHours{
		Timezone: "Mars/Olympus",
		Ranges:   []QuietRange{{Start: "22:00", End: "06:00"}},
	}.Validate())
	assert.Error(t, QuietHours{
		Ranges: []QuietRange{{Start: "25:00", End: "06:00"}},
	}.Validate())
	assert.Error(t, QuietHours{
		Ranges: []QuietRange{{Start: "22:00", End: "6pm"}},
	}.Validate())
}

func TestRuleFiltersValidate(t *testing.T) {
	assert.NoError(t, RuleFilters{}.Validate())
	assert.NoError(t, RuleFilters{
		SeverityMin:  SeverityHigh,
		PathPatterns: []string{"/checkout/*", "/api/?art"},
	}.Validate())

	assert.Error(t, RuleFilters{SeverityMin: "urgent"}.Validate())
	assert.Error(t, RuleFilters{PathPatterns: []string{""}}.Validate())
	assert.Error(t, RuleFilters{PathPatterns: []string{"[unclosed"}}.Validate())
}

func TestRuleThresholdsValidate(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	assert.NoError(t, RuleThresholds{}.Validate())
	assert.NoError(t, RuleThresholds{
		CountPerMinute: f(10),
		ConfidenceMin:  f(0.7),
	}.Validate())

	assert.Error(t, RuleThresholds{DeltaPercent: f(-1)}.Validate())
	assert.Error(t, RuleThresholds{ConfidenceMin: f(1.1)}.Validate())
	assert.Error(t, RuleThresholds{CooldownSeconds: -1}.Validate())
}

func TestNotificationRuleValidate(t *testing.T) {
	rule := NotificationRule{
		Trigger: TriggerConversionDrop,
		Filters: RuleFilters{SeverityMin: SeverityMedium},
	}
	assert.NoError(t, rule.Validate())

	rule.Trigger = "whenever"
	assert.Error(t, rule.Validate())
}

func TestTriggerTypeIsValid(t *testing.T) {
	for _, trigger := range []TriggerType{
		TriggerIncidentCreated, TriggerSeverityThreshold,
		TriggerConversionDrop, TriggerSecuritySpike,
	} {
		assert.True(t, trigger.IsValid(), string(trigger))
	}
	assert.False(t, TriggerType("page_view").IsValid())
}

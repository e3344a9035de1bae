package models

import (
	"fmt"
	"strings"
	"time"
)

// Frequency tells how often a user wants their weather report.
type Frequency string

const (
	FrequencyOnce  Frequency = "once"
	FrequencyDaily Frequency = "daily"
)

// Profile holds the captured preferences for a telegram user.
// A stored profile is always fully populated for its frequency:
// TimeOfDay is only meaningful when Frequency is daily.
type Profile struct {
	ChatID       int64     `db:"chat_id"       json:"chat_id"`
	Gender       string    `db:"gender"        json:"gender"`
	Style        string    `db:"style"         json:"style"`
	DailyInsight string    `db:"daily_insight" json:"daily_insight"` // "yes" / "no"
	City         string    `db:"city"          json:"city"`
	Frequency    Frequency `db:"frequency"     json:"frequency"`
	TimeOfDay    string    `db:"time_of_day"   json:"time_of_day"` // "HH:MM", daily only
	CreatedAt    int64     `db:"created_at"    json:"created_at"`
}

// WantsInsight reports whether the user opted into the generated daily insight.
func (p *Profile) WantsInsight() bool {
	return strings.EqualFold(strings.TrimSpace(p.DailyInsight), "yes")
}

// ParseTimeOfDay validates a 24-hour "HH:MM" value and returns its parts.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("bad time of day %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

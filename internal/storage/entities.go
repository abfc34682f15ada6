package storage

import "time"

// TimerRecord is a persisted live timer. Options holds the JSON encoded
// timer options.
type TimerRecord struct {
	ID         string
	State      string
	Input      string
	StartTime  *time.Time
	EndTime    *time.Time
	PausedLeft time.Duration
	Options    string
	Position   int
	UpdatedAt  time.Time
}

type TimerListFilter struct {
	State  string
	Limit  int
	Offset int
}

const (
	SettingMostRecentOptions      = "most_recent_options"
	SettingWindowSize             = "window_size"
	SettingShowInNotificationArea = "show_in_notification_area"
)

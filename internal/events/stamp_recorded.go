package events

import "time"

const (
	EventStampRecorded = "stamp.recorded"
)

type StampRecordedEvent struct {
	EventType    string    `json:"event_type"`
	UserID       string    `json:"user_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Type         string    `json:"type"`
	StampTime    time.Time `json:"stamp_time"`
	Source       string    `json:"source"`
	TodayMinutes int       `json:"today_minutes"`
	Balance      int       `json:"balance"`
	Warning      string    `json:"warning,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

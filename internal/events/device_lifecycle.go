package events

import "time"

const (
	EventTagAssigned      = "device.tag_assigned"
	EventDeviceAssignMode = "device.assign_mode"
)

type TagAssignedEvent struct {
	EventType  string    `json:"event_type"`
	UserID     string    `json:"user_id"`
	TagUID     string    `json:"tag_uid"`
	DeviceID   string    `json:"device_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type DeviceAssignModeEvent struct {
	EventType  string    `json:"event_type"`
	DeviceID   string    `json:"device_id"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

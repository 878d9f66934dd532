package device

import "time"

type RegisterDeviceRequest struct {
	DeviceID string  `json:"device_id" binding:"required,uuid"`
	Name     string  `json:"name" binding:"required,min=2,max=120"`
	Location *string `json:"location"`
}

type AssignModeRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

type ReadingRequest struct {
	DeviceID string `json:"device_id" binding:"required,uuid"`
	TagUID   string `json:"tag_uid" binding:"required,min=4,max=64"`
}

const (
	ActionStamped  = "stamped"
	ActionAssigned = "assigned"
	ActionIgnored  = "ignored"
	ActionRefused  = "refused"
)

// ReadingResponse always acks: the terminal retries on transport errors only,
// never on domain outcomes.
type ReadingResponse struct {
	Ack          bool       `json:"ack"`
	Action       string     `json:"action"`
	UserName     string     `json:"user_name,omitempty"`
	StampType    string     `json:"stamp_type,omitempty"`
	StampTime    *time.Time `json:"stamp_time,omitempty"`
	TodayMinutes int        `json:"today_minutes,omitempty"`
	Warning      string     `json:"warning,omitempty"`
}

type DeviceResponse struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Location     *string    `json:"location,omitempty"`
	AssignUserID *string    `json:"assign_user_id,omitempty"`
	LastSeenAt   *time.Time `json:"last_seen_at,omitempty"`
	Active       bool       `json:"active"`
	CreatedAt    string     `json:"created_at"`
}

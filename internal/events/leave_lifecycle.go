package events

import "time"

const (
	EventLeaveRequested = "leave.requested"
	EventLeaveReviewed  = "leave.reviewed"
)

type LeaveRequestedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id"`
	UserID     string    `json:"user_id"`
	UserName   string    `json:"user_name"`
	LeaveType  string    `json:"leave_type"`
	DateFrom   string    `json:"date_from"`
	DateTo     string    `json:"date_to"`
	OccurredAt time.Time `json:"occurred_at"`
}

type LeaveReviewedEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id"`
	UserID       string    `json:"user_id"`
	Status       string    `json:"status"`
	ReviewerName string    `json:"reviewer_name"`
	OccurredAt   time.Time `json:"occurred_at"`
}

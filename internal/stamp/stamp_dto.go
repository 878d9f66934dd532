package stamp

import "time"

type StampRequest struct {
	Source string `json:"source" binding:"omitempty,oneof=web terminal"`
}

// StampResponse is success-shaped even when the stamp was refused: a
// disallowed day answers 200 with Success=false and the reason in Warning.
type StampResponse struct {
	Success      bool       `json:"success"`
	Type         string     `json:"type,omitempty"`
	StampTime    *time.Time `json:"stamp_time,omitempty"`
	Warning      string     `json:"warning,omitempty"`
	TodayMinutes int        `json:"today_minutes"`
	Balance      int        `json:"balance"`
}

type EventResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	StampTime time.Time `json:"stamp_time"`
	Source    string    `json:"source"`
}

type TodayResponse struct {
	Date          string          `json:"date"`
	Events        []EventResponse `json:"events"`
	WorkedMinutes int             `json:"worked_minutes"`
	Balance       int             `json:"balance"`
	OpenSince     *time.Time      `json:"open_since,omitempty"`
	ClockedIn     bool            `json:"clocked_in"`
}

type DayHistory struct {
	Date          string          `json:"date"`
	Events        []EventResponse `json:"events"`
	WorkedMinutes int             `json:"worked_minutes"`
	Anomalies     int             `json:"anomalies,omitempty"`
}

type HistoryResponse struct {
	From string       `json:"from"`
	To   string       `json:"to"`
	Days []DayHistory `json:"days"`
}

type BalanceResponse struct {
	From            string `json:"from"`
	To              string `json:"to"`
	ActualMinutes   int    `json:"actual_minutes"`
	ExpectedMinutes int    `json:"expected_minutes"`
	BalanceMinutes  int    `json:"balance_minutes"`
	OvertimeLimit   *int   `json:"overtime_limit,omitempty"`
	UndertimeLimit  *int   `json:"undertime_limit,omitempty"`
	LimitExceeded   bool   `json:"limit_exceeded"`
}

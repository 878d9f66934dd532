package overview

import "time"

type TeamMemberStatus struct {
	UserID       string     `json:"user_id"`
	Name         string     `json:"name"`
	ClockedIn    bool       `json:"clocked_in"`
	Since        *time.Time `json:"since,omitempty"`
	TodayMinutes int        `json:"today_minutes"`
	OnLeave      bool       `json:"on_leave"`
}

type MemberBalance struct {
	UserID          string `json:"user_id"`
	Name            string `json:"name"`
	ActualMinutes   int    `json:"actual_minutes"`
	ExpectedMinutes int    `json:"expected_minutes"`
	BalanceMinutes  int    `json:"balance_minutes"`
	Anomalies       int    `json:"anomalies,omitempty"`
}

type PeriodOverviewResponse struct {
	From    string          `json:"from"`
	To      string          `json:"to"`
	Members []MemberBalance `json:"members"`
}

type StatsResponse struct {
	ActiveUsers   int64 `json:"active_users"`
	ClockedInNow  int64 `json:"clocked_in_now"`
	PendingLeave  int64 `json:"pending_leave"`
	StampsToday   int64 `json:"stamps_today"`
	OnlineDevices int64 `json:"online_devices"`
}

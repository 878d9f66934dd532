package workrule

type RuleInput struct {
	Weekday         int     `json:"weekday" binding:"min=0,max=6"`
	CoreStart       *string `json:"core_start"`
	CoreEnd         *string `json:"core_end"`
	MaxDailyMinutes int     `json:"max_daily_minutes"`
	WorkAllowed     bool    `json:"work_allowed"`
}

type LimitsInput struct {
	MaxWeeklyMinutes    int `json:"max_weekly_minutes"`
	MaxOvertimeMinutes  int `json:"max_overtime_minutes"`
	MaxUndertimeMinutes int `json:"max_undertime_minutes"`
}

// UpdateWorkRulesRequest carries explicit rule rows and optional limits; nil
// sections are left untouched.
type UpdateWorkRulesRequest struct {
	Rules  []RuleInput  `json:"rules"`
	Limits *LimitsInput `json:"limits"`
}

type RuleResponse struct {
	Weekday         int     `json:"weekday"`
	CoreStart       *string `json:"core_start,omitempty"`
	CoreEnd         *string `json:"core_end,omitempty"`
	MaxDailyMinutes int     `json:"max_daily_minutes"`
	WorkAllowed     bool    `json:"work_allowed"`
}

type LimitsResponse struct {
	MaxWeeklyMinutes    int `json:"max_weekly_minutes"`
	MaxOvertimeMinutes  int `json:"max_overtime_minutes"`
	MaxUndertimeMinutes int `json:"max_undertime_minutes"`
}

type RulesResponse struct {
	Rules  []RuleResponse  `json:"rules"`
	Limits *LimitsResponse `json:"limits,omitempty"`
}

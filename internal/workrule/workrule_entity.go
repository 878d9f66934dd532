package workrule

import (
	"time"

	"github.com/google/uuid"
)

// WorkRule is the per-user, per-weekday policy row. Weekday is Monday-based:
// 0 = Monday .. 6 = Sunday. Exactly one row per (user, weekday).
type WorkRule struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID          uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_work_rules_user_weekday"`
	Weekday         int       `gorm:"column:weekday;not null;uniqueIndex:idx_work_rules_user_weekday"`
	CoreStart       *string   `gorm:"column:core_start;type:time"`
	CoreEnd         *string   `gorm:"column:core_end;type:time"`
	MaxDailyMinutes int       `gorm:"column:max_daily_minutes;not null;default:0"`
	WorkAllowed     bool      `gorm:"column:work_allowed;not null;default:false"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (WorkRule) TableName() string {
	return "work_rules"
}

// TimeLimit holds the advisory weekly/overtime/undertime caps. Surfaced to
// callers but never enforced as a hard block.
type TimeLimit struct {
	UserID              uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	MaxWeeklyMinutes    int       `gorm:"column:max_weekly_minutes;not null;default:2400"`
	MaxOvertimeMinutes  int       `gorm:"column:max_overtime_minutes;not null;default:720"`
	MaxUndertimeMinutes int       `gorm:"column:max_undertime_minutes;not null;default:240"`
	CreatedAt           time.Time `gorm:"column:created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at"`
}

func (TimeLimit) TableName() string {
	return "time_limits"
}

func strPtr(s string) *string { return &s }

// DefaultRules is the rule set seeded at user creation: Mon-Thu 09:00-15:00,
// Fri 09:00-14:00, 480 expected minutes on working days, weekend disallowed.
func DefaultRules(userID uuid.UUID) []WorkRule {
	rules := make([]WorkRule, 0, 7)
	for weekday := 0; weekday <= 4; weekday++ {
		coreEnd := "15:00:00"
		if weekday == 4 {
			coreEnd = "14:00:00"
		}
		rules = append(rules, WorkRule{
			ID:              uuid.New(),
			UserID:          userID,
			Weekday:         weekday,
			CoreStart:       strPtr("09:00:00"),
			CoreEnd:         strPtr(coreEnd),
			MaxDailyMinutes: 480,
			WorkAllowed:     true,
		})
	}
	for weekday := 5; weekday <= 6; weekday++ {
		rules = append(rules, WorkRule{
			ID:              uuid.New(),
			UserID:          userID,
			Weekday:         weekday,
			MaxDailyMinutes: 0,
			WorkAllowed:     false,
		})
	}
	return rules
}

func DefaultTimeLimit(userID uuid.UUID) TimeLimit {
	return TimeLimit{
		UserID:              userID,
		MaxWeeklyMinutes:    2400,
		MaxOvertimeMinutes:  720,
		MaxUndertimeMinutes: 240,
	}
}

package overview

import (
	"context"
	"time"

	"timeclock/internal/domain"
	"timeclock/internal/leave"
	"timeclock/internal/scope"
	"timeclock/internal/stamp"
	"timeclock/internal/workrule"

	"gorm.io/gorm"
)

// MemberRow is the projection the overview queries need from the users table.
type MemberRow struct {
	ID        string `gorm:"column:id"`
	FirstName string `gorm:"column:first_name"`
	LastName  string `gorm:"column:last_name"`
}

//go:generate mockgen -source=overview_repo.go -destination=mock/overview_repo_mock.go -package=mock
type Repository interface {
	VisibleMembers(ctx context.Context, p domain.Principal) ([]MemberRow, error)
	EventsForVisible(ctx context.Context, p domain.Principal, from, to time.Time) ([]stamp.StampEvent, error)
	RulesForVisible(ctx context.Context, p domain.Principal) ([]workrule.WorkRule, error)
	ApprovedLeaveCovering(ctx context.Context, p domain.Principal, day time.Time) ([]string, error)
	CountActiveUsers(ctx context.Context) (int64, error)
	CountClockedIn(ctx context.Context, dayStart time.Time) (int64, error)
	CountPendingLeave(ctx context.Context) (int64, error)
	CountStampsSince(ctx context.Context, since time.Time) (int64, error)
	CountDevicesSeenSince(ctx context.Context, since time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) VisibleMembers(ctx context.Context, p domain.Principal) ([]MemberRow, error) {
	var members []MemberRow
	err := r.db.WithContext(ctx).
		Table("users").
		Select("id", "first_name", "last_name").
		Scopes(scope.Users(p)).
		Where("is_active = ?", true).
		Order("last_name ASC").
		Find(&members).Error
	return members, err
}

func (r *repository) EventsForVisible(ctx context.Context, p domain.Principal, from, to time.Time) ([]stamp.StampEvent, error) {
	var events []stamp.StampEvent
	err := r.db.WithContext(ctx).
		Model(&stamp.StampEvent{}).
		Scopes(scope.VisibleOwners(p, "stamp_events.user_id")).
		Where("stamp_time >= ? AND stamp_time < ?", from, to).
		Order("user_id, stamp_time ASC").
		Find(&events).Error
	return events, err
}

func (r *repository) RulesForVisible(ctx context.Context, p domain.Principal) ([]workrule.WorkRule, error) {
	var rules []workrule.WorkRule
	err := r.db.WithContext(ctx).
		Model(&workrule.WorkRule{}).
		Scopes(scope.VisibleOwners(p, "work_rules.user_id")).
		Find(&rules).Error
	return rules, err
}

func (r *repository) ApprovedLeaveCovering(ctx context.Context, p domain.Principal, day time.Time) ([]string, error) {
	var userIDs []string
	err := r.db.WithContext(ctx).
		Model(&leave.LeaveRequest{}).
		Scopes(scope.VisibleOwners(p, "leave_requests.user_id")).
		Where("status = ?", leave.StatusApproved).
		Where("date_from <= ? AND date_to >= ?", day, day).
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}

func (r *repository) CountActiveUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("users").
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

// CountClockedIn counts users whose latest event today is an "in".
func (r *repository) CountClockedIn(ctx context.Context, dayStart time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("stamp_events AS e").
		Where("e.stamp_time >= ?", dayStart).
		Where("e.type = ?", stamp.TypeIn).
		Where(`e.stamp_time = (
			SELECT MAX(e2.stamp_time) FROM stamp_events e2
			WHERE e2.user_id = e.user_id AND e2.stamp_time >= ?
		)`, dayStart).
		Count(&count).Error
	return count, err
}

func (r *repository) CountPendingLeave(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&leave.LeaveRequest{}).
		Where("status = ?", leave.StatusPending).
		Count(&count).Error
	return count, err
}

func (r *repository) CountStampsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&stamp.StampEvent{}).
		Where("stamp_time >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *repository) CountDevicesSeenSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("devices").
		Where("is_active = ?", true).
		Where("last_seen_at >= ?", since).
		Count(&count).Error
	return count, err
}

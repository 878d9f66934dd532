package workrule

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=workrule_repo.go -destination=mock/workrule_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateRules(ctx context.Context, rules []WorkRule) error
	CreateLimit(ctx context.Context, limit *TimeLimit) error
	FindRulesByUser(ctx context.Context, userID string) ([]WorkRule, error)
	FindRuleByUserAndWeekday(ctx context.Context, userID string, weekday int) (*WorkRule, error)
	UpsertRule(ctx context.Context, rule *WorkRule) error
	FindLimitByUser(ctx context.Context, userID string) (*TimeLimit, error)
	UpsertLimit(ctx context.Context, limit *TimeLimit) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds the repository to an open transaction so its writes commit
// and roll back with the caller's unit of work.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	db := r.db.Session(&gorm.Session{NewDB: true})
	db.Statement.ConnPool = tx
	return &repository{db: db}
}

func (r *repository) CreateRules(ctx context.Context, rules []WorkRule) error {
	return r.db.WithContext(ctx).Create(&rules).Error
}

func (r *repository) CreateLimit(ctx context.Context, limit *TimeLimit) error {
	return r.db.WithContext(ctx).Create(limit).Error
}

func (r *repository) FindRulesByUser(ctx context.Context, userID string) ([]WorkRule, error) {
	var rules []WorkRule
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("weekday ASC").
		Find(&rules).Error
	return rules, err
}

func (r *repository) FindRuleByUserAndWeekday(ctx context.Context, userID string, weekday int) (*WorkRule, error) {
	var rule WorkRule
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("weekday = ?", weekday).
		First(&rule).Error
	return &rule, err
}

func (r *repository) UpsertRule(ctx context.Context, rule *WorkRule) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "weekday"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"core_start", "core_end", "max_daily_minutes", "work_allowed", "updated_at",
			}),
		}).
		Create(rule).Error
}

func (r *repository) FindLimitByUser(ctx context.Context, userID string) (*TimeLimit, error) {
	var limit TimeLimit
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&limit).Error
	return &limit, err
}

func (r *repository) UpsertLimit(ctx context.Context, limit *TimeLimit) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"max_weekly_minutes", "max_overtime_minutes", "max_undertime_minutes", "updated_at",
			}),
		}).
		Create(limit).Error
}

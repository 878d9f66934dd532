package leave

import (
	"context"
	"database/sql"
	"time"

	"timeclock/internal/domain"
	"timeclock/internal/scope"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindByUser(ctx context.Context, userID string) ([]LeaveRequest, error)
	FindVisible(ctx context.Context, p domain.Principal, status string, newestFirst bool, limit int) ([]LeaveRequest, error)
	HasOverlap(ctx context.Context, userID string, from, to time.Time, excludeID string) (bool, error)
	Update(ctx context.Context, r *LeaveRequest) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	db := r.db.Session(&gorm.Session{NewDB: true})
	db.Statement.ConnPool = tx
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var req LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").
		First(&req, "id = ?", id).Error
	return &req, err
}

func (r *repository) FindByUser(ctx context.Context, userID string) ([]LeaveRequest, error) {
	var reqs []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *repository) FindVisible(ctx context.Context, p domain.Principal, status string, newestFirst bool, limit int) ([]LeaveRequest, error) {
	var reqs []LeaveRequest
	q := r.db.WithContext(ctx).
		Scopes(scope.VisibleOwners(p, "leave_requests.user_id")).
		Preload("Requester")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if newestFirst {
		q = q.Order("created_at DESC")
	} else {
		q = q.Order("created_at ASC")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&reqs).Error
	return reqs, err
}

// HasOverlap reports whether any non-denied request of the user intersects
// [from, to]. Two inclusive ranges intersect when each starts no later than
// the other ends.
func (r *repository) HasOverlap(ctx context.Context, userID string, from, to time.Time, excludeID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("user_id = ?", userID).
		Where("status <> ?", StatusDenied).
		Where("date_from <= ? AND date_to >= ?", to, from)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, req *LeaveRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&LeaveRequest{}, "id = ?", id).Error
}

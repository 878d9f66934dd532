package stamp

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=stamp_repo.go -destination=mock/stamp_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *StampEvent) error
	FindLastByUser(ctx context.Context, userID string) (*StampEvent, error)
	FindByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]StampEvent, error)
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

func (r *repository) Create(ctx context.Context, e *StampEvent) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindLastByUser(ctx context.Context, userID string) (*StampEvent, error) {
	var e StampEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("stamp_time DESC").
		First(&e).Error
	return &e, err
}

func (r *repository) FindByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]StampEvent, error) {
	var events []StampEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("stamp_time >= ? AND stamp_time < ?", from, to).
		Order("stamp_time ASC").
		Find(&events).Error
	return events, err
}

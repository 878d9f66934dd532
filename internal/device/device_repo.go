package device

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=device_repo.go -destination=mock/device_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, d *Device) error
	FindByID(ctx context.Context, id string) (*Device, error)
	FindAll(ctx context.Context) ([]Device, error)
	TouchLastSeen(ctx context.Context, id string, at time.Time) error
	SetAssignTarget(ctx context.Context, id string, userID *string) error
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

func (r *repository) Create(ctx context.Context, d *Device) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Device, error) {
	var d Device
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	return &d, err
}

func (r *repository) FindAll(ctx context.Context) ([]Device, error) {
	var devices []Device
	err := r.db.WithContext(ctx).Order("name ASC").Find(&devices).Error
	return devices, err
}

func (r *repository) TouchLastSeen(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Device{}).
		Where("id = ?", id).
		Update("last_seen_at", at).Error
}

func (r *repository) SetAssignTarget(ctx context.Context, id string, userID *string) error {
	return r.db.WithContext(ctx).
		Model(&Device{}).
		Where("id = ?", id).
		Update("assign_user_id", userID).Error
}

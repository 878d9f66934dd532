package group

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=group_repo.go -destination=mock/group_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, g *Group) error
	FindByID(ctx context.Context, id string) (*Group, error)
	FindAllWithCounts(ctx context.Context) ([]GroupWithCount, error)
	CountMembers(ctx context.Context, id string) (int64, error)
	NameInUseByOther(ctx context.Context, name, excludeID string) (bool, error)
	Update(ctx context.Context, g *Group) error
	DetachMembers(ctx context.Context, id string) error
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

func (r *repository) Create(ctx context.Context, g *Group) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Group, error) {
	var g Group
	err := r.db.WithContext(ctx).First(&g, "id = ?", id).Error
	return &g, err
}

func (r *repository) FindAllWithCounts(ctx context.Context) ([]GroupWithCount, error) {
	var groups []GroupWithCount
	err := r.db.WithContext(ctx).
		Model(&Group{}).
		Select("groups.*, COUNT(users.id) AS member_count").
		Joins("LEFT JOIN users ON users.group_id = groups.id AND users.is_active = true").
		Group("groups.id").
		Order("groups.name ASC").
		Find(&groups).Error
	return groups, err
}

func (r *repository) CountMembers(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("users").
		Where("group_id = ?", id).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *repository) NameInUseByOther(ctx context.Context, name, excludeID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Model(&Group{}).
		Where("LOWER(name) = LOWER(?)", name)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, g *Group) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *repository) DetachMembers(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Table("users").
		Where("group_id = ?", id).
		Update("group_id", nil).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Group{}, "id = ?", id).Error
}

package user

import (
	"context"
	"database/sql"

	"timeclock/internal/domain"
	"timeclock/internal/scope"

	"gorm.io/gorm"
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindActiveByTagUID(ctx context.Context, tagUID string) (*User, error)
	FindAllVisible(ctx context.Context, p domain.Principal) ([]User, error)
	EmailInUseByOther(ctx context.Context, email, excludeID string) (bool, error)
	Update(ctx context.Context, u *User) error
	AssignTag(ctx context.Context, userID, tagUID string) error
	SupervisorOf(ctx context.Context, userID string) (*string, error)
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

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Preload("Supervisor").
		Preload("Group").
		First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	return &u, err
}

func (r *repository) FindActiveByTagUID(ctx context.Context, tagUID string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Where("tag_uid = ?", tagUID).
		Where("is_active = ?", true).
		First(&u).Error
	return &u, err
}

func (r *repository) FindAllVisible(ctx context.Context, p domain.Principal) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Scopes(scope.Users(p)).
		Preload("Supervisor").
		Preload("Group").
		Order("last_name ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) EmailInUseByOther(ctx context.Context, email, excludeID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Model(&User{}).
		Where("email = ?", email)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *repository) AssignTag(ctx context.Context, userID, tagUID string) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", userID).
		Update("tag_uid", tagUID).Error
}

func (r *repository) SupervisorOf(ctx context.Context, userID string) (*string, error) {
	var u User
	err := r.db.WithContext(ctx).
		Select("id", "supervisor_id").
		First(&u, "id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	if u.SupervisorID == nil {
		return nil, nil
	}
	id := u.SupervisorID.String()
	return &id, nil
}

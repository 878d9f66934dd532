package user_test

import (
	"context"
	"database/sql"
	"testing"

	"timeclock/internal/domain"
	"timeclock/internal/user"
	usererrors "timeclock/internal/user/errors"
	"timeclock/internal/workrule"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepository struct {
	createFn             func(ctx context.Context, u *user.User) error
	findByIDFn           func(ctx context.Context, id string) (*user.User, error)
	findByEmailFn        func(ctx context.Context, email string) (*user.User, error)
	findActiveByTagUIDFn func(ctx context.Context, tagUID string) (*user.User, error)
	findAllVisibleFn     func(ctx context.Context, p domain.Principal) ([]user.User, error)
	emailInUseByOtherFn  func(ctx context.Context, email, excludeID string) (bool, error)
	updateFn             func(ctx context.Context, u *user.User) error
	assignTagFn          func(ctx context.Context, userID, tagUID string) error
	supervisorOfFn       func(ctx context.Context, userID string) (*string, error)
}

func (f *fakeUserRepository) WithTx(tx *sql.Tx) user.Repository { return f }

func (f *fakeUserRepository) Create(ctx context.Context, u *user.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return nil
}

func (f *fakeUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	if f.findByEmailFn != nil {
		return f.findByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) FindActiveByTagUID(ctx context.Context, tagUID string) (*user.User, error) {
	if f.findActiveByTagUIDFn != nil {
		return f.findActiveByTagUIDFn(ctx, tagUID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) FindAllVisible(ctx context.Context, p domain.Principal) ([]user.User, error) {
	if f.findAllVisibleFn != nil {
		return f.findAllVisibleFn(ctx, p)
	}
	return nil, nil
}

func (f *fakeUserRepository) EmailInUseByOther(ctx context.Context, email, excludeID string) (bool, error) {
	if f.emailInUseByOtherFn != nil {
		return f.emailInUseByOtherFn(ctx, email, excludeID)
	}
	return false, nil
}

func (f *fakeUserRepository) Update(ctx context.Context, u *user.User) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, u)
	}
	return nil
}

func (f *fakeUserRepository) AssignTag(ctx context.Context, userID, tagUID string) error {
	if f.assignTagFn != nil {
		return f.assignTagFn(ctx, userID, tagUID)
	}
	return nil
}

func (f *fakeUserRepository) SupervisorOf(ctx context.Context, userID string) (*string, error) {
	if f.supervisorOfFn != nil {
		return f.supervisorOfFn(ctx, userID)
	}
	return nil, nil
}

type fakeRuleRepository struct {
	createRulesFn func(ctx context.Context, rules []workrule.WorkRule) error
	createLimitFn func(ctx context.Context, limit *workrule.TimeLimit) error
}

func (f *fakeRuleRepository) WithTx(tx *sql.Tx) workrule.Repository { return f }

func (f *fakeRuleRepository) CreateRules(ctx context.Context, rules []workrule.WorkRule) error {
	if f.createRulesFn != nil {
		return f.createRulesFn(ctx, rules)
	}
	return nil
}

func (f *fakeRuleRepository) CreateLimit(ctx context.Context, limit *workrule.TimeLimit) error {
	if f.createLimitFn != nil {
		return f.createLimitFn(ctx, limit)
	}
	return nil
}

func (f *fakeRuleRepository) FindRulesByUser(ctx context.Context, userID string) ([]workrule.WorkRule, error) {
	return nil, nil
}

func (f *fakeRuleRepository) FindRuleByUserAndWeekday(ctx context.Context, userID string, weekday int) (*workrule.WorkRule, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRuleRepository) UpsertRule(ctx context.Context, rule *workrule.WorkRule) error {
	return nil
}

func (f *fakeRuleRepository) FindLimitByUser(ctx context.Context, userID string) (*workrule.TimeLimit, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRuleRepository) UpsertLimit(ctx context.Context, limit *workrule.TimeLimit) error {
	return nil
}

func strPtr(s string) *string { return &s }

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes password and seeds defaults", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin()
		mock.ExpectCommit()

		var created *user.User
		var seededRules []workrule.WorkRule
		var seededLimit *workrule.TimeLimit
		repo := &fakeUserRepository{
			createFn: func(ctx context.Context, u *user.User) error {
				created = u
				return nil
			},
		}
		rules := &fakeRuleRepository{
			createRulesFn: func(ctx context.Context, r []workrule.WorkRule) error {
				seededRules = r
				return nil
			},
			createLimitFn: func(ctx context.Context, l *workrule.TimeLimit) error {
				seededLimit = l
				return nil
			},
		}
		svc := user.NewService(db, repo, rules)

		resp, err := svc.Create(ctx, user.CreateUserRequest{
			Email:     "anna@example.com",
			Password:  "s3cret-pass",
			FirstName: "Anna",
			LastName:  "Keller",
		})

		assert.NoError(t, err)
		assert.Equal(t, "worker", resp.Role)
		assert.True(t, resp.Active)
		assert.NotEqual(t, "s3cret-pass", created.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("s3cret-pass")))
		assert.Len(t, seededRules, 7)
		assert.Equal(t, created.ID, seededLimit.UserID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin()
		mock.ExpectRollback()

		svc := user.NewService(db, &fakeUserRepository{}, &fakeRuleRepository{})

		_, err = svc.Create(ctx, user.CreateUserRequest{
			Email:     "anna@example.com",
			Password:  "s3cret-pass",
			FirstName: "Anna",
			LastName:  "Keller",
			Role:      "manager",
		})

		assert.ErrorIs(t, err, usererrors.ErrInvalidRole)
	})

	t.Run("rejects malformed supervisor reference", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin()
		mock.ExpectRollback()

		svc := user.NewService(db, &fakeUserRepository{}, &fakeRuleRepository{})

		_, err = svc.Create(ctx, user.CreateUserRequest{
			Email:        "anna@example.com",
			Password:     "s3cret-pass",
			FirstName:    "Anna",
			LastName:     "Keller",
			SupervisorID: strPtr("not-a-uuid"),
		})

		assert.ErrorIs(t, err, usererrors.ErrInvalidSupervisorID)
	})
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()

	existing := func(id uuid.UUID) *user.User {
		return &user.User{
			ID:        id,
			Email:     "anna@example.com",
			Password:  "hashed",
			FirstName: "Anna",
			LastName:  "Keller",
			Role:      "worker",
			IsActive:  true,
		}
	}

	t.Run("patches only provided fields", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin()
		mock.ExpectCommit()

		id := uuid.New()
		var saved *user.User
		repo := &fakeUserRepository{
			findByIDFn: func(ctx context.Context, uid string) (*user.User, error) {
				return existing(id), nil
			},
			updateFn: func(ctx context.Context, u *user.User) error {
				saved = u
				return nil
			},
		}
		svc := user.NewService(db, repo, &fakeRuleRepository{})

		resp, err := svc.Update(ctx, id.String(), user.UpdateUserRequest{
			LastName: strPtr("Meier"),
		})

		assert.NoError(t, err)
		assert.Equal(t, "Meier", saved.LastName)
		assert.Equal(t, "Anna", saved.FirstName)
		assert.Equal(t, "anna@example.com", resp.Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty string clears supervisor reference", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin()
		mock.ExpectCommit()

		id := uuid.New()
		supID := uuid.New()
		var saved *user.User
		repo := &fakeUserRepository{
			findByIDFn: func(ctx context.Context, uid string) (*user.User, error) {
				u := existing(id)
				u.SupervisorID = &supID
				return u, nil
			},
			updateFn: func(ctx context.Context, u *user.User) error {
				saved = u
				return nil
			},
		}
		svc := user.NewService(db, repo, &fakeRuleRepository{})

		_, err = svc.Update(ctx, id.String(), user.UpdateUserRequest{
			SupervisorID: strPtr(""),
		})

		assert.NoError(t, err)
		assert.Nil(t, saved.SupervisorID)
	})

	t.Run("rejects email already in use", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin()
		mock.ExpectRollback()

		id := uuid.New()
		repo := &fakeUserRepository{
			findByIDFn: func(ctx context.Context, uid string) (*user.User, error) {
				return existing(id), nil
			},
			emailInUseByOtherFn: func(ctx context.Context, email, excludeID string) (bool, error) {
				return true, nil
			},
		}
		svc := user.NewService(db, repo, &fakeRuleRepository{})

		_, err = svc.Update(ctx, id.String(), user.UpdateUserRequest{
			Email: strPtr("taken@example.com"),
		})

		assert.ErrorIs(t, err, usererrors.ErrEmailTaken)
	})

	t.Run("rejects empty patch", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		svc := user.NewService(db, &fakeUserRepository{}, &fakeRuleRepository{})

		_, err = svc.Update(ctx, uuid.New().String(), user.UpdateUserRequest{})

		assert.ErrorIs(t, err, usererrors.ErrNoChanges)
	})

	t.Run("unknown user maps to not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin()
		mock.ExpectRollback()

		svc := user.NewService(db, &fakeUserRepository{}, &fakeRuleRepository{})

		_, err = svc.Update(ctx, uuid.New().String(), user.UpdateUserRequest{
			FirstName: strPtr("Anna"),
		})

		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})
}

func TestUserService_Deactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("flips active flag", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin()
		mock.ExpectCommit()

		id := uuid.New()
		var saved *user.User
		repo := &fakeUserRepository{
			findByIDFn: func(ctx context.Context, uid string) (*user.User, error) {
				return &user.User{ID: id, IsActive: true}, nil
			},
			updateFn: func(ctx context.Context, u *user.User) error {
				saved = u
				return nil
			},
		}
		svc := user.NewService(db, repo, &fakeRuleRepository{})

		p := domain.Principal{UserID: uuid.New().String(), Role: domain.RoleAdmin}
		err = svc.Deactivate(ctx, p, id.String())

		assert.NoError(t, err)
		assert.False(t, saved.IsActive)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("refuses to deactivate yourself", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		id := uuid.New().String()
		svc := user.NewService(db, &fakeUserRepository{}, &fakeRuleRepository{})

		p := domain.Principal{UserID: id, Role: domain.RoleAdmin}
		err = svc.Deactivate(ctx, p, id)

		assert.ErrorIs(t, err, usererrors.ErrCannotDeactivateSelf)
	})
}

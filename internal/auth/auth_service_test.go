package auth_test

import (
	"context"
	"testing"

	"timeclock/internal/auth"
	autherrors "timeclock/internal/auth/errors"
	"timeclock/internal/domain"
	"timeclock/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserStore struct {
	byEmail map[string]*user.User
	byID    map[string]*user.User
	updated *user.User
}

func newFakeUserStore(users ...*user.User) *fakeUserStore {
	s := &fakeUserStore{
		byEmail: make(map[string]*user.User),
		byID:    make(map[string]*user.User),
	}
	for _, u := range users {
		s.byEmail[u.Email] = u
		s.byID[u.ID.String()] = u
	}
	return s
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserStore) FindByID(ctx context.Context, id string) (*user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserStore) Update(ctx context.Context, u *user.User) error {
	f.updated = u
	return nil
}

func activeUser(t *testing.T, email, password string) *user.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return &user.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  string(hash),
		FirstName: "Anna",
		LastName:  "Keller",
		Role:      "worker",
		IsActive:  true,
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("valid credentials return a token", func(t *testing.T) {
		u := activeUser(t, "anna@example.com", "s3cret-pass")
		svc := auth.NewService(newFakeUserStore(u))

		resp, err := svc.Login(ctx, auth.LoginRequest{Email: "anna@example.com", Password: "s3cret-pass"})

		assert.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, u.ID.String(), resp.User.ID)
		assert.Positive(t, resp.ExpiresIn)
	})

	t.Run("wrong password and unknown email answer alike", func(t *testing.T) {
		u := activeUser(t, "anna@example.com", "s3cret-pass")
		svc := auth.NewService(newFakeUserStore(u))

		_, errWrongPassword := svc.Login(ctx, auth.LoginRequest{Email: "anna@example.com", Password: "nope"})
		_, errUnknownEmail := svc.Login(ctx, auth.LoginRequest{Email: "ghost@example.com", Password: "nope"})

		assert.ErrorIs(t, errWrongPassword, autherrors.ErrInvalidCredentials)
		assert.ErrorIs(t, errUnknownEmail, autherrors.ErrInvalidCredentials)
	})

	t.Run("deactivated account cannot log in", func(t *testing.T) {
		u := activeUser(t, "anna@example.com", "s3cret-pass")
		u.IsActive = false
		svc := auth.NewService(newFakeUserStore(u))

		_, err := svc.Login(ctx, auth.LoginRequest{Email: "anna@example.com", Password: "s3cret-pass"})

		assert.ErrorIs(t, err, autherrors.ErrAccountDisabled)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("rotates the hash", func(t *testing.T) {
		u := activeUser(t, "anna@example.com", "old-pass")
		store := newFakeUserStore(u)
		svc := auth.NewService(store)

		p := domain.Principal{UserID: u.ID.String(), Role: domain.RoleWorker}
		err := svc.ChangePassword(ctx, p, auth.ChangePasswordRequest{
			CurrentPassword: "old-pass",
			NewPassword:     "new-pass-123",
		})

		assert.NoError(t, err)
		assert.NotNil(t, store.updated)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(store.updated.Password), []byte("new-pass-123")))
	})

	t.Run("wrong current password is rejected", func(t *testing.T) {
		u := activeUser(t, "anna@example.com", "old-pass")
		store := newFakeUserStore(u)
		svc := auth.NewService(store)

		p := domain.Principal{UserID: u.ID.String(), Role: domain.RoleWorker}
		err := svc.ChangePassword(ctx, p, auth.ChangePasswordRequest{
			CurrentPassword: "not-it",
			NewPassword:     "new-pass-123",
		})

		assert.ErrorIs(t, err, autherrors.ErrWrongPassword)
		assert.Nil(t, store.updated)
	})
}

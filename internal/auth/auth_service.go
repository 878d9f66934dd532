package auth

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	autherrors "timeclock/internal/auth/errors"
	"timeclock/internal/domain"
	"timeclock/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultTokenHours = 24

// UserStore is the slice of the user repository the auth flows need.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByID(ctx context.Context, id string) (*user.User, error)
	Update(ctx context.Context, u *user.User) error
}

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Me(ctx context.Context, p domain.Principal) (ProfileInfo, error)
	ChangePassword(ctx context.Context, p domain.Principal, req ChangePasswordRequest) error
}

type service struct {
	users  UserStore
	logger *zap.Logger
}

func NewService(users UserStore, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{users: users, logger: l}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same answer as a wrong password so the response does not leak
			// which emails exist.
			return LoginResponse{}, autherrors.ErrInvalidCredentials
		}
		return LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		s.logger.Info("login rejected", zap.String("user_id", u.ID.String()))
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	if !u.IsActive {
		s.logger.Info("login rejected for deactivated account", zap.String("user_id", u.ID.String()))
		return LoginResponse{}, autherrors.ErrAccountDisabled
	}

	ttl := tokenTTL()
	token, err := s.issueToken(u, ttl)
	if err != nil {
		s.logger.Error("token issuance failed", zap.Error(err))
		return LoginResponse{}, err
	}

	s.logger.Info("login succeeded",
		zap.String("user_id", u.ID.String()),
		zap.String("role", u.Role),
	)

	return LoginResponse{
		AccessToken: token,
		ExpiresIn:   int(ttl.Seconds()),
		User:        mapProfile(u),
	}, nil
}

func (s *service) Me(ctx context.Context, p domain.Principal) (ProfileInfo, error) {
	u, err := s.users.FindByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileInfo{}, autherrors.ErrInvalidCredentials
		}
		return ProfileInfo{}, err
	}
	return mapProfile(u), nil
}

func (s *service) ChangePassword(ctx context.Context, p domain.Principal, req ChangePasswordRequest) error {
	u, err := s.users.FindByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return autherrors.ErrInvalidCredentials
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.CurrentPassword)); err != nil {
		return autherrors.ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	u.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, u); err != nil {
		s.logger.Error("password update failed", zap.String("user_id", p.UserID), zap.Error(err))
		return err
	}

	s.logger.Info("password changed", zap.String("user_id", p.UserID))
	return nil
}

func (s *service) issueToken(u *user.User, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"user_id":    u.ID.String(),
		"role":       u.Role,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
	}
	if u.GroupID != nil {
		claims["group_id"] = u.GroupID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func tokenTTL() time.Duration {
	if v := os.Getenv("JWT_EXPIRES_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			return time.Duration(hours) * time.Hour
		}
	}
	return defaultTokenHours * time.Hour
}

func mapProfile(u *user.User) ProfileInfo {
	p := ProfileInfo{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
	if u.GroupID != nil {
		v := u.GroupID.String()
		p.GroupID = &v
	}
	return p
}

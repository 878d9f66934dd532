package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"timeclock/internal/domain"
	usererrors "timeclock/internal/user/errors"
	"timeclock/internal/workrule"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	GetAllVisible(ctx context.Context, p domain.Principal) ([]UserResponse, error)
	Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error)
	Deactivate(ctx context.Context, p domain.Principal, id string) error
}

type service struct {
	db       *sql.DB
	repo     Repository
	ruleRepo workrule.Repository
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, ruleRepo workrule.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{db: db, repo: repo, ruleRepo: ruleRepo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateUserRequest) (UserResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create user begin tx failed", zap.Error(err))
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qrules := s.ruleRepo.WithTx(tx)

	role := domain.Role(req.Role)
	if req.Role == "" {
		role = domain.RoleWorker
	}
	if !role.Valid() {
		return UserResponse{}, usererrors.ErrInvalidRole
	}

	supervisorID, err := parseOptionalUUID(req.SupervisorID, usererrors.ErrInvalidSupervisorID)
	if err != nil {
		return UserResponse{}, err
	}
	groupID, err := parseOptionalUUID(req.GroupID, usererrors.ErrInvalidGroupID)
	if err != nil {
		return UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, err
	}

	u := &User{
		ID:           uuid.New(),
		Email:        req.Email,
		Password:     string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         string(role),
		SupervisorID: supervisorID,
		GroupID:      groupID,
		IsActive:     true,
	}

	if err := qtx.Create(ctx, u); err != nil {
		if isUniqueViolation(err) {
			return UserResponse{}, usererrors.ErrEmailTaken
		}
		s.logger.Error("create user persist failed", zap.Error(err))
		return UserResponse{}, err
	}

	// Every user starts with the default weekday rules and advisory limits
	if err := qrules.CreateRules(ctx, workrule.DefaultRules(u.ID)); err != nil {
		s.logger.Error("seed default work rules failed", zap.Error(err))
		return UserResponse{}, err
	}
	limit := workrule.DefaultTimeLimit(u.ID)
	if err := qrules.CreateLimit(ctx, &limit); err != nil {
		s.logger.Error("seed default time limit failed", zap.Error(err))
		return UserResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create user commit failed", zap.Error(err))
		return UserResponse{}, err
	}

	s.logger.Info("user created",
		zap.String("user_id", u.ID.String()),
		zap.String("role", u.Role),
	)

	return mapToResponse(*u), nil
}

func (s *service) GetAllVisible(ctx context.Context, p domain.Principal) ([]UserResponse, error) {
	users, err := s.repo.FindAllVisible(ctx, p)
	if err != nil {
		return nil, err
	}
	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}
	if req.Email == nil && req.Password == nil && req.FirstName == nil && req.LastName == nil &&
		req.Role == nil && req.SupervisorID == nil && req.GroupID == nil && req.Active == nil {
		return UserResponse{}, usererrors.ErrNoChanges
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update user begin tx failed", zap.Error(err))
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	u, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	if req.Email != nil && *req.Email != u.Email {
		taken, err := qtx.EmailInUseByOther(ctx, *req.Email, id)
		if err != nil {
			return UserResponse{}, err
		}
		if taken {
			return UserResponse{}, usererrors.ErrEmailTaken
		}
		u.Email = *req.Email
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return UserResponse{}, err
		}
		u.Password = string(hash)
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		if !role.Valid() {
			return UserResponse{}, usererrors.ErrInvalidRole
		}
		u.Role = string(role)
	}
	if req.SupervisorID != nil {
		if *req.SupervisorID == "" {
			u.SupervisorID = nil
		} else {
			parsed, err := uuid.Parse(*req.SupervisorID)
			if err != nil {
				return UserResponse{}, usererrors.ErrInvalidSupervisorID
			}
			u.SupervisorID = &parsed
		}
	}
	if req.GroupID != nil {
		if *req.GroupID == "" {
			u.GroupID = nil
		} else {
			parsed, err := uuid.Parse(*req.GroupID)
			if err != nil {
				return UserResponse{}, usererrors.ErrInvalidGroupID
			}
			u.GroupID = &parsed
		}
	}
	if req.Active != nil {
		u.IsActive = *req.Active
	}
	u.UpdatedAt = time.Now().UTC()

	if err := qtx.Update(ctx, u); err != nil {
		if isUniqueViolation(err) {
			return UserResponse{}, usererrors.ErrEmailTaken
		}
		s.logger.Error("update user persist failed", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update user commit failed", zap.Error(err))
		return UserResponse{}, err
	}

	s.logger.Info("user updated", zap.String("user_id", id))

	return mapToResponse(*u), nil
}

func (s *service) Deactivate(ctx context.Context, p domain.Principal, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return usererrors.ErrInvalidUserID
	}
	if id == p.UserID {
		return usererrors.ErrCannotDeactivateSelf
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	u, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usererrors.ErrUserNotFound
		}
		return err
	}

	u.IsActive = false
	if err := qtx.Update(ctx, u); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("user deactivated", zap.String("user_id", id))
	return nil
}

func parseOptionalUUID(v *string, invalid error) (*uuid.UUID, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(*v)
	if err != nil {
		return nil, invalid
	}
	return &parsed, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		TagUID:    u.TagUID,
		Active:    u.IsActive,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
	if u.SupervisorID != nil {
		v := u.SupervisorID.String()
		resp.SupervisorID = &v
	}
	if u.Supervisor != nil {
		name := u.Supervisor.FirstName + " " + u.Supervisor.LastName
		resp.SupervisorName = &name
	}
	if u.GroupID != nil {
		v := u.GroupID.String()
		resp.GroupID = &v
	}
	if u.Group != nil {
		name := u.Group.Name
		resp.GroupName = &name
	}
	return resp
}

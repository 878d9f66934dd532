package group

import (
	"context"
	"database/sql"
	"errors"
	"time"

	grouperrors "timeclock/internal/group/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=group_service.go -destination=mock/group_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateGroupRequest) (GroupResponse, error)
	GetAll(ctx context.Context) ([]GroupResponse, error)
	Update(ctx context.Context, id string, req UpdateGroupRequest) (GroupResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("group.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("group.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateGroupRequest) (GroupResponse, error) {
	taken, err := s.repo.NameInUseByOther(ctx, req.Name, "")
	if err != nil {
		return GroupResponse{}, err
	}
	if taken {
		return GroupResponse{}, grouperrors.ErrNameTaken
	}

	g := &Group{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, g); err != nil {
		s.logger.Error("create group failed", zap.Error(err))
		return GroupResponse{}, err
	}

	s.logger.Info("group created", zap.String("group_id", g.ID.String()), zap.String("name", g.Name))
	return mapToResponse(*g, 0), nil
}

func (s *service) GetAll(ctx context.Context) ([]GroupResponse, error) {
	groups, err := s.repo.FindAllWithCounts(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]GroupResponse, len(groups))
	for i, g := range groups {
		resp[i] = mapToResponse(g.Group, g.MemberCount)
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateGroupRequest) (GroupResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return GroupResponse{}, grouperrors.ErrInvalidGroupID
	}

	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GroupResponse{}, grouperrors.ErrGroupNotFound
		}
		return GroupResponse{}, err
	}

	if req.Name != nil && *req.Name != g.Name {
		taken, err := s.repo.NameInUseByOther(ctx, *req.Name, id)
		if err != nil {
			return GroupResponse{}, err
		}
		if taken {
			return GroupResponse{}, grouperrors.ErrNameTaken
		}
		g.Name = *req.Name
	}
	if req.Description != nil {
		if *req.Description == "" {
			g.Description = nil
		} else {
			g.Description = req.Description
		}
	}
	g.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, g); err != nil {
		s.logger.Error("update group failed", zap.String("group_id", id), zap.Error(err))
		return GroupResponse{}, err
	}

	count, err := s.repo.CountMembers(ctx, id)
	if err != nil {
		return GroupResponse{}, err
	}
	return mapToResponse(*g, count), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return grouperrors.ErrInvalidGroupID
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return grouperrors.ErrGroupNotFound
		}
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Members fall back to ungrouped so a group is always deletable.
	if err := qtx.DetachMembers(ctx, id); err != nil {
		s.logger.Error("detach group members failed", zap.String("group_id", id), zap.Error(err))
		return err
	}
	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete group failed", zap.String("group_id", id), zap.Error(err))
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("group deleted", zap.String("group_id", id))
	return nil
}

func mapToResponse(g Group, memberCount int64) GroupResponse {
	return GroupResponse{
		ID:          g.ID.String(),
		Name:        g.Name,
		Description: g.Description,
		MemberCount: memberCount,
		CreatedAt:   g.CreatedAt.Format(time.RFC3339),
	}
}

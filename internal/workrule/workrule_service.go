package workrule

import (
	"context"
	"database/sql"
	"errors"

	"timeclock/internal/domain"
	"timeclock/internal/scope"
	workruleerrors "timeclock/internal/workrule/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserDirectory resolves the supervisor reference of a target user for the
// visibility point-check. Implemented by the user repository.
type UserDirectory interface {
	SupervisorOf(ctx context.Context, userID string) (*string, error)
}

//go:generate mockgen -source=workrule_service.go -destination=mock/workrule_service_mock.go -package=mock
type Service interface {
	GetForUser(ctx context.Context, p domain.Principal, targetUserID string) (RulesResponse, error)
	Update(ctx context.Context, targetUserID string, req UpdateWorkRulesRequest) (RulesResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	users  UserDirectory
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, users UserDirectory, logger ...*zap.Logger) Service {
	l := zap.L().Named("workrule.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("workrule.service")
	}
	return &service{db: db, repo: repo, users: users, logger: l}
}

func (s *service) GetForUser(ctx context.Context, p domain.Principal, targetUserID string) (RulesResponse, error) {
	if _, err := uuid.Parse(targetUserID); err != nil {
		return RulesResponse{}, workruleerrors.ErrInvalidUserID
	}

	if targetUserID != p.UserID {
		supervisorID, err := s.users.SupervisorOf(ctx, targetUserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return RulesResponse{}, workruleerrors.ErrInvalidUserID
			}
			return RulesResponse{}, err
		}
		if !scope.CanViewUser(p, targetUserID, supervisorID) {
			return RulesResponse{}, workruleerrors.ErrNotVisible
		}
	}

	return s.fetch(ctx, targetUserID)
}

func (s *service) Update(ctx context.Context, targetUserID string, req UpdateWorkRulesRequest) (RulesResponse, error) {
	userUUID, err := uuid.Parse(targetUserID)
	if err != nil {
		return RulesResponse{}, workruleerrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update work rules begin tx failed", zap.Error(err))
		return RulesResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	for _, input := range req.Rules {
		if input.Weekday < 0 || input.Weekday > 6 {
			return RulesResponse{}, workruleerrors.ErrInvalidWeekday
		}
		rule := &WorkRule{
			ID:              uuid.New(),
			UserID:          userUUID,
			Weekday:         input.Weekday,
			CoreStart:       input.CoreStart,
			CoreEnd:         input.CoreEnd,
			MaxDailyMinutes: clampNonNegative(input.MaxDailyMinutes),
			WorkAllowed:     input.WorkAllowed,
		}
		if err := qtx.UpsertRule(ctx, rule); err != nil {
			s.logger.Error("upsert work rule failed",
				zap.String("user_id", targetUserID),
				zap.Int("weekday", input.Weekday),
				zap.Error(err),
			)
			return RulesResponse{}, err
		}
	}

	if req.Limits != nil {
		limit := &TimeLimit{
			UserID:              userUUID,
			MaxWeeklyMinutes:    clampNonNegative(req.Limits.MaxWeeklyMinutes),
			MaxOvertimeMinutes:  clampNonNegative(req.Limits.MaxOvertimeMinutes),
			MaxUndertimeMinutes: clampNonNegative(req.Limits.MaxUndertimeMinutes),
		}
		if err := qtx.UpsertLimit(ctx, limit); err != nil {
			s.logger.Error("upsert time limit failed",
				zap.String("user_id", targetUserID),
				zap.Error(err),
			)
			return RulesResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update work rules commit failed", zap.Error(err))
		return RulesResponse{}, err
	}

	s.logger.Info("work rules updated",
		zap.String("user_id", targetUserID),
		zap.Int("rules", len(req.Rules)),
		zap.Bool("limits", req.Limits != nil),
	)

	return s.fetch(ctx, targetUserID)
}

func (s *service) fetch(ctx context.Context, userID string) (RulesResponse, error) {
	rules, err := s.repo.FindRulesByUser(ctx, userID)
	if err != nil {
		return RulesResponse{}, err
	}
	resp := RulesResponse{Rules: mapRules(rules)}

	limit, err := s.repo.FindLimitByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return RulesResponse{}, err
		}
		return resp, nil
	}
	resp.Limits = &LimitsResponse{
		MaxWeeklyMinutes:    limit.MaxWeeklyMinutes,
		MaxOvertimeMinutes:  limit.MaxOvertimeMinutes,
		MaxUndertimeMinutes: limit.MaxUndertimeMinutes,
	}
	return resp, nil
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func mapRules(rules []WorkRule) []RuleResponse {
	resp := make([]RuleResponse, len(rules))
	for i, r := range rules {
		resp[i] = RuleResponse{
			Weekday:         r.Weekday,
			CoreStart:       r.CoreStart,
			CoreEnd:         r.CoreEnd,
			MaxDailyMinutes: r.MaxDailyMinutes,
			WorkAllowed:     r.WorkAllowed,
		}
	}
	return resp
}

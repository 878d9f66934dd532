package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"timeclock/internal/domain"
	"timeclock/internal/events"
	leaveerrors "timeclock/internal/leave/errors"
	"timeclock/internal/notify"
	"timeclock/internal/shared/keylock"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, p domain.Principal, req CreateLeaveRequest) (LeaveResponse, error)
	My(ctx context.Context, p domain.Principal) ([]LeaveResponse, error)
	List(ctx context.Context, p domain.Principal, status string) ([]LeaveResponse, error)
	Review(ctx context.Context, p domain.Principal, id string, req ReviewLeaveRequest) (LeaveResponse, error)
	Delete(ctx context.Context, p domain.Principal, id string) error
}

type service struct {
	db       *sql.DB
	repo     Repository
	notifier notify.Notifier
	locks    *keylock.KeyedMutex
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, notifier notify.Notifier, locks *keylock.KeyedMutex, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, notifier: notifier, locks: locks, logger: l}
}

// Create files a new pending request. The per-user lock keeps the overlap
// check and the insert from interleaving with a concurrent request for the
// same user.
func (s *service) Create(ctx context.Context, p domain.Principal, req CreateLeaveRequest) (LeaveResponse, error) {
	// The binding tag rejects unknown types at the edge; this guards
	// callers that construct requests directly.
	if !ValidType(req.Type) {
		return LeaveResponse{}, leaveerrors.ErrInvalidType
	}

	from, err := time.ParseInLocation(dateLayout, req.DateFrom, time.UTC)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}
	to, err := time.ParseInLocation(dateLayout, req.DateTo, time.UTC)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}
	if to.Before(from) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	userID, err := uuid.Parse(p.UserID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidRequestID
	}

	s.locks.Lock(p.UserID)
	defer s.locks.Unlock(p.UserID)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlap, err := qtx.HasOverlap(ctx, p.UserID, from, to, "")
	if err != nil {
		return LeaveResponse{}, err
	}
	if overlap {
		return LeaveResponse{}, leaveerrors.ErrOverlap
	}

	record := &LeaveRequest{
		ID:       uuid.New(),
		UserID:   userID,
		Type:     req.Type,
		DateFrom: from,
		DateTo:   to,
		Reason:   req.Reason,
		Status:   StatusPending,
	}
	if err := qtx.Create(ctx, record); err != nil {
		s.logger.Error("create leave persist failed", zap.String("user_id", p.UserID), zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("leave request created",
		zap.String("request_id", record.ID.String()),
		zap.String("user_id", p.UserID),
		zap.String("type", record.Type),
	)

	payload := events.LeaveRequestedEvent{
		EventType:  events.EventLeaveRequested,
		RequestID:  record.ID.String(),
		UserID:     p.UserID,
		UserName:   p.FullName(),
		LeaveType:  record.Type,
		DateFrom:   req.DateFrom,
		DateTo:     req.DateTo,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.notifier.Publish(notify.TopicSupervisors, events.EventLeaveRequested, p.UserID, payload); err != nil {
		s.logger.Warn("leave fanout publish failed", zap.String("request_id", payload.RequestID), zap.Error(err))
	}

	return mapToResponse(*record), nil
}

func (s *service) My(ctx context.Context, p domain.Principal) ([]LeaveResponse, error) {
	reqs, err := s.repo.FindByUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return mapAll(reqs), nil
}

func (s *service) List(ctx context.Context, p domain.Principal, status string) ([]LeaveResponse, error) {
	if status != "" && status != StatusPending && status != StatusApproved && status != StatusDenied {
		return nil, leaveerrors.ErrInvalidRequestID
	}

	// The review queue reads oldest first and unbounded; the general
	// listing newest first, capped.
	newestFirst, limit := true, 100
	if status == StatusPending {
		newestFirst, limit = false, 0
	}

	reqs, err := s.repo.FindVisible(ctx, p, status, newestFirst, limit)
	if err != nil {
		return nil, err
	}
	return mapAll(reqs), nil
}

// Review settles a pending request. Approved and denied are terminal: a
// second review answers with a state conflict, not a not-found, so the caller
// can tell a settled request from a missing one.
func (s *service) Review(ctx context.Context, p domain.Principal, id string, req ReviewLeaveRequest) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidRequestID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("review leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrRequestNotFound
		}
		return LeaveResponse{}, err
	}

	if !canReview(p, record) {
		return LeaveResponse{}, leaveerrors.ErrNotReviewable
	}
	if record.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrAlreadyReviewed
	}

	reviewerID, err := uuid.Parse(p.UserID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidRequestID
	}
	now := time.Now().UTC()
	record.Status = req.Decision
	record.ReviewedBy = &reviewerID
	record.ReviewedAt = &now
	record.ReviewComment = req.Comment
	record.UpdatedAt = now

	if err := qtx.Update(ctx, record); err != nil {
		s.logger.Error("review leave persist failed", zap.String("request_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("review leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("leave request reviewed",
		zap.String("request_id", id),
		zap.String("decision", req.Decision),
		zap.String("reviewer_id", p.UserID),
	)

	ownerID := record.UserID.String()
	payload := events.LeaveReviewedEvent{
		EventType:    events.EventLeaveReviewed,
		RequestID:    id,
		UserID:       ownerID,
		Status:       record.Status,
		ReviewerName: p.FullName(),
		OccurredAt:   now,
	}
	if err := s.notifier.Publish(notify.UserTopic(ownerID), events.EventLeaveReviewed, ownerID, payload); err != nil {
		s.logger.Warn("leave fanout publish failed", zap.String("request_id", id), zap.Error(err))
	}

	return mapToResponse(*record), nil
}

// Delete withdraws the caller's own pending request. Settled requests are
// part of the record and stay.
func (s *service) Delete(ctx context.Context, p domain.Principal, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return leaveerrors.ErrInvalidRequestID
	}

	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrRequestNotFound
		}
		return err
	}

	if record.UserID.String() != p.UserID {
		return leaveerrors.ErrNotVisible
	}
	if record.Status != StatusPending {
		return leaveerrors.ErrNotDeletable
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete leave failed", zap.String("request_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("leave request withdrawn", zap.String("request_id", id), zap.String("user_id", p.UserID))
	return nil
}

// canReview: admins review anything, supervisors only requests of their
// direct reports, and nobody reviews their own request.
func canReview(p domain.Principal, record *LeaveRequest) bool {
	if record.UserID.String() == p.UserID {
		return false
	}
	switch p.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleSupervisor:
		return record.Requester != nil &&
			record.Requester.SupervisorID != nil &&
			record.Requester.SupervisorID.String() == p.UserID
	}
	return false
}

func mapAll(reqs []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(reqs))
	for i, r := range reqs {
		resp[i] = mapToResponse(r)
	}
	return resp
}

func mapToResponse(r LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:            r.ID.String(),
		UserID:        r.UserID.String(),
		Type:          r.Type,
		DateFrom:      r.DateFrom.Format(dateLayout),
		DateTo:        r.DateTo.Format(dateLayout),
		Reason:        r.Reason,
		Status:        r.Status,
		ReviewComment: r.ReviewComment,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
	if r.Requester != nil {
		resp.UserName = r.Requester.FirstName + " " + r.Requester.LastName
	}
	if r.ReviewedBy != nil {
		v := r.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if r.ReviewedAt != nil {
		v := r.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}

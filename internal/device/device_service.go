package device

import (
	"context"
	"errors"
	"time"

	deviceerrors "timeclock/internal/device/errors"
	"timeclock/internal/events"
	"timeclock/internal/notify"
	"timeclock/internal/stamp"
	"timeclock/internal/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserDirectory is the slice of the user repository the terminal flow needs:
// tag resolution and the one-shot tag binding.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
	FindActiveByTagUID(ctx context.Context, tagUID string) (*user.User, error)
	AssignTag(ctx context.Context, userID, tagUID string) error
}

//go:generate mockgen -source=device_service.go -destination=mock/device_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, req RegisterDeviceRequest) (DeviceResponse, error)
	List(ctx context.Context) ([]DeviceResponse, error)
	SetAssignMode(ctx context.Context, deviceID string, req AssignModeRequest) (DeviceResponse, error)
	HandleReading(ctx context.Context, req ReadingRequest) (ReadingResponse, error)
}

type service struct {
	repo     Repository
	users    UserDirectory
	stamps   stamp.Service
	notifier notify.Notifier
	logger   *zap.Logger
}

func NewService(
	repo Repository,
	users UserDirectory,
	stamps stamp.Service,
	notifier notify.Notifier,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("device.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("device.service")
	}
	return &service{repo: repo, users: users, stamps: stamps, notifier: notifier, logger: l}
}

func (s *service) Register(ctx context.Context, req RegisterDeviceRequest) (DeviceResponse, error) {
	id, err := uuid.Parse(req.DeviceID)
	if err != nil {
		return DeviceResponse{}, deviceerrors.ErrInvalidDeviceID
	}

	if _, err := s.repo.FindByID(ctx, req.DeviceID); err == nil {
		return DeviceResponse{}, deviceerrors.ErrDeviceExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return DeviceResponse{}, err
	}

	d := &Device{
		ID:       id,
		Name:     req.Name,
		Location: req.Location,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return DeviceResponse{}, deviceerrors.ErrDeviceExists
		}
		s.logger.Error("register device failed", zap.Error(err))
		return DeviceResponse{}, err
	}

	s.logger.Info("device registered", zap.String("device_id", req.DeviceID), zap.String("name", req.Name))
	return mapToResponse(*d), nil
}

func (s *service) List(ctx context.Context) ([]DeviceResponse, error) {
	devices, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]DeviceResponse, len(devices))
	for i, d := range devices {
		resp[i] = mapToResponse(d)
	}
	return resp, nil
}

// SetAssignMode arms the device: the next reading binds its tag to the given
// user instead of stamping.
func (s *service) SetAssignMode(ctx context.Context, deviceID string, req AssignModeRequest) (DeviceResponse, error) {
	if _, err := uuid.Parse(deviceID); err != nil {
		return DeviceResponse{}, deviceerrors.ErrInvalidDeviceID
	}

	d, err := s.repo.FindByID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DeviceResponse{}, deviceerrors.ErrDeviceNotFound
		}
		return DeviceResponse{}, err
	}
	if !d.IsActive {
		return DeviceResponse{}, deviceerrors.ErrDeviceInactive
	}

	target, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DeviceResponse{}, deviceerrors.ErrInvalidUserID
		}
		return DeviceResponse{}, err
	}

	if err := s.repo.SetAssignTarget(ctx, deviceID, &req.UserID); err != nil {
		s.logger.Error("arm assign mode failed", zap.String("device_id", deviceID), zap.Error(err))
		return DeviceResponse{}, err
	}
	targetID := target.ID
	d.AssignUserID = &targetID

	s.logger.Info("device assign mode armed",
		zap.String("device_id", deviceID),
		zap.String("user_id", req.UserID),
	)

	payload := events.DeviceAssignModeEvent{
		EventType:  events.EventDeviceAssignMode,
		DeviceID:   deviceID,
		UserID:     req.UserID,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.notifier.Publish(notify.TopicAdmins, events.EventDeviceAssignMode, deviceID, payload); err != nil {
		s.logger.Warn("assign mode fanout publish failed", zap.String("device_id", deviceID), zap.Error(err))
	}

	return mapToResponse(*d), nil
}

// HandleReading processes one tag read. Domain outcomes always ack; the
// terminal only retries transport failures. An unknown tag is deliberately a
// no-op so a lost card cannot probe the user base.
func (s *service) HandleReading(ctx context.Context, req ReadingRequest) (ReadingResponse, error) {
	d, err := s.repo.FindByID(ctx, req.DeviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReadingResponse{}, deviceerrors.ErrDeviceNotFound
		}
		return ReadingResponse{}, err
	}
	// The heartbeat side effect happens for every reading from a known
	// device, even one that is deactivated.
	if err := s.repo.TouchLastSeen(ctx, req.DeviceID, time.Now().UTC()); err != nil {
		s.logger.Warn("device heartbeat update failed", zap.String("device_id", req.DeviceID), zap.Error(err))
	}

	if !d.IsActive {
		return ReadingResponse{}, deviceerrors.ErrDeviceInactive
	}

	if d.AssignUserID != nil {
		return s.assignTag(ctx, d, req.TagUID)
	}

	u, err := s.users.FindActiveByTagUID(ctx, req.TagUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Info("reading with unknown tag ignored", zap.String("device_id", req.DeviceID))
			return ReadingResponse{Ack: true, Action: ActionIgnored}, nil
		}
		return ReadingResponse{}, err
	}

	deviceID := d.ID
	result, err := s.stamps.Record(ctx, stamp.Actor{
		UserID:    u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}, stamp.SourceTerminal, &deviceID)
	if err != nil {
		return ReadingResponse{}, err
	}

	if !result.Success {
		return ReadingResponse{
			Ack:      true,
			Action:   ActionRefused,
			UserName: u.FullName(),
			Warning:  result.Warning,
		}, nil
	}
	return ReadingResponse{
		Ack:          true,
		Action:       ActionStamped,
		UserName:     u.FullName(),
		StampType:    result.Type,
		StampTime:    result.StampTime,
		TodayMinutes: result.TodayMinutes,
		Warning:      result.Warning,
	}, nil
}

// assignTag consumes the armed one-shot assignment. The tag is bound before
// the device is disarmed: a crash between the two leaves the device armed,
// and the next read of the same tag repeats the idempotent bind.
func (s *service) assignTag(ctx context.Context, d *Device, tagUID string) (ReadingResponse, error) {
	targetID := d.AssignUserID.String()

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The target vanished since arming. Disarm and ignore the read.
			if derr := s.repo.SetAssignTarget(ctx, d.ID.String(), nil); derr != nil {
				s.logger.Error("disarm assign mode failed", zap.String("device_id", d.ID.String()), zap.Error(derr))
			}
			return ReadingResponse{Ack: true, Action: ActionIgnored}, nil
		}
		return ReadingResponse{}, err
	}

	if err := s.users.AssignTag(ctx, targetID, tagUID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			s.logger.Warn("tag already bound to another user",
				zap.String("device_id", d.ID.String()),
			)
			return ReadingResponse{Ack: true, Action: ActionRefused, Warning: "Tag is already assigned"}, nil
		}
		s.logger.Error("assign tag failed", zap.String("device_id", d.ID.String()), zap.Error(err))
		return ReadingResponse{}, err
	}
	if err := s.repo.SetAssignTarget(ctx, d.ID.String(), nil); err != nil {
		s.logger.Error("disarm assign mode failed", zap.String("device_id", d.ID.String()), zap.Error(err))
		return ReadingResponse{}, err
	}

	s.logger.Info("tag assigned",
		zap.String("device_id", d.ID.String()),
		zap.String("user_id", targetID),
	)

	payload := events.TagAssignedEvent{
		EventType:  events.EventTagAssigned,
		UserID:     targetID,
		TagUID:     tagUID,
		DeviceID:   d.ID.String(),
		OccurredAt: time.Now().UTC(),
	}
	for _, topic := range []string{notify.TopicAdmins, notify.UserTopic(targetID)} {
		if err := s.notifier.Publish(topic, events.EventTagAssigned, targetID, payload); err != nil {
			s.logger.Warn("tag assignment fanout publish failed", zap.String("topic", topic), zap.Error(err))
		}
	}

	return ReadingResponse{Ack: true, Action: ActionAssigned, UserName: target.FullName()}, nil
}

func mapToResponse(d Device) DeviceResponse {
	resp := DeviceResponse{
		ID:         d.ID.String(),
		Name:       d.Name,
		Location:   d.Location,
		LastSeenAt: d.LastSeenAt,
		Active:     d.IsActive,
		CreatedAt:  d.CreatedAt.Format(time.RFC3339),
	}
	if d.AssignUserID != nil {
		v := d.AssignUserID.String()
		resp.AssignUserID = &v
	}
	return resp
}

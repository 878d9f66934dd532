package stamp

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"timeclock/internal/domain"
	"timeclock/internal/events"
	"timeclock/internal/notify"
	"timeclock/internal/scope"
	"timeclock/internal/shared/keylock"
	stamperrors "timeclock/internal/stamp/errors"
	"timeclock/internal/workrule"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// Actor identifies who is stamping. The HTTP handler fills it from the
// authenticated principal, the terminal flow from the tag lookup.
type Actor struct {
	UserID    uuid.UUID
	FirstName string
	LastName  string
}

// UserDirectory resolves the supervisor reference of a target user for the
// visibility point-check. Implemented by the user repository.
type UserDirectory interface {
	SupervisorOf(ctx context.Context, userID string) (*string, error)
}

//go:generate mockgen -source=stamp_service.go -destination=mock/stamp_service_mock.go -package=mock
type Service interface {
	Record(ctx context.Context, actor Actor, source string, deviceID *uuid.UUID) (StampResponse, error)
	Today(ctx context.Context, p domain.Principal, targetUserID string) (TodayResponse, error)
	History(ctx context.Context, p domain.Principal, targetUserID, from, to string) (HistoryResponse, error)
	Balance(ctx context.Context, p domain.Principal, targetUserID, from, to string) (BalanceResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	ruleRepo workrule.Repository
	users    UserDirectory
	notifier notify.Notifier
	locks    *keylock.KeyedMutex
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	ruleRepo workrule.Repository,
	users UserDirectory,
	notifier notify.Notifier,
	locks *keylock.KeyedMutex,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("stamp.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("stamp.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		ruleRepo: ruleRepo,
		users:    users,
		notifier: notifier,
		locks:    locks,
		logger:   l,
	}
}

// Record appends the next stamp for the actor. The event type is never chosen
// by the caller: it toggles off the actor's last event. The per-user lock
// keeps the toggle resolution and the insert from interleaving with a
// concurrent stamp for the same user.
func (s *service) Record(ctx context.Context, actor Actor, source string, deviceID *uuid.UUID) (StampResponse, error) {
	userID := actor.UserID.String()
	if source == "" {
		source = SourceWeb
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	now := time.Now().UTC()

	last, err := s.repo.FindLastByUser(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return StampResponse{}, err
	}
	nextType := TypeIn
	if last != nil && err == nil && last.Type == TypeIn {
		nextType = TypeOut
	}

	var warning string
	if nextType == TypeIn {
		rule, err := s.ruleRepo.FindRuleByUserAndWeekday(ctx, userID, domain.WeekdayIndex(now))
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return StampResponse{}, err
			}
			rule = nil
		}
		check := workrule.EvaluateCoreTime(rule, now)
		if !check.Allowed {
			s.logger.Info("stamp refused",
				zap.String("user_id", userID),
				zap.String("reason", check.Warning),
			)
			return StampResponse{Success: false, Warning: check.Warning}, nil
		}
		warning = check.Warning
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("record stamp begin tx failed", zap.Error(err))
		return StampResponse{}, err
	}
	defer tx.Rollback()

	event := &StampEvent{
		ID:        uuid.New(),
		UserID:    actor.UserID,
		Type:      nextType,
		StampTime: now,
		Source:    source,
		DeviceID:  deviceID,
	}
	if err := s.repo.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("record stamp persist failed", zap.String("user_id", userID), zap.Error(err))
		return StampResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("record stamp commit failed", zap.Error(err))
		return StampResponse{}, err
	}

	todayMinutes, balance, err := s.todayStanding(ctx, userID, now)
	if err != nil {
		// The stamp is committed; a failed read-back degrades the response,
		// it does not undo the stamp.
		s.logger.Warn("stamp standing read-back failed", zap.String("user_id", userID), zap.Error(err))
	}

	s.logger.Info("stamp recorded",
		zap.String("user_id", userID),
		zap.String("type", nextType),
		zap.String("source", source),
		zap.Int("today_minutes", todayMinutes),
	)

	s.publishRecorded(actor, event, todayMinutes, balance, warning)

	return StampResponse{
		Success:      true,
		Type:         nextType,
		StampTime:    &event.StampTime,
		Warning:      warning,
		TodayMinutes: todayMinutes,
		Balance:      balance,
	}, nil
}

func (s *service) Today(ctx context.Context, p domain.Principal, targetUserID string) (TodayResponse, error) {
	if err := s.authorizeView(ctx, p, targetUserID); err != nil {
		return TodayResponse{}, err
	}

	now := time.Now().UTC()
	dayStart := startOfDay(now)
	events, err := s.repo.FindByUserBetween(ctx, targetUserID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return TodayResponse{}, err
	}

	summary := Summarize(events)
	if summary.Anomalies > 0 {
		s.logger.Warn("stamp ledger anomalies",
			zap.String("user_id", targetUserID),
			zap.String("date", dayStart.Format(dateLayout)),
			zap.Int("anomalies", summary.Anomalies),
		)
	}

	balance, err := s.monthBalance(ctx, targetUserID, now)
	if err != nil {
		return TodayResponse{}, err
	}

	return TodayResponse{
		Date:          dayStart.Format(dateLayout),
		Events:        mapEvents(events),
		WorkedMinutes: LiveMinutes(summary, now),
		Balance:       balance,
		OpenSince:     summary.OpenSince,
		ClockedIn:     summary.OpenSince != nil,
	}, nil
}

func (s *service) History(ctx context.Context, p domain.Principal, targetUserID, from, to string) (HistoryResponse, error) {
	if err := s.authorizeView(ctx, p, targetUserID); err != nil {
		return HistoryResponse{}, err
	}
	fromDay, toDay, err := parseRange(from, to)
	if err != nil {
		return HistoryResponse{}, err
	}

	all, err := s.repo.FindByUserBetween(ctx, targetUserID, fromDay, toDay.AddDate(0, 0, 1))
	if err != nil {
		return HistoryResponse{}, err
	}

	byDay := bucketByDay(all)
	days := make([]DayHistory, 0, len(byDay))
	for d := fromDay; !d.After(toDay); d = d.AddDate(0, 0, 1) {
		dayEvents, ok := byDay[d.Format(dateLayout)]
		if !ok {
			continue
		}
		summary := Summarize(dayEvents)
		days = append(days, DayHistory{
			Date:          d.Format(dateLayout),
			Events:        mapEvents(dayEvents),
			WorkedMinutes: summary.Minutes,
			Anomalies:     summary.Anomalies,
		})
	}

	return HistoryResponse{From: from, To: to, Days: days}, nil
}

func (s *service) Balance(ctx context.Context, p domain.Principal, targetUserID, from, to string) (BalanceResponse, error) {
	if err := s.authorizeView(ctx, p, targetUserID); err != nil {
		return BalanceResponse{}, err
	}
	now := time.Now().UTC()
	var fromDay, toDay time.Time
	if from == "" && to == "" {
		// No range means the current calendar month.
		fromDay = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		toDay = fromDay.AddDate(0, 1, -1)
	} else {
		var err error
		fromDay, toDay, err = parseRange(from, to)
		if err != nil {
			return BalanceResponse{}, err
		}
	}

	all, err := s.repo.FindByUserBetween(ctx, targetUserID, fromDay, toDay.AddDate(0, 0, 1))
	if err != nil {
		return BalanceResponse{}, err
	}

	// Pair across the whole range so a session spanning midnight still counts.
	summary := Summarize(all)
	if summary.Anomalies > 0 {
		s.logger.Warn("stamp ledger anomalies",
			zap.String("user_id", targetUserID),
			zap.String("from", fromDay.Format(dateLayout)),
			zap.String("to", toDay.Format(dateLayout)),
			zap.Int("anomalies", summary.Anomalies),
		)
	}
	actual := summary.Minutes

	rules, err := s.ruleRepo.FindRulesByUser(ctx, targetUserID)
	if err != nil {
		return BalanceResponse{}, err
	}
	expected := ExpectedMinutes(rules, fromDay, toDay, startOfDay(now))
	balance := actual - expected

	resp := BalanceResponse{
		From:            fromDay.Format(dateLayout),
		To:              toDay.Format(dateLayout),
		ActualMinutes:   actual,
		ExpectedMinutes: expected,
		BalanceMinutes:  balance,
	}

	limit, err := s.ruleRepo.FindLimitByUser(ctx, targetUserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, err
		}
		// A user without stored limits still gets the advisory defaults.
		uid, _ := uuid.Parse(targetUserID)
		def := workrule.DefaultTimeLimit(uid)
		limit = &def
	}
	resp.OvertimeLimit = &limit.MaxOvertimeMinutes
	resp.UndertimeLimit = &limit.MaxUndertimeMinutes
	// Limits are advisory. Crossing one flags the response, nothing more.
	resp.LimitExceeded = balance > limit.MaxOvertimeMinutes || -balance > limit.MaxUndertimeMinutes

	return resp, nil
}

// todayStanding recomputes the live worked minutes and the running month
// balance after an insert.
func (s *service) todayStanding(ctx context.Context, userID string, now time.Time) (int, int, error) {
	dayStart := startOfDay(now)
	events, err := s.repo.FindByUserBetween(ctx, userID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return 0, 0, err
	}

	summary := Summarize(events)
	if summary.Anomalies > 0 {
		s.logger.Warn("stamp ledger anomalies",
			zap.String("user_id", userID),
			zap.String("date", dayStart.Format(dateLayout)),
			zap.Int("anomalies", summary.Anomalies),
		)
	}
	live := LiveMinutes(summary, now)

	balance, err := s.monthBalance(ctx, userID, now)
	if err != nil {
		return live, 0, err
	}
	return live, balance, nil
}

// monthBalance is the running standing for the current calendar month:
// closed minutes so far against expected minutes up to today.
func (s *service) monthBalance(ctx context.Context, userID string, now time.Time) (int, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	events, err := s.repo.FindByUserBetween(ctx, userID, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return 0, err
	}
	actual := Summarize(events).Minutes

	rules, err := s.ruleRepo.FindRulesByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return actual - ExpectedMinutes(rules, monthStart, monthEnd, startOfDay(now)), nil
}

func (s *service) publishRecorded(actor Actor, event *StampEvent, todayMinutes, balance int, warning string) {
	payload := events.StampRecordedEvent{
		EventType:    events.EventStampRecorded,
		UserID:       actor.UserID.String(),
		FirstName:    actor.FirstName,
		LastName:     actor.LastName,
		Type:         event.Type,
		StampTime:    event.StampTime,
		Source:       event.Source,
		TodayMinutes: todayMinutes,
		Balance:      balance,
		Warning:      warning,
		OccurredAt:   time.Now().UTC(),
	}

	topics := []string{notify.TopicSupervisors, notify.TopicAdmins, notify.UserTopic(payload.UserID)}
	for _, topic := range topics {
		if err := s.notifier.Publish(topic, events.EventStampRecorded, payload.UserID, payload); err != nil {
			s.logger.Warn("stamp fanout publish failed",
				zap.String("topic", topic),
				zap.String("user_id", payload.UserID),
				zap.Error(err),
			)
		}
	}
}

func (s *service) authorizeView(ctx context.Context, p domain.Principal, targetUserID string) error {
	if _, err := uuid.Parse(targetUserID); err != nil {
		return stamperrors.ErrInvalidUserID
	}
	if targetUserID == p.UserID {
		return nil
	}
	supervisorID, err := s.users.SupervisorOf(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return stamperrors.ErrInvalidUserID
		}
		return err
	}
	if !scope.CanViewUser(p, targetUserID, supervisorID) {
		return stamperrors.ErrNotVisible
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func parseRange(from, to string) (time.Time, time.Time, error) {
	fromDay, err := time.ParseInLocation(dateLayout, from, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, stamperrors.ErrInvalidDateRange
	}
	toDay, err := time.ParseInLocation(dateLayout, to, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, stamperrors.ErrInvalidDateRange
	}
	if toDay.Before(fromDay) {
		return time.Time{}, time.Time{}, stamperrors.ErrInvalidDateRange
	}
	return fromDay, toDay, nil
}

func bucketByDay(events []StampEvent) map[string][]StampEvent {
	byDay := make(map[string][]StampEvent)
	for _, e := range events {
		key := e.StampTime.UTC().Format(dateLayout)
		byDay[key] = append(byDay[key], e)
	}
	return byDay
}

func mapEvents(events []StampEvent) []EventResponse {
	resp := make([]EventResponse, len(events))
	for i, e := range events {
		resp[i] = EventResponse{
			ID:        e.ID.String(),
			Type:      e.Type,
			StampTime: e.StampTime,
			Source:    e.Source,
		}
	}
	return resp
}

package overview

import (
	"context"
	"encoding/json"
	"time"

	"timeclock/internal/domain"
	overviewerrors "timeclock/internal/overview/errors"
	"timeclock/internal/stamp"
	"timeclock/internal/workrule"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	dateLayout    = "2006-01-02"
	statsCacheKey = "overview:stats"
	statsCacheTTL = 30 * time.Second

	// A device counts as online when it reported a reading recently.
	deviceOnlineWindow = 5 * time.Minute
)

//go:generate mockgen -source=overview_service.go -destination=mock/overview_service_mock.go -package=mock
type Service interface {
	Team(ctx context.Context, p domain.Principal) ([]TeamMemberStatus, error)
	Online(ctx context.Context, p domain.Principal) ([]TeamMemberStatus, error)
	Period(ctx context.Context, p domain.Principal, from, to string) (PeriodOverviewResponse, error)
	Stats(ctx context.Context) (StatsResponse, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	flight singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("overview.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("overview.service")
	}
	return &service{repo: repo, rdb: rdb, logger: l}
}

// Team reports the live standing of every visible member: clocked in or not,
// minutes so far today and whether an approved leave covers today.
func (s *service) Team(ctx context.Context, p domain.Principal) ([]TeamMemberStatus, error) {
	now := time.Now().UTC()
	dayStart := startOfDay(now)

	members, err := s.repo.VisibleMembers(ctx, p)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.EventsForVisible(ctx, p, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	onLeave, err := s.repo.ApprovedLeaveCovering(ctx, p, dayStart)
	if err != nil {
		return nil, err
	}

	byUser := bucketByUser(events)
	leaveSet := make(map[string]struct{}, len(onLeave))
	for _, id := range onLeave {
		leaveSet[id] = struct{}{}
	}

	statuses := make([]TeamMemberStatus, len(members))
	for i, m := range members {
		summary := stamp.Summarize(byUser[m.ID])
		_, covered := leaveSet[m.ID]
		statuses[i] = TeamMemberStatus{
			UserID:       m.ID,
			Name:         m.FirstName + " " + m.LastName,
			ClockedIn:    summary.OpenSince != nil,
			Since:        summary.OpenSince,
			TodayMinutes: stamp.LiveMinutes(summary, now),
			OnLeave:      covered,
		}
	}
	return statuses, nil
}

// Online is Team filtered down to members with an open session.
func (s *service) Online(ctx context.Context, p domain.Principal) ([]TeamMemberStatus, error) {
	team, err := s.Team(ctx, p)
	if err != nil {
		return nil, err
	}
	online := make([]TeamMemberStatus, 0, len(team))
	for _, m := range team {
		if m.ClockedIn {
			online = append(online, m)
		}
	}
	return online, nil
}

// Period computes per-member balances over a date range, the same arithmetic
// the single-user balance endpoint uses.
func (s *service) Period(ctx context.Context, p domain.Principal, from, to string) (PeriodOverviewResponse, error) {
	fromDay, err := time.ParseInLocation(dateLayout, from, time.UTC)
	if err != nil {
		return PeriodOverviewResponse{}, overviewerrors.ErrInvalidDateRange
	}
	toDay, err := time.ParseInLocation(dateLayout, to, time.UTC)
	if err != nil {
		return PeriodOverviewResponse{}, overviewerrors.ErrInvalidDateRange
	}
	if toDay.Before(fromDay) {
		return PeriodOverviewResponse{}, overviewerrors.ErrInvalidDateRange
	}

	members, err := s.repo.VisibleMembers(ctx, p)
	if err != nil {
		return PeriodOverviewResponse{}, err
	}
	events, err := s.repo.EventsForVisible(ctx, p, fromDay, toDay.AddDate(0, 0, 1))
	if err != nil {
		return PeriodOverviewResponse{}, err
	}
	rules, err := s.repo.RulesForVisible(ctx, p)
	if err != nil {
		return PeriodOverviewResponse{}, err
	}

	byUser := bucketByUser(events)
	rulesByUser := make(map[string][]workrule.WorkRule)
	for _, r := range rules {
		key := r.UserID.String()
		rulesByUser[key] = append(rulesByUser[key], r)
	}

	today := startOfDay(time.Now().UTC())
	balances := make([]MemberBalance, len(members))
	for i, m := range members {
		// Pair each member's events across the whole range so sessions
		// spanning midnight still count.
		summary := stamp.Summarize(byUser[m.ID])
		expected := stamp.ExpectedMinutes(rulesByUser[m.ID], fromDay, toDay, today)
		balances[i] = MemberBalance{
			UserID:          m.ID,
			Name:            m.FirstName + " " + m.LastName,
			ActualMinutes:   summary.Minutes,
			ExpectedMinutes: expected,
			BalanceMinutes:  summary.Minutes - expected,
			Anomalies:       summary.Anomalies,
		}
	}

	return PeriodOverviewResponse{From: from, To: to, Members: balances}, nil
}

// Stats serves the dashboard counters. They are cheap enough to recompute but
// every admin dashboard polls them, so the result is cached briefly and
// concurrent recomputes collapse into one flight.
func (s *service) Stats(ctx context.Context) (StatsResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, statsCacheKey).Result(); err == nil {
			var resp StatsResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.flight.Do(statsCacheKey, func() (any, error) {
		return s.computeStats(ctx)
	})
	if err != nil {
		return StatsResponse{}, err
	}
	resp := v.(StatsResponse)

	if s.rdb != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, statsCacheKey, payload, statsCacheTTL).Err(); err != nil {
				s.logger.Warn("stats cache write failed", zap.Error(err))
			}
		}
	}
	return resp, nil
}

func (s *service) computeStats(ctx context.Context) (StatsResponse, error) {
	now := time.Now().UTC()
	dayStart := startOfDay(now)

	activeUsers, err := s.repo.CountActiveUsers(ctx)
	if err != nil {
		return StatsResponse{}, err
	}
	clockedIn, err := s.repo.CountClockedIn(ctx, dayStart)
	if err != nil {
		return StatsResponse{}, err
	}
	pending, err := s.repo.CountPendingLeave(ctx)
	if err != nil {
		return StatsResponse{}, err
	}
	stamps, err := s.repo.CountStampsSince(ctx, dayStart)
	if err != nil {
		return StatsResponse{}, err
	}
	devices, err := s.repo.CountDevicesSeenSince(ctx, now.Add(-deviceOnlineWindow))
	if err != nil {
		return StatsResponse{}, err
	}

	return StatsResponse{
		ActiveUsers:   activeUsers,
		ClockedInNow:  clockedIn,
		PendingLeave:  pending,
		StampsToday:   stamps,
		OnlineDevices: devices,
	}, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func bucketByUser(events []stamp.StampEvent) map[string][]stamp.StampEvent {
	byUser := make(map[string][]stamp.StampEvent)
	for _, e := range events {
		key := e.UserID.String()
		byUser[key] = append(byUser[key], e)
	}
	return byUser
}

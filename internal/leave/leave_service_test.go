package leave_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"timeclock/internal/domain"
	"timeclock/internal/leave"
	leaveerrors "timeclock/internal/leave/errors"
	"timeclock/internal/notify"
	"timeclock/internal/shared/keylock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	mu       sync.Mutex
	requests map[string]*leave.LeaveRequest

	hasOverlapFn func(ctx context.Context, userID string, from, to time.Time, excludeID string) (bool, error)
}

func newFakeLeaveRepository() *fakeLeaveRepository {
	return &fakeLeaveRepository{requests: make(map[string]*leave.LeaveRequest)}
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository { return f }

func (f *fakeLeaveRepository) Create(ctx context.Context, r *leave.LeaveRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *r
	f.requests[r.ID.String()] = &cp
	return nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeLeaveRepository) FindByUser(ctx context.Context, userID string) ([]leave.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []leave.LeaveRequest
	for _, r := range f.requests {
		if r.UserID.String() == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeLeaveRepository) FindVisible(ctx context.Context, p domain.Principal, status string, newestFirst bool, limit int) ([]leave.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []leave.LeaveRequest
	for _, r := range f.requests {
		if status == "" || r.Status == status {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeLeaveRepository) HasOverlap(ctx context.Context, userID string, from, to time.Time, excludeID string) (bool, error) {
	if f.hasOverlapFn != nil {
		return f.hasOverlapFn(ctx, userID, from, to, excludeID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if r.UserID.String() != userID || r.Status == leave.StatusDenied || r.ID.String() == excludeID {
			continue
		}
		if !r.DateFrom.After(to) && !r.DateTo.Before(from) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLeaveRepository) Update(ctx context.Context, r *leave.LeaveRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *r
	f.requests[r.ID.String()] = &cp
	return nil
}

func (f *fakeLeaveRepository) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.requests, id)
	return nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	published []string
}

func (r *recordingNotifier) Publish(topic, eventType, key string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published = append(r.published, topic)
	return nil
}

func newLeaveService(t *testing.T, repo leave.Repository, n notify.Notifier, txs int) leave.Service {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	for i := 0; i < txs; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}
	return leave.NewService(db, repo, n, keylock.New())
}

func worker() domain.Principal {
	return domain.Principal{
		UserID:    uuid.New().String(),
		Role:      domain.RoleWorker,
		FirstName: "Anna",
		LastName:  "Keller",
	}
}

func seedPending(repo *fakeLeaveRepository, userID uuid.UUID, supervisorID *uuid.UUID) *leave.LeaveRequest {
	r := &leave.LeaveRequest{
		ID:       uuid.New(),
		UserID:   userID,
		Type:     leave.TypeVacation,
		DateFrom: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC),
		Status:   leave.StatusPending,
		Requester: &leave.RequesterRef{
			ID:           userID,
			FirstName:    "Anna",
			LastName:     "Keller",
			SupervisorID: supervisorID,
		},
	}
	repo.requests[r.ID.String()] = r
	return r
}

func TestLeaveService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("files a pending request and notifies supervisors", func(t *testing.T) {
		repo := newFakeLeaveRepository()
		notifier := &recordingNotifier{}
		svc := newLeaveService(t, repo, notifier, 1)

		resp, err := svc.Create(ctx, worker(), leave.CreateLeaveRequest{
			Type:     leave.TypeVacation,
			DateFrom: "2024-07-01",
			DateTo:   "2024-07-05",
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Contains(t, notifier.published, notify.TopicSupervisors)
	})

	t.Run("accepts every leave type", func(t *testing.T) {
		repo := newFakeLeaveRepository()
		p := worker()
		svc := newLeaveService(t, repo, &recordingNotifier{}, 4)

		ranges := [][2]string{
			{"2024-07-01", "2024-07-02"},
			{"2024-07-03", "2024-07-04"},
			{"2024-07-05", "2024-07-06"},
			{"2024-07-07", "2024-07-08"},
		}
		types := []string{leave.TypeVacation, leave.TypeFlextime, leave.TypeHomeOffice, leave.TypeSick}
		for i, typ := range types {
			resp, err := svc.Create(ctx, p, leave.CreateLeaveRequest{
				Type:     typ,
				DateFrom: ranges[i][0],
				DateTo:   ranges[i][1],
			})
			assert.NoError(t, err)
			assert.Equal(t, typ, resp.Type)
		}
	})

	t.Run("rejects an unknown leave type", func(t *testing.T) {
		svc := newLeaveService(t, newFakeLeaveRepository(), &recordingNotifier{}, 0)

		_, err := svc.Create(ctx, worker(), leave.CreateLeaveRequest{
			Type:     "sabbatical",
			DateFrom: "2024-07-01",
			DateTo:   "2024-07-02",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidType)
	})

	t.Run("rejects inverted range", func(t *testing.T) {
		svc := newLeaveService(t, newFakeLeaveRepository(), &recordingNotifier{}, 0)

		_, err := svc.Create(ctx, worker(), leave.CreateLeaveRequest{
			Type:     leave.TypeVacation,
			DateFrom: "2024-07-05",
			DateTo:   "2024-07-01",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("rejects overlap with a pending request", func(t *testing.T) {
		repo := newFakeLeaveRepository()
		p := worker()
		userID := uuid.MustParse(p.UserID)
		seedPending(repo, userID, nil)
		svc := newLeaveService(t, repo, &recordingNotifier{}, 1)

		_, err := svc.Create(ctx, p, leave.CreateLeaveRequest{
			Type:     leave.TypeSick,
			DateFrom: "2024-07-05",
			DateTo:   "2024-07-08",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrOverlap)
	})

	t.Run("a denied request does not block the dates", func(t *testing.T) {
		repo := newFakeLeaveRepository()
		p := worker()
		userID := uuid.MustParse(p.UserID)
		denied := seedPending(repo, userID, nil)
		denied.Status = leave.StatusDenied
		svc := newLeaveService(t, repo, &recordingNotifier{}, 1)

		_, err := svc.Create(ctx, p, leave.CreateLeaveRequest{
			Type:     leave.TypeVacation,
			DateFrom: "2024-07-01",
			DateTo:   "2024-07-05",
		})

		assert.NoError(t, err)
	})

	t.Run("adjacent ranges do not overlap", func(t *testing.T) {
		repo := newFakeLeaveRepository()
		p := worker()
		userID := uuid.MustParse(p.UserID)
		seedPending(repo, userID, nil) // 07-01 .. 07-05
		svc := newLeaveService(t, repo, &recordingNotifier{}, 1)

		_, err := svc.Create(ctx, p, leave.CreateLeaveRequest{
			Type:     leave.TypeVacation,
			DateFrom: "2024-07-06",
			DateTo:   "2024-07-08",
		})

		assert.NoError(t, err)
	})
}

func TestLeaveService_Review(t *testing.T) {
	ctx := context.Background()

	t.Run("supervisor approves a direct report's request", func(t *testing.T) {
		repo := newFakeLeaveRepository()
		notifier := &recordingNotifier{}
		supervisorID := uuid.New()
		ownerID := uuid.New()
		record := seedPending(repo, ownerID, &supervisorID)
		svc := newLeaveService(t, repo, notifier, 1)

		p := domain.Principal{UserID: supervisorID.String(), Role: domain.RoleSupervisor, FirstName: "Sven", LastName: "Berg"}
		resp, err := svc.Review(ctx, p, record.ID.String(), leave.ReviewLeaveRequest{Decision: leave.StatusApproved})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.Contains(t, notifier.published, notify.UserTopic(ownerID.String()))
	})

	t.Run("foreign supervisor is rejected", func(t *testing.T) {
		repo := newFakeLeaveRepository()
		actualSupervisor := uuid.New()
		record := seedPending(repo, uuid.New(), &actualSupervisor)
		svc := newLeaveService(t, repo, &recordingNotifier{}, 1)

		p := domain.Principal{UserID: uuid.New().String(), Role: domain.RoleSupervisor}
		_, err := svc.Review(ctx, p, record.ID.String(), leave.ReviewLeaveRequest{Decision: leave.StatusDenied})

		assert.ErrorIs(t, err, leaveerrors.ErrNotReviewable)
	})

	t.Run("second review answers with a state conflict", func(t *testing.T) {
		repo := newFakeLeaveRepository()
		supervisorID := uuid.New()
		record := seedPending(repo, uuid.New(), &supervisorID)
		svc := newLeaveService(t, repo, &recordingNotifier{}, 2)

		p := domain.Principal{UserID: supervisorID.String(), Role: domain.RoleSupervisor}
		_, err := svc.Review(ctx, p, record.ID.String(), leave.ReviewLeaveRequest{Decision: leave.StatusApproved})
		assert.NoError(t, err)

		_, err = svc.Review(ctx, p, record.ID.String(), leave.ReviewLeaveRequest{Decision: leave.StatusDenied})
		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyReviewed)
	})

	t.Run("missing request answers not found", func(t *testing.T) {
		svc := newLeaveService(t, newFakeLeaveRepository(), &recordingNotifier{}, 1)

		p := domain.Principal{UserID: uuid.New().String(), Role: domain.RoleAdmin}
		_, err := svc.Review(ctx, p, uuid.New().String(), leave.ReviewLeaveRequest{Decision: leave.StatusApproved})

		assert.ErrorIs(t, err, leaveerrors.ErrRequestNotFound)
	})

	t.Run("nobody reviews their own request", func(t *testing.T) {
		repo := newFakeLeaveRepository()
		adminID := uuid.New()
		record := seedPending(repo, adminID, nil)
		svc := newLeaveService(t, repo, &recordingNotifier{}, 1)

		p := domain.Principal{UserID: adminID.String(), Role: domain.RoleAdmin}
		_, err := svc.Review(ctx, p, record.ID.String(), leave.ReviewLeaveRequest{Decision: leave.StatusApproved})

		assert.ErrorIs(t, err, leaveerrors.ErrNotReviewable)
	})
}

func TestLeaveService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("owner withdraws a pending request", func(t *testing.T) {
		repo := newFakeLeaveRepository()
		ownerID := uuid.New()
		record := seedPending(repo, ownerID, nil)
		svc := newLeaveService(t, repo, &recordingNotifier{}, 0)

		p := domain.Principal{UserID: ownerID.String(), Role: domain.RoleWorker}
		err := svc.Delete(ctx, p, record.ID.String())

		assert.NoError(t, err)
		_, found := repo.requests[record.ID.String()]
		assert.False(t, found)
	})

	t.Run("settled requests stay", func(t *testing.T) {
		repo := newFakeLeaveRepository()
		ownerID := uuid.New()
		record := seedPending(repo, ownerID, nil)
		record.Status = leave.StatusApproved
		svc := newLeaveService(t, repo, &recordingNotifier{}, 0)

		p := domain.Principal{UserID: ownerID.String(), Role: domain.RoleWorker}
		err := svc.Delete(ctx, p, record.ID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrNotDeletable)
	})

	t.Run("someone else's request is off limits", func(t *testing.T) {
		repo := newFakeLeaveRepository()
		record := seedPending(repo, uuid.New(), nil)
		svc := newLeaveService(t, repo, &recordingNotifier{}, 0)

		p := domain.Principal{UserID: uuid.New().String(), Role: domain.RoleWorker}
		err := svc.Delete(ctx, p, record.ID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrNotVisible)
	})
}

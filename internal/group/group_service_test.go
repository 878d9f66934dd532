package group_test

import (
	"context"
	"database/sql"
	"testing"

	"timeclock/internal/group"
	grouperrors "timeclock/internal/group/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeGroupRepository struct {
	createFn            func(ctx context.Context, g *group.Group) error
	findByIDFn          func(ctx context.Context, id string) (*group.Group, error)
	findAllWithCountsFn func(ctx context.Context) ([]group.GroupWithCount, error)
	countMembersFn      func(ctx context.Context, id string) (int64, error)
	nameInUseByOtherFn  func(ctx context.Context, name, excludeID string) (bool, error)
	updateFn            func(ctx context.Context, g *group.Group) error
	detachMembersFn     func(ctx context.Context, id string) error
	deleteFn            func(ctx context.Context, id string) error
}

func (f *fakeGroupRepository) WithTx(tx *sql.Tx) group.Repository { return f }

func (f *fakeGroupRepository) Create(ctx context.Context, g *group.Group) error {
	if f.createFn != nil {
		return f.createFn(ctx, g)
	}
	return nil
}

func (f *fakeGroupRepository) FindByID(ctx context.Context, id string) (*group.Group, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeGroupRepository) FindAllWithCounts(ctx context.Context) ([]group.GroupWithCount, error) {
	if f.findAllWithCountsFn != nil {
		return f.findAllWithCountsFn(ctx)
	}
	return nil, nil
}

func (f *fakeGroupRepository) CountMembers(ctx context.Context, id string) (int64, error) {
	if f.countMembersFn != nil {
		return f.countMembersFn(ctx, id)
	}
	return 0, nil
}

func (f *fakeGroupRepository) NameInUseByOther(ctx context.Context, name, excludeID string) (bool, error) {
	if f.nameInUseByOtherFn != nil {
		return f.nameInUseByOtherFn(ctx, name, excludeID)
	}
	return false, nil
}

func (f *fakeGroupRepository) Update(ctx context.Context, g *group.Group) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, g)
	}
	return nil
}

func (f *fakeGroupRepository) DetachMembers(ctx context.Context, id string) error {
	if f.detachMembersFn != nil {
		return f.detachMembersFn(ctx, id)
	}
	return nil
}

func (f *fakeGroupRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func newDB(t *testing.T) *sql.DB {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTxDB(t *testing.T) *sql.DB {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	mock.ExpectBegin()
	mock.ExpectCommit()
	t.Cleanup(func() { db.Close() })
	return db
}

func strPtr(s string) *string { return &s }

func TestGroupService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with zero members", func(t *testing.T) {
		var created *group.Group
		repo := &fakeGroupRepository{
			createFn: func(ctx context.Context, g *group.Group) error {
				created = g
				return nil
			},
		}
		svc := group.NewService(newDB(t), repo)

		resp, err := svc.Create(ctx, group.CreateGroupRequest{Name: "Night Shift"})

		assert.NoError(t, err)
		assert.Equal(t, "Night Shift", created.Name)
		assert.Zero(t, resp.MemberCount)
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		repo := &fakeGroupRepository{
			nameInUseByOtherFn: func(ctx context.Context, name, excludeID string) (bool, error) {
				return true, nil
			},
		}
		svc := group.NewService(newDB(t), repo)

		_, err := svc.Create(ctx, group.CreateGroupRequest{Name: "Night Shift"})

		assert.ErrorIs(t, err, grouperrors.ErrNameTaken)
	})
}

func TestGroupService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("detaches members before deleting", func(t *testing.T) {
		id := uuid.New()
		var order []string
		repo := &fakeGroupRepository{
			findByIDFn: func(ctx context.Context, _ string) (*group.Group, error) {
				return &group.Group{ID: id, Name: "Night Shift"}, nil
			},
			detachMembersFn: func(ctx context.Context, _ string) error {
				order = append(order, "detach")
				return nil
			},
			deleteFn: func(ctx context.Context, _ string) error {
				order = append(order, "delete")
				return nil
			},
		}
		svc := group.NewService(newTxDB(t), repo)

		err := svc.Delete(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, []string{"detach", "delete"}, order)
	})

	t.Run("unknown group maps to not found", func(t *testing.T) {
		svc := group.NewService(newDB(t), &fakeGroupRepository{})

		err := svc.Delete(ctx, uuid.New().String())

		assert.ErrorIs(t, err, grouperrors.ErrGroupNotFound)
	})
}

func TestGroupService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("clears description with empty string", func(t *testing.T) {
		id := uuid.New()
		var saved *group.Group
		repo := &fakeGroupRepository{
			findByIDFn: func(ctx context.Context, _ string) (*group.Group, error) {
				return &group.Group{ID: id, Name: "Night Shift", Description: strPtr("old")}, nil
			},
			updateFn: func(ctx context.Context, g *group.Group) error {
				saved = g
				return nil
			},
		}
		svc := group.NewService(newDB(t), repo)

		_, err := svc.Update(ctx, id.String(), group.UpdateGroupRequest{Description: strPtr("")})

		assert.NoError(t, err)
		assert.Nil(t, saved.Description)
	})
}

package scope_test

import (
	"testing"

	"timeclock/internal/domain"
	"timeclock/internal/scope"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanViewUser(t *testing.T) {
	supervisorID := uuid.New().String()
	otherSupervisorID := uuid.New().String()
	targetID := uuid.New().String()

	t.Run("own records always visible", func(t *testing.T) {
		p := domain.Principal{UserID: targetID, Role: domain.RoleWorker}
		assert.True(t, scope.CanViewUser(p, targetID, nil))
	})

	t.Run("admin sees everyone", func(t *testing.T) {
		p := domain.Principal{UserID: uuid.New().String(), Role: domain.RoleAdmin}
		assert.True(t, scope.CanViewUser(p, targetID, nil))
	})

	t.Run("supervisor sees direct report", func(t *testing.T) {
		p := domain.Principal{UserID: supervisorID, Role: domain.RoleSupervisor}
		assert.True(t, scope.CanViewUser(p, targetID, &supervisorID))
	})

	t.Run("supervisor does not see peer's report", func(t *testing.T) {
		p := domain.Principal{UserID: supervisorID, Role: domain.RoleSupervisor}
		assert.False(t, scope.CanViewUser(p, targetID, &otherSupervisorID))
	})

	t.Run("supervisor does not see unsupervised user", func(t *testing.T) {
		p := domain.Principal{UserID: supervisorID, Role: domain.RoleSupervisor}
		assert.False(t, scope.CanViewUser(p, targetID, nil))
	})

	t.Run("worker does not see others", func(t *testing.T) {
		p := domain.Principal{UserID: uuid.New().String(), Role: domain.RoleWorker}
		assert.False(t, scope.CanViewUser(p, targetID, &supervisorID))
	})

	t.Run("unknown role sees nothing", func(t *testing.T) {
		p := domain.Principal{UserID: uuid.New().String(), Role: domain.Role("intern")}
		assert.False(t, scope.CanViewUser(p, targetID, &supervisorID))
	})
}

package domain_test

import (
	"testing"
	"time"

	"timeclock/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestWeekdayIndex(t *testing.T) {
	// 2024-06-03 is a Monday
	monday := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	for offset, want := range []int{0, 1, 2, 3, 4, 5, 6} {
		day := monday.AddDate(0, 0, offset)
		assert.Equal(t, want, domain.WeekdayIndex(day), day.Weekday().String())
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, domain.RoleWorker.Valid())
	assert.True(t, domain.RoleSupervisor.Valid())
	assert.True(t, domain.RoleAdmin.Valid())
	assert.False(t, domain.Role("manager").Valid())
	assert.False(t, domain.Role("").Valid())
}

func TestRoleCanOversee(t *testing.T) {
	assert.False(t, domain.RoleWorker.CanOversee())
	assert.True(t, domain.RoleSupervisor.CanOversee())
	assert.True(t, domain.RoleAdmin.CanOversee())
}

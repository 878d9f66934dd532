package device

import (
	"time"

	"github.com/google/uuid"
)

// Device is a registered stamping terminal. AssignUserID, when set, arms the
// one-shot assignment mode: the next tag the terminal reads is bound to that
// user instead of stamping.
type Device struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Name         string     `gorm:"column:name;type:varchar(120);not null"`
	Location     *string    `gorm:"column:location;type:varchar(200)"`
	AssignUserID *uuid.UUID `gorm:"column:assign_user_id;type:uuid"`
	LastSeenAt   *time.Time `gorm:"column:last_seen_at"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (Device) TableName() string {
	return "devices"
}

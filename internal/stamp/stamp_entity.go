package stamp

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeIn  = "in"
	TypeOut = "out"
)

const (
	SourceWeb      = "web"
	SourceTerminal = "terminal"
)

// StampEvent is one row of the append-only stamp ledger. Events are never
// updated or deleted; corrections append new events.
type StampEvent struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index:idx_stamp_events_user_time,priority:1"`
	Type      string     `gorm:"column:type;type:varchar(10);not null"`
	StampTime time.Time  `gorm:"column:stamp_time;not null;index:idx_stamp_events_user_time,priority:2"`
	Source    string     `gorm:"column:source;type:varchar(20);not null;default:web"`
	DeviceID  *uuid.UUID `gorm:"column:device_id;type:uuid"`
	CreatedAt time.Time  `gorm:"column:created_at"`
}

func (StampEvent) TableName() string {
	return "stamp_events"
}

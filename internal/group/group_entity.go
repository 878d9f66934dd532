package group

import (
	"time"

	"github.com/google/uuid"
)

type Group struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"column:name;type:varchar(120);not null;uniqueIndex"`
	Description *string   `gorm:"column:description;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (Group) TableName() string {
	return "groups"
}

// GroupWithCount carries the active member count from the list query.
type GroupWithCount struct {
	Group
	MemberCount int64 `gorm:"column:member_count"`
}

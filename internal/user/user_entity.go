package user

import (
	"time"

	"github.com/google/uuid"
)

// User is never hard-deleted; deactivation flips IsActive so the stamp ledger
// and leave history keep their references.
type User struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	Password     string     `gorm:"column:password;type:text;not null"`
	FirstName    string     `gorm:"column:first_name;type:varchar(100);not null"`
	LastName     string     `gorm:"column:last_name;type:varchar(100);not null"`
	Role         string     `gorm:"column:role;type:varchar(20);not null;default:worker"`
	SupervisorID *uuid.UUID `gorm:"column:supervisor_id;type:uuid;index"`
	GroupID      *uuid.UUID `gorm:"column:group_id;type:uuid;index"`
	TagUID       *string    `gorm:"column:tag_uid;type:varchar(64);uniqueIndex"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`

	Supervisor *UserRef  `gorm:"foreignKey:SupervisorID;references:ID"`
	Group      *GroupRef `gorm:"foreignKey:GroupID;references:ID"`
}

func (User) TableName() string {
	return "users"
}

// UserRef is the minimal join projection for supervisor names
type UserRef struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
}

func (UserRef) TableName() string {
	return "users"
}

type GroupRef struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"column:name"`
}

func (GroupRef) TableName() string {
	return "groups"
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

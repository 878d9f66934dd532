package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDenied   = "denied"
)

const (
	TypeVacation   = "vacation"
	TypeFlextime   = "flextime"
	TypeHomeOffice = "home_office"
	TypeSick       = "sick"
)

// LeaveRequest models one absence request. Dates are inclusive calendar days
// stored as DATE columns; the request never carries a time of day.
type LeaveRequest struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID        uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	Type          string     `gorm:"column:type;type:varchar(20);not null"`
	DateFrom      time.Time  `gorm:"column:date_from;type:date;not null"`
	DateTo        time.Time  `gorm:"column:date_to;type:date;not null"`
	Reason        *string    `gorm:"column:reason;type:text"`
	Status        string     `gorm:"column:status;type:varchar(20);not null;default:pending;index"`
	ReviewedBy    *uuid.UUID `gorm:"column:reviewed_by;type:uuid"`
	ReviewedAt    *time.Time `gorm:"column:reviewed_at"`
	ReviewComment *string    `gorm:"column:review_comment;type:text"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`

	Requester *RequesterRef `gorm:"foreignKey:UserID;references:ID"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

type RequesterRef struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FirstName    string     `gorm:"column:first_name"`
	LastName     string     `gorm:"column:last_name"`
	SupervisorID *uuid.UUID `gorm:"column:supervisor_id;type:uuid"`
}

func (RequesterRef) TableName() string {
	return "users"
}

func ValidType(t string) bool {
	switch t {
	case TypeVacation, TypeFlextime, TypeHomeOffice, TypeSick:
		return true
	}
	return false
}

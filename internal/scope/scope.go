package scope

import (
	"timeclock/internal/domain"

	"gorm.io/gorm"
)

// Users narrows a query over the users table to the caller's visibility:
// admins see everyone, supervisors see their direct reports (single level,
// non-transitive), workers see only themselves. Every list and aggregate
// query must pass through this scope or VisibleOwners below.
func Users(p domain.Principal) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch p.Role {
		case domain.RoleAdmin:
			return db
		case domain.RoleSupervisor:
			return db.Where("users.supervisor_id = ?", p.UserID)
		case domain.RoleWorker:
			return db.Where("users.id = ?", p.UserID)
		}
		// Unknown role sees nothing
		return db.Where("1 = 0")
	}
}

// VisibleOwners narrows a table carrying a user reference in ownerColumn to
// rows owned by users visible to the caller.
func VisibleOwners(p domain.Principal, ownerColumn string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch p.Role {
		case domain.RoleAdmin:
			return db
		case domain.RoleSupervisor:
			return db.Where(ownerColumn+" IN (?)",
				db.Session(&gorm.Session{NewDB: true}).
					Table("users").
					Select("id").
					Where("supervisor_id = ?", p.UserID),
			)
		case domain.RoleWorker:
			return db.Where(ownerColumn+" = ?", p.UserID)
		}
		return db.Where("1 = 0")
	}
}

// CanViewUser is the point-lookup counterpart of Users: may the caller read
// records belonging to the target user? Own records are always visible.
func CanViewUser(p domain.Principal, targetID string, targetSupervisorID *string) bool {
	if targetID == p.UserID {
		return true
	}
	switch p.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleSupervisor:
		return targetSupervisorID != nil && *targetSupervisorID == p.UserID
	case domain.RoleWorker:
		return false
	}
	return false
}

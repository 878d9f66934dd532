package domain

// Role is a closed enum. Every authorization check switches over it
// exhaustively so a new role cannot silently fall through.
type Role string

const (
	RoleWorker     Role = "worker"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleWorker, RoleSupervisor, RoleAdmin:
		return true
	}
	return false
}

// CanOversee reports whether the role may see records beyond its own.
func (r Role) CanOversee() bool {
	switch r {
	case RoleAdmin, RoleSupervisor:
		return true
	case RoleWorker:
		return false
	}
	return false
}

// Principal is the authenticated caller context supplied by the auth
// middleware. The core only ever does role/ownership comparisons on it.
type Principal struct {
	UserID    string
	Role      Role
	FirstName string
	LastName  string
	GroupID   string
}

func (p Principal) FullName() string {
	return p.FirstName + " " + p.LastName
}

package user

type CreateUserRequest struct {
	Email        string  `json:"email" binding:"required,email"`
	Password     string  `json:"password" binding:"required,min=6"`
	FirstName    string  `json:"first_name" binding:"required"`
	LastName     string  `json:"last_name" binding:"required"`
	Role         string  `json:"role" binding:"omitempty,oneof=worker supervisor admin"`
	SupervisorID *string `json:"supervisor_id" binding:"omitempty,uuid"`
	GroupID      *string `json:"group_id" binding:"omitempty,uuid"`
}

// UpdateUserRequest is an explicit patch: nil means "leave unchanged", a
// present empty string on the nullable references means "clear".
type UpdateUserRequest struct {
	Email        *string `json:"email" binding:"omitempty,email"`
	Password     *string `json:"password" binding:"omitempty,min=6"`
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Role         *string `json:"role" binding:"omitempty,oneof=worker supervisor admin"`
	SupervisorID *string `json:"supervisor_id"`
	GroupID      *string `json:"group_id"`
	Active       *bool   `json:"active"`
}

type UserResponse struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Role           string  `json:"role"`
	SupervisorID   *string `json:"supervisor_id,omitempty"`
	SupervisorName *string `json:"supervisor_name,omitempty"`
	GroupID        *string `json:"group_id,omitempty"`
	GroupName      *string `json:"group_name,omitempty"`
	TagUID         *string `json:"tag_uid,omitempty"`
	Active         bool    `json:"active"`
	CreatedAt      string  `json:"created_at"`
}

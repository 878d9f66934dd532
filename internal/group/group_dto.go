package group

type CreateGroupRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=120"`
	Description *string `json:"description"`
}

type UpdateGroupRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=120"`
	Description *string `json:"description"`
}

type GroupResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	MemberCount int64   `json:"member_count"`
	CreatedAt   string  `json:"created_at"`
}

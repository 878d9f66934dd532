package leave

type CreateLeaveRequest struct {
	Type     string  `json:"type" binding:"required,oneof=vacation flextime home_office sick"`
	DateFrom string  `json:"date_from" binding:"required,datetime=2006-01-02"`
	DateTo   string  `json:"date_to" binding:"required,datetime=2006-01-02"`
	Reason   *string `json:"reason"`
}

type ReviewLeaveRequest struct {
	Decision string  `json:"decision" binding:"required,oneof=approved denied"`
	Comment  *string `json:"comment"`
}

type LeaveResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	UserName      string  `json:"user_name,omitempty"`
	Type          string  `json:"type"`
	DateFrom      string  `json:"date_from"`
	DateTo        string  `json:"date_to"`
	Reason        *string `json:"reason,omitempty"`
	Status        string  `json:"status"`
	ReviewedBy    *string `json:"reviewed_by,omitempty"`
	ReviewedAt    *string `json:"reviewed_at,omitempty"`
	ReviewComment *string `json:"review_comment,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

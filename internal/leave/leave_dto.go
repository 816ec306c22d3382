package leave

type SubmitLeaveRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
}

type DecisionRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

type LeaveResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	EmpID     string  `json:"emp_id,omitempty"`
	FullName  string  `json:"full_name,omitempty"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	TotalDays int     `json:"total_days"`
	Reason    string  `json:"reason"`
	Status    string  `json:"status"`
	DecidedBy *string `json:"decided_by,omitempty"`
	DecidedAt *string `json:"decided_at,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type BalanceResponse struct {
	EmpID       string `json:"emp_id,omitempty"`
	FullName    string `json:"full_name,omitempty"`
	Year        int    `json:"year"`
	Entitlement int    `json:"entitlement"`
	UsedDays    int    `json:"used_days"`
	Balance     int    `json:"balance"`
}

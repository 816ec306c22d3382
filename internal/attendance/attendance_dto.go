package attendance

type MarkAttendanceRequest struct {
	Status   string `json:"status" binding:"required,oneof=present absent leave"`
	CheckIn  string `json:"check_in" binding:"omitempty,datetime=15:04"`
	CheckOut string `json:"check_out" binding:"omitempty,datetime=15:04"`
}

type AttendanceResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	EmpID    string `json:"emp_id,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Date     string `json:"date"`
	Status   string `json:"status"`
	CheckIn  string `json:"check_in,omitempty"`
	CheckOut string `json:"check_out,omitempty"`
}

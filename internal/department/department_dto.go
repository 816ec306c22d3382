package department

type CreateDepartmentRequest struct {
	Name string `json:"name" binding:"required"`
}

type DepartmentResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MemberCount int64  `json:"member_count"`
}

type DepartmentOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

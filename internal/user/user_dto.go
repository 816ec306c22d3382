package user

type CreateEmployeeRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	FullName     string `json:"full_name" binding:"required"`
	EmpID        string `json:"emp_id"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Position     string `json:"position"`
	DepartmentID string `json:"department_id" binding:"omitempty,uuid"`
	HireDate     string `json:"hire_date" binding:"omitempty,datetime=2006-01-02"`
	Role         string `json:"role" binding:"omitempty,oneof=admin manager employee"`
}

type UpdateEmployeeRequest struct {
	FullName     *string `json:"full_name"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	Position     *string `json:"position"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	Role         *string `json:"role" binding:"omitempty,oneof=admin manager employee"`
}

type UpdateContactRequest struct {
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type EmployeeResponse struct {
	ID           string `json:"id"`
	EmpID        string `json:"emp_id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Position     string `json:"position"`
	DepartmentID string `json:"department_id,omitempty"`
	Department   string `json:"department,omitempty"`
	Role         string `json:"role"`
	HireDate     string `json:"hire_date,omitempty"`
	LeaveBalance *int   `json:"leave_balance,omitempty"`
}

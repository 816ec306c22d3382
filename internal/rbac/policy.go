package rbac

// Resource / action vocabulary used by the route tables.
const (
	ResourceEmployee   = "employee"
	ResourceDepartment = "department"
	ResourceLeave      = "leave"
	ResourceAttendance = "attendance"
	ResourceBalance    = "balance"
	ResourceReport     = "report"

	ActionRead    = "read"
	ActionManage  = "manage"
	ActionAdvance = "advance"
	ActionDecide  = "decide"
	ActionExport  = "export"
)

type policy struct {
	role     string
	resource string
	action   string
}

// rolePolicies is the whole authorization surface. Self-service
// operations do not appear here: they are identity-scoped and require
// authentication only.
var rolePolicies = []policy{
	{RoleAdmin, ResourceEmployee, ActionRead},
	{RoleAdmin, ResourceEmployee, ActionManage},
	{RoleAdmin, ResourceDepartment, ActionRead},
	{RoleAdmin, ResourceDepartment, ActionManage},
	{RoleAdmin, ResourceLeave, ActionRead},
	{RoleAdmin, ResourceLeave, ActionDecide},
	{RoleAdmin, ResourceAttendance, ActionRead},
	{RoleAdmin, ResourceBalance, ActionRead},
	{RoleAdmin, ResourceReport, ActionExport},

	{RoleManager, ResourceLeave, ActionAdvance},
}

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

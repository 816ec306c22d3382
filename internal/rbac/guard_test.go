package rbac_test

import (
	"testing"

	"go-empms/internal/rbac"

	"github.com/stretchr/testify/assert"
)

func newGuard(t *testing.T) rbac.Guard {
	t.Helper()
	guard, err := rbac.NewGuard()
	assert.NoError(t, err)
	return guard
}

func allowed(t *testing.T, g rbac.Guard, role, resource, action string) bool {
	t.Helper()
	decision, err := g.Authorize(role, resource, action)
	assert.NoError(t, err)
	return decision.Allowed
}

func TestGuard_AdminCapabilities(t *testing.T) {
	g := newGuard(t)

	assert.True(t, allowed(t, g, rbac.RoleAdmin, rbac.ResourceEmployee, rbac.ActionManage))
	assert.True(t, allowed(t, g, rbac.RoleAdmin, rbac.ResourceDepartment, rbac.ActionManage))
	assert.True(t, allowed(t, g, rbac.RoleAdmin, rbac.ResourceLeave, rbac.ActionRead))
	assert.True(t, allowed(t, g, rbac.RoleAdmin, rbac.ResourceLeave, rbac.ActionDecide))
	assert.True(t, allowed(t, g, rbac.RoleAdmin, rbac.ResourceReport, rbac.ActionExport))

	// Admins never stand in for the line manager.
	assert.False(t, allowed(t, g, rbac.RoleAdmin, rbac.ResourceLeave, rbac.ActionAdvance))
}

func TestGuard_ManagerCapabilities(t *testing.T) {
	g := newGuard(t)

	assert.True(t, allowed(t, g, rbac.RoleManager, rbac.ResourceLeave, rbac.ActionAdvance))

	assert.False(t, allowed(t, g, rbac.RoleManager, rbac.ResourceLeave, rbac.ActionDecide))
	assert.False(t, allowed(t, g, rbac.RoleManager, rbac.ResourceEmployee, rbac.ActionRead))
	assert.False(t, allowed(t, g, rbac.RoleManager, rbac.ResourceEmployee, rbac.ActionManage))
	assert.False(t, allowed(t, g, rbac.RoleManager, rbac.ResourceReport, rbac.ActionExport))
}

func TestGuard_EmployeeCapabilities(t *testing.T) {
	g := newGuard(t)

	// Employees hold no role-gated capabilities at all, everything they
	// can do is identity-scoped self service.
	resources := []string{
		rbac.ResourceEmployee, rbac.ResourceDepartment, rbac.ResourceLeave,
		rbac.ResourceAttendance, rbac.ResourceBalance, rbac.ResourceReport,
	}
	actions := []string{
		rbac.ActionRead, rbac.ActionManage, rbac.ActionAdvance,
		rbac.ActionDecide, rbac.ActionExport,
	}
	for _, resource := range resources {
		for _, action := range actions {
			assert.False(t, allowed(t, g, rbac.RoleEmployee, resource, action),
				"employee must not hold %s:%s", resource, action)
		}
	}
}

func TestGuard_UnknownRole(t *testing.T) {
	g := newGuard(t)

	assert.False(t, allowed(t, g, "superuser", rbac.ResourceEmployee, rbac.ActionRead))
}

func TestValidRole(t *testing.T) {
	assert.True(t, rbac.ValidRole(rbac.RoleAdmin))
	assert.True(t, rbac.ValidRole(rbac.RoleManager))
	assert.True(t, rbac.ValidRole(rbac.RoleEmployee))
	assert.False(t, rbac.ValidRole("superuser"))
	assert.False(t, rbac.ValidRole(""))
}

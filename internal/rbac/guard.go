package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
	"go.uber.org/zap"
)

const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// Decision is the typed outcome of a capability check. It is produced
// before any store access so a denied caller causes no side effects.
type Decision struct {
	Allowed  bool
	Role     string
	Resource string
	Action   string
}

//go:generate mockgen -source=guard.go -destination=mock/guard_mock.go -package=mock
type Guard interface {
	Authorize(role, resource, action string) (Decision, error)
}

type guard struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
	logger   *zap.Logger
}

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// NewGuard builds the enforcer from the in-code model and the static
// role policy table. Roles are deliberately non-hierarchical: an admin
// is not a manager, so admins cannot short-circuit line-manager review.
func NewGuard(logger ...*zap.Logger) (Guard, error) {
	l := zap.L().Named("rbac.guard")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.guard")
	}

	m, err := casbinmodel.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range rolePolicies {
		if _, err := enforcer.AddPolicy(p.role, p.resource, p.action); err != nil {
			return nil, err
		}
	}

	return &guard{enforcer: enforcer, logger: l}, nil
}

func (g *guard) Authorize(role, resource, action string) (Decision, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	allowed, err := g.enforcer.Enforce(role, resource, action)
	if err != nil {
		g.logger.Error("enforce failed",
			zap.String("role", role),
			zap.String("resource", resource),
			zap.String("action", action),
			zap.Error(err),
		)
		return Decision{}, err
	}

	g.logger.Debug("capability check",
		zap.String("role", role),
		zap.String("resource", resource),
		zap.String("action", action),
		zap.Bool("allowed", allowed),
	)

	return Decision{
		Allowed:  allowed,
		Role:     role,
		Resource: resource,
		Action:   action,
	}, nil
}

package permission

import (
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"shieldgate/internal/shared/logger"
)

// accessModel grants a role an action on a path pattern. Paths use keyMatch2
// syntax (/admin/* and /clients/:key); actions are anchored regexps.
const accessModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// Policy allows Role to perform Action on Resource.
type Policy struct {
	Role     string
	Resource string
	Action   string
}

// DefaultPolicies restricts the operator API to the admin role.
var DefaultPolicies = []Policy{
	{Role: "admin", Resource: "/api/v1/admin/*", Action: "^(GET|DELETE)$"},
}

type Enforcer struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   logger.Interface
}

// NewEnforcer builds an in-memory enforcer holding policies.
func NewEnforcer(policies []Policy, log logger.Interface) (*Enforcer, error) {
	m, err := model.NewModelFromString(accessModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	e := &Enforcer{
		enforcer: enforcer,
		logger:   log,
	}
	for _, p := range policies {
		if err := e.AddPolicy(p); err != nil {
			return nil, err
		}
	}

	log.Infow("permission enforcer initialized", "policies", len(policies))
	return e, nil
}

// Enforce reports whether role may perform action on resource.
func (e *Enforcer) Enforce(role, resource, action string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.enforcer.Enforce(role, resource, action)
	if err != nil {
		e.logger.Errorw("permission check failed", "error", err, "role", role, "resource", resource, "action", action)
		return false, fmt.Errorf("permission check failed: %w", err)
	}

	return allowed, nil
}

func (e *Enforcer) AddPolicy(p Policy) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.AddPolicy(p.Role, p.Resource, p.Action); err != nil {
		return fmt.Errorf("failed to add policy for role %s: %w", p.Role, err)
	}
	return nil
}

func (e *Enforcer) RemovePolicy(p Policy) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.RemovePolicy(p.Role, p.Resource, p.Action); err != nil {
		return fmt.Errorf("failed to remove policy for role %s: %w", p.Role, err)
	}
	return nil
}

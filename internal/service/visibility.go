package service

import (
	"fmt"

	"geolog/internal/domain"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const visibilityModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// VisibilityPolicy maps roles to capabilities. Privileged roles are granted
// view_all on user_location_log.
type VisibilityPolicy struct {
	enforcer *casbin.SyncedEnforcer
}

func NewVisibilityPolicy(privilegedRoles []string) (*VisibilityPolicy, error) {
	m, err := model.NewModelFromString(visibilityModel)
	if err != nil {
		return nil, fmt.Errorf("visibility model: %w", err)
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("visibility enforcer: %w", err)
	}
	for _, role := range privilegedRoles {
		if role == "" {
			continue
		}
		if _, err := e.AddPolicy(role, domain.ObjectLocationLog, domain.ActionViewAll); err != nil {
			return nil, fmt.Errorf("grant %q: %w", role, err)
		}
	}
	return &VisibilityPolicy{enforcer: e}, nil
}

// Resolve computes the capability set for a role set.
func (p *VisibilityPolicy) Resolve(roles []string) domain.Capability {
	var caps domain.Capability
	for _, role := range roles {
		ok, err := p.enforcer.Enforce(role, domain.ObjectLocationLog, domain.ActionViewAll)
		if err == nil && ok {
			caps |= domain.CanViewAllLocations
			break
		}
	}
	return caps
}

// Principal builds the caller with capabilities already resolved.
func (p *VisibilityPolicy) Principal(userID string, roles []string) *domain.Principal {
	return &domain.Principal{UserID: userID, Roles: roles, Capabilities: p.Resolve(roles)}
}

// CanViewAll reports whether principal may see every user's locations.
func CanViewAll(principal *domain.Principal) bool {
	return principal.CanViewAll()
}

// ListFilter is the resolved target of a list query. An empty UserID means
// every user (latest row each).
type ListFilter struct {
	UserID string
}

func (f ListFilter) Unrestricted() bool { return f.UserID == "" }

// ResolveListFilter narrows non-privileged callers to themselves, ignoring
// whatever user they asked for.
func ResolveListFilter(principal *domain.Principal, requested string) ListFilter {
	if !CanViewAll(principal) {
		return ListFilter{UserID: principal.UserID}
	}
	return ListFilter{UserID: requested}
}

// ResolveHistoryTarget returns the user whose history is read. Unlike the
// list, asking for someone else without the capability is an error.
func ResolveHistoryTarget(principal *domain.Principal, requested string) (string, error) {
	if requested == "" || requested == principal.UserID {
		return principal.UserID, nil
	}
	if !CanViewAll(principal) {
		return "", domain.InsufficientPermission()
	}
	return requested, nil
}

package permission

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrymomot/statekit/pkg/statemachine"
)

// DefaultRoleAttribute is the attribute name the RoleChecker asks a generic
// attribute carrier for when the typed role accessors yield nothing.
const DefaultRoleAttribute = "role"

// Role accessor contracts tried against the performer, in order. The first
// accessor producing a non-empty result wins.
type (
	// MultiRoleCarrier exposes a performer's roles as a set.
	MultiRoleCarrier interface {
		Roles() []string
	}

	// RoleCarrier exposes a performer's single role.
	RoleCarrier interface {
		Role() string
	}

	// AttributeCarrier exposes arbitrary named attributes; the role checker
	// reads its configured attribute name and accepts a string or a string
	// slice value.
	AttributeCarrier interface {
		Attribute(name string) any
	}
)

// RoleChecker allows a transition when the performer holds at least one of
// the target state's permitted roles. A target state with no permitted roles
// places no restriction. When roles are required and none resolve off the
// performer, the check denies rather than allowing by default.
type RoleChecker struct {
	attribute string
}

// RoleCheckerOption configures a RoleChecker.
type RoleCheckerOption func(*RoleChecker)

// WithRoleAttribute overrides the attribute name consulted on an
// AttributeCarrier performer.
func WithRoleAttribute(name string) RoleCheckerOption {
	return func(c *RoleChecker) {
		if name != "" {
			c.attribute = name
		}
	}
}

// NewRoleChecker creates a role-based checker.
func NewRoleChecker(opts ...RoleCheckerOption) *RoleChecker {
	c := &RoleChecker{attribute: DefaultRoleAttribute}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RoleChecker) Name() string {
	return "role"
}

func (c *RoleChecker) CanTransition(ctx context.Context, e statemachine.Entity, from, to statemachine.StateDefinition, p statemachine.Performer) bool {
	if len(to.PermittedRoles) == 0 {
		return true
	}

	roles := c.RoleOf(p)
	if len(roles) == 0 {
		return false
	}
	for _, role := range roles {
		for _, permitted := range to.PermittedRoles {
			if role == permitted {
				return true
			}
		}
	}
	return false
}

func (c *RoleChecker) DenialReason(ctx context.Context, e statemachine.Entity, from, to statemachine.StateDefinition, p statemachine.Performer) string {
	if c.CanTransition(ctx, e, from, to, p) {
		return ""
	}

	roles := c.RoleOf(p)
	if len(roles) == 0 {
		return fmt.Sprintf("no role resolvable on performer, state '%s' requires one of [%s]",
			to.Name, strings.Join(to.PermittedRoles, ", "))
	}
	return fmt.Sprintf("role '%s' is not permitted to enter state '%s' (requires one of [%s])",
		strings.Join(roles, "', '"), to.Name, strings.Join(to.PermittedRoles, ", "))
}

// RoleOf resolves the performer's roles through the accessor chain:
// MultiRoleCarrier, then RoleCarrier, then AttributeCarrier with the
// configured attribute name. First non-empty result wins.
func (c *RoleChecker) RoleOf(p statemachine.Performer) []string {
	if p == nil {
		return nil
	}

	if carrier, ok := p.(MultiRoleCarrier); ok {
		if roles := carrier.Roles(); len(roles) > 0 {
			return roles
		}
	}
	if carrier, ok := p.(RoleCarrier); ok {
		if role := carrier.Role(); role != "" {
			return []string{role}
		}
	}
	if carrier, ok := p.(AttributeCarrier); ok {
		return coerceRoles(carrier.Attribute(c.attribute))
	}
	return nil
}

func coerceRoles(v any) []string {
	switch roles := v.(type) {
	case nil:
		return nil
	case string:
		if roles == "" {
			return nil
		}
		return []string{roles}
	case []string:
		return roles
	case []any:
		out := make([]string, 0, len(roles))
		for _, r := range roles {
			if s, ok := r.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

package permission

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/dmitrymomot/statekit/pkg/statemachine"
)

// DefaultAbilityPrefix prefixes the target state name when deriving the
// ability consulted on the gate, e.g. "transitionTo" + "Published".
const DefaultAbilityPrefix = "transitionTo"

// PolicyChecker delegates authorization to an external gate, asking for an
// ability named after the target state. When the gate has no such ability
// registered the check allows - policies are opt-in restrictions - with one
// exception: an absent performer is always denied, even without a registered
// ability, so anonymous transitions never slip through a policy gate.
type PolicyChecker struct {
	gate   Gate
	prefix string
}

// PolicyCheckerOption configures a PolicyChecker.
type PolicyCheckerOption func(*PolicyChecker)

// WithAbilityPrefix overrides the ability name prefix.
func WithAbilityPrefix(prefix string) PolicyCheckerOption {
	return func(c *PolicyChecker) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// NewPolicyChecker creates a policy-based checker backed by the given gate.
func NewPolicyChecker(gate Gate, opts ...PolicyCheckerOption) *PolicyChecker {
	if gate == nil {
		panic("permission: gate cannot be nil")
	}

	c := &PolicyChecker{gate: gate, prefix: DefaultAbilityPrefix}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *PolicyChecker) Name() string {
	return "policy"
}

// Ability returns the gate ability name derived from a state name, e.g.
// "under_review" becomes "transitionToUnderReview".
func (c *PolicyChecker) Ability(stateName string) string {
	return c.prefix + pascalCase(stateName)
}

func (c *PolicyChecker) CanTransition(ctx context.Context, e statemachine.Entity, from, to statemachine.StateDefinition, p statemachine.Performer) bool {
	if p == nil {
		return false
	}

	ability := c.Ability(to.Name)
	if !c.gate.AbilityRegistered(ability) {
		return true
	}
	return c.gate.Check(ctx, ability, p, e)
}

func (c *PolicyChecker) DenialReason(ctx context.Context, e statemachine.Entity, from, to statemachine.StateDefinition, p statemachine.Performer) string {
	if c.CanTransition(ctx, e, from, to, p) {
		return ""
	}
	if p == nil {
		return fmt.Sprintf("anonymous performer cannot satisfy policy '%s'", c.Ability(to.Name))
	}
	return fmt.Sprintf("policy '%s' denied performer '%s'", c.Ability(to.Name), p.PerformerID())
}

// RoleOf always returns nil: policies say nothing about roles.
func (c *PolicyChecker) RoleOf(p statemachine.Performer) []string {
	return nil
}

func pascalCase(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var sb strings.Builder
	for _, part := range parts {
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		sb.WriteString(string(runes))
	}
	return sb.String()
}

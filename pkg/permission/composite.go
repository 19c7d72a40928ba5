package permission

import (
	"context"
	"strings"

	"github.com/dmitrymomot/statekit/pkg/statemachine"
)

type compositeMode int

const (
	modeAll compositeMode = iota
	modeAny
)

// CompositeChecker combines several checkers into one. In all-mode the
// transition is allowed only when every member allows it; in any-mode a
// single approving member is enough. An empty composite allows everything
// in both modes.
type CompositeChecker struct {
	checkers []Checker
	mode     compositeMode
}

// All builds a composite that requires unanimous approval.
func All(checkers ...Checker) *CompositeChecker {
	return &CompositeChecker{checkers: checkers, mode: modeAll}
}

// Any builds a composite satisfied by a single approving member.
func Any(checkers ...Checker) *CompositeChecker {
	return &CompositeChecker{checkers: checkers, mode: modeAny}
}

func (c *CompositeChecker) Name() string {
	if c.mode == modeAny {
		return "composite(any)"
	}
	return "composite(all)"
}

func (c *CompositeChecker) CanTransition(ctx context.Context, e statemachine.Entity, from, to statemachine.StateDefinition, p statemachine.Performer) bool {
	if len(c.checkers) == 0 {
		return true
	}

	for _, checker := range c.checkers {
		allowed := checker.CanTransition(ctx, e, from, to, p)
		if c.mode == modeAll && !allowed {
			return false
		}
		if c.mode == modeAny && allowed {
			return true
		}
	}
	return c.mode == modeAll
}

// DenialReason reports why the composite denied a transition. In all-mode it
// is the reason of the first member that denied; in any-mode every member
// denied, and their reasons are joined.
func (c *CompositeChecker) DenialReason(ctx context.Context, e statemachine.Entity, from, to statemachine.StateDefinition, p statemachine.Performer) string {
	if c.CanTransition(ctx, e, from, to, p) {
		return ""
	}

	if c.mode == modeAll {
		for _, checker := range c.checkers {
			if !checker.CanTransition(ctx, e, from, to, p) {
				return checker.DenialReason(ctx, e, from, to, p)
			}
		}
		return ""
	}

	reasons := make([]string, 0, len(c.checkers))
	for _, checker := range c.checkers {
		if reason := checker.DenialReason(ctx, e, from, to, p); reason != "" {
			reasons = append(reasons, reason)
		}
	}
	return strings.Join(reasons, "; ")
}

// RoleOf returns the first non-empty role set reported by a member.
func (c *CompositeChecker) RoleOf(p statemachine.Performer) []string {
	for _, checker := range c.checkers {
		if roles := checker.RoleOf(p); len(roles) > 0 {
			return roles
		}
	}
	return nil
}

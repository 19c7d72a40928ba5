// Package permission decides whether a performer may move an entity from one
// state to another. It provides a pluggable Checker strategy with three
// implementations:
//
//   - RoleChecker: compares roles resolved off the performer against the
//     target state's permitted roles. Fails closed: when the target state
//     requires roles and none can be resolved, the transition is denied.
//   - PolicyChecker: asks an external authorization gate for a named ability
//     derived from the target state ("transitionTo" + StateName by default).
//     Fails open when no ability is registered - policies are opt-in
//     restrictions - except for anonymous performers, which are always denied.
//   - Composite: aggregates checkers under All (every member must allow) or
//     Any (one allowing member suffices). Both are vacuously true when empty.
//
// The asymmetry between RoleChecker's fail-closed and PolicyChecker's
// fail-open defaults is deliberate and preserved as designed: roles are
// opt-in allowlists, policies are opt-in restrictions.
//
// Usage:
//
//	checker := permission.All(
//		permission.NewRoleChecker(),
//		permission.NewPolicyChecker(gate),
//	)
//
//	if !checker.CanTransition(ctx, entity, from, to, performer) {
//		reason := checker.DenialReason(ctx, entity, from, to, performer)
//		// ...
//	}
package permission

// Package rules provides configurable field-level validation for transition
// requests. A Set maps rules onto the request's metadata bag; the transition
// executor evaluates the set during its validation stage and converts any
// violations into a structured field -> messages error.
//
// Rules come in two flavors: plain Go check functions, and expressions
// compiled with the expr language and evaluated against the request
// environment (metadata plus from/to state names and entity identity).
//
// Usage:
//
//	set := rules.NewSet()
//	set.Add(rules.Must("priority", "priority is required", func(ctx context.Context, env rules.Env) bool {
//		v, ok := env.Metadata["priority"].(string)
//		return ok && v != ""
//	}))
//
//	exprRule, err := rules.Expr("reason", "reason required for rejections",
//		`to != "rejected" || len(metadata.reason ?? "") > 0`)
//
//	if verr := set.Validate(ctx, env); verr != nil {
//		// verr is a ValidationErrors map of field -> messages
//	}
package rules

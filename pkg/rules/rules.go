package rules

import (
	"context"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Env is the evaluation environment a rule sees: the transition request's
// metadata plus the surrounding transition facts.
type Env struct {
	EntityType  string
	EntityID    string
	Field       string
	From        string
	To          string
	PerformerID string
	Metadata    map[string]any
}

// exprEnv flattens Env into the map shape the expression VM consumes.
func (e Env) exprEnv() map[string]any {
	metadata := e.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return map[string]any{
		"entity_type":  e.EntityType,
		"entity_id":    e.EntityID,
		"field":        e.Field,
		"from":         e.From,
		"to":           e.To,
		"performer_id": e.PerformerID,
		"metadata":     metadata,
	}
}

// CheckFunc evaluates one rule. Returning false records the rule's message
// against its field; returning an error fails validation outright.
type CheckFunc func(ctx context.Context, env Env) (bool, error)

// Rule is a single named validation rule bound to a metadata field.
type Rule struct {
	Field   string
	Message string
	check   CheckFunc
}

// Must builds a rule from a plain predicate.
func Must(field, message string, check func(ctx context.Context, env Env) bool) Rule {
	return Rule{
		Field:   field,
		Message: message,
		check: func(ctx context.Context, env Env) (bool, error) {
			return check(ctx, env), nil
		},
	}
}

// New builds a rule from a CheckFunc that may itself fail.
func New(field, message string, check CheckFunc) Rule {
	return Rule{Field: field, Message: message, check: check}
}

// Expr compiles an expression-language rule. The expression must evaluate to
// a boolean against the environment documented on Env; compilation happens
// once, at configuration time, so malformed expressions fail at bootstrap
// rather than per request.
func Expr(field, message, expression string) (Rule, error) {
	program, err := expr.Compile(expression, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return Rule{}, fmt.Errorf("%w: %q: %v", ErrInvalidExpression, expression, err)
	}
	return Rule{
		Field:   field,
		Message: message,
		check:   runProgram(program),
	}, nil
}

// MustExpr is like Expr but panics on compilation failure, following the
// fail-fast bootstrap pattern.
func MustExpr(field, message, expression string) Rule {
	rule, err := Expr(field, message, expression)
	if err != nil {
		panic(fmt.Sprintf("rules: %v", err))
	}
	return rule
}

func runProgram(program *vm.Program) CheckFunc {
	return func(ctx context.Context, env Env) (bool, error) {
		out, err := expr.Run(program, env.exprEnv())
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrEvaluationFailed, err)
		}
		ok, isBool := out.(bool)
		if !isBool {
			return false, fmt.Errorf("%w: expression did not yield a boolean", ErrEvaluationFailed)
		}
		return ok, nil
	}
}

// Set is an ordered collection of rules evaluated together.
type Set struct {
	rules []Rule
}

// NewSet creates a rule set.
func NewSet(rules ...Rule) *Set {
	return &Set{rules: rules}
}

// Add appends rules to the set.
func (s *Set) Add(rules ...Rule) *Set {
	s.rules = append(s.rules, rules...)
	return s
}

// Len returns the number of rules in the set.
func (s *Set) Len() int {
	return len(s.rules)
}

// Validate runs every rule against the environment and collects violations
// per field. It returns nil when all rules pass.
func (s *Set) Validate(ctx context.Context, env Env) (ValidationErrors, error) {
	var violations ValidationErrors
	for _, rule := range s.rules {
		ok, err := rule.check(ctx, env)
		if err != nil {
			return nil, fmt.Errorf("rule for field %q: %w", rule.Field, err)
		}
		if !ok {
			if violations == nil {
				violations = make(ValidationErrors)
			}
			violations.Add(rule.Field, rule.Message)
		}
	}
	return violations, nil
}

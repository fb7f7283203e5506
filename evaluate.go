package renderopts

import (
	"errors"
	"fmt"
)

var ErrNoEvaluator = errors.New("renderopts: evaluator not configured")

// reservedNames are bound by every evaluator and shadow option keys of the
// same name.
var reservedNames = map[string]struct{}{
	"now":     {},
	"args":    {},
	"options": {},
}

// Evaluate runs expr with the resolved options bound as variables.
func (r *Resolved) Evaluate(expr string) (any, error) {
	return r.EvaluateWith(RuleContext{}, expr)
}

// EvaluateWith runs expr using ctx, binding the resolved options when
// ctx.Options is nil.
func (r *Resolved) EvaluateWith(ctx RuleContext, expr string) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("renderopts: resolved options are nil")
	}
	if expr == "" {
		return nil, fmt.Errorf("renderopts: expression must not be empty")
	}
	evaluator, err := r.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	if ctx.Options == nil {
		ctx.Options = r.Options
	}
	value, err := evaluator.Evaluate(ctx.withDefaults(), expr)
	if err != nil {
		return nil, r.annotateRuleError(evaluatorEngineName(evaluator), expr, err)
	}
	return value, nil
}

// Check evaluates expr and requires a boolean result.
func (r *Resolved) Check(expr string) (bool, error) {
	value, err := r.Evaluate(expr)
	if err != nil {
		return false, err
	}
	ok, isBool := value.(bool)
	if !isBool {
		return false, fmt.Errorf("renderopts: rule %q returned %T, want bool", expr, value)
	}
	return ok, nil
}

func (r *Resolved) resolveEvaluator() (Evaluator, error) {
	if r.evaluator != nil {
		return r.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if r.cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(r.cache))
	}
	evaluator := NewExprEvaluator(exprOpts...)
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	return evaluator, nil
}

func evaluatorEngineName(e Evaluator) string {
	switch e.(type) {
	case nil:
		return "unknown"
	case *exprEvaluator:
		return "expr"
	case *celEvaluator:
		return "cel"
	default:
		if isJSEvaluator(e) {
			return "js"
		}
		return "custom"
	}
}

// bindings returns the variables shared by every engine: the option keys
// plus now, args and the whole mapping as options.
func (ctx RuleContext) bindings() map[string]any {
	env := make(map[string]any, len(ctx.Options)+len(reservedNames))
	for key, value := range ctx.Options {
		env[key] = value
	}
	env["now"] = *ctx.Now
	env["args"] = ctx.Args
	env["options"] = ctx.Options
	return env
}

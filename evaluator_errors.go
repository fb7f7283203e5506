package renderopts

import (
	"errors"
	"fmt"
	"strings"
)

// EvaluationError reports a rule that failed against a resolution. The
// resolution fields are empty when a rule runs outside Resolved, e.g. through
// a CompiledRule.
type EvaluationError struct {
	Engine string
	Expr   string

	ResolutionID string
	InputKind    InputKind
	// Overrides are the option paths the document supplied.
	Overrides []string

	Err error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "renderopts: %s rule %s", e.Engine, quoteRule(e.Expr))
	if e.ResolutionID != "" {
		fmt.Fprintf(&b, " on %s input (resolution %s", e.InputKind, e.ResolutionID)
		if len(e.Overrides) > 0 {
			fmt.Fprintf(&b, ", document overrides %s", strings.Join(e.Overrides, ","))
		}
		b.WriteString(")")
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func quoteRule(expr string) string {
	if expr == "" {
		return "<empty>"
	}
	return fmt.Sprintf("%q", expr)
}

// wrapEvaluatorError prefixes failures that are not tied to a rule, such as a
// missing runtime.
func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}
	if strings.HasPrefix(err.Error(), "renderopts:") {
		return err
	}
	return fmt.Errorf("renderopts: %s evaluator: %w", engine, err)
}

// ruleError wraps an engine failure for expr.
func ruleError(engine, expr string, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return evalErr
	}
	return &EvaluationError{Engine: engine, Expr: expr, Err: err}
}

// annotateRuleError attaches the resolution context to a rule failure. Engine
// and expression already recorded by the evaluator are kept.
func (r *Resolved) annotateRuleError(engine, expr string, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		evalErr = &EvaluationError{Err: err}
	}
	if evalErr.Engine == "" {
		evalErr.Engine = engine
	}
	if evalErr.Expr == "" {
		evalErr.Expr = expr
	}
	evalErr.ResolutionID = r.ID
	evalErr.InputKind = r.InputKind
	evalErr.Overrides = append([]string(nil), r.MetadataKeys...)
	return evalErr
}

package renderopts

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	celgo "github.com/google/cel-go/cel"
)

// CELEvaluatorOption configures the CEL evaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithProgramCache wires a ProgramCache into the CEL evaluator.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.cache = cache
	}
}

type celEvaluator struct {
	cache ProgramCache
}

// NewCELEvaluator constructs an Evaluator backed by cel-go. Option keys are
// declared as dynamic variables; keys that are not CEL identifiers are only
// reachable through options["key"].
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	e := &celEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	if expression == "" {
		return nil, wrapEvaluatorError("cel", fmt.Errorf("expression must not be empty"))
	}
	ctx = ctx.withDefaults()
	names := celVariableNames(ctx.Options)
	program, err := e.loadOrCompile(expression, names)
	if err != nil {
		return nil, ruleError("cel", expression, err)
	}
	out, _, err := program.Eval(celActivation(ctx, names))
	if err != nil {
		return nil, ruleError("cel", expression, err)
	}
	return out.Value(), nil
}

// Compile defers compilation until the option keys are known.
func (e *celEvaluator) Compile(expression string) (CompiledRule, error) {
	if expression == "" {
		return nil, wrapEvaluatorError("cel", fmt.Errorf("expression must not be empty"))
	}
	return &celCompiledRule{evaluator: e, expression: expression}, nil
}

func (e *celEvaluator) loadOrCompile(expression string, names []string) (celgo.Program, error) {
	key := "cel:" + expression + "|" + strings.Join(names, ",")
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if program, ok := cached.(celgo.Program); ok {
				return program, nil
			}
		}
	}

	envOpts := []celgo.EnvOption{
		celgo.Variable("now", celgo.TimestampType),
		celgo.Variable("args", celgo.DynType),
		celgo.Variable("options", celgo.MapType(celgo.StringType, celgo.DynType)),
	}
	for _, name := range names {
		envOpts = append(envOpts, celgo.Variable(name, celgo.DynType))
	}
	env, err := celgo.NewEnv(envOpts...)
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(key, program)
	}
	return program, nil
}

var celIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var celReserved = map[string]struct{}{
	"as": {}, "break": {}, "const": {}, "continue": {}, "else": {}, "false": {},
	"for": {}, "function": {}, "if": {}, "import": {}, "in": {}, "let": {},
	"loop": {}, "package": {}, "namespace": {}, "null": {}, "return": {},
	"true": {}, "var": {}, "void": {}, "while": {},
}

func celVariableNames(options Mapping) []string {
	names := make([]string, 0, len(options))
	for key := range options {
		if _, reserved := reservedNames[key]; reserved {
			continue
		}
		if _, reserved := celReserved[key]; reserved {
			continue
		}
		if !celIdentifier.MatchString(key) {
			continue
		}
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}

func celActivation(ctx RuleContext, names []string) map[string]any {
	activation := map[string]any{
		"now":     *ctx.Now,
		"args":    ctx.Args,
		"options": map[string]any(ctx.Options),
	}
	for _, name := range names {
		activation[name] = ctx.Options[name]
	}
	return activation
}

type celCompiledRule struct {
	evaluator  *celEvaluator
	expression string
}

func (r *celCompiledRule) Evaluate(ctx RuleContext) (any, error) {
	if r.evaluator == nil {
		return nil, wrapEvaluatorError("cel", fmt.Errorf("compiled rule missing evaluator"))
	}
	return r.evaluator.Evaluate(ctx, r.expression)
}

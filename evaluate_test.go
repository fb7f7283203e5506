package renderopts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rulePage = `<head><meta name="grover-quality" content="91"><meta name="grover-viewport-width" content="200"></head>`

func TestResolvedEvaluateDefaultsToExpr(t *testing.T) {
	resolved := newTestBuilder().Resolve(context.Background(), rulePage, Mapping{"wait_until": "load"})

	value, err := resolved.Evaluate(`quality > 90 && viewport.width == 200 && wait_until == "load"`)
	require.NoError(t, err)
	assert.Equal(t, true, value)

	value, err = resolved.Evaluate(`options["cache"]`)
	require.NoError(t, err)
	assert.Equal(t, false, value)
}

func TestResolvedCheck(t *testing.T) {
	resolved := newTestBuilder().Resolve(context.Background(), rulePage, nil)

	ok, err := resolved.Check(`quality >= 91`)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = resolved.Check(`cache`)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = resolved.Check(`quality`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want bool")
}

func TestResolvedEvaluateWithArgs(t *testing.T) {
	resolved := newTestBuilder().Resolve(context.Background(), rulePage, nil)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	value, err := resolved.EvaluateWith(RuleContext{
		Now:  &now,
		Args: map[string]any{"min": 90},
	}, `quality > args.min && wait_until == nil`)
	require.NoError(t, err)
	assert.Equal(t, true, value)
}

func TestResolvedEvaluateErrors(t *testing.T) {
	resolved := newTestBuilder().Resolve(context.Background(), rulePage, nil)

	_, err := resolved.Evaluate("")
	require.Error(t, err)

	_, err = resolved.Evaluate(`quality +`)
	require.Error(t, err)
	var evalErr *EvaluationError
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, "expr", evalErr.Engine)
	assert.Equal(t, `quality +`, evalErr.Expr)
	assert.Equal(t, resolved.ID, evalErr.ResolutionID)
	assert.Equal(t, InputMarkup, evalErr.InputKind)
	assert.Equal(t, []string{"quality", "viewport.width"}, evalErr.Overrides)
	assert.NotNil(t, evalErr.Unwrap())

	var nilResolved *Resolved
	_, err = nilResolved.Evaluate("true")
	assert.Error(t, err)
}

func TestResolvedEvaluateUsesProgramCache(t *testing.T) {
	cache := NewMemoryProgramCache()
	b := newTestBuilder(WithProgramCache(cache))

	for i := 0; i < 2; i++ {
		resolved := b.Resolve(context.Background(), rulePage, nil)
		ok, err := resolved.Check(`quality > 90`)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	_, cached := cache.Get("expr:quality > 90")
	assert.True(t, cached)
}

func TestCELEvaluator(t *testing.T) {
	b := newTestBuilder(WithEvaluator(NewCELEvaluator()))
	resolved := b.Resolve(context.Background(), rulePage, Mapping{"wait_until": "load"})

	ok, err := resolved.Check(`quality > 90.0 && viewport.width == 200.0 && options["wait_until"] == "load"`)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = resolved.Check(`cache == false`)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = resolved.Evaluate(`quality >`)
	require.Error(t, err)
	var evalErr *EvaluationError
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, "cel", evalErr.Engine)
}

func TestCELCompiledRuleAcrossResolutions(t *testing.T) {
	cache := NewMemoryProgramCache()
	rule, err := NewCELEvaluator(CELWithProgramCache(cache)).Compile(`quality > 90.0`)
	require.NoError(t, err)

	value, err := rule.Evaluate(RuleContext{Options: Mapping{"quality": 95.0}})
	require.NoError(t, err)
	assert.Equal(t, true, value)

	value, err = rule.Evaluate(RuleContext{Options: Mapping{"quality": 50.0}})
	require.NoError(t, err)
	assert.Equal(t, false, value)
}

func TestExprCompiledRule(t *testing.T) {
	rule, err := NewExprEvaluator().Compile(`len(launch_args) == 1`)
	require.NoError(t, err)

	value, err := rule.Evaluate(RuleContext{Options: Mapping{"launch_args": []string{"--a"}}})
	require.NoError(t, err)
	assert.Equal(t, true, value)

	_, err = NewExprEvaluator().Compile("")
	assert.Error(t, err)
}

func TestReservedNamesShadowOptions(t *testing.T) {
	resolved := NewBuilder().Resolve(context.Background(), "", Mapping{"args": "shadowed"})

	value, err := resolved.Evaluate(`options["args"]`)
	require.NoError(t, err)
	assert.Equal(t, "shadowed", value)

	value, err = resolved.Evaluate(`len(args)`)
	require.NoError(t, err)
	assert.Equal(t, 0, value)
}

func TestEvaluatorEngineName(t *testing.T) {
	assert.Equal(t, "expr", evaluatorEngineName(NewExprEvaluator()))
	assert.Equal(t, "cel", evaluatorEngineName(NewCELEvaluator()))
	assert.Equal(t, "unknown", evaluatorEngineName(nil))
}

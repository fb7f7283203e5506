package renderopts

import (
	"time"

	"github.com/goliatone/go-render-options/defaults"
	"github.com/goliatone/go-render-options/layering"
	"github.com/goliatone/go-render-options/metadata"
	"github.com/goliatone/go-render-options/pkg/activity"
)

// Mapping is a set of rendering options keyed by option name.
type Mapping = layering.Mapping

// RuleContext carries inputs needed when evaluating an expression against
// resolved options.
type RuleContext struct {
	Options Mapping
	Now     *time.Time
	Args    map[string]any
}

func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Options == nil {
		ctx.Options = Mapping{}
	}
	return ctx
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// Option configures a Builder.
type Option func(*builderConfig)

type builderConfig struct {
	defaults     defaults.Provider
	prefix       string
	classifier   Classifier
	logger       BuildLogger
	evaluator    Evaluator
	programCache ProgramCache
	activity     activity.Hooks
}

func applyOptions(opts []Option) builderConfig {
	cfg := builderConfig{
		prefix:     metadata.DefaultPrefix,
		classifier: ClassifyInput,
		logger:     noopBuildLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithDefaults sets the provider consulted for process-wide defaults on
// every build.
func WithDefaults(provider defaults.Provider) Option {
	return func(cfg *builderConfig) {
		cfg.defaults = provider
	}
}

// WithDefaultsMap uses a fixed defaults snapshot. The map is copied.
func WithDefaultsMap(values Mapping) Option {
	return func(cfg *builderConfig) {
		cfg.defaults = defaults.NewStatic(values)
	}
}

// WithPrefix changes the reserved meta name prefix (default "grover-").
func WithPrefix(prefix string) Option {
	return func(cfg *builderConfig) {
		if prefix != "" {
			cfg.prefix = prefix
		}
	}
}

// WithClassifier replaces the markup/locator decision.
func WithClassifier(classifier Classifier) Option {
	return func(cfg *builderConfig) {
		if classifier != nil {
			cfg.classifier = classifier
		}
	}
}

// WithEvaluator configures the evaluator used by Resolved.Evaluate.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *builderConfig) {
		cfg.evaluator = e
	}
}

package renderopts

import (
	"context"
	"time"

	"github.com/goliatone/go-render-options/pkg/activity"
)

// WithActivityHooks attaches hooks notified after every resolution.
// Nil entries are dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := activity.CloneHooks(hooks)
	return func(cfg *builderConfig) {
		cfg.activity = normalized
	}
}

func (b *Builder) emitResolved(ctx context.Context, resolved *Resolved, at time.Time) error {
	if b.emitter == nil || !b.emitter.Enabled() {
		return nil
	}
	layers := make([]string, 0, len(resolved.layers))
	for _, layer := range resolved.layers {
		layers = append(layers, layer.Level.String())
	}
	input := activity.ResolvedEventInput{
		ResolutionID: resolved.ID,
		InputKind:    resolved.InputKind.String(),
		Keys:         sortedKeys(resolved.Options),
		MetadataKeys: resolved.MetadataKeys,
		Layers:       layers,
		OccurredAt:   at,
	}
	if err := b.emitter.Emit(ctx, activity.BuildResolvedEvent(input)); err != nil {
		return err
	}
	if len(resolved.MetadataKeys) == 0 {
		return nil
	}
	return b.emitter.Emit(ctx, activity.BuildMetadataAppliedEvent(input))
}

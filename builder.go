// Package renderopts resolves the option mapping handed to a document
// renderer. Three layers are merged, weakest first: process-wide defaults,
// options passed by the caller and overrides embedded in the document as
// <meta name="grover-..."> tags.
package renderopts

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-render-options/layering"
	"github.com/goliatone/go-render-options/metadata"
	"github.com/goliatone/go-render-options/pkg/activity"
)

// Builder resolves render options. It is immutable after construction and
// safe for concurrent use.
type Builder struct {
	cfg     builderConfig
	emitter *activity.Emitter
}

// NewBuilder constructs a Builder. Without WithDefaults the defaults layer is
// empty.
func NewBuilder(opts ...Option) *Builder {
	cfg := applyOptions(opts)
	b := &Builder{cfg: cfg}
	if len(cfg.activity) > 0 {
		b.emitter = activity.NewEmitter(cfg.activity, activity.Config{Enabled: true})
	}
	return b
}

// Build returns the resolved option mapping for input, which is either
// document markup or an opaque locator, and the caller's options.
func (b *Builder) Build(input string, callSite Mapping) Mapping {
	return b.Resolve(context.Background(), input, callSite).Options
}

// Resolve is Build keeping the contributing layers for tracing, rule
// evaluation and hydration. ctx is only handed to activity hooks.
func (b *Builder) Resolve(ctx context.Context, input string, callSite Mapping) *Resolved {
	if b == nil {
		b = NewBuilder()
	}
	start := time.Now()

	kind := b.cfg.classifier(input)
	documentMetadata := Mapping{}
	var (
		entries      []metadata.Entry
		metadataKeys []string
	)
	if kind == InputMarkup {
		entries = metadata.Extract(input, b.cfg.prefix)
		documentMetadata, metadataKeys = FoldEntries(entries)
	}

	resolved := newResolved(kind, b.defaults(), layering.Clone(callSite), documentMetadata)
	resolved.MetadataKeys = metadataKeys
	resolved.evaluator = b.cfg.evaluator
	resolved.cache = b.cfg.programCache

	err := b.emitResolved(ctx, resolved, start)
	b.cfg.logger.LogBuild(BuildLogEvent{
		ResolutionID:    resolved.ID,
		InputKind:       kind,
		MetadataEntries: len(entries),
		Keys:            sortedKeys(resolved.Options),
		Duration:        time.Since(start),
		Err:             err,
	})
	return resolved
}

func (b *Builder) defaults() Mapping {
	if b.cfg.defaults == nil {
		return Mapping{}
	}
	snapshot := layering.Clone(b.cfg.defaults.Defaults())
	if snapshot == nil {
		return Mapping{}
	}
	return snapshot
}

// FoldEntries decodes metadata entries into the document metadata layer.
// Later entries win when they resolve to the same path. It also returns the
// dotted option paths that were set, in first-seen order.
func FoldEntries(entries []metadata.Entry) (Mapping, []string) {
	folded := Mapping{}
	var keys []string
	seen := map[string]struct{}{}
	for _, entry := range entries {
		path := metadata.ResolvePath(entry.Key)
		if len(path) == 0 {
			continue
		}
		assignPath(folded, path, metadata.Decode(entry.Content).Native())
		dotted := strings.Join(path, ".")
		if _, ok := seen[dotted]; !ok {
			seen[dotted] = struct{}{}
			keys = append(keys, dotted)
		}
	}
	return folded, keys
}

// assignPath sets value at path, replacing any non-mapping value standing
// where a nested mapping is needed.
func assignPath(target Mapping, path []string, value any) {
	current := target
	for _, segment := range path[:len(path)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = Mapping{}
			current[segment] = next
		}
		current = next
	}
	current[path[len(path)-1]] = value
}

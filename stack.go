package renderopts

import (
	"sort"
	"strings"

	"github.com/goliatone/go-render-options/layering"
	"github.com/google/uuid"
)

// LayerSnapshot is one option layer as it entered the merge.
type LayerSnapshot struct {
	Level      layering.Level
	Snapshot   Mapping
	SnapshotID string
}

// Resolved is the outcome of one build: the merged options plus the layers
// that produced them, ordered strongest first.
type Resolved struct {
	ID        string
	InputKind InputKind
	Options   Mapping
	// MetadataKeys lists the dotted option paths set by the document.
	MetadataKeys []string

	layers    []LayerSnapshot
	evaluator Evaluator
	cache     ProgramCache
}

func newResolved(kind InputKind, defaults, callSite, documentMetadata Mapping) *Resolved {
	id := uuid.NewString()
	if callSite == nil {
		callSite = Mapping{}
	}
	return &Resolved{
		ID:        id,
		InputKind: kind,
		Options:   layering.Merge(defaults, callSite, documentMetadata),
		layers: []LayerSnapshot{
			newLayerSnapshot(id, layering.LevelDocumentMetadata, documentMetadata),
			newLayerSnapshot(id, layering.LevelCallSite, callSite),
			newLayerSnapshot(id, layering.LevelDefaults, defaults),
		},
	}
}

func newLayerSnapshot(resolutionID string, level layering.Level, snapshot Mapping) LayerSnapshot {
	return LayerSnapshot{
		Level:      level,
		Snapshot:   snapshot,
		SnapshotID: resolutionID + "/" + level.String(),
	}
}

// Layers returns copies of the contributing layers, strongest first.
func (r *Resolved) Layers() []LayerSnapshot {
	if r == nil || len(r.layers) == 0 {
		return nil
	}
	out := make([]LayerSnapshot, len(r.layers))
	for i, layer := range r.layers {
		out[i] = LayerSnapshot{
			Level:      layer.Level,
			Snapshot:   layering.Clone(layer.Snapshot),
			SnapshotID: layer.SnapshotID,
		}
	}
	return out
}

// Layer returns a copy of the snapshot contributed at level.
func (r *Resolved) Layer(level layering.Level) (Mapping, bool) {
	if r == nil {
		return nil, false
	}
	for _, layer := range r.layers {
		if layer.Level == level {
			return layering.Clone(layer.Snapshot), true
		}
	}
	return nil, false
}

// Lookup returns the resolved value at a dotted path such as "viewport.width".
func (r *Resolved) Lookup(path string) (any, bool) {
	if r == nil {
		return nil, false
	}
	return lookupPath(r.Options, splitPath(path))
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

func lookupPath(m Mapping, segments []string) (any, bool) {
	if len(segments) == 0 || m == nil {
		return nil, false
	}
	value, ok := m[segments[0]]
	if !ok || value == nil {
		return nil, false
	}
	if len(segments) == 1 {
		return value, true
	}
	nested, ok := value.(map[string]any)
	if !ok {
		return nil, false
	}
	return lookupPath(nested, segments[1:])
}

func sortedKeys(m Mapping) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

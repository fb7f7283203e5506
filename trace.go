package renderopts

import (
	"encoding/json"

	"github.com/goliatone/go-render-options/layering"
)

// Trace captures, for a dotted option path, what every layer contributed and
// the effective value.
type Trace struct {
	Path   string       `json:"path"`
	Value  any          `json:"value,omitempty"`
	Found  bool         `json:"found"`
	Layers []Provenance `json:"layers"`
}

// Provenance details how a specific layer contributed to a traced path.
type Provenance struct {
	Level      layering.Level `json:"level"`
	SnapshotID string         `json:"snapshot_id,omitempty"`
	Value      any            `json:"value,omitempty"`
	Found      bool           `json:"found"`
}

// Trace reports the value at path in every layer, strongest first.
func (r *Resolved) Trace(path string) Trace {
	trace := Trace{Path: path}
	if r == nil {
		return trace
	}
	segments := splitPath(path)
	trace.Value, trace.Found = lookupPath(r.Options, segments)
	for _, layer := range r.layers {
		value, found := lookupPath(layer.Snapshot, segments)
		trace.Layers = append(trace.Layers, Provenance{
			Level:      layer.Level,
			SnapshotID: layer.SnapshotID,
			Value:      value,
			Found:      found,
		})
	}
	return trace
}

// Winner returns the strongest layer holding a value for the path. For a
// nested mapping other layers may still contribute leaves.
func (t Trace) Winner() (Provenance, bool) {
	for _, layer := range t.Layers {
		if layer.Found {
			return layer, true
		}
	}
	return Provenance{}, false
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated via
// ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}

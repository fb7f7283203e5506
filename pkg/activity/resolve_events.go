package activity

import "time"

const (
	// VerbResolved is emitted once per option resolution.
	VerbResolved = "options.resolved"
	// VerbMetadataApplied is emitted when a document contributed overrides.
	VerbMetadataApplied = "options.metadata.applied"
	// ObjectTypeRenderOptions is the object type of every resolution event.
	ObjectTypeRenderOptions = "render_options"
)

// ResolvedEventInput describes a finished option resolution.
type ResolvedEventInput struct {
	ResolutionID string
	InputKind    string
	Keys         []string
	MetadataKeys []string
	Layers       []string
	Channel      string
	OccurredAt   time.Time
}

// BuildResolvedEvent constructs the event announcing a resolved mapping.
func BuildResolvedEvent(input ResolvedEventInput) Event {
	metadata := map[string]any{
		"input_kind": input.InputKind,
		"keys":       append([]string{}, input.Keys...),
	}
	if len(input.Layers) > 0 {
		metadata["layers"] = append([]string{}, input.Layers...)
	}
	return Event{
		Verb:       VerbResolved,
		ObjectType: ObjectTypeRenderOptions,
		ObjectID:   input.ResolutionID,
		Channel:    input.Channel,
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

// BuildMetadataAppliedEvent constructs the event listing the option keys a
// document overrode.
func BuildMetadataAppliedEvent(input ResolvedEventInput) Event {
	return Event{
		Verb:       VerbMetadataApplied,
		ObjectType: ObjectTypeRenderOptions,
		ObjectID:   input.ResolutionID,
		Channel:    input.Channel,
		Metadata: map[string]any{
			"metadata_keys": append([]string{}, input.MetadataKeys...),
		},
		OccurredAt: input.OccurredAt,
	}
}

package activity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNormalizeEventTrimsClonesAndDefaults(t *testing.T) {
	meta := map[string]any{"k": "v"}
	evt := Event{
		Verb:       " options.resolved ",
		ObjectType: " render_options ",
		ObjectID:   " 42 ",
		Channel:    " render_options ",
		Metadata:   meta,
	}

	got := NormalizeEvent(evt)

	if got.Verb != "options.resolved" || got.ObjectType != "render_options" || got.ObjectID != "42" {
		t.Fatalf("unexpected normalized fields: %+v", got)
	}
	if got.Channel != "render_options" {
		t.Fatalf("unexpected trimming: %+v", got)
	}
	if got.ID == "" {
		t.Fatalf("expected ID to be generated")
	}
	if got.OccurredAt.IsZero() {
		t.Fatalf("expected OccurredAt to be set")
	}
	got.Metadata["k"] = "changed"
	if evt.Metadata["k"] != "v" {
		t.Fatalf("expected original metadata untouched: %+v", evt.Metadata)
	}

	again := NormalizeEvent(Event{ID: " fixed "})
	if again.ID != "fixed" {
		t.Fatalf("expected explicit ID preserved, got %q", again.ID)
	}
}

func TestHooksNotifyShortCircuitsMissingRequired(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{capture}
	if err := hooks.Notify(context.Background(), Event{Verb: VerbResolved}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(capture.Events()) != 0 {
		t.Fatalf("expected no events captured, got %d", len(capture.Events()))
	}
}

func TestHooksNotifyFanOutAndJoinErrors(t *testing.T) {
	capture := &CaptureHook{}
	boom1 := errors.New("boom1")
	boom2 := errors.New("boom2")
	var ctxSeen bool
	hooks := Hooks{
		HookFunc(func(ctx context.Context, _ Event) error {
			ctxSeen = ctx != nil
			return nil
		}),
		capture,
		HookFunc(func(context.Context, Event) error { return boom1 }),
		nil,
		HookFunc(func(context.Context, Event) error { return boom2 }),
	}

	//nolint:staticcheck // nil context falls back to Background
	err := hooks.Notify(nil, Event{Verb: VerbResolved, ObjectType: ObjectTypeRenderOptions, ObjectID: "1"})
	if !errors.Is(err, boom1) || !errors.Is(err, boom2) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if !ctxSeen {
		t.Fatalf("expected context fallback to be non-nil")
	}
	if len(capture.Events()) != 1 {
		t.Fatalf("expected event to be captured once, got %d", len(capture.Events()))
	}
}

func TestEmitterDisabledAndEnabled(t *testing.T) {
	capture := &CaptureHook{}
	event := Event{Verb: VerbResolved, ObjectType: ObjectTypeRenderOptions, ObjectID: "1"}

	disabled := NewEmitter(Hooks{capture}, Config{Enabled: false})
	if disabled.Enabled() {
		t.Fatalf("expected emitter to be disabled")
	}
	if err := disabled.Emit(context.Background(), event); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(capture.Events()) != 0 {
		t.Fatalf("expected no events captured when disabled")
	}

	if NewEmitter(Hooks{nil}, Config{Enabled: true}).Enabled() {
		t.Fatalf("expected emitter without hooks to be disabled")
	}

	enabled := NewEmitter(Hooks{capture}, Config{Enabled: true})
	if err := enabled.Emit(context.Background(), event); err != nil {
		t.Fatalf("emit: %v", err)
	}
	events := capture.Events()
	if len(events) != 1 {
		t.Fatalf("expected one event captured, got %d", len(events))
	}
	if events[0].Channel != DefaultChannel {
		t.Fatalf("expected default channel applied, got %q", events[0].Channel)
	}
}

func TestEmitterPreservesExplicitChannel(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true, Channel: "default"})
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	err := emitter.Emit(context.Background(), Event{
		Verb:       VerbResolved,
		ObjectType: ObjectTypeRenderOptions,
		ObjectID:   "1",
		Channel:    "custom",
		OccurredAt: at,
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	events := capture.Events()
	if events[0].Channel != "custom" {
		t.Fatalf("expected explicit channel preserved, got %q", events[0].Channel)
	}
	if !events[0].OccurredAt.Equal(at) {
		t.Fatalf("expected occurred_at preserved, got %v", events[0].OccurredAt)
	}
}

func TestBuildResolvedEvents(t *testing.T) {
	input := ResolvedEventInput{
		ResolutionID: "abc",
		InputKind:    "markup",
		Keys:         []string{"cache", "viewport"},
		MetadataKeys: []string{"viewport.width"},
		Layers:       []string{"document_metadata", "call_site", "defaults"},
	}

	resolved := BuildResolvedEvent(input)
	if resolved.Verb != VerbResolved || resolved.ObjectID != "abc" || resolved.ObjectType != ObjectTypeRenderOptions {
		t.Fatalf("unexpected resolved event: %+v", resolved)
	}
	if resolved.Metadata["input_kind"] != "markup" {
		t.Fatalf("expected input kind metadata, got %+v", resolved.Metadata)
	}
	input.Keys[0] = "changed"
	if resolved.Metadata["keys"].([]string)[0] != "cache" {
		t.Fatalf("expected keys to be copied")
	}

	applied := BuildMetadataAppliedEvent(input)
	if applied.Verb != VerbMetadataApplied {
		t.Fatalf("unexpected verb %q", applied.Verb)
	}
	keys := applied.Metadata["metadata_keys"].([]string)
	if len(keys) != 1 || keys[0] != "viewport.width" {
		t.Fatalf("unexpected metadata keys %v", keys)
	}
}

package hydrate

import (
	"fmt"

	"github.com/goliatone/go-render-options/layering"
	"github.com/mitchellh/mapstructure"
)

// Context identifies the resolution a payload came from.
type Context struct {
	ResolutionID string
	InputKind    string
}

// PreHook lets callers mutate or normalise the payload before decoding.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook lets callers adjust or validate the hydrated struct after decoding.
type PostHook[T any] func(Context, *T) error

// DecoderOption configures a Decoder instance.
type DecoderOption[T any] func(*Decoder[T])

// Decoder converts resolved option mappings into typed structs. Field names
// come from `json` tags so they match the option keys.
type Decoder[T any] struct {
	preHooks    []PreHook
	postHooks   []PostHook[T]
	decodeHooks []mapstructure.DecodeHookFunc
	errorUnused bool
	strict      bool
	tagName     string
}

// WithPreHook applies hook prior to decoding.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithPostHook applies hook after decoding completes.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.postHooks = append(d.postHooks, hook)
	}
}

// WithDecodeHook adds a mapstructure decode hook.
func WithDecodeHook[T any](hook mapstructure.DecodeHookFunc) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.decodeHooks = append(d.decodeHooks, hook)
		}
	}
}

// WithErrorUnused fails decoding when the payload has keys T does not declare.
func WithErrorUnused[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.errorUnused = true
	}
}

// WithStrictTypes disables weak type conversion ("1" into an int, a scalar
// into a one element slice).
func WithStrictTypes[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.strict = true
	}
}

// WithTagName changes the struct tag used for key names.
func WithTagName[T any](tag string) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if tag != "" {
			d.tagName = tag
		}
	}
}

func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{tagName: "json"}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts payload into the target struct T applying configured hooks.
// The payload is never modified.
func (d *Decoder[T]) Decode(ctx Context, payload map[string]any) (T, error) {
	var zero T

	if payload == nil {
		return zero, fmt.Errorf("hydrate: payload is nil for resolution %q", ctx.ResolutionID)
	}

	current := layering.Clone(payload)
	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: pre-hook for resolution %q failed: %w", ctx.ResolutionID, err)
		}
		if next != nil {
			current = next
		}
	}

	var result T
	config := &mapstructure.DecoderConfig{
		Result:           &result,
		TagName:          d.tagName,
		WeaklyTypedInput: !d.strict,
		ErrorUnused:      d.errorUnused,
	}
	if len(d.decodeHooks) > 0 {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(d.decodeHooks...)
	}
	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return zero, fmt.Errorf("hydrate: configure decoder: %w", err)
	}
	if err := decoder.Decode(current); err != nil {
		return zero, fmt.Errorf("hydrate: decode resolution %q: %w", ctx.ResolutionID, err)
	}

	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, &result); err != nil {
			return zero, fmt.Errorf("hydrate: post-hook for resolution %q failed: %w", ctx.ResolutionID, err)
		}
	}

	return result, nil
}

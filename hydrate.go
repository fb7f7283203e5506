package renderopts

import (
	"github.com/goliatone/go-render-options/internal/hydrate"
)

// Viewport is the page geometry grouped under the viewport option.
type Viewport struct {
	Width             int     `json:"width,omitempty"`
	Height            int     `json:"height,omitempty"`
	DeviceScaleFactor float64 `json:"device_scale_factor,omitempty"`
	IsMobile          bool    `json:"is_mobile,omitempty"`
	HasTouch          bool    `json:"has_touch,omitempty"`
	IsLandscape       bool    `json:"is_landscape,omitempty"`
}

// RenderOptions is a typed view of the common renderer options. Keys without
// a field land in Extra.
type RenderOptions struct {
	Cache               bool           `json:"cache"`
	Quality             int            `json:"quality,omitempty"`
	Format              string         `json:"format,omitempty"`
	Landscape           bool           `json:"landscape,omitempty"`
	WaitUntil           string         `json:"wait_until,omitempty"`
	LaunchArgs          []string       `json:"launch_args,omitempty"`
	DisplayHeaderFooter bool           `json:"display_header_footer,omitempty"`
	HeaderTemplate      string         `json:"header_template,omitempty"`
	FooterTemplate      string         `json:"footer_template,omitempty"`
	Viewport            *Viewport      `json:"viewport,omitempty"`
	Extra               map[string]any `json:",remain"`
}

// Decode hydrates m into T using json tag names.
func Decode[T any](m Mapping, opts ...hydrate.DecoderOption[T]) (T, error) {
	return hydrate.NewDecoder[T](opts...).Decode(hydrate.Context{}, m)
}

// RenderOptions hydrates the resolved options into the typed view.
func (r *Resolved) RenderOptions() (RenderOptions, error) {
	if r == nil {
		return Decode[RenderOptions](Mapping{})
	}
	ctx := hydrate.Context{ResolutionID: r.ID, InputKind: r.InputKind.String()}
	return hydrate.NewDecoder[RenderOptions]().Decode(ctx, r.Options)
}

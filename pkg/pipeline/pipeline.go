// Package pipeline runs a diagram model through measurement, layout,
// drawing and serialization.
//
// [Render] performs one render with no caching. [Runner] wraps it with an
// artifact cache keyed by the canonical document and the render options,
// and is what the CLI and the HTTP server use.
//
//	opts := pipeline.Options{Formats: []string{"svg", "png"}}
//	res, err := pipeline.Render(ctx, model, opts, pipeline.Deps{Icons: icons.Default()})
//	os.WriteFile("out.svg", res.Artifacts["svg"], 0o644)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archdraw/pkg/cache"
	"github.com/matzehuels/archdraw/pkg/canvas"
	"github.com/matzehuels/archdraw/pkg/config"
	"github.com/matzehuels/archdraw/pkg/draw"
	"github.com/matzehuels/archdraw/pkg/errors"
	"github.com/matzehuels/archdraw/pkg/layout"
)

// =============================================================================
// Constants
// =============================================================================

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// Layout engines.
const (
	EngineGraphviz = "graphviz"
	EngineGrid     = "grid"
)

// DefaultScale is the PNG resolution multiplier.
const DefaultScale = 2.0

// ValidFormats lists the accepted output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidEngines lists the accepted layout engine names.
var ValidEngines = map[string]bool{
	EngineGraphviz: true,
	EngineGrid:     true,
}

// =============================================================================
// Options
// =============================================================================

// Options configures a render.
type Options struct {
	Formats []string      `json:"formats,omitempty"`
	Config  config.Values `json:"config,omitempty"` // nil means config.Defaults()
	Engine  string        `json:"engine,omitempty"`
	Order   []string      `json:"order,omitempty"` // overrides the drawOrder option
	Scale   float64       `json:"scale,omitempty"` // PNG only
	Refresh bool          `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	style     config.Style
	validated bool
}

// ValidateAndSetDefaults checks the options, fills defaults and resolves
// the style. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Engine == "" {
		o.Engine = EngineGraphviz
	}
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", o.Scale)
	}
	if o.Config == nil {
		o.Config = config.Defaults()
	}

	style, err := config.ResolveStyle(o.Config)
	if err != nil {
		return err
	}
	if len(o.Order) > 0 {
		style.DrawOrder = o.Order
	}
	if _, err := draw.ParseOrder(style.DrawOrder); err != nil {
		return err
	}
	o.style = style

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Style returns the resolved style. Valid after ValidateAndSetDefaults.
func (o Options) Style() config.Style { return o.style }

// LayoutKeyOpts returns the cache key options for the layout stage.
func (o Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Engine: o.Engine, Style: cache.HashJSON(o.style)}
}

// ArtifactKeyOpts returns the cache key options for one format.
func (o Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format: format,
		Engine: o.Engine,
		Style:  cache.HashJSON(o.style),
		Order:  o.style.DrawOrder,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}

// ValidateFormat checks that format is a supported output format.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEngine checks that name is a known layout engine.
func ValidateEngine(name string) error {
	if !ValidEngines[name] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid engine: %q (must be one of: graphviz, grid)", name)
	}
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Result holds everything a render produced. Layout, Canvas and Report
// are nil when the artifacts came from the cache.
type Result struct {
	RenderID  string
	DocHash   string
	Layout    *layout.Result
	Canvas    *canvas.Canvas
	Report    *draw.Report
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats records sizes and stage timings.
type Stats struct {
	Nodes      int
	Groups     int
	Edges      int
	LayoutTime time.Duration
	DrawTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo reports whether the artifacts were served from the cache.
type CacheInfo struct {
	ArtifactHit bool
}

func (o Options) String() string {
	return fmt.Sprintf("formats=%v engine=%s order=%v scale=%g", o.Formats, o.Engine, o.style.DrawOrder, o.Scale)
}

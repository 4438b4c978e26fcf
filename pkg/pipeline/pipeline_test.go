package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/archdraw/pkg/cache"
	"github.com/matzehuels/archdraw/pkg/config"
	"github.com/matzehuels/archdraw/pkg/diagram"
	"github.com/matzehuels/archdraw/pkg/errors"
	archio "github.com/matzehuels/archdraw/pkg/io"
	"github.com/matzehuels/archdraw/pkg/layout"
)

const doc = `{
  "groups": [{"id": "cloud", "title": "Cloud", "icon": "cloud"}],
  "services": [
    {"id": "web", "title": "Web", "icon": "internet", "in": "cloud"},
    {"id": "db", "title": "Database", "icon": "database", "in": "cloud"},
    {"id": "q", "icon": "queue"}
  ],
  "edges": [
    {"source": "web", "sourceDir": "R", "target": "db", "targetDir": "L"},
    {"source": "db", "target": "q", "title": "events"}
  ]
}`

func model(t *testing.T) *diagram.Model {
	t.Helper()
	m, err := archio.ReadJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return m
}

// gridOptions avoid the wasm engine and font loading.
func gridOptions(formats ...string) Options {
	return Options{
		Formats: formats,
		Engine:  EngineGrid,
		Config:  config.Merge(config.Defaults(), config.Values{config.KeyTextMetrics: config.MetricsApprox}),
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("ValidateFormats(svg, png) error = %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("ValidateFormats(svg, invalid) error = nil")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("ValidateFormats(nil) error = %v", err)
	}
}

func TestValidateEngine(t *testing.T) {
	for _, name := range []string{"graphviz", "grid"} {
		if err := ValidateEngine(name); err != nil {
			t.Errorf("ValidateEngine(%q) error = %v", name, err)
		}
	}
	if err := ValidateEngine("elk"); err == nil {
		t.Error("ValidateEngine(elk) error = nil")
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Engine != EngineGraphviz {
		t.Errorf("Engine = %q, want graphviz", opts.Engine)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %g, want %g", opts.Scale, DefaultScale)
	}
	if opts.Logger == nil {
		t.Error("Logger = nil, want discard logger")
	}
	if got := opts.Style().IconSize; got != config.DefaultIconSize {
		t.Errorf("Style().IconSize = %g, want %g", got, config.DefaultIconSize)
	}

	// Idempotent.
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second ValidateAndSetDefaults() error = %v", err)
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"engine", Options{Engine: "elk"}, errors.ErrCodeInvalidInput},
		{"scale", Options{Scale: -1}, errors.ErrCodeInvalidInput},
		{"missing icon size", Options{Config: config.Values{}}, errors.ErrCodeConfigMissing},
		{"order", Options{Order: []string{"nodes", "nodes", "edges"}}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := gridOptions()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if got := opts.ArtifactKeyOpts(FormatSVG).Scale; got != 0 {
		t.Errorf("ArtifactKeyOpts(svg).Scale = %g, want 0", got)
	}
	if got := opts.ArtifactKeyOpts(FormatPNG).Scale; got != DefaultScale {
		t.Errorf("ArtifactKeyOpts(png).Scale = %g, want %g", got, DefaultScale)
	}

	other := gridOptions()
	other.Config = config.Merge(other.Config, config.Values{config.KeyIconSize: 64.0})
	if err := other.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.ArtifactKeyOpts(FormatSVG).Style == other.ArtifactKeyOpts(FormatSVG).Style {
		t.Error("ArtifactKeyOpts() ignores the style")
	}
}

func TestRender(t *testing.T) {
	m := model(t)
	res, err := Render(context.Background(), m, gridOptions(FormatSVG, FormatJSON, FormatPNG), Deps{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if _, err := uuid.Parse(res.RenderID); err != nil {
		t.Errorf("RenderID = %q, not a uuid", res.RenderID)
	}
	for _, f := range []string{FormatSVG, FormatJSON, FormatPNG} {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("Artifacts[%s] is empty", f)
		}
	}
	if !bytes.HasPrefix(res.Artifacts[FormatSVG], []byte("<svg")) {
		t.Errorf("svg artifact starts with %q", res.Artifacts[FormatSVG][:10])
	}
	if !bytes.HasPrefix(res.Artifacts[FormatPNG], []byte("\x89PNG")) {
		t.Error("png artifact lacks PNG signature")
	}

	// Three services, one group, two edges.
	if got := res.Report.Drawn; got != 6 {
		t.Errorf("Report.Drawn = %d, want 6", got)
	}
	if len(res.Report.Warnings) != 1 || res.Report.Warnings[0].ID != "q" {
		t.Errorf("Report.Warnings = %+v, want one unknown_icon for q", res.Report.Warnings)
	}
	if res.Stats.Nodes != 3 || res.Stats.Groups != 1 || res.Stats.Edges != 2 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	for _, id := range []string{"web", "db", "q", "cloud"} {
		if _, ok := res.Canvas.Lookup(id); !ok {
			t.Errorf("Canvas.Lookup(%q) missing", id)
		}
	}
}

func TestRenderLayoutFailure(t *testing.T) {
	broken := layout.EngineFunc(func(context.Context, *layout.Graph) (*layout.Result, error) {
		return nil, fmt.Errorf("solver gave up")
	})
	res, err := Render(context.Background(), model(t), gridOptions(), Deps{Engine: broken})
	if res != nil {
		t.Error("Render() returned a result on failure")
	}
	if !errors.Is(err, errors.ErrCodeLayoutFailure) {
		t.Errorf("Render() = %v, want LAYOUT_FAILURE", err)
	}
}

func TestSerializeRejectsUnknownFormat(t *testing.T) {
	opts := gridOptions()
	opts.Formats = []string{"bmp"}
	if _, err := Serialize(context.Background(), nil, nil, opts); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Serialize() = %v, want INVALID_FORMAT", err)
	}
}

func TestRunnerCaches(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	first, err := r.Execute(ctx, model(t), gridOptions(FormatSVG, FormatJSON))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if first.CacheInfo.ArtifactHit {
		t.Error("first Execute() hit the cache")
	}

	second, err := r.Execute(ctx, model(t), gridOptions(FormatSVG, FormatJSON))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !second.CacheInfo.ArtifactHit {
		t.Error("second Execute() missed the cache")
	}
	if first.DocHash != second.DocHash {
		t.Errorf("DocHash = %s, want %s", second.DocHash, first.DocHash)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}
	if second.Canvas != nil {
		t.Error("cached result carries a canvas")
	}

	// A format not yet rendered misses.
	third, err := r.Execute(ctx, model(t), gridOptions(FormatSVG, FormatPNG))
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.ArtifactHit {
		t.Error("Execute() with an uncached format hit the cache")
	}

	refresh := gridOptions(FormatSVG)
	refresh.Refresh = true
	fourth, err := r.Execute(ctx, model(t), refresh)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheInfo.ArtifactHit {
		t.Error("Execute() with Refresh hit the cache")
	}
}

func TestRunnerEngineOverride(t *testing.T) {
	called := false
	r := NewRunner(nil, nil, nil)
	r.Engines = map[string]layout.Engine{
		EngineGraphviz: layout.EngineFunc(func(ctx context.Context, g *layout.Graph) (*layout.Result, error) {
			called = true
			return layout.Fixed{}.Compute(ctx, g)
		}),
	}

	opts := gridOptions()
	opts.Engine = EngineGraphviz
	if _, err := r.Execute(context.Background(), model(t), opts); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !called {
		t.Error("Execute() did not use the registered engine")
	}
}

func TestRunnerLayout(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Layout(context.Background(), model(t), gridOptions())
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if len(res.Nodes) != 3 || len(res.Groups) != 1 {
		t.Errorf("Layout() = %d nodes, %d groups, want 3, 1", len(res.Nodes), len(res.Groups))
	}
}

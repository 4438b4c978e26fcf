package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/archdraw/pkg/canvas"
	"github.com/matzehuels/archdraw/pkg/config"
	"github.com/matzehuels/archdraw/pkg/diagram"
	"github.com/matzehuels/archdraw/pkg/draw"
	"github.com/matzehuels/archdraw/pkg/icons"
	"github.com/matzehuels/archdraw/pkg/layout"
	"github.com/matzehuels/archdraw/pkg/layout/graphviz"
	"github.com/matzehuels/archdraw/pkg/measure"
	"github.com/matzehuels/archdraw/pkg/observability"
	"github.com/matzehuels/archdraw/pkg/sink"
)

// Deps are the collaborators a render uses. Zero values select defaults.
type Deps struct {
	Icons    *icons.Registry  // nil means icons.Default()
	Engine   layout.Engine    // nil means NewEngine(opts.Engine)
	Measurer measure.Measurer // nil means NewMeasurer(style)
}

// NewEngine returns the layout engine registered under name.
func NewEngine(name string) (layout.Engine, error) {
	switch name {
	case EngineGraphviz:
		return graphviz.New(), nil
	case EngineGrid:
		return layout.Fixed{}, nil
	}
	return nil, ValidateEngine(name)
}

// NewMeasurer returns the measurer selected by the textMetrics option.
// The returned close function releases font resources and is never nil.
func NewMeasurer(style config.Style) (measure.Measurer, func(), error) {
	if style.TextMetrics == config.MetricsApprox {
		return measure.ApproxMeasurer{FontSize: style.FontSize, LineHeight: style.LineHeight}, func() {}, nil
	}
	m, err := measure.NewFontMeasurer(style.FontSize, style.LineHeight)
	if err != nil {
		return nil, nil, err
	}
	return m, func() { _ = m.Close() }, nil
}

// Render runs m through measurement, layout, drawing and every requested
// output format. Any stage failure aborts the render; no partial artifacts
// are returned.
func Render(ctx context.Context, m *diagram.Model, opts Options, deps Deps) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	style := opts.Style()
	logger := opts.Logger
	hooks := observability.Pipeline()

	if deps.Icons == nil {
		deps.Icons = icons.Default()
	}
	if deps.Engine == nil {
		e, err := NewEngine(opts.Engine)
		if err != nil {
			return nil, err
		}
		deps.Engine = e
	}
	if deps.Measurer == nil {
		meas, release, err := NewMeasurer(style)
		if err != nil {
			return nil, fmt.Errorf("measure: %w", err)
		}
		defer release()
		deps.Measurer = meas
	}

	result := &Result{
		RenderID: uuid.NewString(),
		Stats: Stats{
			Nodes:  m.NodeCount(),
			Groups: m.GroupCount(),
			Edges:  m.EdgeCount(),
		},
	}

	// Stage 1: Measure + layout
	start := time.Now()
	hooks.OnLayoutStart(ctx, opts.Engine, m.NodeCount())
	res, err := layout.Run(ctx, m, style, deps.Engine, deps.Measurer)
	result.Stats.LayoutTime = time.Since(start)
	hooks.OnLayoutComplete(ctx, opts.Engine, result.Stats.LayoutTime, err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	logger.Info("computed layout",
		"engine", opts.Engine,
		"nodes", len(res.Nodes),
		"edges", len(res.Edges),
		"duration", result.Stats.LayoutTime)
	for _, id := range res.Skipped {
		logger.Debug("edge has no route", "edge", id)
	}

	// Stage 2: Draw
	start = time.Now()
	c := canvas.New()
	hooks.OnDrawStart(ctx, m.NodeCount()+m.GroupCount()+m.EdgeCount())
	report, err := draw.Draw(c, m, res, draw.Options{
		Style:    style,
		Icons:    deps.Icons,
		Measurer: deps.Measurer,
		Logger:   logger,
	})
	result.Stats.DrawTime = time.Since(start)
	if err != nil {
		hooks.OnDrawComplete(ctx, 0, 0, result.Stats.DrawTime, err)
		return nil, fmt.Errorf("draw: %w", err)
	}
	hooks.OnDrawComplete(ctx, report.Drawn, len(report.Warnings), result.Stats.DrawTime, nil)
	result.Canvas = c
	result.Report = report
	logger.Info("drew diagram",
		"entities", report.Drawn,
		"warnings", len(report.Warnings),
		"duration", result.Stats.DrawTime)

	// Stage 3: Serialize
	start = time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	artifacts, err := Serialize(ctx, c, res, opts)
	result.Stats.RenderTime = time.Since(start)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Serialize writes c in every format of opts. PDF needs rsvg-convert on
// PATH; the other formats are produced in-process.
func Serialize(ctx context.Context, c *canvas.Canvas, res *layout.Result, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	padding := opts.Style().Padding

	var svg []byte
	svgOnce := func() []byte {
		if svg == nil {
			svg = sink.RenderSVG(c, sink.WithPadding(padding))
		}
		return svg
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svgOnce()
		case FormatPNG:
			data, err = sink.RenderPNG(c, opts.Scale)
		case FormatPDF:
			data, err = sink.ToPDF(ctx, svgOnce())
		case FormatJSON:
			data, err = sink.RenderJSON(c, res)
		default:
			err = ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

package draw

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archdraw/pkg/canvas"
	"github.com/matzehuels/archdraw/pkg/config"
	"github.com/matzehuels/archdraw/pkg/diagram"
	"github.com/matzehuels/archdraw/pkg/errors"
	"github.com/matzehuels/archdraw/pkg/geom"
	"github.com/matzehuels/archdraw/pkg/icons"
	"github.com/matzehuels/archdraw/pkg/layout"
	"github.com/matzehuels/archdraw/pkg/measure"
)

// CSS classes of drawn elements.
const (
	ClassService      = "architecture-service"
	ClassServiceLabel = "architecture-service-label"
	ClassGroup        = "architecture-group"
	ClassGroupLabel   = "architecture-group-label"
	ClassEdge         = "edge"
	ClassEdgeGroup    = "architecture-edge"
	ClassEdgeLabel    = "architecture-edge-label"
	ClassBackground   = "node-bkg"
)

// WarnUnknownIcon is the warning code for an icon name with no registered
// drawing procedure.
const WarnUnknownIcon = "unknown_icon"

// Options configures Draw.
type Options struct {
	Style    config.Style
	Icons    *icons.Registry  // nil means no icons; every body is the default shape
	Measurer measure.Measurer // required when any entity has a title
	Order    []Layer          // nil means Style.DrawOrder, then DefaultOrder
	Logger   *log.Logger
}

// Warning is a non-fatal condition met while drawing.
type Warning struct {
	Code    string `json:"code"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Report summarizes a Draw call.
type Report struct {
	Warnings []Warning `json:"warnings,omitempty"`
	Skipped  []string  `json:"skipped,omitempty"` // edge ids without a route, in model order
	Drawn    int       `json:"drawn"`             // entities registered
}

type drawer struct {
	c      *canvas.Canvas
	m      *diagram.Model
	res    *layout.Result
	opts   Options
	logger *log.Logger
	report *Report
	groups map[string]geom.Box // padded group boxes
}

// Draw appends the drawing of m, positioned by res, to c.
//
// Errors are reserved for broken preconditions: a node without a position,
// an order that is not a permutation of the layers, or an id registered
// twice. Everything else is absorbed and reported.
func Draw(c *canvas.Canvas, m *diagram.Model, res *layout.Result, opts Options) (*Report, error) {
	order := opts.Order
	if order == nil {
		var err error
		if order, err = ParseOrder(opts.Style.DrawOrder); err != nil {
			return nil, err
		}
	} else if _, err := ParseOrder(layerNames(order)); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	d := &drawer{c: c, m: m, res: res, opts: opts, logger: logger, report: &Report{}}
	if err := d.checkPlaced(); err != nil {
		return nil, err
	}
	// Group boxes come from the pre-draw footprints so the draw order does
	// not change them.
	d.groups = d.paddedGroups()

	for _, l := range order {
		parent := c.Group(canvas.Root, string(l))
		var err error
		switch l {
		case LayerEdges:
			err = d.edges(parent)
		case LayerGroups:
			err = d.entities(parent, diagram.KindGroup)
		case LayerNodes:
			err = d.entities(parent, diagram.KindNode)
		}
		if err != nil {
			return nil, err
		}
	}
	logger.Debug("drew diagram", "entities", d.report.Drawn, "skipped", len(d.report.Skipped), "warnings", len(d.report.Warnings))
	return d.report, nil
}

func (d *drawer) checkPlaced() error {
	var err error
	d.m.ForEachNode(func(n diagram.Node) bool {
		if !n.Placed || !n.Sized {
			err = errors.New(errors.ErrCodeInvalidInput, "node %q has not been laid out", n.ID)
		}
		return err == nil
	})
	return err
}

func (d *drawer) entities(parent canvas.Handle, kind diagram.Kind) error {
	for _, e := range d.m.Entities() {
		if e.Kind != kind {
			continue
		}
		var (
			h   canvas.Handle
			err error
		)
		switch e.Kind {
		case diagram.KindNode:
			h, err = d.node(parent, e.ID)
		case diagram.KindGroup:
			h = d.group(parent, e.ID)
		}
		if err != nil {
			return err
		}
		if err := d.register(e.ID, h); err != nil {
			return err
		}
	}
	return nil
}

func (d *drawer) register(id string, h canvas.Handle) error {
	if err := d.c.Register(id, h); err != nil {
		return err
	}
	if err := d.m.SetElement(id, h); err != nil {
		return err
	}
	d.report.Drawn++
	return nil
}

func (d *drawer) warn(code, id, msg string) {
	d.report.Warnings = append(d.report.Warnings, Warning{Code: code, ID: id, Message: msg})
	d.logger.Warn(msg, "id", id)
}

func (d *drawer) text(s string, maxWidth float64) canvas.Text {
	st := d.opts.Style
	if d.opts.Measurer == nil {
		d.opts.Measurer = measure.ApproxMeasurer{FontSize: st.FontSize, LineHeight: st.LineHeight}
	}
	size := d.opts.Measurer.Measure(s, measure.Constraints{MaxWidth: maxWidth})
	return canvas.Text{
		Lines:      size.Lines,
		FontSize:   st.FontSize,
		LineHeight: st.FontSize * st.LineHeight,
		Width:      size.Width,
		Height:     size.Height,
	}
}

func layerNames(ls []Layer) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = string(l)
	}
	return out
}

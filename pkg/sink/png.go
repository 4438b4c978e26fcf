package sink

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/fogleman/gg"

	"github.com/matzehuels/archdraw/pkg/canvas"
	"github.com/matzehuels/archdraw/pkg/fonts"
)

// paint is how the rasterizer fills and strokes one element.
type paint struct {
	fill   color.Color
	stroke color.Color
	width  float64
	dash   []float64
}

var (
	textColor  = color.RGBA{0x33, 0x33, 0x33, 0xff}
	edgeLabel  = color.RGBA{0x55, 0x55, 0x55, 0xff}
	purple     = color.RGBA{0x93, 0x70, 0xdb, 0xff}
	serviceBkg = color.RGBA{0xec, 0xec, 0xff, 0xff}
	iconBlue   = color.RGBA{0x08, 0x7e, 0xbf, 0xff}
)

// paints mirrors the SVG stylesheet, keyed by kind and class.
var paints = map[string]paint{
	"path.edge":       {stroke: textColor, width: 3},
	"rect.node-bkg":   {stroke: purple, width: 2, dash: []float64{8}},
	"path.node-bkg":   {fill: serviceBkg, stroke: purple, width: 1},
	"rect.icon-bkg":   {fill: iconBlue},
	"rect.icon-glyph": {stroke: color.White, width: 2},
	"path.icon-glyph": {stroke: color.White, width: 2},
}

func lookupPaint(kind canvas.Kind, class string) (paint, bool) {
	for _, cls := range strings.Fields(class) {
		if p, ok := paints[kind.String()+"."+cls]; ok {
			return p, true
		}
	}
	return paint{}, false
}

// RenderPNG rasterizes c at the given scale. A scale of 2 doubles the
// resolution.
func RenderPNG(c *canvas.Canvas, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	x, y, w, h := bounds(c, DefaultPadding)
	width := int(math.Ceil(w * scale))
	height := int(math.Ceil(h * scale))
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render png: empty drawing")
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()
	dc.Scale(scale, scale)
	dc.Translate(-x, -y)

	r := &rasterizer{dc: dc, scale: scale}
	for _, ch := range c.Children(canvas.Root) {
		if err := r.element(c, ch); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

type rasterizer struct {
	dc       *gg.Context
	scale    float64
	fontSize float64
}

func (r *rasterizer) element(c *canvas.Canvas, h canvas.Handle) error {
	e := c.Element(h)
	dc := r.dc

	switch e.Kind {
	case canvas.KindGroup:
		dc.Push()
		dc.Translate(e.TX, e.TY)
		for _, ch := range c.Children(h) {
			if err := r.element(c, ch); err != nil {
				dc.Pop()
				return err
			}
		}
		dc.Pop()

	case canvas.KindRect:
		p, ok := lookupPaint(e.Kind, e.Class)
		if !ok {
			return nil
		}
		if e.Radius > 0 {
			dc.DrawRoundedRectangle(e.Rect.X, e.Rect.Y, e.Rect.W, e.Rect.H, e.Radius)
		} else {
			dc.DrawRectangle(e.Rect.X, e.Rect.Y, e.Rect.W, e.Rect.H)
		}
		r.apply(p)

	case canvas.KindPath:
		p, ok := lookupPaint(e.Kind, e.Class)
		if !ok {
			return nil
		}
		tracePath(dc, e.Path)
		r.apply(p)

	case canvas.KindText:
		return r.text(e)
	}
	return nil
}

func (r *rasterizer) apply(p paint) {
	dc := r.dc
	if p.fill != nil {
		dc.SetColor(p.fill)
		if p.stroke != nil {
			dc.FillPreserve()
		} else {
			dc.Fill()
		}
	}
	if p.stroke != nil {
		dc.SetColor(p.stroke)
		dc.SetLineWidth(p.width)
		dc.SetDash(p.dash...)
		dc.Stroke()
		dc.SetDash()
	}
}

func (r *rasterizer) text(e canvas.Element) error {
	t := e.Text
	if len(t.Lines) == 0 {
		return nil
	}
	// gg places glyphs through the transform but does not scale them.
	if t.FontSize != r.fontSize {
		face, err := fonts.Face(t.FontSize * r.scale)
		if err != nil {
			return fmt.Errorf("load font: %w", err)
		}
		r.dc.SetFontFace(face)
		r.fontSize = t.FontSize
	}

	ax := 0.0
	switch t.Anchor {
	case canvas.AnchorMiddle:
		ax = 0.5
	case canvas.AnchorEnd:
		ax = 1
	}
	col := textColor
	if strings.Contains(e.Class, "edge-label") {
		col = edgeLabel
	}
	r.dc.SetColor(col)
	for i, y := range lineCenters(t) {
		r.dc.DrawStringAnchored(t.Lines[i], t.X, y, ax, 0.5)
	}
	return nil
}

func tracePath(dc *gg.Context, d canvas.PathData) {
	dc.NewSubPath()
	for _, s := range d {
		switch s.Op {
		case canvas.OpMove:
			dc.MoveTo(s.Pts[0].X, s.Pts[0].Y)
		case canvas.OpLine:
			dc.LineTo(s.Pts[0].X, s.Pts[0].Y)
		case canvas.OpQuad:
			dc.QuadraticTo(s.Pts[0].X, s.Pts[0].Y, s.Pts[1].X, s.Pts[1].Y)
		case canvas.OpCubic:
			dc.CubicTo(s.Pts[0].X, s.Pts[0].Y, s.Pts[1].X, s.Pts[1].Y, s.Pts[2].X, s.Pts[2].Y)
		case canvas.OpClose:
			dc.ClosePath()
		}
	}
}

// Package sink serializes a drawing tree.
//
// [RenderSVG] writes standalone SVG with an embedded stylesheet; registered
// entity subtrees carry a data-id attribute so scripts can find them.
// [RenderPNG] rasterizes the same tree with fogleman/gg and the font used
// for measurement. [ToPDF] converts SVG through rsvg-convert.
// [RenderJSON] dumps the tree, the registry and the layout for external
// tools.
package sink

import "github.com/matzehuels/archdraw/pkg/canvas"

// DefaultPadding surrounds the drawing in every output format.
const DefaultPadding = 20.0

// bounds returns the area to export: the drawing's extent plus padding.
func bounds(c *canvas.Canvas, pad float64) (x, y, w, h float64) {
	b := c.BBox(canvas.Root).Outset(pad)
	return b.X, b.Y, b.W, b.H
}

// lineCenters returns the vertical center of each line of t.
func lineCenters(t canvas.Text) []float64 {
	top := t.Y
	if t.Baseline == canvas.BaselineMiddle {
		top -= t.Height / 2
	}
	lh := t.LineHeight
	if lh == 0 && len(t.Lines) > 0 {
		lh = t.Height / float64(len(t.Lines))
	}
	out := make([]float64, len(t.Lines))
	for i := range t.Lines {
		out[i] = top + (float64(i)+0.5)*lh
	}
	return out
}

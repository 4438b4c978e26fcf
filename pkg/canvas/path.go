package canvas

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/archdraw/pkg/geom"
)

// Op is a path command. All coordinates are absolute.
type Op byte

const (
	OpMove  Op = 'M'
	OpLine  Op = 'L'
	OpQuad  Op = 'Q'
	OpCubic Op = 'C'
	OpClose Op = 'Z'
)

// Segment is one path command with its points: one for M and L, two for Q
// (control, end), three for C, none for Z.
type Segment struct {
	Op  Op
	Pts []geom.Point
}

// PathData is a sequence of segments.
type PathData []Segment

// SVG renders the data as an SVG path "d" attribute.
func (p PathData) SVG() string {
	var sb strings.Builder
	for i, s := range p {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(byte(s.Op))
		for j, pt := range s.Pts {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(FormatNum(pt.X))
			sb.WriteByte(',')
			sb.WriteString(FormatNum(pt.Y))
		}
	}
	return sb.String()
}

// Bounds returns the box around every point of the path, control points
// included. The bound is exact for lines and conservative for curves.
func (p PathData) Bounds() (geom.Box, bool) {
	var pts []geom.Point
	for _, s := range p {
		pts = append(pts, s.Pts...)
	}
	if len(pts) == 0 {
		return geom.Box{}, false
	}
	return geom.BoundsOf(pts...), true
}

// Points returns the end point of every segment, in order.
func (p PathData) Points() []geom.Point {
	var out []geom.Point
	for _, s := range p {
		if len(s.Pts) > 0 {
			out = append(out, s.Pts[len(s.Pts)-1])
		}
	}
	return out
}

// PathBuilder accumulates path segments.
type PathBuilder struct {
	d PathData
}

// NewPath starts an empty path.
func NewPath() *PathBuilder { return &PathBuilder{} }

func (b *PathBuilder) MoveTo(x, y float64) *PathBuilder {
	return b.add(OpMove, geom.Point{X: x, Y: y})
}

func (b *PathBuilder) LineTo(x, y float64) *PathBuilder {
	return b.add(OpLine, geom.Point{X: x, Y: y})
}

func (b *PathBuilder) QuadTo(cx, cy, x, y float64) *PathBuilder {
	return b.add(OpQuad, geom.Point{X: cx, Y: cy}, geom.Point{X: x, Y: y})
}

func (b *PathBuilder) CubicTo(c1x, c1y, c2x, c2y, x, y float64) *PathBuilder {
	return b.add(OpCubic, geom.Point{X: c1x, Y: c1y}, geom.Point{X: c2x, Y: c2y}, geom.Point{X: x, Y: y})
}

func (b *PathBuilder) Close() *PathBuilder { return b.add(OpClose) }

// Data returns the accumulated path.
func (b *PathBuilder) Data() PathData { return b.d }

func (b *PathBuilder) add(op Op, pts ...geom.Point) *PathBuilder {
	b.d = append(b.d, Segment{Op: op, Pts: pts})
	return b
}

// Polyline builds an open path through pts.
func Polyline(pts []geom.Point) PathData {
	b := NewPath()
	for i, p := range pts {
		if i == 0 {
			b.MoveTo(p.X, p.Y)
			continue
		}
		b.LineTo(p.X, p.Y)
	}
	return b.Data()
}

// FormatNum formats v with at most two decimals and no trailing zeros.
func FormatNum(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

package icons

import (
	"github.com/matzehuels/archdraw/pkg/canvas"
	"github.com/matzehuels/archdraw/pkg/geom"
)

var builtins = map[string]DrawFunc{
	"blank":    Blank,
	"cloud":    Cloud,
	"database": Database,
	"disk":     Disk,
	"internet": Internet,
	"server":   Server,
}

// Builtins returns the names of the built-in icons.
func Builtins() []string {
	return []string{"blank", "cloud", "database", "disk", "internet", "server"}
}

// Every built-in draws a filled background square followed by its glyph
// strokes, all inside [0, size]².
func frame(c *canvas.Canvas, parent canvas.Handle, name string, size float64) canvas.Handle {
	g := c.Group(parent, "architecture-icon icon-"+name)
	c.Rect(g, geom.Box{W: size, H: size}, 0, "icon-bkg")
	return g
}

// Blank is an empty tile.
func Blank(c *canvas.Canvas, parent canvas.Handle, size float64) canvas.Handle {
	return frame(c, parent, "blank", size)
}

// Cloud draws three overlapping lobes over a flat base.
func Cloud(c *canvas.Canvas, parent canvas.Handle, size float64) canvas.Handle {
	g := frame(c, parent, "cloud", size)
	s := size / 80
	d := canvas.NewPath().
		MoveTo(20*s, 55*s).
		QuadTo(8*s, 55*s, 10*s, 43*s).
		QuadTo(12*s, 33*s, 24*s, 34*s).
		QuadTo(28*s, 20*s, 42*s, 22*s).
		QuadTo(54*s, 20*s, 57*s, 32*s).
		QuadTo(72*s, 32*s, 70*s, 45*s).
		QuadTo(68*s, 55*s, 58*s, 55*s).
		Close().
		Data()
	c.Path(g, d, "icon-glyph")
	return g
}

// Database draws a cylinder.
func Database(c *canvas.Canvas, parent canvas.Handle, size float64) canvas.Handle {
	g := frame(c, parent, "database", size)
	s := size / 80
	top, bottom := 18*s, 62*s
	left, right := 20*s, 60*s
	mid := size / 2
	rim := 7 * s

	c.Path(g, canvas.NewPath().
		MoveTo(left, top).
		QuadTo(mid, top-rim, right, top).
		QuadTo(mid, top+rim, left, top).
		Close().
		Data(), "icon-glyph")
	c.Path(g, canvas.NewPath().
		MoveTo(left, top).
		LineTo(left, bottom).
		QuadTo(mid, bottom+rim, right, bottom).
		LineTo(right, top).
		Data(), "icon-glyph")
	for _, y := range []float64{top + (bottom-top)/3, top + 2*(bottom-top)/3} {
		c.Path(g, canvas.NewPath().MoveTo(left, y).QuadTo(mid, y+rim, right, y).Data(), "icon-glyph")
	}
	return g
}

// Disk draws a platter with a spindle.
func Disk(c *canvas.Canvas, parent canvas.Handle, size float64) canvas.Handle {
	g := frame(c, parent, "disk", size)
	s := size / 80
	c.Rect(g, geom.Box{X: 16 * s, Y: 20 * s, W: 48 * s, H: 40 * s}, 4*s, "icon-glyph")
	c.Path(g, circle(52*s, 50*s, 4*s), "icon-glyph")
	c.Path(g, canvas.NewPath().MoveTo(22*s, 30*s).LineTo(48*s, 30*s).Data(), "icon-glyph")
	return g
}

// Internet draws a globe with a meridian and an equator.
func Internet(c *canvas.Canvas, parent canvas.Handle, size float64) canvas.Handle {
	g := frame(c, parent, "internet", size)
	cx, cy, r := size/2, size/2, size*0.3
	c.Path(g, circle(cx, cy, r), "icon-glyph")
	c.Path(g, canvas.NewPath().
		MoveTo(cx, cy-r).
		QuadTo(cx-r, cy, cx, cy+r).
		QuadTo(cx+r, cy, cx, cy-r).
		Data(), "icon-glyph")
	c.Path(g, canvas.NewPath().MoveTo(cx-r, cy).LineTo(cx+r, cy).Data(), "icon-glyph")
	return g
}

// Server draws a stack of three rack units.
func Server(c *canvas.Canvas, parent canvas.Handle, size float64) canvas.Handle {
	g := frame(c, parent, "server", size)
	s := size / 80
	for i := range 3 {
		y := (16 + float64(i)*17) * s
		c.Rect(g, geom.Box{X: 18 * s, Y: y, W: 44 * s, H: 13 * s}, 2*s, "icon-glyph")
		c.Path(g, circle(54*s, y+6.5*s, 1.5*s), "icon-glyph")
	}
	return g
}

// circle approximates a circle with four cubic Béziers.
func circle(cx, cy, r float64) canvas.PathData {
	const k = 0.5523 // control distance for a quarter arc
	return canvas.NewPath().
		MoveTo(cx+r, cy).
		CubicTo(cx+r, cy+k*r, cx+k*r, cy+r, cx, cy+r).
		CubicTo(cx-k*r, cy+r, cx-r, cy+k*r, cx-r, cy).
		CubicTo(cx-r, cy-k*r, cx-k*r, cy-r, cx, cy-r).
		CubicTo(cx+k*r, cy-r, cx+r, cy-k*r, cx+r, cy).
		Close().
		Data()
}

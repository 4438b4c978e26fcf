package draw

import (
	"fmt"
	"math"

	"github.com/matzehuels/archdraw/pkg/canvas"
	"github.com/matzehuels/archdraw/pkg/diagram"
	"github.com/matzehuels/archdraw/pkg/geom"
	"github.com/matzehuels/archdraw/pkg/icons"
)

func (d *drawer) edges(parent canvas.Handle) error {
	var err error
	d.m.ForEachEdge(func(e diagram.Edge) bool {
		r, ok := d.res.Edges[e.ID]
		if !ok || !r.Drawable() {
			d.report.Skipped = append(d.report.Skipped, e.ID)
			return true
		}
		g := d.c.Group(parent, ClassEdgeGroup)
		d.c.Path(g, canvas.Polyline(r.Points), ClassEdge)
		if e.Title != "" {
			t := d.text(e.Title, d.opts.Style.MaxLabelWidth())
			mid := midpoint(r.Points)
			t.X, t.Y = mid.X, mid.Y
			t.Anchor, t.Baseline = canvas.AnchorMiddle, canvas.BaselineMiddle
			d.c.Text(g, t, ClassEdgeLabel)
		}
		err = d.register(e.ID, g)
		return err == nil
	})
	return err
}

// group draws the padded background and the title. A group icon, when
// registered, sits in the top-left corner at half the icon size and pushes
// the title right.
func (d *drawer) group(parent canvas.Handle, id string) canvas.Handle {
	gr, _ := d.m.Group(id)
	st := d.opts.Style
	box := d.groups[id]

	g := d.c.Group(parent, ClassGroup)
	d.c.Rect(g, box, 0, ClassBackground)

	labelX := box.X + st.GroupLabelMarginX
	if gr.Icon != "" {
		if fn, ok := d.icon(gr.Icon); ok {
			ig := d.c.Group(g, "architecture-group-icon")
			fn(d.c, ig, st.HalfIcon())
			d.c.Translate(ig, box.X, box.Y)
			labelX += st.HalfIcon()
		} else {
			d.warn(WarnUnknownIcon, id, fmt.Sprintf("unknown icon %q on group %q", gr.Icon, id))
		}
	}

	if gr.Title != "" {
		t := d.text(gr.Title, box.W-st.GroupLabelMarginX)
		t.X, t.Y = labelX, box.Y+st.GroupLabelMarginY
		t.Anchor, t.Baseline = canvas.AnchorStart, canvas.BaselineTop
		d.c.Text(g, t, ClassGroupLabel)
	}
	return g
}

// node draws a service. The subtree is in body coordinates: the body fills
// [0, iconSize]² and the root is translated so the body is horizontally
// centered in the layout footprint.
func (d *drawer) node(parent canvas.Handle, id string) (canvas.Handle, error) {
	n, _ := d.m.Node(id)
	st := d.opts.Style
	s := st.IconSize

	root := d.c.Group(parent, ClassService)
	tx, ty := n.X+(n.Width-s)/2, n.Y
	d.c.Translate(root, tx, ty)

	if n.Title != "" {
		t := d.text(n.Title, st.MaxLabelWidth())
		t.X, t.Y = s/2, s+st.LabelGap
		t.Anchor, t.Baseline = canvas.AnchorMiddle, canvas.BaselineTop
		d.c.Text(root, t, ClassServiceLabel)
	}

	body := d.c.Group(root, "architecture-service-body")
	drawn := false
	if n.Icon != "" {
		if fn, ok := d.icon(n.Icon); ok {
			fn(d.c, body, s)
			drawn = true
		} else {
			d.warn(WarnUnknownIcon, id, fmt.Sprintf("unknown icon %q on service %q, using default shape", n.Icon, id))
		}
	}
	if !drawn {
		p := d.c.Path(body, DefaultShape(s, st.CornerRadius), ClassBackground)
		d.c.SetID(p, "node-"+id)
	}

	// The model takes the rendered extent in drawing coordinates, corner
	// and size together, so Node.Box and BoundingBox stay in one frame.
	b := d.c.BBox(root).Translate(tx, ty)
	if err := d.m.SetPosition(id, b.X, b.Y); err != nil {
		return 0, err
	}
	if err := d.m.SetSize(id, b.W, b.H); err != nil {
		return 0, err
	}
	return root, nil
}

func (d *drawer) icon(name string) (icons.DrawFunc, bool) {
	if d.opts.Icons == nil {
		return nil, false
	}
	fn, ok := d.opts.Icons.Get(name)
	return fn, ok
}

// DefaultShape is the body drawn when a node has no usable icon: a square
// of side s whose top corners are quarter circles of radius r.
func DefaultShape(s, r float64) canvas.PathData {
	r = min(r, s/2)
	return canvas.NewPath().
		MoveTo(0, s).
		LineTo(0, r).
		QuadTo(0, 0, r, 0).
		LineTo(s-r, 0).
		QuadTo(s, 0, s, r).
		LineTo(s, s).
		Close().
		Data()
}

// paddedGroups computes every group's background box: its bounding box,
// grown to cover the padded boxes of its child groups, outset by half the
// icon size.
func (d *drawer) paddedGroups() map[string]geom.Box {
	half := d.opts.Style.HalfIcon()
	out := make(map[string]geom.Box, d.m.GroupCount())

	var pad func(id string) geom.Box
	pad = func(id string) geom.Box {
		if b, ok := out[id]; ok {
			return b
		}
		b, _ := d.m.BoundingBox(id)
		for _, ch := range d.m.Children(id) {
			if ch.Kind == diagram.KindGroup {
				b = b.Union(pad(ch.ID))
			}
		}
		b = b.Outset(half)
		out[id] = b
		return b
	}
	d.m.ForEachGroup(func(g diagram.Group) bool {
		pad(g.ID)
		return true
	})
	return out
}

// midpoint returns the point halfway along a polyline.
func midpoint(pts []geom.Point) geom.Point {
	lengths := make([]float64, len(pts))
	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += dist(pts[i-1], pts[i])
		lengths[i] = total
	}
	half := total / 2
	for i := 1; i < len(pts); i++ {
		if lengths[i] >= half {
			seg := lengths[i] - lengths[i-1]
			if seg == 0 {
				return pts[i]
			}
			t := (half - lengths[i-1]) / seg
			return geom.Point{
				X: pts[i-1].X + t*(pts[i].X-pts[i-1].X),
				Y: pts[i-1].Y + t*(pts[i].Y-pts[i-1].Y),
			}
		}
	}
	return pts[0]
}

func dist(a, b geom.Point) float64 { return math.Hypot(b.X-a.X, b.Y-a.Y) }

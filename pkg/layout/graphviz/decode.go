package graphviz

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/archdraw/pkg/geom"
	"github.com/matzehuels/archdraw/pkg/layout"
)

// output is the subset of Graphviz's json format the engine reads.
type output struct {
	BB            string       `json:"bb"`
	SubgraphCount int          `json:"_subgraph_cnt"`
	Objects       []jsonObject `json:"objects"`
	Edges         []jsonEdge   `json:"edges"`
}

type jsonObject struct {
	GVID   int    `json:"_gvid"`
	Name   string `json:"name"`
	BB     string `json:"bb"`
	Pos    string `json:"pos"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

type jsonEdge struct {
	Tail int    `json:"tail"`
	Head int    `json:"head"`
	Pos  string `json:"pos"`
	ID   string `json:"id"`
}

// frame converts Graphviz points (origin bottom-left, y up) to diagram
// pixels (origin top-left, y down) with padding on every side.
type frame struct {
	minX, maxY float64
	pad        float64
}

func (f frame) point(x, y float64) geom.Point {
	return geom.Point{X: x - f.minX + f.pad, Y: f.maxY - y + f.pad}
}

func decode(data []byte, g *layout.Graph) (*layout.Result, error) {
	var out output
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	bb, err := parseFloats(out.BB, 4)
	if err != nil {
		return nil, fmt.Errorf("graph bb: %w", err)
	}
	f := frame{minX: bb[0], maxY: bb[3], pad: g.Options.Padding}

	res := layout.NewResult()
	res.Width = bb[2] - bb[0] + 2*f.pad
	res.Height = bb[3] - bb[1] + 2*f.pad

	nm := newNames(g)
	for i, obj := range out.Objects {
		if i < out.SubgraphCount {
			id, ok := nm.groupID[obj.Name]
			if !ok {
				continue
			}
			b, err := parseFloats(obj.BB, 4)
			if err != nil {
				return nil, fmt.Errorf("cluster %q bb: %w", id, err)
			}
			tl := f.point(b[0], b[3])
			res.Groups[id] = geom.Box{X: tl.X, Y: tl.Y, W: b[2] - b[0], H: b[3] - b[1]}
			continue
		}

		id, ok := nm.nodeID[obj.Name]
		if !ok {
			continue
		}
		box, err := nodeBox(obj, f)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", id, err)
		}
		res.Nodes[id] = box
	}

	specs := make(map[string]layout.EdgeSpec, len(g.Edges))
	for _, e := range g.Edges {
		specs[e.ID] = e
	}
	for _, e := range out.Edges {
		id, ok := nm.edgeID[e.ID]
		if !ok || e.Pos == "" {
			continue
		}
		spec := specs[id]
		pts, err := splinePoints(e.Pos, f)
		if err != nil {
			return nil, fmt.Errorf("edge %q: %w", id, err)
		}
		orient(pts, res.Nodes[spec.Source], res.Nodes[spec.Target])
		res.Edges[id] = layout.Route{Points: pts}
	}
	return res, nil
}

// orient reverses pts in place when they run from the target toward the
// source. Graphviz writes a spline in rank order, which for flat edges
// and head-first ranking edges is not tail to head, so the direction is
// read from the geometry.
func orient(pts []geom.Point, src, dst geom.Box) {
	if len(pts) < 2 {
		return
	}
	first, last := pts[0], pts[len(pts)-1]
	forward := src.Distance(first) + dst.Distance(last)
	backward := dst.Distance(first) + src.Distance(last)
	if backward < forward {
		slices.Reverse(pts)
	}
}

func nodeBox(obj jsonObject, f frame) (geom.Box, error) {
	pos, err := parseFloats(obj.Pos, 2)
	if err != nil {
		return geom.Box{}, err
	}
	w, err := strconv.ParseFloat(obj.Width, 64)
	if err != nil {
		return geom.Box{}, fmt.Errorf("width: %w", err)
	}
	h, err := strconv.ParseFloat(obj.Height, 64)
	if err != nil {
		return geom.Box{}, fmt.Errorf("height: %w", err)
	}
	w, h = w*pxPerInch, h*pxPerInch
	c := f.point(pos[0], pos[1])
	return geom.Box{X: c.X - w/2, Y: c.Y - h/2, W: w, H: h}, nil
}

// splinePoints reads an edge's pos attribute: optional "s,x,y" and "e,x,y"
// endpoints followed by cubic B-spline control points. The on-curve points
// (every third control point) become through-points; explicit endpoints
// are kept at either end.
func splinePoints(pos string, f frame) ([]geom.Point, error) {
	// Multiple splines are separated by ';'; the first is enough.
	pos, _, _ = strings.Cut(pos, ";")

	var start, end *geom.Point
	var ctrl []geom.Point
	for _, field := range strings.Fields(pos) {
		prefix := ""
		if strings.HasPrefix(field, "s,") || strings.HasPrefix(field, "e,") {
			prefix, field = field[:1], field[2:]
		}
		v, err := parseFloats(field, 2)
		if err != nil {
			return nil, err
		}
		p := f.point(v[0], v[1])
		switch prefix {
		case "s":
			start = &p
		case "e":
			end = &p
		default:
			ctrl = append(ctrl, p)
		}
	}

	var pts []geom.Point
	if start != nil {
		pts = append(pts, *start)
	}
	for i := 0; i < len(ctrl); i += 3 {
		pts = append(pts, ctrl[i])
	}
	if len(ctrl) > 0 && (len(ctrl)-1)%3 != 0 {
		pts = append(pts, ctrl[len(ctrl)-1])
	}
	if end != nil {
		pts = append(pts, *end)
	}
	return pts, nil
}

func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d numbers, got %q", n, s)
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}

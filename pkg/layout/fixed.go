package layout

import (
	"context"
	"math"

	"github.com/matzehuels/archdraw/pkg/diagram"
	"github.com/matzehuels/archdraw/pkg/geom"
)

// Fixed is a deterministic grid engine. Each group's direct nodes share a
// row, rows follow a depth-first walk of the group tree in insertion order
// with ungrouped nodes first, and columns follow insertion order within a
// row. Edges are routed with at most one bend.
type Fixed struct{}

// Compute implements Engine.
func (Fixed) Compute(ctx context.Context, g *Graph) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := Validate(g); err != nil {
		return nil, err
	}

	opts := g.Options
	res := NewResult()

	rows := gridRows(g)
	y := opts.Padding
	width := 0.0
	for _, row := range rows {
		// Each group level below the top adds room for a border above.
		y += float64(row.depth) * opts.GroupMargin
		x := opts.Padding + float64(row.depth)*opts.GroupMargin
		rowH := 0.0
		for _, n := range row.nodes {
			res.Nodes[n.ID] = geom.Box{X: x, Y: y, W: n.Width, H: n.Height}
			x += n.Width + opts.NodeSep
			rowH = math.Max(rowH, n.Height)
		}
		if len(row.nodes) > 0 {
			width = math.Max(width, x-opts.NodeSep)
			y += rowH + opts.RankSep
		}
		if row.group != "" {
			res.Groups[row.group] = geom.Box{X: opts.Padding, Y: y}
		}
	}

	groupBoxes(g, res)

	for _, e := range g.Edges {
		res.Edges[e.ID] = elbow(res.Nodes[e.Source], e.SourceDir, res.Nodes[e.Target], e.TargetDir)
	}

	res.Width = width + opts.Padding
	res.Height = y - opts.RankSep + opts.Padding
	if len(rows) == 0 {
		res.Width, res.Height = 2*opts.Padding, 2*opts.Padding
	}
	return res, nil
}

type gridRow struct {
	group string
	depth int
	nodes []NodeSpec
}

func gridRows(g *Graph) []gridRow {
	byParent := make(map[string][]NodeSpec)
	for _, n := range g.Nodes {
		byParent[n.Parent] = append(byParent[n.Parent], n)
	}
	subgroups := make(map[string][]string)
	for _, gr := range g.Groups {
		subgroups[gr.Parent] = append(subgroups[gr.Parent], gr.ID)
	}

	var rows []gridRow
	if top := byParent[""]; len(top) > 0 {
		rows = append(rows, gridRow{nodes: top})
	}
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		rows = append(rows, gridRow{group: id, depth: depth, nodes: byParent[id]})
		for _, child := range subgroups[id] {
			walk(child, depth+1)
		}
	}
	for _, id := range subgroups[""] {
		walk(id, 1)
	}
	return rows
}

// groupBoxes replaces each group's provisional box with the union of its
// descendants' boxes, outset by the group margin. Groups are visited
// children first so nested margins accumulate.
func groupBoxes(g *Graph, res *Result) {
	members := make(map[string][]geom.Box)
	for _, n := range g.Nodes {
		if n.Parent != "" {
			members[n.Parent] = append(members[n.Parent], res.Nodes[n.ID])
		}
	}
	parent := make(map[string]string, len(g.Groups))
	for _, gr := range g.Groups {
		parent[gr.ID] = gr.Parent
	}

	for i := len(g.Groups) - 1; i >= 0; i-- {
		id := g.Groups[i].ID
		boxes := members[id]
		if len(boxes) == 0 {
			continue
		}
		b := boxes[0]
		for _, o := range boxes[1:] {
			b = b.Union(o)
		}
		b = b.Outset(g.Options.GroupMargin)
		res.Groups[id] = b
		if p := parent[id]; p != "" {
			members[p] = append(members[p], b)
		}
	}
}

func elbow(src geom.Box, sd diagram.Direction, dst geom.Box, td diagram.Direction) Route {
	a, b := Port(src, sd), Port(dst, td)
	if a.X == b.X || a.Y == b.Y {
		return Route{Points: []geom.Point{a, b}}
	}
	bend := geom.Point{X: b.X, Y: a.Y}
	if sd.Vertical() {
		bend = geom.Point{X: a.X, Y: b.Y}
	}
	return Route{Points: []geom.Point{a, bend, b}}
}

package layout

import (
	"context"
	"fmt"
	"math"

	"github.com/matzehuels/archdraw/pkg/config"
	"github.com/matzehuels/archdraw/pkg/diagram"
	"github.com/matzehuels/archdraw/pkg/errors"
	"github.com/matzehuels/archdraw/pkg/measure"
)

// Size writes every node's pre-layout footprint into the model.
//
// An untitled node is an iconSize square and the measurer is not called.
// A titled node is wide enough for both the body and its label, which is
// wrapped at MaxLabelWidth, and tall enough for the body, the gap, and the
// label.
func Size(m *diagram.Model, style config.Style, meas measure.Measurer) error {
	var err error
	m.ForEachNode(func(n diagram.Node) bool {
		w, h := Footprint(n, style, meas)
		err = m.SetSize(n.ID, w, h)
		return err == nil
	})
	return err
}

// Footprint returns the pre-layout size of n.
func Footprint(n diagram.Node, style config.Style, meas measure.Measurer) (w, h float64) {
	s := style.IconSize
	if n.Title == "" {
		return s, s
	}
	label := meas.Measure(n.Title, measure.Constraints{MaxWidth: style.MaxLabelWidth()})
	if label.Empty() {
		return s, s
	}
	return math.Max(s, label.Width), s + style.LabelGap + label.Height
}

// BuildGraph translates a sized model into engine input. Self-edges are
// left out and returned separately in model order.
func BuildGraph(m *diagram.Model, style config.Style) (*Graph, []string) {
	g := &Graph{
		Options: Options{
			NodeSep:     style.NodeSep,
			RankSep:     style.RankSep,
			GroupMargin: style.HalfIcon() + style.Padding/2,
			Padding:     style.Padding,
		},
	}
	m.ForEachGroup(func(gr diagram.Group) bool {
		g.Groups = append(g.Groups, GroupSpec{ID: gr.ID, Parent: gr.Parent})
		return true
	})
	m.ForEachNode(func(n diagram.Node) bool {
		g.Nodes = append(g.Nodes, NodeSpec{ID: n.ID, Parent: n.Parent, Width: n.Width, Height: n.Height})
		return true
	})

	var skipped []string
	m.ForEachEdge(func(e diagram.Edge) bool {
		if e.SelfLoop() {
			skipped = append(skipped, e.ID)
			return true
		}
		g.Edges = append(g.Edges, EdgeSpec{
			ID: e.ID, Source: e.Source, SourceDir: e.SourceDir,
			Target: e.Target, TargetDir: e.TargetDir,
		})
		return true
	})
	return g, skipped
}

// Validate checks that every parent and edge endpoint in g names a group
// or node of g. A violation means the engine cannot place the graph and
// is reported as LAYOUT_FAILURE.
func Validate(g *Graph) error {
	groups := make(map[string]bool, len(g.Groups))
	for _, gr := range g.Groups {
		groups[gr.ID] = true
	}
	nodes := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes[n.ID] = true
		if n.Parent != "" && !groups[n.Parent] {
			return errors.New(errors.ErrCodeLayoutFailure, "node %q: unknown parent group %q", n.ID, n.Parent)
		}
		if n.Width <= 0 || n.Height <= 0 {
			return errors.New(errors.ErrCodeLayoutFailure, "node %q: degenerate footprint %gx%g", n.ID, n.Width, n.Height)
		}
	}
	for _, gr := range g.Groups {
		if gr.Parent != "" && !groups[gr.Parent] {
			return errors.New(errors.ErrCodeLayoutFailure, "group %q: unknown parent group %q", gr.ID, gr.Parent)
		}
	}
	for _, e := range g.Edges {
		if !nodes[e.Source] || !nodes[e.Target] {
			return errors.New(errors.ErrCodeLayoutFailure, "edge %q: endpoint not in graph", e.ID)
		}
	}
	return nil
}

// Run lays out m with engine and writes the computed positions back.
//
// The model is frozen first. Any failure is fatal for the render: the
// engine is invoked at most once and nothing is guessed.
func Run(ctx context.Context, m *diagram.Model, style config.Style, engine Engine, meas measure.Measurer) (*Result, error) {
	m.Freeze()
	if err := Size(m, style, meas); err != nil {
		return nil, fmt.Errorf("size nodes: %w", err)
	}

	g, skipped := BuildGraph(m, style)
	if err := Validate(g); err != nil {
		return nil, err
	}

	res, err := engine.Compute(ctx, g)
	if err != nil {
		if errors.GetCode(err) == "" {
			return nil, errors.Wrap(errors.ErrCodeLayoutFailure, err, "layout engine")
		}
		return nil, err
	}
	if res == nil {
		return nil, errors.New(errors.ErrCodeLayoutFailure, "layout engine returned no result")
	}

	for _, n := range g.Nodes {
		if _, ok := res.Nodes[n.ID]; !ok {
			return nil, errors.New(errors.ErrCodeLayoutFailure, "no position for node %q", n.ID)
		}
	}
	for _, gr := range g.Groups {
		if _, ok := res.Groups[gr.ID]; !ok {
			return nil, errors.New(errors.ErrCodeLayoutFailure, "no position for group %q", gr.ID)
		}
	}

	res.Skipped = collectRoutes(m, res, skipped)

	for _, n := range g.Nodes {
		b := res.Nodes[n.ID]
		if err := m.SetPosition(n.ID, b.X, b.Y); err != nil {
			return nil, err
		}
	}
	for _, gr := range g.Groups {
		b := res.Groups[gr.ID]
		if err := m.SetPosition(gr.ID, b.X, b.Y); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// collectRoutes drops routes that cannot be drawn or that name unknown
// edges, and returns every edge left without a route in model order.
func collectRoutes(m *diagram.Model, res *Result, selfLoops []string) []string {
	loops := make(map[string]bool, len(selfLoops))
	for _, id := range selfLoops {
		loops[id] = true
	}
	routes := make(map[string]Route, len(res.Edges))
	var skipped []string
	m.ForEachEdge(func(e diagram.Edge) bool {
		r, ok := res.Edges[e.ID]
		if loops[e.ID] || !ok || !r.Drawable() {
			skipped = append(skipped, e.ID)
			return true
		}
		routes[e.ID] = r
		return true
	})
	res.Edges = routes
	return skipped
}

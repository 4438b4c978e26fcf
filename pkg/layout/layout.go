package layout

import (
	"context"

	"github.com/matzehuels/archdraw/pkg/diagram"
	"github.com/matzehuels/archdraw/pkg/geom"
)

// Engine computes positions for a Graph. Implementations must fill
// Result.Nodes for every node and Result.Groups for every group.
type Engine interface {
	Compute(ctx context.Context, g *Graph) (*Result, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(ctx context.Context, g *Graph) (*Result, error)

func (f EngineFunc) Compute(ctx context.Context, g *Graph) (*Result, error) { return f(ctx, g) }

// NodeSpec is a node with its resolved footprint.
type NodeSpec struct {
	ID     string
	Parent string
	Width  float64
	Height float64
}

// GroupSpec is a compound node.
type GroupSpec struct {
	ID     string
	Parent string
}

// EdgeSpec is a connection with direction hints for its endpoints.
type EdgeSpec struct {
	ID        string
	Source    string
	SourceDir diagram.Direction
	Target    string
	TargetDir diagram.Direction
}

// Options are the spacing hints an engine honors, in pixels.
type Options struct {
	NodeSep     float64 // between neighbors in the same rank
	RankSep     float64 // between ranks
	GroupMargin float64 // between a group's border and its content
	Padding     float64 // around the whole drawing
}

// Graph is the engine input.
type Graph struct {
	Nodes   []NodeSpec
	Groups  []GroupSpec
	Edges   []EdgeSpec
	Options Options
}

// Route is an edge's routing hint: ordered through-points from the source
// attachment point to the target attachment point.
type Route struct {
	Points []geom.Point `json:"points"`
}

// Start returns the first point.
func (r Route) Start() geom.Point { return r.Points[0] }

// End returns the last point.
func (r Route) End() geom.Point { return r.Points[len(r.Points)-1] }

// Mid returns the interior points.
func (r Route) Mid() []geom.Point {
	if len(r.Points) <= 2 {
		return nil
	}
	return r.Points[1 : len(r.Points)-1]
}

// Drawable reports whether the route has enough points for a polyline.
func (r Route) Drawable() bool { return len(r.Points) >= 2 }

// Result is an engine's output.
type Result struct {
	Width   float64             `json:"width"`
	Height  float64             `json:"height"`
	Nodes   map[string]geom.Box `json:"nodes"`
	Groups  map[string]geom.Box `json:"groups"`
	Edges   map[string]Route    `json:"edges"`
	Skipped []string            `json:"skipped,omitempty"`
}

// NewResult returns an empty Result with initialized maps.
func NewResult() *Result {
	return &Result{
		Nodes:  make(map[string]geom.Box),
		Groups: make(map[string]geom.Box),
		Edges:  make(map[string]Route),
	}
}

// Port returns the attachment point on b's side facing d.
func Port(b geom.Box, d diagram.Direction) geom.Point {
	c := b.Center()
	switch d {
	case diagram.Up:
		return geom.Point{X: c.X, Y: b.Y}
	case diagram.Down:
		return geom.Point{X: c.X, Y: b.Y2()}
	case diagram.Left:
		return geom.Point{X: b.X, Y: c.Y}
	}
	return geom.Point{X: b.X2(), Y: c.Y}
}

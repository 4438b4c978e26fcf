package graphviz

import (
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/archdraw/pkg/diagram"
	"github.com/matzehuels/archdraw/pkg/geom"
	"github.com/matzehuels/archdraw/pkg/layout"
)

// A trimmed json rendering of two nodes in one cluster, joined left to
// right, with the second edge written head first.
const sampleJSON = `{
  "name": "G",
  "bb": "0,0,300,100",
  "_subgraph_cnt": 1,
  "objects": [
    {"_gvid": 0, "name": "cluster_0", "bb": "8,8,292,92"},
    {"_gvid": 1, "name": "n0", "pos": "50,50", "width": "1.1111", "height": "1.1111"},
    {"_gvid": 2, "name": "n1", "pos": "250,50", "width": "1.1111", "height": "1.1111"}
  ],
  "edges": [
    {"_gvid": 0, "tail": 1, "head": 2, "id": "e0", "pos": "90,50 130,50 170,50 210,50"},
    {"_gvid": 1, "tail": 1, "head": 2, "id": "e1", "pos": "90,60 130,70 170,70 210,60"}
  ]
}`

func sampleDecodeGraph() *layout.Graph {
	return &layout.Graph{
		Groups: []layout.GroupSpec{{ID: "g"}},
		Nodes: []layout.NodeSpec{
			{ID: "a", Parent: "g", Width: 80, Height: 80},
			{ID: "b", Parent: "g", Width: 80, Height: 80},
		},
		Edges: []layout.EdgeSpec{
			{ID: "a-b", Source: "a", SourceDir: diagram.Right, Target: "b", TargetDir: diagram.Left},
			{ID: "b-a", Source: "b", SourceDir: diagram.Left, Target: "a", TargetDir: diagram.Right},
		},
		Options: layout.Options{Padding: 10},
	}
}

func TestDecode(t *testing.T) {
	res, err := decode([]byte(sampleJSON), sampleDecodeGraph())
	if err != nil {
		t.Fatalf("decode() error = %v", err)
	}

	if res.Width != 320 || res.Height != 120 {
		t.Errorf("size = %gx%g, want 320x120", res.Width, res.Height)
	}

	a := res.Nodes["a"]
	if a.W < 79.99 || a.W > 80.01 {
		t.Errorf("a width = %g, want 80", a.W)
	}
	if c := a.Center(); !near(c.X, 60) || !near(c.Y, 60) {
		t.Errorf("a center = %v, want (60, 60)", c)
	}

	want := geom.Box{X: 18, Y: 18, W: 284, H: 84}
	if got := res.Groups["g"]; got != want {
		t.Errorf("group g = %+v, want %+v", got, want)
	}
	if !res.Groups["g"].Contains(a) {
		t.Error("cluster does not contain its node")
	}

	ab := res.Edges["a-b"]
	if len(ab.Points) != 2 || !near(ab.Start().X, 100) || !near(ab.End().X, 220) {
		t.Errorf("a-b route = %v", ab.Points)
	}
	// Written from a to b, so the points are reversed back to b -> a.
	ba := res.Edges["b-a"]
	if !near(ba.Start().X, 220) || !near(ba.End().X, 100) {
		t.Errorf("b-a route = %v, want from x=220 to x=100", ba.Points)
	}
}

func TestSplinePoints(t *testing.T) {
	f := frame{maxY: 100}
	tests := []struct {
		name string
		pos  string
		want int
	}{
		{"single bezier", "0,0 1,1 2,2 3,3", 2},
		{"two beziers", "0,0 1,1 2,2 3,3 4,4 5,5 6,6", 3},
		{"with endpoints", "s,0,0 e,9,9 1,1 2,2 3,3 4,4", 4},
		{"point only", "5,5", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts, err := splinePoints(tt.pos, f)
			if err != nil {
				t.Fatalf("splinePoints() error = %v", err)
			}
			if len(pts) != tt.want {
				t.Errorf("splinePoints() = %v, want %d points", pts, tt.want)
			}
		})
	}

	if _, err := splinePoints("1,x", f); err == nil {
		t.Error("splinePoints() with bad number should fail")
	}
}

func TestDecodeInvalid(t *testing.T) {
	if _, err := decode([]byte("not json"), sampleDecodeGraph()); err == nil {
		t.Error("decode() of garbage should fail")
	}
	if _, err := decode([]byte(`{"bb": "1,2"}`), sampleDecodeGraph()); err == nil {
		t.Error("decode() with short bb should fail")
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 0.01 }

func TestOrient(t *testing.T) {
	a := geom.Box{X: 0, Y: 0, W: 80, H: 80}
	b := geom.Box{X: 0, Y: 200, W: 80, H: 80}
	down := []geom.Point{{X: 40, Y: 80}, {X: 40, Y: 140}, {X: 40, Y: 200}}

	tests := []struct {
		name     string
		src, dst geom.Box
		wantY    float64
	}{
		{"already source first", a, b, 80},
		{"written target first", b, a, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts := slices.Clone(down)
			orient(pts, tt.src, tt.dst)
			if pts[0].Y != tt.wantY {
				t.Errorf("orient() start = %v, want y=%g", pts[0], tt.wantY)
			}
		})
	}
}

package graphviz

import (
	"context"
	"testing"

	"github.com/matzehuels/archdraw/pkg/diagram"
	"github.com/matzehuels/archdraw/pkg/errors"
	"github.com/matzehuels/archdraw/pkg/geom"
	"github.com/matzehuels/archdraw/pkg/layout"
)

func TestEngineCompute(t *testing.T) {
	if testing.Short() {
		t.Skip("runs Graphviz")
	}
	g := sampleGraph()
	res, err := New().Compute(context.Background(), g)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if len(res.Nodes) != len(g.Nodes) {
		t.Errorf("got %d node boxes, want %d", len(res.Nodes), len(g.Nodes))
	}
	if len(res.Groups) != len(g.Groups) {
		t.Errorf("got %d group boxes, want %d", len(res.Groups), len(g.Groups))
	}
	for _, n := range g.Nodes {
		b := res.Nodes[n.ID]
		if b.W < n.Width-1 || b.W > n.Width+1 {
			t.Errorf("node %s width = %g, want %g", n.ID, b.W, n.Width)
		}
		if n.Parent != "" && !res.Groups[n.Parent].Contains(b) {
			t.Errorf("group %s %+v does not contain %s %+v", n.Parent, res.Groups[n.Parent], n.ID, b)
		}
	}
	for _, e := range g.Edges {
		if r, ok := res.Edges[e.ID]; !ok || !r.Drawable() {
			t.Errorf("edge %s has no drawable route", e.ID)
		}
	}

	// Routes run from the source's side to the target's side.
	r := res.Edges["web-db"]
	if r.Start().X > r.End().X {
		t.Errorf("web-db runs right to left: %v", r.Points)
	}
	for _, e := range g.Edges {
		checkOriented(t, e.ID, res.Edges[e.ID], res.Nodes[e.Source], res.Nodes[e.Target])
	}
}

// checkOriented fails unless route starts at src and ends at dst.
func checkOriented(t *testing.T, id string, r layout.Route, src, dst geom.Box) {
	t.Helper()
	if !r.Drawable() {
		t.Errorf("edge %s has no drawable route", id)
		return
	}
	if src.Distance(r.Start()) >= dst.Distance(r.Start()) {
		t.Errorf("edge %s starts at %v, nearer the target %+v than the source %+v", id, r.Start(), dst, src)
	}
	if dst.Distance(r.End()) >= src.Distance(r.End()) {
		t.Errorf("edge %s ends at %v, nearer the source %+v than the target %+v", id, r.End(), src, dst)
	}
}

func TestEngineRouteDirections(t *testing.T) {
	if testing.Short() {
		t.Skip("runs Graphviz")
	}
	dirs := []diagram.Direction{diagram.Up, diagram.Down, diagram.Left, diagram.Right}
	for _, sd := range dirs {
		for _, td := range dirs {
			t.Run(sd.String()+"-"+td.String(), func(t *testing.T) {
				g := &layout.Graph{
					Nodes: []layout.NodeSpec{
						{ID: "a", Width: 80, Height: 80},
						{ID: "b", Width: 80, Height: 80},
					},
					Edges: []layout.EdgeSpec{
						{ID: "ab", Source: "a", SourceDir: sd, Target: "b", TargetDir: td},
					},
					Options: layout.Options{NodeSep: 60, RankSep: 80, GroupMargin: 50, Padding: 20},
				}
				res, err := New().Compute(context.Background(), g)
				if err != nil {
					t.Fatalf("Compute() error = %v", err)
				}
				checkOriented(t, "ab", res.Edges["ab"], res.Nodes["a"], res.Nodes["b"])
			})
		}
	}
}

func TestEngineAwkwardIDs(t *testing.T) {
	if testing.Short() {
		t.Skip("runs Graphviz")
	}
	ids := []string{`svc\a`, "a\u200bb", `say "hi"`, `trailing\`}
	g := &layout.Graph{
		Groups:  []layout.GroupSpec{{ID: `zone "1"`}},
		Options: layout.Options{NodeSep: 60, RankSep: 80, GroupMargin: 50, Padding: 20},
	}
	for i, id := range ids {
		parent := ""
		if i%2 == 0 {
			parent = `zone "1"`
		}
		g.Nodes = append(g.Nodes, layout.NodeSpec{ID: id, Parent: parent, Width: 80, Height: 80})
		if i > 0 {
			g.Edges = append(g.Edges, layout.EdgeSpec{
				ID: ids[i-1] + "->" + id, Source: ids[i-1], SourceDir: diagram.Right, Target: id, TargetDir: diagram.Left,
			})
		}
	}

	res, err := New().Compute(context.Background(), g)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	for _, id := range ids {
		if _, ok := res.Nodes[id]; !ok {
			t.Errorf("no box for node %q", id)
		}
	}
	if _, ok := res.Groups[`zone "1"`]; !ok {
		t.Error("no box for the quoted group id")
	}
	for _, e := range g.Edges {
		checkOriented(t, e.ID, res.Edges[e.ID], res.Nodes[e.Source], res.Nodes[e.Target])
	}
}

func TestEngineRejectsUnknownParent(t *testing.T) {
	g := &layout.Graph{Nodes: []layout.NodeSpec{{ID: "a", Parent: "ghost", Width: 1, Height: 1}}}
	_, err := New().Compute(context.Background(), g)
	if !errors.Is(err, errors.ErrCodeLayoutFailure) {
		t.Errorf("Compute() error = %v, want %s", err, errors.ErrCodeLayoutFailure)
	}
}

package graphviz

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/archdraw/pkg/diagram"
	"github.com/matzehuels/archdraw/pkg/layout"
)

// Graphviz measures in inches and points; the diagram measures in pixels
// at 72 per inch, so one point is one pixel.
const pxPerInch = 72

// ToDOT converts a layout graph to DOT text. Output follows the graph's
// insertion order so identical input yields identical DOT.
func ToDOT(g *layout.Graph) string {
	var buf bytes.Buffer
	opts := g.Options
	nm := newNames(g)

	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  newrank=true;\n")
	buf.WriteString("  splines=spline;\n")
	fmt.Fprintf(&buf, "  nodesep=%s;\n", inches(opts.NodeSep))
	fmt.Fprintf(&buf, "  ranksep=%s;\n", inches(opts.RankSep))
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n")
	buf.WriteString("  edge [dir=none];\n")
	buf.WriteString("\n")

	nodes := make(map[string][]layout.NodeSpec)
	for _, n := range g.Nodes {
		nodes[n.Parent] = append(nodes[n.Parent], n)
	}
	subgroups := make(map[string][]string)
	for _, gr := range g.Groups {
		subgroups[gr.Parent] = append(subgroups[gr.Parent], gr.ID)
	}

	var cluster func(id, indent string)
	cluster = func(id, indent string) {
		fmt.Fprintf(&buf, "%ssubgraph %s {\n", indent, nm.group[id])
		fmt.Fprintf(&buf, "%s  label=\"\";\n", indent)
		fmt.Fprintf(&buf, "%s  margin=%s;\n", indent, num(opts.GroupMargin))
		if len(nodes[id]) == 0 && len(subgroups[id]) == 0 {
			fmt.Fprintf(&buf, "%s  %s [style=invis, width=0.01, height=0.01];\n", indent, nm.placeholder(id))
		}
		writeNodes(&buf, nm, nodes[id], indent+"  ")
		for _, child := range subgroups[id] {
			cluster(child, indent+"  ")
		}
		fmt.Fprintf(&buf, "%s}\n", indent)
	}
	for _, id := range subgroups[""] {
		cluster(id, "  ")
	}
	writeNodes(&buf, nm, nodes[""], "  ")

	buf.WriteString("\n")
	for _, e := range g.Edges {
		tail, head := nm.node[e.Source], nm.node[e.Target]
		tp, hp := compass(e.SourceDir), compass(e.TargetDir)
		if reversed(e) {
			tail, head, tp, hp = head, tail, hp, tp
		}
		fmt.Fprintf(&buf, "  %s:%s -> %s:%s [id=%s];\n", tail, tp, head, hp, nm.edge[e.ID])
		if e.SourceDir.Vertical() && e.TargetDir.Vertical() {
			fmt.Fprintf(&buf, "  { rank=same; %s; %s; }\n", nm.node[e.Source], nm.node[e.Target])
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeNodes(buf *bytes.Buffer, nm names, nodes []layout.NodeSpec, indent string) {
	for _, n := range nodes {
		fmt.Fprintf(buf, "%s%s [width=%s, height=%s];\n", indent, nm.node[n.ID], inches(n.Width), inches(n.Height))
	}
}

// reversed reports whether the edge is written head first so that dot
// ranks the target before the source: leftward connections, and vertical
// ones that leave the source's top.
func reversed(e layout.EdgeSpec) bool {
	if e.SourceDir == diagram.Left {
		return true
	}
	return e.SourceDir == diagram.Up && e.TargetDir.Vertical()
}

func compass(d diagram.Direction) string {
	switch d {
	case diagram.Up:
		return "n"
	case diagram.Down:
		return "s"
	case diagram.Left:
		return "w"
	}
	return "e"
}

func inches(px float64) string { return num(px / pxPerInch) }

func num(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

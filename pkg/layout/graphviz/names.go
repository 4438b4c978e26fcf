package graphviz

import (
	"strconv"

	"github.com/matzehuels/archdraw/pkg/layout"
)

// names maps diagram ids to the identifiers written to DOT. Graphviz does
// not hand every quoted string back unchanged, so ids never reach DOT
// verbatim: nodes are n0, n1..., clusters cluster_0..., edges e0... in
// graph order.
type names struct {
	node, group, edge       map[string]string // diagram id -> DOT name
	nodeID, groupID, edgeID map[string]string // DOT name -> diagram id
}

func newNames(g *layout.Graph) names {
	n := names{
		node:    make(map[string]string, len(g.Nodes)),
		group:   make(map[string]string, len(g.Groups)),
		edge:    make(map[string]string, len(g.Edges)),
		nodeID:  make(map[string]string, len(g.Nodes)),
		groupID: make(map[string]string, len(g.Groups)),
		edgeID:  make(map[string]string, len(g.Edges)),
	}
	for i, nd := range g.Nodes {
		name := "n" + strconv.Itoa(i)
		n.node[nd.ID], n.nodeID[name] = name, nd.ID
	}
	for i, gr := range g.Groups {
		name := "cluster_" + strconv.Itoa(i)
		n.group[gr.ID], n.groupID[name] = name, gr.ID
	}
	for i, e := range g.Edges {
		name := "e" + strconv.Itoa(i)
		n.edge[e.ID], n.edgeID[name] = name, e.ID
	}
	return n
}

// placeholder names the invisible node that keeps an empty cluster from
// being dropped by dot.
func (n names) placeholder(groupID string) string {
	return "p" + n.group[groupID][len("cluster_"):]
}

package diagram_test

import (
	"fmt"

	"github.com/matzehuels/archdraw/pkg/diagram"
)

func ExampleModel() {
	m := diagram.New()
	_ = m.AddGroup(diagram.Group{ID: "api", Title: "API"})
	_ = m.AddNode(diagram.Node{ID: "db", Icon: "database", Parent: "api"})
	_ = m.AddNode(diagram.Node{ID: "web", Title: "Web"})
	_ = m.AddEdge(diagram.Edge{
		ID: "web-db", Source: "web", SourceDir: diagram.Right,
		Target: "db", TargetDir: diagram.Left,
	})

	err := m.AddEdge(diagram.Edge{ID: "bad", Source: "web", Target: "cache"})
	fmt.Println(err)

	m.ForEachNode(func(n diagram.Node) bool {
		fmt.Printf("%s parent=%q\n", n.ID, n.Parent)
		return true
	})
	// Output:
	// UNKNOWN_ENTITY: edge "bad": unknown target node "cache"
	// db parent="api"
	// web parent=""
}

// Package diagram holds the in-memory model of one architecture diagram.
//
// # Overview
//
// A [Model] aggregates services ([Node]), [Group]s and directed connections
// ([Edge]). It is built once by whatever reads the diagram source, handed to
// the layout stage, and discarded after drawing. Ids are unique across all
// three entity sets.
//
// # Construction
//
// The model is append-only. References are checked eagerly: an edge naming
// an unregistered node, or a node naming an unregistered parent group, fails
// with UNKNOWN_ENTITY before layout is ever invoked. Re-registering an id
// fails with DUPLICATE_ID.
//
//	m := diagram.New()
//	_ = m.AddGroup(diagram.Group{ID: "api", Title: "API"})
//	_ = m.AddNode(diagram.Node{ID: "db", Icon: "database", Parent: "api"})
//	_ = m.AddNode(diagram.Node{ID: "web"})
//	_ = m.AddEdge(diagram.Edge{ID: "e1", Source: "web", SourceDir: diagram.Right,
//	    Target: "db", TargetDir: diagram.Left})
//
// Once [Model.Freeze] is called the topology is fixed. Sizes and positions
// can still be written; that is how layout and drawing report back.
//
// # Traversal
//
// [Model.ForEachNode], [Model.ForEachGroup] and [Model.ForEachEdge] visit
// entities in insertion order. Traversal has no side effects and can be
// restarted at any time, so rendering the same model twice yields the same
// drawing order.
//
// # Element Table
//
// After drawing, each entity id maps to the canvas handle of the subtree
// that represents it ([Model.SetElement], [Model.Element]). Interactive
// tooling uses the table to bind behavior to rendered shapes.
//
// # Concurrency
//
// A Model is owned by a single render and is not safe for concurrent use.
package diagram

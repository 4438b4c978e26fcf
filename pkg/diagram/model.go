package diagram

import (
	"github.com/matzehuels/archdraw/pkg/canvas"
	"github.com/matzehuels/archdraw/pkg/errors"
	"github.com/matzehuels/archdraw/pkg/geom"
)

// Kind distinguishes the two entity kinds that occupy space in a layout.
// Edges are tracked separately and have no Kind.
type Kind uint8

const (
	KindNode Kind = iota + 1
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindGroup:
		return "group"
	}
	return "unknown"
}

// Node is a service in the diagram.
//
// Width and Height are the node's footprint, set before layout from label
// measurement. X and Y are the top-left corner assigned by layout. Drawing
// replaces all four with the rendered extent in drawing coordinates.
type Node struct {
	ID     string
	Title  string // optional label
	Icon   string // optional icon name
	Parent string // optional group id

	Width, Height float64
	X, Y          float64
	Sized, Placed bool
}

// Box returns the node's footprint at its position.
func (n Node) Box() geom.Box {
	return geom.Box{X: n.X, Y: n.Y, W: n.Width, H: n.Height}
}

// Group is a visual container for nodes and other groups.
// Its extent is derived from its children; X and Y are only
// meaningful for an empty group.
type Group struct {
	ID     string
	Title  string
	Icon   string
	Parent string

	X, Y   float64
	Placed bool
}

// Edge is a directed connection between two nodes.
type Edge struct {
	ID        string
	Source    string
	SourceDir Direction
	Target    string
	TargetDir Direction
	Title     string
}

// SelfLoop reports whether the edge starts and ends at the same node.
func (e Edge) SelfLoop() bool { return e.Source == e.Target }

// Entity identifies a node or group by kind and id.
type Entity struct {
	Kind Kind
	ID   string
}

// Model is one diagram's entities plus the id → drawing handle table.
//
// The zero value is not usable; create models with New.
type Model struct {
	nodes  []*Node
	groups []*Group
	edges  []*Edge

	nodeIdx  map[string]*Node
	groupIdx map[string]*Group
	edgeIdx  map[string]*Edge
	entities []Entity

	children map[string][]Entity // group id -> direct children
	elements map[string]canvas.Handle
	frozen   bool
}

// New creates an empty model.
func New() *Model {
	return &Model{
		nodeIdx:  make(map[string]*Node),
		groupIdx: make(map[string]*Group),
		edgeIdx:  make(map[string]*Edge),
		children: make(map[string][]Entity),
		elements: make(map[string]canvas.Handle),
	}
}

// AddNode registers a service. The parent group, if any, must already exist.
// Geometry fields of n are ignored.
func (m *Model) AddNode(n Node) error {
	if err := m.checkNew(n.ID); err != nil {
		return err
	}
	if err := m.checkParent(n.ID, n.Parent); err != nil {
		return err
	}
	node := &Node{ID: n.ID, Title: n.Title, Icon: n.Icon, Parent: n.Parent}
	m.nodes = append(m.nodes, node)
	m.nodeIdx[n.ID] = node
	m.link(n.Parent, Entity{Kind: KindNode, ID: n.ID})
	return nil
}

// AddGroup registers a group. The parent group, if any, must already exist,
// which also rules out containment cycles.
func (m *Model) AddGroup(g Group) error {
	if err := m.checkNew(g.ID); err != nil {
		return err
	}
	if err := m.checkParent(g.ID, g.Parent); err != nil {
		return err
	}
	group := &Group{ID: g.ID, Title: g.Title, Icon: g.Icon, Parent: g.Parent}
	m.groups = append(m.groups, group)
	m.groupIdx[g.ID] = group
	m.link(g.Parent, Entity{Kind: KindGroup, ID: g.ID})
	return nil
}

// AddEdge registers a connection. Both endpoints must be registered nodes.
func (m *Model) AddEdge(e Edge) error {
	if err := m.checkNew(e.ID); err != nil {
		return err
	}
	if _, ok := m.nodeIdx[e.Source]; !ok {
		return errors.New(errors.ErrCodeUnknownEntity, "edge %q: unknown source node %q", e.ID, e.Source)
	}
	if _, ok := m.nodeIdx[e.Target]; !ok {
		return errors.New(errors.ErrCodeUnknownEntity, "edge %q: unknown target node %q", e.ID, e.Target)
	}
	if !e.SourceDir.Valid() || !e.TargetDir.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "edge %q: invalid direction", e.ID)
	}
	edge := e
	m.edges = append(m.edges, &edge)
	m.edgeIdx[e.ID] = &edge
	return nil
}

// SetSize records a node's footprint.
func (m *Model) SetSize(id string, w, h float64) error {
	n, ok := m.nodeIdx[id]
	if !ok {
		return errors.New(errors.ErrCodeUnknownEntity, "set size: unknown node %q", id)
	}
	if w < 0 || h < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "set size: node %q: negative size %gx%g", id, w, h)
	}
	n.Width, n.Height, n.Sized = w, h, true
	return nil
}

// SetPosition records the top-left corner of a node or group.
func (m *Model) SetPosition(id string, x, y float64) error {
	if n, ok := m.nodeIdx[id]; ok {
		n.X, n.Y, n.Placed = x, y, true
		return nil
	}
	if g, ok := m.groupIdx[id]; ok {
		g.X, g.Y, g.Placed = x, y, true
		return nil
	}
	return errors.New(errors.ErrCodeUnknownEntity, "set position: unknown node or group %q", id)
}

// BoundingBox returns the union of the footprints of a group's placed
// direct child nodes and the bounding boxes of its child groups.
// A group with no placed content yields a zero-size box at its own position.
func (m *Model) BoundingBox(groupID string) (geom.Box, error) {
	g, ok := m.groupIdx[groupID]
	if !ok {
		return geom.Box{}, errors.New(errors.ErrCodeUnknownEntity, "bounding box: unknown group %q", groupID)
	}
	if b, ok := m.contentBox(groupID); ok {
		return b, nil
	}
	return geom.Box{X: g.X, Y: g.Y}, nil
}

func (m *Model) contentBox(groupID string) (geom.Box, bool) {
	var out geom.Box
	found := false
	add := func(b geom.Box) {
		if !found {
			out, found = b, true
			return
		}
		out = out.Union(b)
	}
	for _, ch := range m.children[groupID] {
		switch ch.Kind {
		case KindNode:
			if n := m.nodeIdx[ch.ID]; n.Placed {
				add(n.Box())
			}
		case KindGroup:
			if b, ok := m.contentBox(ch.ID); ok {
				add(b)
			}
		}
	}
	return out, found
}

// Node returns a copy of the node with the given id.
func (m *Model) Node(id string) (Node, bool) {
	n, ok := m.nodeIdx[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Group returns a copy of the group with the given id.
func (m *Model) Group(id string) (Group, bool) {
	g, ok := m.groupIdx[id]
	if !ok {
		return Group{}, false
	}
	return *g, true
}

// Edge returns a copy of the edge with the given id.
func (m *Model) Edge(id string) (Edge, bool) {
	e, ok := m.edgeIdx[id]
	if !ok {
		return Edge{}, false
	}
	return *e, true
}

// Kind reports whether id names a node or a group.
func (m *Model) Kind(id string) (Kind, bool) {
	if _, ok := m.nodeIdx[id]; ok {
		return KindNode, true
	}
	if _, ok := m.groupIdx[id]; ok {
		return KindGroup, true
	}
	return 0, false
}

// Has reports whether id is registered as any entity.
func (m *Model) Has(id string) bool {
	_, isEdge := m.edgeIdx[id]
	_, isEntity := m.Kind(id)
	return isEdge || isEntity
}

// Nodes returns copies of all nodes in insertion order.
func (m *Model) Nodes() []Node {
	out := make([]Node, len(m.nodes))
	for i, n := range m.nodes {
		out[i] = *n
	}
	return out
}

// Groups returns copies of all groups in insertion order.
func (m *Model) Groups() []Group {
	out := make([]Group, len(m.groups))
	for i, g := range m.groups {
		out[i] = *g
	}
	return out
}

// Edges returns copies of all edges in insertion order.
func (m *Model) Edges() []Edge {
	out := make([]Edge, len(m.edges))
	for i, e := range m.edges {
		out[i] = *e
	}
	return out
}

// Entities returns every node and group in insertion order.
func (m *Model) Entities() []Entity {
	return append([]Entity(nil), m.entities...)
}

// ForEachNode calls fn for each node in insertion order until fn returns false.
func (m *Model) ForEachNode(fn func(Node) bool) {
	for _, n := range m.nodes {
		if !fn(*n) {
			return
		}
	}
}

// ForEachGroup calls fn for each group in insertion order until fn returns false.
func (m *Model) ForEachGroup(fn func(Group) bool) {
	for _, g := range m.groups {
		if !fn(*g) {
			return
		}
	}
}

// ForEachEdge calls fn for each edge in insertion order until fn returns false.
func (m *Model) ForEachEdge(fn func(Edge) bool) {
	for _, e := range m.edges {
		if !fn(*e) {
			return
		}
	}
}

// Children returns the direct children of a group in insertion order.
// An empty groupID returns the top-level entities.
func (m *Model) Children(groupID string) []Entity {
	return append([]Entity(nil), m.children[groupID]...)
}

// NodeCount returns the number of nodes.
func (m *Model) NodeCount() int { return len(m.nodes) }

// GroupCount returns the number of groups.
func (m *Model) GroupCount() int { return len(m.groups) }

// EdgeCount returns the number of edges.
func (m *Model) EdgeCount() int { return len(m.edges) }

// SetElement records the canvas handle that draws entity id.
func (m *Model) SetElement(id string, h canvas.Handle) error {
	if !m.Has(id) {
		return errors.New(errors.ErrCodeUnknownEntity, "set element: unknown entity %q", id)
	}
	m.elements[id] = h
	return nil
}

// Element returns the canvas handle recorded for id.
func (m *Model) Element(id string) (canvas.Handle, bool) {
	h, ok := m.elements[id]
	return h, ok
}

// Elements returns a copy of the id → handle table.
func (m *Model) Elements() map[string]canvas.Handle {
	out := make(map[string]canvas.Handle, len(m.elements))
	for id, h := range m.elements {
		out[id] = h
	}
	return out
}

// Freeze fixes the topology. Later Add calls fail with INVALID_INPUT.
func (m *Model) Freeze() { m.frozen = true }

// Frozen reports whether Freeze has been called.
func (m *Model) Frozen() bool { return m.frozen }

func (m *Model) checkNew(id string) error {
	if m.frozen {
		return errors.New(errors.ErrCodeInvalidInput, "add %q: model is frozen", id)
	}
	if err := errors.ValidateID(id); err != nil {
		return err
	}
	if m.Has(id) {
		return errors.New(errors.ErrCodeDuplicateID, "id %q already registered", id)
	}
	return nil
}

func (m *Model) checkParent(id, parent string) error {
	if parent == "" {
		return nil
	}
	if _, ok := m.groupIdx[parent]; !ok {
		return errors.New(errors.ErrCodeUnknownEntity, "%q: unknown parent group %q", id, parent)
	}
	return nil
}

func (m *Model) link(parent string, e Entity) {
	m.children[parent] = append(m.children[parent], e)
	m.entities = append(m.entities, e)
}

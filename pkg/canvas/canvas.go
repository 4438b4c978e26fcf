package canvas

import (
	"fmt"

	"github.com/matzehuels/archdraw/pkg/errors"
	"github.com/matzehuels/archdraw/pkg/geom"
)

// Kind identifies the primitive an element draws.
type Kind uint8

const (
	KindGroup Kind = iota
	KindRect
	KindPath
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindRect:
		return "rect"
	case KindPath:
		return "path"
	case KindText:
		return "text"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Handle addresses an element of a Canvas.
type Handle int

// Root is the handle of every canvas's root group.
const Root Handle = 0

// Anchor is the horizontal alignment of text relative to its position.
type Anchor uint8

const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

// Baseline is the vertical alignment of text relative to its position.
type Baseline uint8

const (
	BaselineTop Baseline = iota
	BaselineMiddle
)

// Text is a possibly multi-line label. Width and Height are the measured
// extent of all lines; LineHeight is the distance between baselines.
type Text struct {
	Lines      []string
	X, Y       float64
	Anchor     Anchor
	Baseline   Baseline
	FontSize   float64
	LineHeight float64
	Width      float64
	Height     float64
}

// Bounds returns the box the text occupies.
func (t Text) Bounds() geom.Box {
	x, y := t.X, t.Y
	switch t.Anchor {
	case AnchorMiddle:
		x -= t.Width / 2
	case AnchorEnd:
		x -= t.Width
	}
	if t.Baseline == BaselineMiddle {
		y -= t.Height / 2
	}
	return geom.Box{X: x, Y: y, W: t.Width, H: t.Height}
}

// Element is one node of the drawing tree.
type Element struct {
	Kind   Kind
	ID     string // DOM id, optional
	Class  string
	Parent Handle

	// Translation applied to a group's children.
	TX, TY float64

	Rect   geom.Box // KindRect
	Radius float64  // KindRect corner radius
	Path   PathData // KindPath
	Text   Text     // KindText

	children []Handle
}

// Canvas is an append-only drawing tree with an entity registry.
// A Canvas is owned by a single render and is not safe for concurrent use.
type Canvas struct {
	elems    []*Element
	registry map[string]Handle
	order    []string
}

// New creates a canvas containing only the root group.
func New() *Canvas {
	return &Canvas{
		elems:    []*Element{{Kind: KindGroup, Class: "root", Parent: -1}},
		registry: make(map[string]Handle),
	}
}

// Len returns the number of elements, including the root.
func (c *Canvas) Len() int { return len(c.elems) }

// Group appends an empty group under parent.
func (c *Canvas) Group(parent Handle, class string) Handle {
	return c.add(parent, &Element{Kind: KindGroup, Class: class})
}

// Rect appends a rectangle under parent.
func (c *Canvas) Rect(parent Handle, box geom.Box, radius float64, class string) Handle {
	return c.add(parent, &Element{Kind: KindRect, Class: class, Rect: box, Radius: radius})
}

// Path appends a path under parent.
func (c *Canvas) Path(parent Handle, d PathData, class string) Handle {
	return c.add(parent, &Element{Kind: KindPath, Class: class, Path: d})
}

// Text appends a text element under parent.
func (c *Canvas) Text(parent Handle, t Text, class string) Handle {
	return c.add(parent, &Element{Kind: KindText, Class: class, Text: t})
}

// Translate sets the translation of group h.
func (c *Canvas) Translate(h Handle, dx, dy float64) {
	e := c.mustGet(h)
	e.TX, e.TY = dx, dy
}

// SetID sets the DOM id of element h.
func (c *Canvas) SetID(h Handle, id string) {
	c.mustGet(h).ID = id
}

// Element returns a copy of element h.
func (c *Canvas) Element(h Handle) Element {
	e := *c.mustGet(h)
	e.children = nil
	return e
}

// Children returns the children of h in append order.
func (c *Canvas) Children(h Handle) []Handle {
	return append([]Handle(nil), c.mustGet(h).children...)
}

// BBox returns the extent of h's subtree in h's own coordinate space.
// Empty groups report the zero box.
func (c *Canvas) BBox(h Handle) geom.Box {
	b, _ := c.bounds(h)
	return b
}

// Register maps a diagram entity id to the handle that draws it.
// Registering an id twice fails with DUPLICATE_ID.
func (c *Canvas) Register(id string, h Handle) error {
	c.mustGet(h)
	if prev, ok := c.registry[id]; ok {
		return errors.New(errors.ErrCodeDuplicateID, "id %q already registered to element %d", id, prev)
	}
	c.registry[id] = h
	c.order = append(c.order, id)
	return nil
}

// Lookup returns the handle registered for id.
func (c *Canvas) Lookup(id string) (Handle, bool) {
	h, ok := c.registry[id]
	return h, ok
}

// Registered returns all registered ids in registration order.
func (c *Canvas) Registered() []string {
	return append([]string(nil), c.order...)
}

// RegisteredID returns the entity id registered for h, if any.
func (c *Canvas) RegisteredID(h Handle) (string, bool) {
	for _, id := range c.order {
		if c.registry[id] == h {
			return id, true
		}
	}
	return "", false
}

func (c *Canvas) add(parent Handle, e *Element) Handle {
	p := c.mustGet(parent)
	if p.Kind != KindGroup {
		panic(fmt.Sprintf("canvas: parent %d is a %s, not a group", parent, p.Kind))
	}
	h := Handle(len(c.elems))
	e.Parent = parent
	c.elems = append(c.elems, e)
	p.children = append(p.children, h)
	return h
}

func (c *Canvas) mustGet(h Handle) *Element {
	if h < 0 || int(h) >= len(c.elems) {
		panic(fmt.Sprintf("canvas: invalid handle %d", h))
	}
	return c.elems[h]
}

func (c *Canvas) bounds(h Handle) (geom.Box, bool) {
	e := c.elems[h]
	switch e.Kind {
	case KindRect:
		return e.Rect, true
	case KindPath:
		return e.Path.Bounds()
	case KindText:
		return e.Text.Bounds(), len(e.Text.Lines) > 0
	}

	var out geom.Box
	found := false
	for _, ch := range e.children {
		b, ok := c.bounds(ch)
		if !ok {
			continue
		}
		child := c.elems[ch]
		b = b.Translate(child.TX, child.TY)
		if !found {
			out, found = b, true
			continue
		}
		out = out.Union(b)
	}
	return out, found
}

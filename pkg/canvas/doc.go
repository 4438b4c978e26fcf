// Package canvas is the append-only drawing sink the draw stage writes into.
//
// # Overview
//
// A [Canvas] holds a tree of drawing primitives: groups, rectangles, paths
// and text. Every element is addressed by a [Handle]; handles stay valid for
// the life of the canvas because nothing is ever removed. The root group is
// [Root].
//
// Alongside the tree, a canvas keeps a registry from diagram entity id to
// the handle of the subtree that draws it. Sinks use the registry to emit
// stable element ids, and interactive tooling uses it to find the extent of
// a rendered entity.
//
// # Geometry
//
// Groups may carry a translation. [Canvas.BBox] reports a subtree's extent
// in the element's own coordinate space: translations of descendants are
// applied, the element's own translation is not. This mirrors SVG getBBox.
//
//	c := canvas.New()
//	g := c.Group(canvas.Root, "architecture-service")
//	c.Rect(g, geom.Box{W: 80, H: 80}, 0, "node-bkg")
//	c.Translate(g, 100, 40)
//	_ = c.Register("db", g)
//	c.BBox(g) // {0 0 80 80}
package canvas

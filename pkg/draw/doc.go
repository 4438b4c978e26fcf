// Package draw turns a laid-out diagram into a drawing tree.
//
// # Layers
//
// [Draw] appends one top-level canvas group per layer, classed "edges",
// "groups" and "nodes". Layers are appended in [Options.Order], back to
// front; the default is edges, then groups, then nodes, so connectors sit
// under group backgrounds and services sit on top.
//
// # Entities
//
// Each edge with a drawable route becomes a polyline through its route
// points. Each group becomes a background rectangle around its content,
// padded outward by half the icon size, with its title in the top-left
// corner. Each node becomes a subtree holding its title, centered under the
// body, and its body: the registered icon, or a rounded square when the
// node names no icon or an unknown one.
//
// Every drawn entity's subtree root is registered in the canvas and in the
// model's element table under the entity id. After a node is drawn, its
// rendered extent is written back to the model.
//
// # Warnings
//
// Nothing at draw time aborts a render. Unknown icons fall back to the
// default shape and edges without a route are left out; both are reported
// in [Report] so callers can surface them.
package draw

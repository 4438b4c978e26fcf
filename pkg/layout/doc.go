// Package layout bridges a diagram model to a graph-layout engine.
//
// # Overview
//
// Layout runs in three steps. [Size] resolves every node's footprint
// before layout, measuring titles so the engine sees the real extent.
// [Run] freezes the model, translates it into a [Graph], and hands it to
// an [Engine]. It then checks the [Result] and writes positions back into
// the model.
//
// Engines are deliberately narrow: a single Compute call. The graphviz
// subpackage drives Graphviz dot in-process; [Fixed] is a deterministic
// grid used by tests and as a fallback when dot's output is not wanted.
//
// # Degenerate Edges
//
// Self-edges are never sent to the engine. Routes an engine returns with
// fewer than two points are discarded. Both cases end up in
// [Result.Skipped], in model order, and the draw stage leaves them out.
//
// # Coordinates
//
// Boxes in a Result are top-left anchored with y growing downward.
// Engines that work bottom-up flip before returning.
package layout

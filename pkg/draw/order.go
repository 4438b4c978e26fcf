package draw

import (
	"strings"

	"github.com/matzehuels/archdraw/pkg/errors"
)

// Layer is one top-level group of the drawing.
type Layer string

const (
	LayerEdges  Layer = "edges"
	LayerGroups Layer = "groups"
	LayerNodes  Layer = "nodes"
)

// DefaultOrder draws connectors first so groups and services cover them.
var DefaultOrder = []Layer{LayerEdges, LayerGroups, LayerNodes}

// ParseOrder validates a layer order. It must name each layer exactly once.
func ParseOrder(names []string) ([]Layer, error) {
	if len(names) == 0 {
		return append([]Layer(nil), DefaultOrder...), nil
	}
	seen := make(map[Layer]bool, len(names))
	out := make([]Layer, 0, len(names))
	for _, name := range names {
		l := Layer(strings.ToLower(strings.TrimSpace(name)))
		switch l {
		case LayerEdges, LayerGroups, LayerNodes:
		default:
			return nil, errors.New(errors.ErrCodeInvalidConfig, "draw order: unknown layer %q", name)
		}
		if seen[l] {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "draw order: layer %q listed twice", name)
		}
		seen[l] = true
		out = append(out, l)
	}
	if len(out) != len(DefaultOrder) {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "draw order must list edges, groups and nodes")
	}
	return out, nil
}

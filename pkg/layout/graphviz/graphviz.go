// Package graphviz lays out diagrams with Graphviz dot, running in-process
// through go-graphviz.
//
// The engine writes the graph as DOT text, renders it to Graphviz's json
// output format, and reads positions back from that. Groups become
// clusters, node footprints become fixed-size boxes, and edge directions
// become compass ports. Ranks run left to right; a connection leaving a
// node's left side is ranked in reverse so its target lands to the left,
// and a vertical connection pins both ends to the same rank.
package graphviz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/archdraw/pkg/errors"
	"github.com/matzehuels/archdraw/pkg/layout"
)

// jsonFormat is Graphviz's json renderer: all attributes plus computed
// positions.
const jsonFormat graphviz.Format = "json"

// Engine is a layout.Engine backed by Graphviz dot.
type Engine struct{}

// New returns a Graphviz engine.
func New() *Engine { return &Engine{} }

// Compute implements layout.Engine.
func (e *Engine) Compute(ctx context.Context, g *layout.Graph) (*layout.Result, error) {
	if err := layout.Validate(g); err != nil {
		return nil, err
	}
	dot := ToDOT(g)
	out, err := render(ctx, dot)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailure, err, "graphviz")
	}
	res, err := decode(out, g)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailure, err, "graphviz output")
	}
	return res, nil
}

func render(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, jsonFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

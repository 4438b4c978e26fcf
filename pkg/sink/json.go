package sink

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/archdraw/pkg/canvas"
	"github.com/matzehuels/archdraw/pkg/geom"
	"github.com/matzehuels/archdraw/pkg/layout"
)

type jsonDrawing struct {
	Layout   *layout.Result           `json:"layout,omitempty"`
	Registry map[string]canvas.Handle `json:"registry"`
	Root     jsonElement              `json:"root"`
}

type jsonElement struct {
	Handle    canvas.Handle `json:"handle"`
	Kind      string        `json:"kind"`
	ID        string        `json:"id,omitempty"`
	Class     string        `json:"class,omitempty"`
	Translate *geom.Point   `json:"translate,omitempty"`
	Rect      *geom.Box     `json:"rect,omitempty"`
	Radius    float64       `json:"rx,omitempty"`
	D         string        `json:"d,omitempty"`
	Text      *jsonText     `json:"text,omitempty"`
	BBox      geom.Box      `json:"bbox"`
	Children  []jsonElement `json:"children,omitempty"`
}

type jsonText struct {
	Lines    []string `json:"lines"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	FontSize float64  `json:"fontSize"`
}

// RenderJSON encodes the drawing tree, the entity registry and, when
// given, the layout result.
func RenderJSON(c *canvas.Canvas, res *layout.Result) ([]byte, error) {
	reg := make(map[string]canvas.Handle)
	for _, id := range c.Registered() {
		reg[id], _ = c.Lookup(id)
	}
	out := jsonDrawing{Layout: res, Registry: reg, Root: jsonTree(c, canvas.Root)}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode drawing: %w", err)
	}
	return data, nil
}

func jsonTree(c *canvas.Canvas, h canvas.Handle) jsonElement {
	e := c.Element(h)
	je := jsonElement{Handle: h, Kind: e.Kind.String(), ID: e.ID, Class: e.Class, BBox: c.BBox(h)}
	switch e.Kind {
	case canvas.KindGroup:
		if e.TX != 0 || e.TY != 0 {
			je.Translate = &geom.Point{X: e.TX, Y: e.TY}
		}
		for _, ch := range c.Children(h) {
			je.Children = append(je.Children, jsonTree(c, ch))
		}
	case canvas.KindRect:
		r := e.Rect
		je.Rect, je.Radius = &r, e.Radius
	case canvas.KindPath:
		je.D = e.Path.SVG()
	case canvas.KindText:
		je.Text = &jsonText{Lines: e.Text.Lines, X: e.Text.X, Y: e.Text.Y, FontSize: e.Text.FontSize}
	}
	return je
}

package sink

import (
	"bytes"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/archdraw/pkg/canvas"
	"github.com/matzehuels/archdraw/pkg/geom"
	"github.com/matzehuels/archdraw/pkg/layout"
)

func sampleCanvas(t *testing.T) *canvas.Canvas {
	t.Helper()
	c := canvas.New()
	edges := c.Group(canvas.Root, "edges")
	e := c.Group(edges, "architecture-edge")
	c.Path(e, canvas.Polyline([]geom.Point{{X: 80, Y: 40}, {X: 200, Y: 40}}), "edge")

	nodes := c.Group(canvas.Root, "nodes")
	n := c.Group(nodes, "architecture-service")
	c.Translate(n, 200, 0)
	c.Text(n, canvas.Text{
		Lines: []string{"A <b> & c"}, X: 40, Y: 84, Anchor: canvas.AnchorMiddle,
		FontSize: 16, LineHeight: 20, Width: 90, Height: 20,
	}, "architecture-service-label")
	body := c.Group(n, "")
	p := c.Path(body, canvas.NewPath().MoveTo(0, 80).LineTo(0, 0).LineTo(80, 0).LineTo(80, 80).Close().Data(), "node-bkg")
	c.SetID(p, "node-b")

	if err := c.Register("a-b", e); err != nil {
		t.Fatal(err)
	}
	if err := c.Register("b", n); err != nil {
		t.Fatal(err)
	}
	return c
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(sampleCanvas(t)))

	want := []string{
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="60 -20 245 144"`,
		`<style>`,
		`class="architecture-edge" data-id="a-b"`,
		`class="architecture-service" data-id="b" transform="translate(200,0)"`,
		`<path d="M80,40 L200,40" class="edge"/>`,
		`id="node-b" class="node-bkg"`,
		`A &lt;b&gt; &amp; c`,
		`text-anchor="middle"`,
	}
	for _, w := range want {
		if !strings.Contains(svg, w) {
			t.Errorf("RenderSVG() missing %q\n%s", w, svg)
		}
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("RenderSVG() output not closed")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	svg := string(RenderSVG(sampleCanvas(t), WithPadding(0), WithoutStyles(), WithBackground("#fff")))

	if strings.Contains(svg, "<style>") {
		t.Error("WithoutStyles() still wrote a stylesheet")
	}
	if !strings.Contains(svg, `viewBox="80 0 205 104"`) {
		t.Errorf("WithPadding(0) viewBox wrong:\n%s", svg)
	}
	if !strings.Contains(svg, `fill="#fff"`) {
		t.Error("WithBackground() not applied")
	}
}

func TestRenderSVGEmptyCanvas(t *testing.T) {
	svg := string(RenderSVG(canvas.New()))
	if !strings.Contains(svg, `viewBox="-20 -20 40 40"`) {
		t.Errorf("empty canvas viewBox wrong:\n%s", svg)
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(sampleCanvas(t), 2)
	if err != nil {
		t.Fatalf("RenderPNG() error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 490 || b.Dy() != 288 {
		t.Errorf("image size = %dx%d, want 490x288", b.Dx(), b.Dy())
	}
}

func TestRenderJSON(t *testing.T) {
	res := layout.NewResult()
	res.Width, res.Height = 300, 100

	data, err := RenderJSON(sampleCanvas(t), res)
	if err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}

	var out struct {
		Layout   struct{ Width float64 }  `json:"layout"`
		Registry map[string]int           `json:"registry"`
		Root     struct{ Children []any } `json:"root"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Layout.Width != 300 {
		t.Errorf("layout width = %g, want 300", out.Layout.Width)
	}
	if len(out.Registry) != 2 {
		t.Errorf("registry = %v, want 2 entries", out.Registry)
	}
	if len(out.Root.Children) != 2 {
		t.Errorf("root has %d children, want 2", len(out.Root.Children))
	}
}

func TestLineCenters(t *testing.T) {
	txt := canvas.Text{Lines: []string{"a", "b"}, Y: 100, LineHeight: 20, Height: 40}
	if got := lineCenters(txt); got[0] != 110 || got[1] != 130 {
		t.Errorf("lineCenters(top) = %v, want [110 130]", got)
	}
	txt.Baseline = canvas.BaselineMiddle
	if got := lineCenters(txt); got[0] != 90 || got[1] != 110 {
		t.Errorf("lineCenters(middle) = %v, want [90 110]", got)
	}
}

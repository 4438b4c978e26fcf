package sink

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/archdraw/pkg/canvas"
	"github.com/matzehuels/archdraw/pkg/fonts"
)

const styleSheet = `
    .edge { fill: none; stroke: #333333; stroke-width: 3; }
    rect.node-bkg { fill: none; stroke: #9370db; stroke-width: 2; stroke-dasharray: 8; }
    path.node-bkg { fill: #ececff; stroke: #9370db; stroke-width: 1; }
    .icon-bkg { fill: #087ebf; }
    .icon-glyph { fill: none; stroke: #ffffff; stroke-width: 2; }
    text { font-family: %s; fill: #333333; }
    .architecture-edge-label { fill: #555555; }`

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	padding    float64
	background string
	css        bool
}

// WithPadding sets the margin around the drawing.
func WithPadding(p float64) SVGOption { return func(r *svgRenderer) { r.padding = p } }

// WithBackground fills the canvas with a CSS color.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithoutStyles omits the embedded stylesheet so the host page can style
// the classes.
func WithoutStyles() SVGOption { return func(r *svgRenderer) { r.css = false } }

// RenderSVG serializes c as a standalone SVG document.
func RenderSVG(c *canvas.Canvas, opts ...SVGOption) []byte {
	r := svgRenderer{padding: DefaultPadding, css: true}
	for _, opt := range opts {
		opt(&r)
	}

	x, y, w, h := bounds(c, r.padding)
	ids := registeredIDs(c)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%.0f" height="%.0f">`+"\n",
		num(x), num(y), num(w), num(h), w, h)
	if r.css {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", fmt.Sprintf(styleSheet, fonts.FallbackFontFamily))
	}
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
			num(x), num(y), num(w), num(h), html.EscapeString(r.background))
	}
	for _, ch := range c.Children(canvas.Root) {
		writeElement(&buf, c, ch, ids, 1)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func registeredIDs(c *canvas.Canvas) map[canvas.Handle]string {
	out := make(map[canvas.Handle]string)
	for _, id := range c.Registered() {
		h, _ := c.Lookup(id)
		out[h] = id
	}
	return out
}

func writeElement(buf *bytes.Buffer, c *canvas.Canvas, h canvas.Handle, ids map[canvas.Handle]string, depth int) {
	e := c.Element(h)
	indent := strings.Repeat("  ", depth)
	attrs := commonAttrs(e, ids[h])

	switch e.Kind {
	case canvas.KindGroup:
		if e.TX != 0 || e.TY != 0 {
			attrs += fmt.Sprintf(` transform="translate(%s,%s)"`, num(e.TX), num(e.TY))
		}
		children := c.Children(h)
		if len(children) == 0 {
			fmt.Fprintf(buf, "%s<g%s/>\n", indent, attrs)
			return
		}
		fmt.Fprintf(buf, "%s<g%s>\n", indent, attrs)
		for _, ch := range children {
			writeElement(buf, c, ch, ids, depth+1)
		}
		fmt.Fprintf(buf, "%s</g>\n", indent)

	case canvas.KindRect:
		rx := ""
		if e.Radius > 0 {
			rx = fmt.Sprintf(` rx="%s"`, num(e.Radius))
		}
		fmt.Fprintf(buf, `%s<rect x="%s" y="%s" width="%s" height="%s"%s%s/>`+"\n",
			indent, num(e.Rect.X), num(e.Rect.Y), num(e.Rect.W), num(e.Rect.H), rx, attrs)

	case canvas.KindPath:
		fmt.Fprintf(buf, `%s<path d="%s"%s/>`+"\n", indent, e.Path.SVG(), attrs)

	case canvas.KindText:
		writeText(buf, e, attrs, indent)
	}
}

func commonAttrs(e canvas.Element, entityID string) string {
	var sb strings.Builder
	if e.ID != "" {
		fmt.Fprintf(&sb, ` id="%s"`, html.EscapeString(e.ID))
	}
	if e.Class != "" {
		fmt.Fprintf(&sb, ` class="%s"`, html.EscapeString(e.Class))
	}
	if entityID != "" {
		fmt.Fprintf(&sb, ` data-id="%s"`, html.EscapeString(entityID))
	}
	return sb.String()
}

func writeText(buf *bytes.Buffer, e canvas.Element, attrs, indent string) {
	t := e.Text
	anchor := "start"
	switch t.Anchor {
	case canvas.AnchorMiddle:
		anchor = "middle"
	case canvas.AnchorEnd:
		anchor = "end"
	}
	fmt.Fprintf(buf, `%s<text text-anchor="%s" dominant-baseline="central" font-size="%s"%s>`,
		indent, anchor, num(t.FontSize), attrs)
	for i, y := range lineCenters(t) {
		fmt.Fprintf(buf, `<tspan x="%s" y="%s">%s</tspan>`, num(t.X), num(y), html.EscapeString(t.Lines[i]))
	}
	buf.WriteString("</text>\n")
}

func num(v float64) string { return canvas.FormatNum(v) }

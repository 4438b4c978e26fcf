// Package measure computes the pixel extent of text labels.
//
// Measurement runs before layout so that node sizes are inputs to the layout
// engine rather than outputs of it. A [Measurer] is a pure function of the
// text, its font configuration and the wrap constraint: measuring the same
// label twice yields the same [Size].
//
// Two implementations are provided:
//
//   - [FontMeasurer] uses real glyph advances from the embedded Go font.
//   - [ApproxMeasurer] uses a fixed per-character width and needs no font.
//
// Both wrap at word boundaries first and fall back to character boundaries
// for words wider than the constraint.
package measure

import (
	"strings"
	"sync"

	"golang.org/x/image/font"

	"github.com/matzehuels/archdraw/pkg/fonts"
)

// Constraints bound a measurement.
type Constraints struct {
	// MaxWidth is the wrap width in pixels. Zero disables wrapping.
	MaxWidth float64
}

// Size is the measured extent of a label, along with the wrapped lines.
type Size struct {
	Width  float64
	Height float64
	Lines  []string
}

// Empty reports whether the size has no area.
func (s Size) Empty() bool { return s.Width == 0 || s.Height == 0 }

// Measurer returns the rendered size of text.
type Measurer interface {
	Measure(text string, c Constraints) Size
}

// FontMeasurer measures with glyph advances from the Go Regular font.
// It is safe for concurrent use.
type FontMeasurer struct {
	mu         sync.Mutex
	face       font.Face
	fontSize   float64
	lineHeight float64
}

// NewFontMeasurer creates a measurer for the given font size in pixels.
// lineHeight is a multiple of fontSize.
func NewFontMeasurer(fontSize, lineHeight float64) (*FontMeasurer, error) {
	face, err := fonts.Face(fontSize)
	if err != nil {
		return nil, err
	}
	return &FontMeasurer{face: face, fontSize: fontSize, lineHeight: lineHeight}, nil
}

// Measure implements Measurer.
func (m *FontMeasurer) Measure(text string, c Constraints) Size {
	m.mu.Lock()
	defer m.mu.Unlock()
	return layoutLines(text, c, m.fontSize*m.lineHeight, func(s string) float64 {
		return float64(font.MeasureString(m.face, s)) / 64
	})
}

// Close releases the underlying font face.
func (m *FontMeasurer) Close() error {
	return m.face.Close()
}

// charWidthRatio is the average advance of a glyph relative to the font size.
const charWidthRatio = 0.55

// ApproxMeasurer estimates advances as a fixed fraction of the font size per
// rune. It is deterministic across platforms and never fails to construct.
type ApproxMeasurer struct {
	FontSize   float64
	LineHeight float64
}

// Measure implements Measurer.
func (m ApproxMeasurer) Measure(text string, c Constraints) Size {
	per := m.FontSize * charWidthRatio
	return layoutLines(text, c, m.FontSize*m.LineHeight, func(s string) float64 {
		return float64(len([]rune(s))) * per
	})
}

// Counting wraps a Measurer and counts calls.
type Counting struct {
	Measurer
	mu    sync.Mutex
	calls int
}

// Measure implements Measurer.
func (c *Counting) Measure(text string, cons Constraints) Size {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.Measurer.Measure(text, cons)
}

// Calls returns how many times Measure ran.
func (c *Counting) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func layoutLines(text string, c Constraints, lineHeight float64, advance func(string) float64) Size {
	if strings.TrimSpace(text) == "" {
		return Size{}
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, wrap(para, c.MaxWidth, advance)...)
	}

	var width float64
	for _, l := range lines {
		width = max(width, advance(l))
	}
	return Size{
		Width:  width,
		Height: float64(len(lines)) * lineHeight,
		Lines:  lines,
	}
}

// wrap breaks a paragraph into lines no wider than maxWidth. Words wider
// than maxWidth are split at character boundaries.
func wrap(para string, maxWidth float64, advance func(string) float64) []string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return []string{""}
	}
	if maxWidth <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	line := ""
	for _, w := range words {
		candidate := w
		if line != "" {
			candidate = line + " " + w
		}
		if advance(candidate) <= maxWidth {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
			line = ""
		}
		if advance(w) <= maxWidth {
			line = w
			continue
		}
		chunks := breakWord(w, maxWidth, advance)
		lines = append(lines, chunks[:len(chunks)-1]...)
		line = chunks[len(chunks)-1]
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

func breakWord(w string, maxWidth float64, advance func(string) float64) []string {
	var chunks []string
	var cur []rune
	for _, r := range w {
		next := append(cur, r)
		if len(cur) > 0 && advance(string(next)) > maxWidth {
			chunks = append(chunks, string(cur))
			cur = []rune{r}
			continue
		}
		cur = next
	}
	return append(chunks, string(cur))
}

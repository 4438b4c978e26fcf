// Package fonts provides the font used for text measurement and raster output.
//
// archdraw measures labels with the Go Regular font shipped in
// golang.org/x/image, so label sizes computed before layout match what the
// PNG sink draws. SVG output names the same family first and falls back to
// generic sans-serif faces.
package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFamily is the CSS font-family name of the embedded font.
const FontFamily = "Go"

// FallbackFontFamily is the font-family list written into SVG output.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Helvetica, Arial, sans-serif`

var (
	parsed     *opentype.Font
	parsedErr  error
	parsedOnce sync.Once
)

// Regular returns the parsed Go Regular font. Parsing happens once.
func Regular() (*opentype.Font, error) {
	parsedOnce.Do(func() {
		parsed, parsedErr = opentype.Parse(goregular.TTF)
	})
	return parsed, parsedErr
}

// Face returns a face of the regular font at size pixels (72 DPI).
// Faces are not safe for concurrent use; callers own the returned face.
func Face(size float64) (font.Face, error) {
	f, err := Regular()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	return face, nil
}

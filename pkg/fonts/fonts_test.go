package fonts

import (
	"testing"

	"golang.org/x/image/font"
)

func TestFace(t *testing.T) {
	face, err := Face(16)
	if err != nil {
		t.Fatalf("Face() error = %v", err)
	}
	defer face.Close()

	if w := font.MeasureString(face, "archdraw"); w <= 0 {
		t.Errorf("MeasureString() = %v, want > 0", w)
	}
	if h := face.Metrics().Height; h <= 0 {
		t.Errorf("Metrics().Height = %v, want > 0", h)
	}
}

func TestRegularIsCached(t *testing.T) {
	a, err := Regular()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Regular()
	if a != b {
		t.Error("Regular() should return the same parsed font")
	}
}

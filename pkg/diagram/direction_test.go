package diagram

import (
	"testing"

	"github.com/matzehuels/archdraw/pkg/errors"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
	}{
		{"T", Up},
		{"b", Down},
		{"L", Left},
		{"right", Right},
		{" Up ", Up},
		{"DOWN", Down},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDirection(tt.in)
			if err != nil {
				t.Fatalf("ParseDirection(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseDirection(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if _, err := ParseDirection("diagonal"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ParseDirection(diagonal) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestDirectionText(t *testing.T) {
	for _, d := range []Direction{Up, Down, Left, Right} {
		b, err := d.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error = %v", d, err)
		}
		var back Direction
		if err := back.UnmarshalText(b); err != nil || back != d {
			t.Errorf("UnmarshalText(%q) = %v, %v, want %v", b, back, err, d)
		}
		if d.Opposite().Opposite() != d {
			t.Errorf("%v.Opposite().Opposite() = %v", d, d.Opposite().Opposite())
		}
	}
	if !Up.Vertical() || Left.Vertical() {
		t.Error("Vertical() misclassifies directions")
	}
}

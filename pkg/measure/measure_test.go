package measure

import (
	"strings"
	"testing"
)

func TestApproxMeasureEmpty(t *testing.T) {
	m := ApproxMeasurer{FontSize: 16, LineHeight: 1.25}
	for _, text := range []string{"", "   ", "\n"} {
		got := m.Measure(text, Constraints{MaxWidth: 100})
		if !got.Empty() || len(got.Lines) != 0 {
			t.Errorf("Measure(%q) = %+v, want zero size", text, got)
		}
	}
}

func TestApproxMeasureSingleLine(t *testing.T) {
	m := ApproxMeasurer{FontSize: 10, LineHeight: 1.5}
	got := m.Measure("abcd", Constraints{})

	if got.Width != 22 {
		t.Errorf("Width = %v, want 22", got.Width)
	}
	if got.Height != 15 {
		t.Errorf("Height = %v, want 15", got.Height)
	}
	if len(got.Lines) != 1 || got.Lines[0] != "abcd" {
		t.Errorf("Lines = %q, want [abcd]", got.Lines)
	}
}

func TestApproxMeasureWraps(t *testing.T) {
	// 10px font: 5.5px per rune; "web server" is 55px.
	m := ApproxMeasurer{FontSize: 10, LineHeight: 1}

	tests := []struct {
		name     string
		text     string
		maxWidth float64
		want     []string
	}{
		{"fits", "web server", 60, []string{"web server"}},
		{"word wrap", "web server", 40, []string{"web", "server"}},
		{"long word split", "loadbalancer", 33, []string{"loadba", "lancer"}},
		{"explicit newline", "api\ngateway", 0, []string{"api", "gateway"}},
		{"collapses spaces", "a   b", 0, []string{"a b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Measure(tt.text, Constraints{MaxWidth: tt.maxWidth})
			if strings.Join(got.Lines, "|") != strings.Join(tt.want, "|") {
				t.Errorf("Lines = %q, want %q", got.Lines, tt.want)
			}
			if got.Height != float64(len(tt.want))*10 {
				t.Errorf("Height = %v, want %v", got.Height, float64(len(tt.want))*10)
			}
			if tt.maxWidth > 0 && got.Width > tt.maxWidth {
				t.Errorf("Width = %v exceeds MaxWidth %v", got.Width, tt.maxWidth)
			}
		})
	}
}

func TestFontMeasurer(t *testing.T) {
	m, err := NewFontMeasurer(16, 1.25)
	if err != nil {
		t.Fatalf("NewFontMeasurer() error = %v", err)
	}
	defer m.Close()

	short := m.Measure("db", Constraints{})
	long := m.Measure("database cluster", Constraints{})
	if short.Width <= 0 || long.Width <= short.Width {
		t.Errorf("widths short=%v long=%v, want 0 < short < long", short.Width, long.Width)
	}
	if short.Height != 20 {
		t.Errorf("Height = %v, want 20", short.Height)
	}

	wrapped := m.Measure("database cluster", Constraints{MaxWidth: long.Width - 1})
	if len(wrapped.Lines) != 2 {
		t.Errorf("Lines = %q, want 2 lines", wrapped.Lines)
	}
	if wrapped.Width > long.Width-1 {
		t.Errorf("wrapped Width = %v, want <= %v", wrapped.Width, long.Width-1)
	}
}

func TestFontMeasurerDeterministic(t *testing.T) {
	m, err := NewFontMeasurer(14, 1.2)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	a := m.Measure("Object Storage", Constraints{MaxWidth: 60})
	b := m.Measure("Object Storage", Constraints{MaxWidth: 60})
	if a.Width != b.Width || a.Height != b.Height {
		t.Errorf("Measure not deterministic: %+v vs %+v", a, b)
	}
}

func TestCounting(t *testing.T) {
	c := &Counting{Measurer: ApproxMeasurer{FontSize: 10, LineHeight: 1}}
	c.Measure("a", Constraints{})
	c.Measure("b", Constraints{})
	if got := c.Calls(); got != 2 {
		t.Errorf("Calls() = %d, want 2", got)
	}
}

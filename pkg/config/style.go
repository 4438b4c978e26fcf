package config

import (
	"strings"

	"github.com/matzehuels/archdraw/pkg/errors"
)

// Style is the resolved, immutable set of options a render runs with.
type Style struct {
	IconSize             float64
	LabelWidthMultiplier float64
	FontSize             float64
	LineHeight           float64 // multiple of FontSize
	LabelGap             float64
	GroupLabelMarginX    float64
	GroupLabelMarginY    float64
	CornerRadius         float64
	NodeSep              float64
	RankSep              float64
	Padding              float64
	DrawOrder            []string
	TextMetrics          string
}

// HalfIcon returns half the icon size, the padding groups put around their
// contents.
func (s Style) HalfIcon() float64 { return s.IconSize / 2 }

// MaxLabelWidth is the wrap width for node titles.
func (s Style) MaxLabelWidth() float64 { return s.IconSize * s.LabelWidthMultiplier }

// ResolveStyle validates v and resolves it into a Style.
//
// iconSize is required: a missing key fails with CONFIG_MISSING and a
// non-positive value with INVALID_CONFIG. Every other option falls back to
// its default when absent, but a present value of the wrong type is still
// an INVALID_CONFIG error.
func ResolveStyle(v Values) (Style, error) {
	iconSize, err := v.Float(KeyIconSize)
	if err != nil {
		return Style{}, err
	}
	if iconSize <= 0 {
		return Style{}, errors.New(errors.ErrCodeInvalidConfig, "%s must be positive, got %g", KeyIconSize, iconSize)
	}

	s := Style{IconSize: iconSize}
	floats := []struct {
		key string
		dst *float64
	}{
		{KeyLabelWidthMultiplier, &s.LabelWidthMultiplier},
		{KeyFontSize, &s.FontSize},
		{KeyLineHeight, &s.LineHeight},
		{KeyLabelGap, &s.LabelGap},
		{KeyGroupLabelMarginX, &s.GroupLabelMarginX},
		{KeyGroupLabelMarginY, &s.GroupLabelMarginY},
		{KeyCornerRadius, &s.CornerRadius},
		{KeyNodeSep, &s.NodeSep},
		{KeyRankSep, &s.RankSep},
		{KeyPadding, &s.Padding},
	}
	for _, f := range floats {
		src := v
		if _, ok := v[f.key]; !ok {
			src = cosmetic
		}
		val, err := src.Float(f.key)
		if err != nil {
			return Style{}, err
		}
		if val < 0 {
			return Style{}, errors.New(errors.ErrCodeInvalidConfig, "%s must not be negative, got %g", f.key, val)
		}
		*f.dst = val
	}
	if s.FontSize == 0 {
		return Style{}, errors.New(errors.ErrCodeInvalidConfig, "%s must be positive", KeyFontSize)
	}

	order, err := stringOption(v, KeyDrawOrder)
	if err != nil {
		return Style{}, err
	}
	s.DrawOrder = splitList(order)

	metrics, err := stringOption(v, KeyTextMetrics)
	if err != nil {
		return Style{}, err
	}
	if metrics != MetricsFont && metrics != MetricsApprox {
		return Style{}, errors.New(errors.ErrCodeInvalidConfig, "%s must be %q or %q, got %q",
			KeyTextMetrics, MetricsFont, MetricsApprox, metrics)
	}
	s.TextMetrics = metrics

	return s, nil
}

// DefaultStyle resolves [Defaults]. It cannot fail.
func DefaultStyle() Style {
	s, err := ResolveStyle(Defaults())
	if err != nil {
		panic(err)
	}
	return s
}

func stringOption(v Values, key string) (string, error) {
	raw, ok := v[key]
	if !ok {
		s, _ := cosmetic.String(key)
		return s, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidConfig, "option %q must be a string, got %T", key, raw)
	}
	return s, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

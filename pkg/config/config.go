// Package config holds the flat, named options that parameterise a render.
//
// Options arrive as a flat mapping (for example from a TOML file) and are
// resolved once into a [Style] value which is then passed explicitly to the
// measurement, layout and draw stages. Nothing in archdraw reads styling from
// process-wide state.
//
// Size options are safety-critical: a missing or non-positive iconSize fails
// with CONFIG_MISSING / INVALID_CONFIG. Purely cosmetic options fall back to
// the defaults listed in [Defaults].
//
// Example config file:
//
//	iconSize = 80
//	labelWidthMultiplier = 1.5
//	fontSize = 16
//	drawOrder = "edges,groups,nodes"
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/archdraw/pkg/errors"
)

// Option names.
const (
	KeyIconSize             = "iconSize"
	KeyLabelWidthMultiplier = "labelWidthMultiplier"
	KeyFontSize             = "fontSize"
	KeyLineHeight           = "lineHeight"
	KeyLabelGap             = "labelGap"
	KeyGroupLabelMarginX    = "groupLabelMarginX"
	KeyGroupLabelMarginY    = "groupLabelMarginY"
	KeyCornerRadius         = "cornerRadius"
	KeyNodeSep              = "nodeSep"
	KeyRankSep              = "rankSep"
	KeyPadding              = "padding"
	KeyDrawOrder            = "drawOrder"
	KeyTextMetrics          = "textMetrics"
)

// DefaultIconSize is the icon size used by [Defaults].
const DefaultIconSize = 80.0

// Text metric modes.
const (
	MetricsFont   = "font"
	MetricsApprox = "approx"
)

// Values is a flat mapping of named numeric and style options.
type Values map[string]any

// Defaults returns a fresh option set with every option populated,
// including the required iconSize.
func Defaults() Values {
	return Values{
		KeyIconSize:             DefaultIconSize,
		KeyLabelWidthMultiplier: 1.5,
		KeyFontSize:             16.0,
		KeyLineHeight:           1.25,
		KeyLabelGap:             4.0,
		KeyGroupLabelMarginX:    4.0,
		KeyGroupLabelMarginY:    2.0,
		KeyCornerRadius:         5.0,
		KeyNodeSep:              60.0,
		KeyRankSep:              80.0,
		KeyPadding:              20.0,
		KeyDrawOrder:            "edges,groups,nodes",
		KeyTextMetrics:          MetricsFont,
	}
}

// cosmetic holds the fallbacks applied by ResolveStyle for optional keys.
var cosmetic = Defaults()

// Parse decodes TOML text into Values.
func Parse(data string) (Values, error) {
	v := Values{}
	if err := toml.Unmarshal([]byte(data), &v); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	return v, nil
}

// LoadFile reads and decodes a TOML config file.
func LoadFile(path string) (Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(string(data))
}

// Merge returns a new Values with every key of overlays applied over base
// in order. Neither input is modified.
func Merge(base Values, overlays ...Values) Values {
	out := make(Values, len(base))
	for k, v := range base {
		out[k] = v
	}
	for _, o := range overlays {
		for k, v := range o {
			out[k] = v
		}
	}
	return out
}

// Float returns the numeric option key. It fails with CONFIG_MISSING when the
// key is absent and INVALID_CONFIG when the value is not a number.
func (v Values) Float(key string) (float64, error) {
	raw, ok := v[key]
	if !ok {
		return 0, errors.New(errors.ErrCodeConfigMissing, "required option %q is not set", key)
	}
	f, ok := toFloat(raw)
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "option %q must be a number, got %T", key, raw)
	}
	return f, nil
}

// String returns the string option key and whether it was set.
func (v Values) String(key string) (string, bool) {
	s, ok := v[key].(string)
	return s, ok
}

func toFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// Package recommend filters and ranks a product catalog for a skin profile.
// It is a pure module: the catalog is passed in once and never modified.
package recommend

import (
	"fmt"
	"regexp"

	"github.com/Veraticus/matchme/internal/common"
	"github.com/Veraticus/matchme/internal/model"
	"github.com/lucasb-eyer/go-colorful"
)

var hexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// MalformedColorError is returned for swatch hex values that are not #RRGGBB.
type MalformedColorError struct {
	Err error
	Hex string
}

func (e *MalformedColorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed color %q: %v", e.Hex, e.Err)
	}
	return fmt.Sprintf("malformed color %q", e.Hex)
}

func (e *MalformedColorError) Unwrap() error {
	return e.Err
}

// RGB is a swatch color in 0-255 channels.
type RGB struct {
	R, G, B int
}

// ParseHex parses a strict #RRGGBB value.
func ParseHex(hex string) (RGB, error) {
	if !hexPattern.MatchString(hex) {
		return RGB{}, &MalformedColorError{Hex: hex}
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return RGB{}, &MalformedColorError{Hex: hex, Err: err}
	}
	r, g, b := c.RGB255()
	return RGB{R: int(r), G: int(g), B: int(b)}, nil
}

// Brightness is the mean of the three channels.
func (c RGB) Brightness() float64 {
	return float64(c.R+c.G+c.B) / 3
}

// MaxChannelDiff is the largest pairwise channel difference.
func (c RGB) MaxChannelDiff() int {
	return max(abs(c.R-c.G), abs(c.G-c.B), abs(c.R-c.B))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// CompatibilityBand is one row of the matcher's brightness table.
type CompatibilityBand struct {
	Tone model.SkinTone
	Min  float64
	Max  float64
	// UndertoneAdjustment is carried as data; no rule reads it.
	UndertoneAdjustment float64
}

// CompatibilityBands is the matcher table. Its ranges are wider and overlap
// more than the classifier's bands; the two tables are independent.
var CompatibilityBands = []CompatibilityBand{
	{Tone: model.SkinToneVeryFair, Min: 220, Max: 255, UndertoneAdjustment: 10},
	{Tone: model.SkinToneFair, Min: 200, Max: 240, UndertoneAdjustment: 15},
	{Tone: model.SkinToneLight, Min: 160, Max: 220, UndertoneAdjustment: 20},
	{Tone: model.SkinToneMedium, Min: 120, Max: 180, UndertoneAdjustment: 25},
	{Tone: model.SkinToneDark, Min: 80, Max: 140, UndertoneAdjustment: 30},
	{Tone: model.SkinToneVeryDark, Min: 40, Max: 100, UndertoneAdjustment: 35},
}

// Matcher thresholds.
const (
	// FoundationLikeMaxDiff marks a swatch as a balanced, skin-like color.
	FoundationLikeMaxDiff = 50
	// NeutralMaxChannelGap bounds |r-g| and |g-b| for neutral undertones.
	NeutralMaxChannelGap = 30
)

func compatibilityBand(tone model.SkinTone) (CompatibilityBand, bool) {
	for _, band := range CompatibilityBands {
		if band.Tone == tone {
			return band, true
		}
	}
	return CompatibilityBand{}, false
}

func inBand(c RGB, tone model.SkinTone) bool {
	band, ok := compatibilityBand(tone)
	if !ok {
		return true
	}
	b := c.Brightness()
	return b >= band.Min && b <= band.Max
}

// UndertoneCompatible applies the channel-dominance rule of an undertone.
func UndertoneCompatible(c RGB, undertone model.Undertone) bool {
	switch undertone {
	case model.UndertoneWarm:
		return c.R > c.G && c.R > c.B
	case model.UndertoneCool:
		return c.B > c.R && c.B > c.G
	default:
		return abs(c.R-c.G) < NeutralMaxChannelGap && abs(c.G-c.B) < NeutralMaxChannelGap
	}
}

// IsFoundationLike reports whether a swatch is balanced enough to be a skin shade.
func IsFoundationLike(c RGB) bool {
	return c.MaxChannelDiff() < FoundationLikeMaxDiff
}

// foundationCompatible is the confirming gate for balanced swatches. It
// repeats the band and undertone checks; results depend on it running.
func foundationCompatible(c RGB, tone model.SkinTone, undertone model.Undertone) bool {
	return inBand(c, tone) && UndertoneCompatible(c, undertone)
}

// SwatchCompatible reports whether one swatch suits the tone and undertone.
func SwatchCompatible(c RGB, tone model.SkinTone, undertone model.Undertone) bool {
	compatible := inBand(c, tone) && UndertoneCompatible(c, undertone)
	if IsFoundationLike(c) {
		compatible = compatible && foundationCompatible(c, tone, undertone)
	}
	return compatible
}

// ProductCompatible reports whether a product is usable for the profile.
// Only color-critical categories are checked. Missing or entirely malformed
// swatch data never rejects a product.
func ProductCompatible(p *model.Product, tone model.SkinTone, undertone model.Undertone) bool {
	if !p.Category.IsColorCritical() {
		return true
	}
	if len(p.Colors) == 0 {
		return true
	}

	valid := 0
	for _, swatch := range p.Colors {
		c, err := ParseHex(swatch.Hex)
		if err != nil {
			common.LogDebug("Skipping malformed swatch", common.Fields{
				"product": p.ID,
				"swatch":  swatch.Name,
				"error":   err.Error(),
			})
			continue
		}
		valid++
		if SwatchCompatible(c, tone, undertone) {
			return true
		}
	}

	return valid == 0
}

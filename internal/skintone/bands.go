// Package skintone turns a face photo into a skin tone and undertone
// classification. Every stage is deterministic: the same bytes always produce
// the same result.
package skintone

import (
	"fmt"

	"github.com/Veraticus/matchme/internal/model"
)

// AnalysisSize is the width and height every photo is normalized to.
const AnalysisSize = 256

// ToneBand is one row of the classifier's brightness table.
type ToneBand struct {
	// UndertonePriors are carried for inspection only. They do not enter the score.
	UndertonePriors map[model.Undertone]float64
	Tone            model.SkinTone
	Min             float64
	Max             float64
}

// Contains reports whether brightness falls inside the band. Both ends are
// inclusive, so adjacent bands share their boundary value.
func (b ToneBand) Contains(brightness float64) bool {
	return brightness >= b.Min && brightness <= b.Max
}

// ToneBands is the classifier table, in declaration (tie-break) order.
// The recommendation matcher keeps its own, wider table.
var ToneBands = []ToneBand{
	{
		Tone: model.SkinToneVeryFair, Min: 240, Max: 255,
		UndertonePriors: map[model.Undertone]float64{model.UndertoneWarm: 0.3, model.UndertoneCool: 0.2, model.UndertoneNeutral: 0.5},
	},
	{
		Tone: model.SkinToneFair, Min: 220, Max: 240,
		UndertonePriors: map[model.Undertone]float64{model.UndertoneWarm: 0.4, model.UndertoneCool: 0.3, model.UndertoneNeutral: 0.3},
	},
	{
		Tone: model.SkinToneLight, Min: 180, Max: 220,
		UndertonePriors: map[model.Undertone]float64{model.UndertoneWarm: 0.35, model.UndertoneCool: 0.35, model.UndertoneNeutral: 0.3},
	},
	{
		Tone: model.SkinToneMedium, Min: 140, Max: 180,
		UndertonePriors: map[model.Undertone]float64{model.UndertoneWarm: 0.4, model.UndertoneCool: 0.3, model.UndertoneNeutral: 0.3},
	},
	{
		Tone: model.SkinToneDark, Min: 100, Max: 140,
		UndertonePriors: map[model.Undertone]float64{model.UndertoneWarm: 0.4, model.UndertoneCool: 0.3, model.UndertoneNeutral: 0.3},
	},
	{
		Tone: model.SkinToneVeryDark, Min: 0, Max: 100,
		UndertonePriors: map[model.Undertone]float64{model.UndertoneWarm: 0.3, model.UndertoneCool: 0.2, model.UndertoneNeutral: 0.5},
	},
}

// BandFor returns the classifier band of a tone.
func BandFor(tone model.SkinTone) (ToneBand, error) {
	for _, band := range ToneBands {
		if band.Tone == tone {
			return band, nil
		}
	}
	return ToneBand{}, fmt.Errorf("no tone band for %q", tone)
}

// ToneWeights are the composite score weights of the tone classifier.
type ToneWeights struct {
	Brightness float64
	Red        float64
	Blue       float64
	// RedRatioAbove earns full red credit; otherwise PartialCredit.
	RedRatioAbove float64
	// BlueRatioBelow earns full blue credit; otherwise PartialCredit.
	BlueRatioBelow float64
	PartialCredit  float64
}

// DefaultToneWeights is the classifier's scoring configuration.
var DefaultToneWeights = ToneWeights{
	Brightness:     0.6,
	Red:            0.2,
	Blue:           0.2,
	RedRatioAbove:  0.3,
	BlueRatioBelow: 0.4,
	PartialCredit:  0.5,
}

// UndertoneWeights configure the warm, cool and neutral scores.
type UndertoneWeights struct {
	WarmRed         float64
	WarmInverseBlue float64
	CoolBlue        float64
	CoolInverseRed  float64
	NeutralGreen    float64
	NeutralBalance  float64
}

// DefaultUndertoneWeights is the detector's scoring configuration.
var DefaultUndertoneWeights = UndertoneWeights{
	WarmRed:         0.6,
	WarmInverseBlue: 0.4,
	CoolBlue:        0.6,
	CoolInverseRed:  0.4,
	NeutralGreen:    0.5,
	NeutralBalance:  0.5,
}

// Region is a square sampling window. The center is a fraction of the frame
// size; Size is the full edge length in pixels.
type Region struct {
	Name string
	CX   float64
	CY   float64
	Size int
}

// ToneRegions feed the tone classifier.
var ToneRegions = []Region{
	{Name: "left_cheek", CX: 0.4, CY: 0.3, Size: 40},
	{Name: "right_cheek", CX: 0.6, CY: 0.3, Size: 40},
	{Name: "nose", CX: 0.5, CY: 0.4, Size: 30},
	{Name: "chin", CX: 0.5, CY: 0.5, Size: 25},
}

// UndertoneRegions feed the undertone detector. The chin is not used and the
// windows are smaller.
var UndertoneRegions = []Region{
	{Name: "left_cheek", CX: 0.4, CY: 0.3, Size: 30},
	{Name: "right_cheek", CX: 0.6, CY: 0.3, Size: 30},
	{Name: "nose", CX: 0.5, CY: 0.4, Size: 25},
}

// Skin pixel filter thresholds on channel shares of the RGB sum.
const (
	SkinMinRedShare   = 0.25
	SkinMinGreenShare = 0.25
	SkinMaxBlueShare  = 0.4
)

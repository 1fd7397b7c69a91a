package model

import (
	"fmt"
	"strings"
)

// SkinTone is the depth band of a skin color, ordered fairest to deepest.
type SkinTone string

const (
	SkinToneVeryFair SkinTone = "very_fair"
	SkinToneFair     SkinTone = "fair"
	SkinToneLight    SkinTone = "light"
	SkinToneMedium   SkinTone = "medium"
	SkinToneDark     SkinTone = "dark"
	SkinToneVeryDark SkinTone = "very_dark"
)

// SkinToneCount is the number of skin tone bands.
const SkinToneCount = 6

var skinTones = [SkinToneCount]SkinTone{
	SkinToneVeryFair,
	SkinToneFair,
	SkinToneLight,
	SkinToneMedium,
	SkinToneDark,
	SkinToneVeryDark,
}

// SkinTones returns a fresh slice of the bands in declaration order. That
// order is also the tie-break order of the tone classifier.
func SkinTones() []SkinTone {
	tones := make([]SkinTone, len(skinTones))
	copy(tones, skinTones[:])
	return tones
}

// ParseSkinTone validates a skin tone name.
func ParseSkinTone(s string) (SkinTone, error) {
	t := SkinTone(strings.ToLower(strings.TrimSpace(s)))
	if t.Valid() {
		return t, nil
	}
	return "", fmt.Errorf("unknown skin tone %q", s)
}

// Valid reports whether t is a known band.
func (t SkinTone) Valid() bool {
	return t.Index() >= 0
}

// Index returns the position of t in SkinTones, or -1.
func (t SkinTone) Index() int {
	for i, known := range skinTones {
		if t == known {
			return i
		}
	}
	return -1
}

// Undertone is the secondary color cast of skin.
type Undertone string

const (
	UndertoneWarm    Undertone = "warm"
	UndertoneCool    Undertone = "cool"
	UndertoneNeutral Undertone = "neutral"
)

var undertones = []Undertone{UndertoneWarm, UndertoneCool, UndertoneNeutral}

// Undertones returns the undertones in declaration (tie-break) order.
func Undertones() []Undertone {
	out := make([]Undertone, len(undertones))
	copy(out, undertones)
	return out
}

// ParseUndertone validates an undertone name.
func ParseUndertone(s string) (Undertone, error) {
	u := Undertone(strings.ToLower(strings.TrimSpace(s)))
	if u.Valid() {
		return u, nil
	}
	return "", fmt.Errorf("unknown undertone %q", s)
}

// Valid reports whether u is a known undertone.
func (u Undertone) Valid() bool {
	for _, known := range undertones {
		if u == known {
			return true
		}
	}
	return false
}

// Pixel is one sampled RGB value.
type Pixel struct {
	R, G, B uint8
}

// ColorStatistics summarizes a pool of sampled pixels.
type ColorStatistics struct {
	AvgR       float64 `json:"avgR"`
	AvgG       float64 `json:"avgG"`
	AvgB       float64 `json:"avgB"`
	Brightness float64 `json:"brightness"`
	RedRatio   float64 `json:"redRatio"`
	GreenRatio float64 `json:"greenRatio"`
	BlueRatio  float64 `json:"blueRatio"`
	Samples    int     `json:"samples"`
}

// NeutralColorStatistics is used when no skin pixels were found.
func NeutralColorStatistics() ColorStatistics {
	return ColorStatistics{
		AvgR:       128,
		AvgG:       128,
		AvgB:       128,
		Brightness: 128,
		RedRatio:   1.0 / 3.0,
		GreenRatio: 1.0 / 3.0,
		BlueRatio:  1.0 / 3.0,
	}
}

// ClassificationResult is the outcome of analyzing one photo.
type ClassificationResult struct {
	SkinTone  SkinTone  `json:"skinTone"`
	Undertone Undertone `json:"undertone"`
	// Confidence is the winning band's raw score, not its normalized probability.
	Confidence float64 `json:"confidence"`
	// Probabilities follow SkinTones order and sum to 1.
	Probabilities   [SkinToneCount]float64 `json:"probabilities"`
	ColorStatistics ColorStatistics        `json:"colorData"`
}

// DefaultClassification is substituted when a photo cannot be analyzed.
func DefaultClassification() ClassificationResult {
	return ClassificationResult{
		SkinTone:        SkinToneMedium,
		Undertone:       UndertoneNeutral,
		Confidence:      0.5,
		Probabilities:   [SkinToneCount]float64{0.1, 0.1, 0.1, 0.5, 0.1, 0.1},
		ColorStatistics: NeutralColorStatistics(),
	}
}

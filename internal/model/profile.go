package model

import (
	"fmt"
	"time"
)

// ProfileSource indicates how a skin profile was obtained.
type ProfileSource string

const (
	// SourceAnalysis indicates the profile came from photo analysis.
	SourceAnalysis ProfileSource = "ANALYSIS"
	// SourceManual indicates the user entered tone and undertone directly.
	SourceManual ProfileSource = "MANUAL"
)

// ManualConfidence is recorded for profiles entered by hand.
const ManualConfidence = 0.9

// Profile is the locally stored skin profile of the user.
type Profile struct {
	AnalyzedAt time.Time     `json:"analyzedAt"`
	SkinTone   SkinTone      `json:"skinTone"`
	Undertone  Undertone     `json:"undertone"`
	Source     ProfileSource `json:"source"`
	Confidence float64       `json:"confidence"`
}

// Validate ensures the profile holds known values.
func (p *Profile) Validate() error {
	if !p.SkinTone.Valid() {
		return fmt.Errorf("invalid skin tone %q", p.SkinTone)
	}
	if !p.Undertone.Valid() {
		return fmt.Errorf("invalid undertone %q", p.Undertone)
	}
	if p.Confidence < 0.0 || p.Confidence > 1.0 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0, got %.2f", p.Confidence)
	}
	if p.Source != SourceAnalysis && p.Source != SourceManual {
		return fmt.Errorf("invalid profile source %q", p.Source)
	}
	return nil
}

// ProfileFromClassification builds a profile from an analysis result.
func ProfileFromClassification(result ClassificationResult, at time.Time) Profile {
	return Profile{
		SkinTone:   result.SkinTone,
		Undertone:  result.Undertone,
		Confidence: result.Confidence,
		Source:     SourceAnalysis,
		AnalyzedAt: at,
	}
}

// AnalysisRecord is one stored classification run.
type AnalysisRecord struct {
	CreatedAt time.Time
	Source    string
	Result    ClassificationResult
	ID        int64
	Degraded  bool
}

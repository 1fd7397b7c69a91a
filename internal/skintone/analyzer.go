package skintone

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/Veraticus/matchme/internal/common"
	"github.com/Veraticus/matchme/internal/model"
)

// Analyzer runs the photo pipeline: preprocess, sample, classify.
// It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	toneRegions      []Region
	undertoneRegions []Region
	preprocessor     Preprocessor
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithPreprocessor overrides the size and decode limits.
func WithPreprocessor(p Preprocessor) Option {
	return func(a *Analyzer) {
		a.preprocessor = p
	}
}

// NewAnalyzer creates an analyzer with the default regions and limits.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		preprocessor:     DefaultPreprocessor(),
		toneRegions:      ToneRegions,
		undertoneRegions: UndertoneRegions,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze classifies an encoded photo. A photo that cannot be decoded yields a
// *PreprocessingError.
func (a *Analyzer) Analyze(ctx context.Context, data []byte) (model.ClassificationResult, error) {
	img, err := a.preprocessor.Preprocess(ctx, data)
	if err != nil {
		return model.ClassificationResult{}, err
	}
	return a.AnalyzeImage(ctx, img)
}

// AnalyzeOrDefault is Analyze that never leaves the caller without a result.
// On failure it returns model.DefaultClassification together with the cause so
// the caller can report degraded output.
func (a *Analyzer) AnalyzeOrDefault(ctx context.Context, data []byte) (model.ClassificationResult, error) {
	result, err := a.Analyze(ctx, data)
	if err != nil {
		common.LogWarn("Skin tone analysis failed, using default classification", common.Fields{
			"error": err.Error(),
			"bytes": len(data),
		})
		return model.DefaultClassification(), err
	}
	return result, nil
}

// AnalyzeImage classifies an already preprocessed grid.
func (a *Analyzer) AnalyzeImage(ctx context.Context, img *image.RGBA) (model.ClassificationResult, error) {
	toneStats, err := RegionStatistics(ctx, img, a.toneRegions)
	if err != nil {
		return model.ClassificationResult{}, fmt.Errorf("failed to sample tone regions: %w", err)
	}
	undertoneStats, err := RegionStatistics(ctx, img, a.undertoneRegions)
	if err != nil {
		return model.ClassificationResult{}, fmt.Errorf("failed to sample undertone regions: %w", err)
	}

	slog.Debug("sampled skin pixels",
		"tone_samples", toneStats.Samples,
		"undertone_samples", undertoneStats.Samples,
		"brightness", toneStats.Brightness)

	return Classify(toneStats, undertoneStats), nil
}

// Classify combines tone and undertone statistics into a result.
func Classify(toneStats, undertoneStats model.ColorStatistics) model.ClassificationResult {
	tone, confidence, probabilities := ClassifyTone(toneStats)
	return model.ClassificationResult{
		SkinTone:        tone,
		Undertone:       DetectUndertone(undertoneStats),
		Confidence:      confidence,
		Probabilities:   probabilities,
		ColorStatistics: toneStats,
	}
}

// ClassifyPixels classifies a pixel pool, using it for both tone and undertone.
func ClassifyPixels(pixels []model.Pixel) model.ClassificationResult {
	stats := ComputeStatistics(pixels)
	return Classify(stats, stats)
}

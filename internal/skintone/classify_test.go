package skintone

import (
	"testing"

	"github.com/Veraticus/matchme/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pool(p model.Pixel, n int) []model.Pixel {
	pixels := make([]model.Pixel, n)
	for i := range pixels {
		pixels[i] = p
	}
	return pixels
}

func TestComputeStatistics(t *testing.T) {
	t.Run("empty pool falls back to neutral", func(t *testing.T) {
		stats := ComputeStatistics(nil)
		assert.Equal(t, 128.0, stats.Brightness)
		assert.InDelta(t, 1.0/3.0, stats.RedRatio, 1e-9)
		assert.InDelta(t, 1.0/3.0, stats.GreenRatio, 1e-9)
		assert.InDelta(t, 1.0/3.0, stats.BlueRatio, 1e-9)
		assert.Equal(t, 0, stats.Samples)
	})

	t.Run("averages and ratios", func(t *testing.T) {
		stats := ComputeStatistics([]model.Pixel{
			{R: 200, G: 100, B: 0},
			{R: 100, G: 100, B: 100},
		})
		assert.Equal(t, 150.0, stats.AvgR)
		assert.Equal(t, 100.0, stats.AvgG)
		assert.Equal(t, 50.0, stats.AvgB)
		assert.Equal(t, 100.0, stats.Brightness)
		assert.InDelta(t, 0.5, stats.RedRatio, 1e-9)
		assert.Equal(t, 2, stats.Samples)
	})

	t.Run("all black pool keeps neutral ratios", func(t *testing.T) {
		stats := ComputeStatistics(pool(model.Pixel{}, 4))
		assert.Equal(t, 0.0, stats.Brightness)
		assert.InDelta(t, 1.0/3.0, stats.RedRatio, 1e-9)
	})
}

func TestComputeStatistics_RatiosSumToOne(t *testing.T) {
	pools := [][]model.Pixel{
		{{R: 1, G: 2, B: 3}},
		{{R: 255, G: 0, B: 0}, {R: 0, G: 255, B: 0}},
		{{R: 235, G: 210, B: 195}, {R: 120, G: 80, B: 60}, {R: 13, G: 200, B: 77}},
		pool(model.Pixel{R: 90, G: 60, B: 45}, 1000),
	}

	for _, p := range pools {
		stats := ComputeStatistics(p)
		assert.InDelta(t, 1.0, stats.RedRatio+stats.GreenRatio+stats.BlueRatio, 1e-9)
	}
}

func TestIsSkinColor(t *testing.T) {
	tests := []struct {
		name  string
		pixel model.Pixel
		want  bool
	}{
		{name: "typical skin", pixel: model.Pixel{R: 200, G: 150, B: 120}, want: true},
		{name: "gray passes shares", pixel: model.Pixel{R: 100, G: 100, B: 100}, want: true},
		{name: "black", pixel: model.Pixel{}, want: false},
		{name: "too blue", pixel: model.Pixel{R: 50, G: 50, B: 200}, want: false},
		{name: "too little green", pixel: model.Pixel{R: 220, G: 30, B: 40}, want: false},
		{name: "too little red", pixel: model.Pixel{R: 20, G: 150, B: 90}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSkinColor(tt.pixel))
		})
	}
}

func TestClassifyTone_Probabilities(t *testing.T) {
	inputs := []model.ColorStatistics{
		model.NeutralColorStatistics(),
		ComputeStatistics(pool(model.Pixel{R: 235, G: 210, B: 195}, 3)),
		ComputeStatistics(pool(model.Pixel{R: 40, G: 60, B: 150}, 1)),
		{Brightness: 300, RedRatio: 0.2, BlueRatio: 0.5},
	}

	for _, stats := range inputs {
		_, _, probs := ClassifyTone(stats)
		require.Len(t, probs, 6)
		sum := 0.0
		for _, p := range probs {
			assert.GreaterOrEqual(t, p, 0.0)
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestClassifyTone_TieGoesToEarlierBand(t *testing.T) {
	// Brightness 240 sits on the shared boundary of very_fair and fair.
	stats := ComputeStatistics(pool(model.Pixel{R: 245, G: 240, B: 235}, 10))
	require.Equal(t, 240.0, stats.Brightness)

	tone, confidence, probs := ClassifyTone(stats)
	assert.Equal(t, model.SkinToneVeryFair, tone)
	assert.Equal(t, 1.0, confidence)
	assert.Equal(t, probs[0], probs[1])
	assert.InDelta(t, 1.0/3.6, probs[0], 1e-9)
}

func TestClassifyTone_ConfidenceIsRawScore(t *testing.T) {
	// Blue-heavy statistics only earn partial color credit.
	stats := model.ColorStatistics{Brightness: 50, RedRatio: 0.16, GreenRatio: 0.24, BlueRatio: 0.6}
	tone, confidence, probs := ClassifyTone(stats)

	assert.Equal(t, model.SkinToneVeryDark, tone)
	assert.InDelta(t, 0.8, confidence, 1e-9)
	assert.InDelta(t, 0.8/1.8, probs[5], 1e-9)
}

func TestScoreTones_Order(t *testing.T) {
	scores := ScoreTones(model.NeutralColorStatistics())
	require.Len(t, scores, len(model.SkinTones()))
	for i, tone := range model.SkinTones() {
		assert.Equal(t, tone, scores[i].Tone)
	}
}

func TestDetectUndertone(t *testing.T) {
	tests := []struct {
		name  string
		pixel model.Pixel
		want  model.Undertone
	}{
		{name: "red leaning", pixel: model.Pixel{R: 200, G: 120, B: 60}, want: model.UndertoneWarm},
		{name: "blue leaning", pixel: model.Pixel{R: 40, G: 60, B: 150}, want: model.UndertoneCool},
		{name: "balanced", pixel: model.Pixel{R: 235, G: 210, B: 195}, want: model.UndertoneNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := ComputeStatistics([]model.Pixel{tt.pixel})
			assert.Equal(t, tt.want, DetectUndertone(stats))
		})
	}
}

func TestPickUndertone_TieBreak(t *testing.T) {
	tests := []struct {
		name   string
		want   model.Undertone
		scores []UndertoneScore
	}{
		{
			name: "three-way tie",
			scores: []UndertoneScore{
				{Undertone: model.UndertoneWarm, Score: 0.5},
				{Undertone: model.UndertoneCool, Score: 0.5},
				{Undertone: model.UndertoneNeutral, Score: 0.5},
			},
			want: model.UndertoneWarm,
		},
		{
			name: "cool and neutral tie",
			scores: []UndertoneScore{
				{Undertone: model.UndertoneWarm, Score: 0.1},
				{Undertone: model.UndertoneCool, Score: 0.6},
				{Undertone: model.UndertoneNeutral, Score: 0.6},
			},
			want: model.UndertoneCool,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pickUndertone(tt.scores))
		})
	}
}

func TestClassifyPixels_Deterministic(t *testing.T) {
	pixels := []model.Pixel{
		{R: 235, G: 210, B: 195},
		{R: 180, G: 140, B: 120},
		{R: 90, G: 70, B: 60},
	}

	first := ClassifyPixels(pixels)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, ClassifyPixels(pixels))
	}
}

func TestClassifyPixels_BrightBalancedSkin(t *testing.T) {
	// Average (235, 210, 195): brightness 213.3 lands in the light band and the
	// balance term carries the neutral undertone.
	result := ClassifyPixels(pool(model.Pixel{R: 235, G: 210, B: 195}, 50))

	assert.Equal(t, model.SkinToneLight, result.SkinTone)
	assert.Equal(t, model.UndertoneNeutral, result.Undertone)
	assert.Greater(t, result.Confidence, 0.5)
	assert.Equal(t, 1.0, result.Confidence)
}

func TestClassifyPixels_EmptyPool(t *testing.T) {
	result := ClassifyPixels(nil)

	// Brightness 128 is dark; neutral ratios earn full red and blue credit.
	assert.Equal(t, model.SkinToneDark, result.SkinTone)
	assert.Equal(t, 1.0, result.Confidence)
	assert.Equal(t, model.UndertoneNeutral, result.Undertone)
	assert.Equal(t, 128.0, result.ColorStatistics.Brightness)
}

func TestBandFor(t *testing.T) {
	band, err := BandFor(model.SkinToneFair)
	require.NoError(t, err)
	assert.Equal(t, 220.0, band.Min)
	assert.Equal(t, 240.0, band.Max)
	assert.True(t, band.Contains(240))
	assert.False(t, band.Contains(240.01))

	_, err = BandFor("olive")
	assert.Error(t, err)
}

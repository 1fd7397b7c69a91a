package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/matchme/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeProfile(t *testing.T) {
	assert.Equal(t, "very fair skin with warm undertones", DescribeProfile(model.SkinToneVeryFair, model.UndertoneWarm))
	assert.Equal(t, "medium skin with neutral undertones", DescribeProfile(model.SkinToneMedium, model.UndertoneNeutral))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "$10.79 CAD", FormatPrice(10.79, "CAD"))
	assert.Equal(t, "$0.00 CAD", FormatPrice(0, ""))
	assert.Equal(t, "-", FormatRating(nil))
	assert.Equal(t, "4.5", FormatRating(model.Float64(4.5)))
}

func TestFormatMessages(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "title", got: FormatTitle("Options"), want: MatchIcon + " Options"},
		{name: "icon title", got: FormatIconTitle(ChartIcon, "Catalog"), want: ChartIcon + " Catalog"},
		{name: "error", got: FormatError("database is locked"), want: ErrorIcon + " database is locked"},
		{name: "warning", got: FormatWarning("using defaults"), want: WarningIcon + " using defaults"},
		{name: "success", got: FormatSuccess("saved"), want: SuccessIcon + " saved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.got, tt.want)
		})
	}
}

func TestRenderProducts_HeaderAlignment(t *testing.T) {
	var buf bytes.Buffer
	products := []model.Product{
		{ID: "1", Name: "Velvet Matte", Brand: "NYX", Category: model.CategoryLipstick},
	}
	require.NoError(t, RenderProducts(&buf, products))

	// Headers render on a single line so tabwriter keeps the columns aligned.
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[0], "Brand")
	assert.Contains(t, lines[0], "Shades")
}

func TestProbabilityBar(t *testing.T) {
	tests := []struct {
		name   string
		p      float64
		filled int
	}{
		{name: "empty", p: 0, filled: 0},
		{name: "half", p: 0.5, filled: 15},
		{name: "full", p: 1, filled: barWidth},
		{name: "over", p: 1.4, filled: barWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.filled, strings.Count(probabilityBar(tt.p), "█"))
		})
	}
}

func TestRenderClassification(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderClassification(&buf, model.DefaultClassification(), true))

	out := buf.String()
	assert.Contains(t, out, CameraIcon+" Skin Analysis")
	assert.Contains(t, out, "default profile")
	assert.Contains(t, out, "medium")
	assert.Contains(t, out, "neutral")
	assert.Contains(t, out, "50%")
	for _, tone := range model.SkinTones() {
		assert.Contains(t, out, string(tone))
	}
}

func TestRenderProfile(t *testing.T) {
	t.Run("no profile", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RenderProfile(&buf, nil, nil))
		assert.Contains(t, buf.String(), "No skin profile saved")
		assert.Contains(t, buf.String(), "No current products recorded")
	})

	t.Run("profile with products", func(t *testing.T) {
		var buf bytes.Buffer
		profile := &model.Profile{
			SkinTone:   model.SkinToneDark,
			Undertone:  model.UndertoneCool,
			Confidence: 0.9,
			Source:     model.SourceManual,
			AnalyzedAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
		}
		owned := []model.CurrentProductRef{
			{Name: "Velvet Matte", Brand: "NYX", Category: model.CategoryLipstick},
		}
		require.NoError(t, RenderProfile(&buf, profile, owned))

		out := buf.String()
		assert.Contains(t, out, "dark skin with cool undertones")
		assert.Contains(t, out, "90%")
		assert.Contains(t, out, "manual")
		assert.Contains(t, out, "Velvet Matte")
		assert.Contains(t, out, "lipstick")
	})
}

func TestRenderProducts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderProducts(&buf, nil))
	assert.Contains(t, buf.String(), "No products found")

	buf.Reset()
	products := []model.Product{
		{
			ID: "1", Name: "Fit Me Matte", Brand: "Maybelline", Category: model.CategoryFoundation,
			Price: 10.79, Currency: "CAD", Rating: model.Float64(4.5),
			Colors: []model.ColorSwatch{{Name: "Natural Beige", Hex: "#C8A080"}},
		},
	}
	require.NoError(t, RenderProducts(&buf, products))
	out := buf.String()
	assert.Contains(t, out, "Fit Me Matte")
	assert.Contains(t, out, "$10.79 CAD")
	assert.Contains(t, out, "4.5")
}

func TestRenderRecommendations(t *testing.T) {
	recs := model.NewCategoryRecommendations()
	lipstick := model.ScoredProduct{
		Product: model.Product{
			ID: "l1", Name: "Velvet Matte", Brand: "NYX", Category: model.CategoryLipstick,
			Price: 9.45, Currency: "CAD",
		},
		Score: 0.71,
	}
	recs[model.CategoryLipstick] = model.ScoredProducts{lipstick}

	set := &model.RecommendationSet{
		SkinTone:        model.SkinToneMedium,
		Undertone:       model.UndertoneWarm,
		Recommendations: recs,
		Highlight:       &lipstick,
		MatchingShades:  []string{"golden", "caramel"},
		Insights:        []string{"Try a new brand."},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderRecommendations(&buf, set))

	out := buf.String()
	assert.Contains(t, out, "medium skin with warm undertones")
	assert.Contains(t, out, "golden, caramel")
	assert.Contains(t, out, "Try something new: lipstick")
	assert.Contains(t, out, "LIPSTICK")
	assert.Contains(t, out, "Velvet Matte")
	assert.Contains(t, out, "0.71")
	assert.Contains(t, out, "No matches in: foundation")
	assert.Contains(t, out, "Try a new brand.")
}

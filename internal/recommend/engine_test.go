package recommend

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/matchme/internal/model"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProduct(id, name, brand string, category model.Category, hexes ...string) model.Product {
	return model.Product{
		ID:       id,
		Name:     name,
		Brand:    brand,
		Category: category,
		Price:    30,
		Currency: "CAD",
		Colors:   swatches(hexes...),
	}
}

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

func testCatalog() []model.Product {
	return []model.Product{
		newProduct("f1", "Deep Neutral Foundation", "Acme", model.CategoryFoundation, "#505050"),
		newProduct("f2", "Porcelain Foundation", "Acme", model.CategoryFoundation, "#FFFFFF"),
		newProduct("c1", "Soft Concealer", "Fenty", model.CategoryConcealer, "#4B4B4B"),
		newProduct("b1", "Peach Blush", "Glossier", model.CategoryBlush, "#FFCBA4"),
		newProduct("l1", "Velvet Matte", "Acme", model.CategoryLipstick, "#C04000"),
		newProduct("l2", "Glass Gloss", "Acme", model.CategoryLipstick),
		newProduct("o1", "Brow Gel", "Acme", model.CategoryOther),
	}
}

func TestEngine_DeepNeutralFoundation(t *testing.T) {
	engine := NewEngine(testCatalog(), WithClock(fixedClock))

	set, err := engine.Recommend(Request{SkinTone: model.SkinToneVeryDark, Undertone: model.UndertoneNeutral})
	require.NoError(t, err)

	foundations := set.Recommendations[model.CategoryFoundation]
	require.Len(t, foundations, 1)
	assert.Equal(t, "f1", foundations[0].ID)
	assert.Equal(t, fixedClock(), set.GeneratedAt)
	assert.Equal(t, []string{"deep_neutral", "rich_neutral", "deep", "chocolate_neutral"}, set.MatchingShades)
}

func TestEngine_AlwaysCarriesEveryCategory(t *testing.T) {
	engine := NewEngine(testCatalog())

	set, err := engine.Recommend(Request{SkinTone: model.SkinToneLight, Undertone: model.UndertoneWarm})
	require.NoError(t, err)

	for _, category := range model.RecommendationCategories() {
		items, ok := set.Recommendations[category]
		assert.True(t, ok, "missing %s", category)
		assert.NotNil(t, items)
	}
	_, hasOther := set.Recommendations[model.CategoryOther]
	assert.False(t, hasOther)

	data, err := json.Marshal(set)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"mascara":[]`)
	assert.Contains(t, string(data), `"score":`)
}

func TestEngine_ListSizeInvariant(t *testing.T) {
	for n := 0; n <= 8; n++ {
		t.Run(fmt.Sprintf("%d products", n), func(t *testing.T) {
			var catalog []model.Product
			for i := 0; i < n; i++ {
				catalog = append(catalog, newProduct(fmt.Sprintf("b%d", i), fmt.Sprintf("Blush %d", i), "Acme", model.CategoryBlush))
			}

			set, err := NewEngine(catalog).Recommend(Request{SkinTone: model.SkinToneMedium, Undertone: model.UndertoneCool})
			require.NoError(t, err)
			assert.Len(t, set.Recommendations[model.CategoryBlush], min(DefaultPerCategory, n))
		})
	}
}

func TestEngine_StableTies(t *testing.T) {
	var catalog []model.Product
	for i := 0; i < 7; i++ {
		catalog = append(catalog, newProduct(fmt.Sprintf("e%d", i), fmt.Sprintf("Shadow %d", i), "Acme", model.CategoryEyeshadow))
	}

	set, err := NewEngine(catalog).Recommend(Request{SkinTone: model.SkinToneFair, Undertone: model.UndertoneNeutral})
	require.NoError(t, err)

	got := set.Recommendations[model.CategoryEyeshadow]
	require.Len(t, got, 5)
	for i, item := range got {
		assert.Equal(t, fmt.Sprintf("e%d", i), item.ID)
	}
}

func TestEngine_RanksByScore(t *testing.T) {
	catalog := []model.Product{
		newProduct("m1", "Plain Mascara", "Acme", model.CategoryMascara),
		newProduct("m2", "Popular Mascara", "NYX", model.CategoryMascara),
	}
	catalog[0].Rating = model.Float64(2)

	set, err := NewEngine(catalog).Recommend(Request{SkinTone: model.SkinToneMedium, Undertone: model.UndertoneWarm})
	require.NoError(t, err)

	got := set.Recommendations[model.CategoryMascara]
	require.Len(t, got, 2)
	assert.Equal(t, "m2", got[0].ID)
	assert.Greater(t, got[0].Score, got[1].Score)
}

func TestEngine_WithPerCategory(t *testing.T) {
	var catalog []model.Product
	for i := 0; i < 4; i++ {
		catalog = append(catalog, newProduct(fmt.Sprintf("h%d", i), fmt.Sprintf("Glow %d", i), "Acme", model.CategoryHighlighter))
	}

	set, err := NewEngine(catalog, WithPerCategory(2)).Recommend(Request{SkinTone: model.SkinToneDark, Undertone: model.UndertoneWarm})
	require.NoError(t, err)
	assert.Len(t, set.Recommendations[model.CategoryHighlighter], 2)
}

func TestEngine_WithWeights(t *testing.T) {
	catalog := []model.Product{
		newProduct("m1", "Cheap Mascara", "NYX", model.CategoryMascara),
		newProduct("m2", "Loved Mascara", "Acme", model.CategoryMascara),
	}
	catalog[0].Price = 5
	catalog[0].Rating = model.Float64(3)
	catalog[1].Price = 80
	catalog[1].Rating = model.Float64(5)
	req := Request{SkinTone: model.SkinToneMedium, Undertone: model.UndertoneWarm}

	byPrice, err := NewEngine(catalog, WithWeights(ScoreWeights{Price: 1})).Recommend(req)
	require.NoError(t, err)
	assert.Equal(t, "m1", byPrice.Recommendations[model.CategoryMascara][0].ID)

	byRating, err := NewEngine(catalog, WithWeights(ScoreWeights{Rating: 1})).Recommend(req)
	require.NoError(t, err)
	top := byRating.Recommendations[model.CategoryMascara][0]
	assert.Equal(t, "m2", top.ID)
	assert.InDelta(t, 1.0, top.Score, 1e-9)
}

func TestEngine_CatalogSize(t *testing.T) {
	assert.Equal(t, len(testCatalog()), NewEngine(testCatalog()).CatalogSize())
	assert.Equal(t, 0, NewEngine(nil).CatalogSize())
}

func TestEngine_NoveltyFilter(t *testing.T) {
	engine := NewEngine(testCatalog())

	set, err := engine.Recommend(Request{
		SkinTone:  model.SkinToneMedium,
		Undertone: model.UndertoneWarm,
		CurrentProducts: []model.CurrentProductRef{
			{Name: "velvet matte", Brand: "Other Brand", Category: model.CategoryLipstick},
		},
	})
	require.NoError(t, err)

	lipsticks := set.Recommendations[model.CategoryLipstick]
	require.Len(t, lipsticks, 1)
	assert.Equal(t, "l2", lipsticks[0].ID)
}

func TestEngine_BrandOverlapDoesNotExclude(t *testing.T) {
	engine := NewEngine(testCatalog())

	set, err := engine.Recommend(Request{
		SkinTone:  model.SkinToneMedium,
		Undertone: model.UndertoneWarm,
		CurrentProducts: []model.CurrentProductRef{
			{Name: "Something Else", Brand: "Acme", Category: model.CategoryLipstick},
		},
	})
	require.NoError(t, err)
	assert.Len(t, set.Recommendations[model.CategoryLipstick], 2)
}

func TestEngine_Highlight(t *testing.T) {
	engine := NewEngine(testCatalog())

	t.Run("first unused category with products", func(t *testing.T) {
		set, err := engine.Recommend(Request{
			SkinTone:  model.SkinToneVeryDark,
			Undertone: model.UndertoneNeutral,
			CurrentProducts: []model.CurrentProductRef{
				{Name: "My Foundation", Brand: "Acme", Category: model.CategoryFoundation},
			},
		})
		require.NoError(t, err)
		require.NotNil(t, set.Highlight)
		assert.Equal(t, "c1", set.Highlight.ID)
	})

	t.Run("no owned products", func(t *testing.T) {
		set, err := engine.Recommend(Request{SkinTone: model.SkinToneVeryDark, Undertone: model.UndertoneNeutral})
		require.NoError(t, err)
		require.NotNil(t, set.Highlight)
		assert.Equal(t, "f1", set.Highlight.ID)
	})

	t.Run("nothing to highlight", func(t *testing.T) {
		set, err := NewEngine(nil).Recommend(Request{SkinTone: model.SkinToneFair, Undertone: model.UndertoneCool})
		require.NoError(t, err)
		assert.Nil(t, set.Highlight)
		assert.Zero(t, set.Total())
	})
}

func TestEngine_DoesNotMutateCatalog(t *testing.T) {
	catalog := testCatalog()
	before := testCatalog()

	engine := NewEngine(catalog)
	for _, tone := range model.SkinTones() {
		for _, undertone := range model.Undertones() {
			_, err := engine.Recommend(Request{SkinTone: tone, Undertone: undertone})
			require.NoError(t, err)
		}
	}

	assert.Equal(t, before, catalog)
}

func TestEngine_Deterministic(t *testing.T) {
	engine := NewEngine(testCatalog(), WithClock(fixedClock))
	req := Request{
		SkinTone:  model.SkinToneLight,
		Undertone: model.UndertoneNeutral,
		CurrentProducts: []model.CurrentProductRef{
			{Name: "Peach Blush", Brand: "Glossier", Category: model.CategoryBlush},
		},
	}

	first, err := engine.Recommend(req)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]model.RecommendationSet, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = engine.Recommend(req)
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, first, got)
	}
}

func TestEngine_InvalidRequest(t *testing.T) {
	engine := NewEngine(testCatalog())

	_, err := engine.Recommend(Request{SkinTone: "olive", Undertone: model.UndertoneWarm})
	assert.Error(t, err)

	_, err = engine.Recommend(Request{SkinTone: model.SkinToneFair, Undertone: "pink"})
	assert.Error(t, err)

	_, err = engine.Recommend(Request{
		SkinTone:        model.SkinToneFair,
		Undertone:       model.UndertoneWarm,
		CurrentProducts: []model.CurrentProductRef{{Name: "", Brand: "Acme", Category: model.CategoryBlush}},
	})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "current product 0"))
}

func TestMatchingShades(t *testing.T) {
	shades := MatchingShades(model.SkinToneMedium, model.UndertoneWarm)
	assert.Equal(t, []string{"medium_warm", "tan_warm", "golden", "honey"}, shades)

	shades[0] = "changed"
	assert.Equal(t, "medium_warm", MatchingShades(model.SkinToneMedium, model.UndertoneWarm)[0])

	assert.Empty(t, MatchingShades("olive", model.UndertoneWarm))
}

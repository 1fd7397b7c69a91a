package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/matchme/internal/common"
	"github.com/Veraticus/matchme/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `id,brand,name,price,currency,image_link,description,rating,category,product_type,tag_list,product_colors
1048,colourpop,Lippie Pencil,5.0,USD,//cdn.shopify.com/lip.png,A pencil,,pencil,lip_liner,"['cruelty free', 'Vegan']","[{'hex_value': '#B28378', 'colour_name': 'BFF Pencil'}]"
,fenty,Pro Filt'r Foundation,40,CAD,www.fenty.com/f.png,,4.5,,foundation,vegan,"[{'hex_value': '#F2DEC3', 'colour_name': 'Natural'}, {'hex_value': '#8B5A2B', 'colour_name': 'Mocha'}]"
7,,No Brand,10,USD,,,,,blush,,
8,nyx,Brow Gel,,EUR,not a url,,9,,eyebrow,,
`

func fixedIDs() LoaderOption {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("generated-%d", n)
	})
}

func TestLoader_LoadCSV(t *testing.T) {
	result, err := NewLoader(fixedIDs()).LoadCSV(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)

	require.Len(t, result.Products, 3)
	assert.Equal(t, 1, result.Skipped)

	pencil := result.Products[0]
	assert.Equal(t, "1048", pencil.ID)
	assert.Equal(t, model.CategoryLipstick, pencil.Category)
	assert.InDelta(t, 6.75, pencil.Price, 1e-9)
	assert.Equal(t, "CAD", pencil.Currency)
	assert.Equal(t, "https://cdn.shopify.com/lip.png", pencil.Image)
	assert.Nil(t, pencil.Rating)
	assert.Equal(t, []string{"cruelty free", "Vegan"}, pencil.Tags)
	assert.Equal(t, []model.ColorSwatch{{Name: "BFF Pencil", Hex: "#B28378"}}, pencil.Colors)

	foundation := result.Products[1]
	assert.Equal(t, "generated-1", foundation.ID)
	assert.Equal(t, "Pro Filt'r Foundation", foundation.Name)
	assert.Equal(t, model.CategoryFoundation, foundation.Category)
	assert.InDelta(t, 40.0, foundation.Price, 1e-9)
	require.NotNil(t, foundation.Rating)
	assert.Equal(t, 4.5, *foundation.Rating)
	assert.Equal(t, "https://www.fenty.com/f.png", foundation.Image)
	assert.Len(t, foundation.Colors, 2)

	brow := result.Products[2]
	assert.Equal(t, model.CategoryOther, brow.Category)
	assert.Equal(t, 0.0, brow.Price)
	assert.Nil(t, brow.Rating, "out of range rating is dropped")
	assert.Equal(t, PlaceholderImage, brow.Image)
}

func TestLoader_LoadJSON(t *testing.T) {
	data := `[
		{"id": 495, "brand": "maybelline", "name": "Fit Me", "price": "7.99", "currency": null,
		 "rating": 4.2, "category": "liquid", "product_type": "foundation",
		 "image_link": "https://img.example.com/fitme.jpg", "tag_list": ["Natural"],
		 "product_colors": [{"hex_value": "#C88D6D", "colour_name": "Toffee"}]},
		{"brand": "glossier", "name": "Cloud Paint", "price": 18, "currency": "USD",
		 "rating": null, "category": "", "product_type": "blush", "tag_list": [],
		 "product_colors": [{"hex_value": "#F3A49B", "colour_name": "Dusk"}]},
		{"brand": "nameless"}
	]`

	result, err := NewLoader(fixedIDs()).LoadJSON(context.Background(), strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, result.Products, 2)
	assert.Equal(t, 1, result.Skipped)

	fitMe := result.Products[0]
	assert.Equal(t, "495", fitMe.ID)
	assert.Equal(t, model.CategoryFoundation, fitMe.Category)
	assert.InDelta(t, 10.79, fitMe.Price, 1e-9)
	require.NotNil(t, fitMe.Rating)
	assert.Equal(t, 4.2, *fitMe.Rating)
	assert.Equal(t, []string{"Natural"}, fitMe.Tags)
	assert.Equal(t, []model.ColorSwatch{{Name: "Toffee", Hex: "#C88D6D"}}, fitMe.Colors)

	cloud := result.Products[1]
	assert.Equal(t, "generated-1", cloud.ID)
	assert.Equal(t, model.CategoryBlush, cloud.Category)
	assert.Nil(t, cloud.Rating)
	assert.Equal(t, []string{}, cloud.Tags)
}

func TestLoader_LoadJSON_Invalid(t *testing.T) {
	_, err := NewLoader().LoadJSON(context.Background(), strings.NewReader(`{"not": "an array"}`))
	assert.Error(t, err)

	result, err := NewLoader().LoadJSON(context.Background(), strings.NewReader("[]"))
	require.NoError(t, err)
	assert.Empty(t, result.Products)
}

func TestLoader_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader().LoadJSON(ctx, strings.NewReader(`[{"name": "A", "brand": "B"}]`))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoader_LoadFile(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "catalog.CSV")
	require.NoError(t, os.WriteFile(csvPath, []byte(sampleCSV), 0o600))

	result, err := NewLoader().LoadFile(context.Background(), csvPath)
	require.NoError(t, err)
	assert.Len(t, result.Products, 3)

	_, err = NewLoader().LoadFile(context.Background(), filepath.Join(dir, "catalog.xml"))
	assert.ErrorIs(t, err, common.ErrUnsupportedCatalog)

	_, err = NewLoader().LoadFile(context.Background(), filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestQuery_Apply(t *testing.T) {
	products := []model.Product{
		{ID: "1", Name: "A", Brand: "Fenty Beauty", Category: model.CategoryFoundation, Price: 40},
		{ID: "2", Name: "B", Brand: "NYX", Category: model.CategoryLipstick, Price: 8},
		{ID: "3", Name: "C", Brand: "nyx", Category: model.CategoryFoundation, Price: 15},
	}

	ids := func(ps []model.Product) []string {
		out := make([]string, len(ps))
		for i, p := range ps {
			out[i] = p.ID
		}
		return out
	}

	assert.Equal(t, []string{"1", "3"}, ids(Query{Category: model.CategoryFoundation}.Apply(products)))
	assert.Equal(t, []string{"1"}, ids(Query{Brand: "fenty"}.Apply(products)))
	assert.Equal(t, []string{"1"}, ids(Query{ExcludeBrands: []string{"NYX"}}.Apply(products)))
	assert.Equal(t, []string{"3"}, ids(Query{MinPrice: 10, MaxPrice: 20}.Apply(products)))
	assert.Len(t, Query{}.Apply(products), 3)
}

func TestTopRated(t *testing.T) {
	products := []model.Product{
		{ID: "unrated"},
		{ID: "good", Rating: model.Float64(4.0)},
		{ID: "best", Rating: model.Float64(4.9)},
		{ID: "also-good", Rating: model.Float64(4.0)},
	}

	top := TopRated(products, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "best", top[0].ID)
	assert.Equal(t, "good", top[1].ID)

	assert.Len(t, TopRated(products, 0), 3)
}

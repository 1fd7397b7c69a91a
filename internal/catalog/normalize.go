// Package catalog imports product catalogs from CSV and JSON exports and
// normalizes them into model.Product records.
package catalog

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/Veraticus/matchme/internal/common"
	"github.com/Veraticus/matchme/internal/model"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// PlaceholderImage replaces missing or invalid image URLs.
const PlaceholderImage = "https://via.placeholder.com/300x300?text=No+Image"

// CatalogCurrency is the currency every imported price is converted to.
const CatalogCurrency = "CAD"

// defaultSourceCurrency is assumed when a record has no currency.
const defaultSourceCurrency = "USD"

// UnknownColorHex is used for color names missing from the named-color table.
const UnknownColorHex = "#CCCCCC"

// cadRates converts one unit of a currency to CAD.
var cadRates = map[string]decimal.Decimal{
	"USD": decimal.RequireFromString("1.35"),
	"EUR": decimal.RequireFromString("1.47"),
	"GBP": decimal.RequireFromString("1.72"),
	"CAD": decimal.NewFromInt(1),
}

// ConvertToCAD converts a price to CAD, rounded half away from zero to cents.
// Unknown currencies convert at 1.0 and non-positive prices become 0.
func ConvertToCAD(price float64, currency string) float64 {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0
	}
	rate, ok := cadRates[strings.ToUpper(strings.TrimSpace(currency))]
	if !ok {
		rate = decimal.NewFromInt(1)
	}
	return decimal.NewFromFloat(price).Mul(rate).Round(2).InexactFloat64()
}

var categoryAliases = map[string]model.Category{
	"foundation":  model.CategoryFoundation,
	"liquid":      model.CategoryFoundation,
	"powder":      model.CategoryFoundation,
	"concealer":   model.CategoryConcealer,
	"lipstick":    model.CategoryLipstick,
	"lip_gloss":   model.CategoryLipstick,
	"lip_liner":   model.CategoryLipstick,
	"eyeshadow":   model.CategoryEyeshadow,
	"eyeliner":    model.CategoryEyeliner,
	"mascara":     model.CategoryMascara,
	"blush":       model.CategoryBlush,
	"bronzer":     model.CategoryBronzer,
	"highlighter": model.CategoryHighlighter,
}

// MapCategory maps a raw dataset category onto the catalog categories.
// Anything unmapped, eyebrow products included, becomes other.
func MapCategory(raw string) model.Category {
	if c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return c
	}
	return model.CategoryOther
}

// resolveCategory tries the category column first and the product type second.
func resolveCategory(category, productType string) model.Category {
	if c := MapCategory(category); c != model.CategoryOther {
		return c
	}
	return MapCategory(productType)
}

// NormalizeImageURL adds a scheme to protocol-relative and bare host URLs and
// falls back to PlaceholderImage for anything that still is not absolute.
func NormalizeImageURL(raw string) string {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return PlaceholderImage
	}

	if strings.HasPrefix(clean, "//") {
		clean = "https:" + clean
	}

	switch {
	case strings.HasPrefix(clean, "http://"), strings.HasPrefix(clean, "https://"):
	case strings.HasPrefix(clean, "www."), strings.Contains(clean, "."):
		clean = "https://" + clean
	}

	u, err := url.Parse(clean)
	if err != nil || u.Scheme == "" || u.Host == "" {
		common.LogDebug("Invalid image URL, using placeholder", common.Fields{"url": raw})
		return PlaceholderImage
	}
	return clean
}

// ParseTags accepts a JSON array, a python-style list string, a comma
// separated string or a single tag.
func ParseTags(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return []string{}
	case []any:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				tags = append(tags, strings.TrimSpace(s))
			}
		}
		return tags
	case []string:
		return ParseTags(toAnySlice(v))
	case string:
		return parseTagString(v)
	default:
		return []string{}
	}
}

func toAnySlice(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func parseTagString(s string) []string {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return []string{}
	case strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"):
		var tags []string
		if err := json.Unmarshal([]byte(strings.ReplaceAll(s, "'", `"`)), &tags); err != nil {
			common.LogDebug("Failed to parse tag list", common.Fields{"tags": s, "error": err.Error()})
			return []string{}
		}
		return tags
	case strings.Contains(s, ","):
		parts := strings.Split(s, ",")
		tags := make([]string, 0, len(parts))
		for _, part := range parts {
			tags = append(tags, strings.NewReplacer(`'`, "", `"`, "").Replace(strings.TrimSpace(part)))
		}
		return tags
	default:
		return []string{s}
	}
}

var namedColors = map[string]string{
	"black":     "#000000",
	"white":     "#FFFFFF",
	"red":       "#FF0000",
	"blue":      "#0000FF",
	"green":     "#008000",
	"yellow":    "#FFFF00",
	"pink":      "#FFC0CB",
	"purple":    "#800080",
	"orange":    "#FFA500",
	"brown":     "#A52A2A",
	"gray":      "#808080",
	"gold":      "#FFD700",
	"silver":    "#C0C0C0",
	"bronze":    "#CD7F32",
	"copper":    "#B87333",
	"rose":      "#FF007F",
	"coral":     "#FF7F50",
	"peach":     "#FFCBA4",
	"nude":      "#E3BC9A",
	"beige":     "#F5F5DC",
	"ivory":     "#FFFFF0",
	"cream":     "#FFFDD0",
	"tan":       "#D2B48C",
	"caramel":   "#C68E17",
	"honey":     "#FDB347",
	"amber":     "#FFBF00",
	"mahogany":  "#C04000",
	"espresso":  "#4A3728",
	"chocolate": "#7B3F00",
}

// NamedColorHex returns the hex value of a common color name.
func NamedColorHex(name string) string {
	if hex, ok := namedColors[strings.ToLower(strings.TrimSpace(name))]; ok {
		return hex
	}
	return UnknownColorHex
}

var (
	swatchPairPattern = regexp.MustCompile(`\{[^}]*hex_value['"]?\s*:\s*['"](#[0-9A-Fa-f]{6})['"],?\s*['"]?colour_name['"]?\s*:\s*['"]([^'"]*)['"][^}]*\}`)
	bareHexPattern    = regexp.MustCompile(`#[0-9A-Fa-f]{6}`)
	colourNamePattern = regexp.MustCompile(`colour_name['"]?\s*:\s*['"]([^'"]*)['"]`)
)

// ParseColors extracts swatches from decoded JSON values or from the
// python-style list strings found in CSV exports. Entries whose hex does not
// start with '#' are dropped.
func ParseColors(raw any) []model.ColorSwatch {
	var items []any
	switch v := raw.(type) {
	case nil:
		return []model.ColorSwatch{}
	case []any:
		items = v
	case map[string]any:
		items = []any{v}
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return []model.ColorSwatch{}
		}
		if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
			if err := json.Unmarshal([]byte(strings.ReplaceAll(s, "'", `"`)), &items); err != nil {
				items = extractSwatches(s)
			}
		} else {
			items = []any{v}
		}
	default:
		return []model.ColorSwatch{}
	}

	swatches := make([]model.ColorSwatch, 0, len(items))
	for _, item := range items {
		swatch, ok := swatchFrom(item)
		if !ok || !strings.HasPrefix(swatch.Hex, "#") {
			continue
		}
		swatches = append(swatches, swatch)
	}
	if len(swatches) == 0 && len(items) > 0 {
		common.LogDebug("Color parsing produced no swatches", common.Fields{"colors": raw})
	}
	return swatches
}

// extractSwatches recovers hex and name pairs from strings that are not valid
// JSON, such as names containing apostrophes.
func extractSwatches(s string) []any {
	var items []any
	for _, m := range swatchPairPattern.FindAllStringSubmatch(s, -1) {
		items = append(items, map[string]any{"hex_value": m[1], "colour_name": m[2]})
	}
	if len(items) > 0 {
		return items
	}

	hexes := bareHexPattern.FindAllString(s, -1)
	names := colourNamePattern.FindAllStringSubmatch(s, -1)
	for i, hex := range hexes {
		name := "Color " + strconv.Itoa(i+1)
		if i < len(names) {
			name = names[i][1]
		}
		items = append(items, map[string]any{"hex_value": hex, "colour_name": name})
	}
	return items
}

func swatchFrom(item any) (model.ColorSwatch, bool) {
	switch v := item.(type) {
	case string:
		return model.ColorSwatch{Name: v, Hex: NamedColorHex(v)}, true
	case map[string]any:
		if hex := stringField(v, "hex_value"); hex != "" {
			return model.ColorSwatch{Name: orDefault(stringField(v, "colour_name"), hex), Hex: hex}, true
		}
		if hex := stringField(v, "hex"); hex != "" {
			return model.ColorSwatch{Name: orDefault(stringField(v, "name"), hex), Hex: hex}, true
		}
	}
	return model.ColorSwatch{}, false
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

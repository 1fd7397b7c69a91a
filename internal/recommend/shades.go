package recommend

import "github.com/Veraticus/matchme/internal/model"

var shadeFamilies = map[profileKey][]string{
	{model.SkinToneVeryFair, model.UndertoneWarm}:    {"porcelain_warm", "ivory_warm", "fair_warm", "alabaster"},
	{model.SkinToneVeryFair, model.UndertoneCool}:    {"porcelain_cool", "ivory_cool", "fair_cool", "alabaster_cool"},
	{model.SkinToneVeryFair, model.UndertoneNeutral}: {"porcelain", "ivory", "fair_neutral", "alabaster_neutral"},
	{model.SkinToneFair, model.UndertoneWarm}:        {"fair_warm", "light_warm", "beige_warm", "vanilla"},
	{model.SkinToneFair, model.UndertoneCool}:        {"fair_cool", "light_cool", "beige_cool", "vanilla_cool"},
	{model.SkinToneFair, model.UndertoneNeutral}:     {"fair_neutral", "light_neutral", "beige", "vanilla_neutral"},
	{model.SkinToneLight, model.UndertoneWarm}:       {"light_warm", "medium_warm", "beige_warm", "sand"},
	{model.SkinToneLight, model.UndertoneCool}:       {"light_cool", "medium_cool", "beige_cool", "sand_cool"},
	{model.SkinToneLight, model.UndertoneNeutral}:    {"light_neutral", "medium_neutral", "beige", "sand_neutral"},
	{model.SkinToneMedium, model.UndertoneWarm}:      {"medium_warm", "tan_warm", "golden", "honey"},
	{model.SkinToneMedium, model.UndertoneCool}:      {"medium_cool", "tan_cool", "olive", "honey_cool"},
	{model.SkinToneMedium, model.UndertoneNeutral}:   {"medium_neutral", "tan", "natural", "honey_neutral"},
	{model.SkinToneDark, model.UndertoneWarm}:        {"dark_warm", "deep_warm", "caramel", "mocha"},
	{model.SkinToneDark, model.UndertoneCool}:        {"dark_cool", "deep_cool", "mahogany", "mocha_cool"},
	{model.SkinToneDark, model.UndertoneNeutral}:     {"dark_neutral", "deep_neutral", "rich", "mocha_neutral"},
	{model.SkinToneVeryDark, model.UndertoneWarm}:    {"deep_warm", "rich_warm", "espresso", "chocolate"},
	{model.SkinToneVeryDark, model.UndertoneCool}:    {"deep_cool", "rich_cool", "ebony", "chocolate_cool"},
	{model.SkinToneVeryDark, model.UndertoneNeutral}: {"deep_neutral", "rich_neutral", "deep", "chocolate_neutral"},
}

// MatchingShades returns the shade-name families suggested for a profile.
// Unknown combinations get an empty list.
func MatchingShades(tone model.SkinTone, undertone model.Undertone) []string {
	family := shadeFamilies[profileKey{tone, undertone}]
	out := make([]string, len(family))
	copy(out, family)
	return out
}

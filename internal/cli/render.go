package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/matchme/internal/model"
)

const barWidth = 30

// DescribeProfile renders a tone and undertone pair for humans, for example
// "very fair skin with warm undertones".
func DescribeProfile(tone model.SkinTone, undertone model.Undertone) string {
	return fmt.Sprintf("%s skin with %s undertones", strings.ReplaceAll(string(tone), "_", " "), undertone)
}

// FormatPrice renders a price in its currency.
func FormatPrice(price float64, currency string) string {
	if currency == "" {
		currency = "CAD"
	}
	return fmt.Sprintf("$%.2f %s", price, currency)
}

// FormatRating renders a product rating, or a dash when unrated.
func FormatRating(rating *float64) string {
	if rating == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *rating)
}

// probabilityBar draws a fixed-width bar for a value in [0, 1].
func probabilityBar(p float64) string {
	filled := int(p*barWidth + 0.5)
	filled = max(0, min(filled, barWidth))
	return strings.Repeat("█", filled) + SubtleStyle.Render(strings.Repeat("░", barWidth-filled))
}

// RenderClassification writes an analysis result with its band probabilities.
func RenderClassification(w io.Writer, result model.ClassificationResult, degraded bool) error {
	var b strings.Builder

	b.WriteString(FormatIconTitle(CameraIcon, "Skin Analysis") + "\n")
	if degraded {
		b.WriteString(FormatWarning("The photo could not be analyzed; showing the default profile.") + "\n\n")
	}

	fmt.Fprintf(&b, "  Skin tone:  %s\n", BoldStyle.Render(string(result.SkinTone)))
	fmt.Fprintf(&b, "  Undertone:  %s\n", BoldStyle.Render(string(result.Undertone)))
	fmt.Fprintf(&b, "  Confidence: %s\n\n", AccentStyle.Render(fmt.Sprintf("%.0f%%", result.Confidence*100)))

	b.WriteString(SubtitleStyle.UnsetMargins().Render("Tone probabilities") + "\n")
	for i, tone := range model.SkinTones() {
		p := result.Probabilities[i]
		label := fmt.Sprintf("%-10s", tone)
		if tone == result.SkinTone {
			label = BoldStyle.Render(label)
		}
		fmt.Fprintf(&b, "  %s %s %5.1f%%\n", label, probabilityBar(p), p*100)
	}

	stats := result.ColorStatistics
	fmt.Fprintf(&b, "\n%s\n", SubtleStyle.Render(fmt.Sprintf(
		"Average RGB (%.0f, %.0f, %.0f), brightness %.1f, %d skin samples",
		stats.AvgR, stats.AvgG, stats.AvgB, stats.Brightness, stats.Samples)))

	_, err := fmt.Fprint(w, b.String())
	return err
}

// RenderProfile writes the saved profile and the owned products.
func RenderProfile(w io.Writer, profile *model.Profile, owned []model.CurrentProductRef) error {
	var b strings.Builder

	if profile == nil {
		b.WriteString(FormatInfo("No skin profile saved. Run 'matchme analyze --save <photo>' or 'matchme profile set'.") + "\n")
	} else {
		content := fmt.Sprintf("%s\nConfidence %.0f%% (%s), updated %s",
			BoldStyle.Render(DescribeProfile(profile.SkinTone, profile.Undertone)),
			profile.Confidence*100,
			strings.ToLower(string(profile.Source)),
			profile.AnalyzedAt.Local().Format("Jan 2, 2006 15:04"))
		b.WriteString(RenderBox(MatchIcon+" Your Profile", content) + "\n")
	}

	if len(owned) == 0 {
		b.WriteString(SubtleStyle.Render("No current products recorded.") + "\n")
		_, err := fmt.Fprint(w, b.String())
		return err
	}

	b.WriteString("\n" + SubtitleStyle.UnsetMargins().Render("Current products") + "\n")
	if _, err := fmt.Fprint(w, b.String()); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\n",
		TableHeaderStyle.Render("Name"),
		TableHeaderStyle.Render("Brand"),
		TableHeaderStyle.Render("Category"))
	for _, ref := range owned {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", ref.Name, ref.Brand, ref.Category)
	}
	return tw.Flush()
}

// RenderProducts writes a catalog listing.
func RenderProducts(w io.Writer, products []model.Product) error {
	if len(products) == 0 {
		_, err := fmt.Fprintln(w, InfoStyle.Render("No products found. Use 'matchme catalog import <file>' to load a catalog."))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
		TableHeaderStyle.Render("Brand"),
		TableHeaderStyle.Render("Name"),
		TableHeaderStyle.Render("Category"),
		TableHeaderStyle.Render("Price"),
		TableHeaderStyle.Render("Rating"),
		TableHeaderStyle.Render("Shades"))
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
		strings.Repeat("-", 12),
		strings.Repeat("-", 24),
		strings.Repeat("-", 11),
		strings.Repeat("-", 12),
		strings.Repeat("-", 6),
		strings.Repeat("-", 6))
	for i := range products {
		p := &products[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
			p.Brand, p.Name, p.Category, FormatPrice(p.Price, p.Currency), FormatRating(p.Rating), len(p.Colors))
	}
	return tw.Flush()
}

// RenderRecommendations writes a recommendation set grouped by category.
// Categories without matches are listed together at the end.
func RenderRecommendations(w io.Writer, set *model.RecommendationSet) error {
	var b strings.Builder

	b.WriteString(FormatTitle("Recommendations for "+DescribeProfile(set.SkinTone, set.Undertone)) + "\n")

	if len(set.MatchingShades) > 0 {
		fmt.Fprintf(&b, "%s %s\n\n", SparkleIcon, InfoStyle.Render("Shades to look for: "+strings.Join(set.MatchingShades, ", ")))
	}

	if set.Highlight != nil {
		h := set.Highlight
		content := fmt.Sprintf("%s by %s\n%s  %s %s  score %s",
			BoldStyle.Render(h.Name), h.Brand,
			AccentStyle.Render(FormatPrice(h.Price, h.Currency)),
			StarIcon, FormatRating(h.Rating),
			AccentStyle.Render(fmt.Sprintf("%.2f", h.Score)))
		b.WriteString(RenderBox("Try something new: "+string(h.Category), content) + "\n\n")
	}

	if _, err := fmt.Fprint(w, b.String()); err != nil {
		return err
	}
	b.Reset()

	var empty []string
	for _, category := range model.RecommendationCategories() {
		items := set.Recommendations[category]
		if len(items) == 0 {
			empty = append(empty, string(category))
			continue
		}

		if _, err := fmt.Fprintln(w, TableHeaderStyle.Render(strings.ToUpper(string(category)))); err != nil {
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for i := range items {
			item := &items[i]
			fmt.Fprintf(tw, "  %d.\t%s\t%s\t%s\t%s\t%s\n",
				i+1,
				item.Brand,
				item.Name,
				FormatPrice(item.Price, item.Currency),
				FormatRating(item.Rating),
				AccentStyle.Render(fmt.Sprintf("%.2f", item.Score)))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	if len(empty) > 0 {
		b.WriteString(SubtleStyle.Render("No matches in: "+strings.Join(empty, ", ")) + "\n\n")
	}

	if len(set.Insights) > 0 {
		b.WriteString(SubtitleStyle.UnsetMargins().Render("Insights") + "\n")
		for _, insight := range set.Insights {
			fmt.Fprintf(&b, "  • %s\n", insight)
		}
	}

	_, err := fmt.Fprint(w, b.String())
	return err
}

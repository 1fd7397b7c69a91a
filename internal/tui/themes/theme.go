// Package themes holds the color themes of the interactive browser.
package themes

import (
	"github.com/Veraticus/matchme/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Muted         lipgloss.Style
	ActiveTab     lipgloss.Style
	InactiveTab   lipgloss.Style
	TableHeader   lipgloss.Style
	TableSelected lipgloss.Style
	RoundedBox    lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusWarning lipgloss.Style
	Score         lipgloss.Style
	Primary       lipgloss.Color
	Secondary     lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	MutedColor    lipgloss.Color
}

// Default is the default theme.
var Default = newTheme(
	lipgloss.Color("#e8718d"),
	lipgloss.Color("#c3a6d8"),
	lipgloss.Color("#404040"),
	lipgloss.Color("#fafafa"),
	lipgloss.Color("#737373"),
)

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(
	lipgloss.Color("#f5c2e7"),
	lipgloss.Color("#cba6f7"),
	lipgloss.Color("#45475a"),
	lipgloss.Color("#cdd6f4"),
	lipgloss.Color("#6c7086"),
)

func newTheme(primary, secondary, border, fg, muted lipgloss.Color) Theme {
	return Theme{
		Primary:    primary,
		Secondary:  secondary,
		Border:     border,
		Foreground: fg,
		MutedColor: muted,

		// Text styles
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),
		Subtitle: lipgloss.NewStyle().
			Foreground(secondary),
		Normal: lipgloss.NewStyle().
			Foreground(fg),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg),
		Muted: lipgloss.NewStyle().
			Foreground(muted),

		// Tabs
		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg).
			Background(primary).
			Padding(0, 1),
		InactiveTab: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),

		// Table
		TableHeader: lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(border),
		TableSelected: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg).
			Background(secondary),

		// Component styles
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),

		// Status styles
		StatusInfo: lipgloss.NewStyle().
			Foreground(secondary).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f59e0b")).
			Bold(true),
		Score: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f4c095")),
	}
}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

// CategoryIcons maps product categories to emoji icons.
var CategoryIcons = map[model.Category]string{
	model.CategoryFoundation:  "🧴",
	model.CategoryConcealer:   "🖌️",
	model.CategoryPowder:      "🌫️",
	model.CategoryBlush:       "🌸",
	model.CategoryBronzer:     "☀️",
	model.CategoryHighlighter: "✨",
	model.CategoryLipstick:    "💄",
	model.CategoryEyeshadow:   "🎨",
	model.CategoryEyeliner:    "✒️",
	model.CategoryMascara:     "👁️",
}

// GetCategoryIcon returns an icon for a category.
func GetCategoryIcon(category model.Category) string {
	if icon, ok := CategoryIcons[category]; ok {
		return icon
	}
	return "📦"
}

package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/matchme/internal/cli"
	"github.com/Veraticus/matchme/internal/model"
	"github.com/Veraticus/matchme/internal/recommend"
	"github.com/Veraticus/matchme/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

// View renders the browser.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.renderHeader(),
		m.renderTabs(),
		m.renderBody(),
		m.renderFooter(),
		m.help.View(m.keymap),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render(cli.MatchIcon + " Recommendations for " + cli.DescribeProfile(m.set.SkinTone, m.set.Undertone))
	if len(m.set.MatchingShades) == 0 {
		return title
	}
	shades := m.theme.Subtitle.Render("Shades to look for: " + strings.Join(m.set.MatchingShades, ", "))
	return lipgloss.JoinVertical(lipgloss.Left, title, shades)
}

func (m Model) renderTabs() string {
	var lines []string
	var line string
	for i, category := range m.categories {
		label := fmt.Sprintf("%s %s (%d)", themes.GetCategoryIcon(category), category, len(m.set.Recommendations[category]))
		style := m.theme.InactiveTab
		if i == m.current {
			style = m.theme.ActiveTab
		}
		tab := style.Render(label)

		// Tabs wrap as a whole so a label is never split.
		if line != "" && lipgloss.Width(line)+1+lipgloss.Width(tab) > m.width {
			lines = append(lines, line)
			line = ""
		}
		if line != "" {
			line += " "
		}
		line += tab
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func (m Model) renderBody() string {
	category := m.CurrentCategory()
	if len(m.set.Recommendations[category]) == 0 {
		return m.theme.Muted.Render(fmt.Sprintf("\nNo %s matches your profile in this catalog.\n", category))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.tables[m.current].View(),
		m.renderDetail(),
	)
}

// renderDetail shows the product under the cursor with its swatches.
func (m Model) renderDetail() string {
	p := m.SelectedProduct()
	if p == nil {
		return ""
	}

	lines := []string{
		m.theme.Bold.Render(p.Name) + " " + m.theme.Muted.Render("by "+p.Brand),
		fmt.Sprintf("%s  %s %s  score %s",
			cli.FormatPrice(p.Price, p.Currency),
			cli.StarIcon, cli.FormatRating(p.Rating),
			m.theme.Score.Render(fmt.Sprintf("%.2f", p.Score))),
	}
	if swatches := m.renderSwatches(p.Colors); swatches != "" {
		lines = append(lines, swatches)
	}
	if p.Description != "" {
		lines = append(lines, m.theme.Muted.Render(truncate(p.Description, max(20, m.width-6))))
	}
	return m.theme.RoundedBox.Render(strings.Join(lines, "\n"))
}

// renderSwatches draws up to eight shades. Malformed hex values are skipped.
func (m Model) renderSwatches(colors []model.ColorSwatch) string {
	const maxSwatches = 8

	parts := make([]string, 0, maxSwatches)
	for _, c := range colors {
		if len(parts) == maxSwatches {
			break
		}
		if _, err := recommend.ParseHex(c.Hex); err != nil {
			continue
		}
		block := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex)).Render("██")
		parts = append(parts, block+" "+c.Name)
	}
	if extra := len(colors) - maxSwatches; extra > 0 {
		parts = append(parts, m.theme.Muted.Render(fmt.Sprintf("+%d more", extra)))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	var lines []string
	if h := m.set.Highlight; h != nil {
		lines = append(lines, m.theme.StatusInfo.Render(fmt.Sprintf("%s Try something new: %s by %s (%s)",
			cli.SparkleIcon, h.Name, h.Brand, h.Category)))
	}
	for _, insight := range m.set.Insights {
		lines = append(lines, m.theme.Normal.Render("• "+insight))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

// Package tui provides the interactive recommendation browser.
package tui

import (
	"fmt"

	"github.com/Veraticus/matchme/internal/cli"
	"github.com/Veraticus/matchme/internal/model"
	"github.com/Veraticus/matchme/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// chromeHeight is the number of rows taken by everything except the table.
const chromeHeight = 16

// Model holds the browser state. It never changes the recommendation set.
type Model struct {
	theme      themes.Theme
	set        model.RecommendationSet
	help       help.Model
	keymap     KeyMap
	categories []model.Category
	tables     []table.Model
	current    int
	width      int
	height     int
	quitting   bool
}

// New creates a browser over a recommendation set.
func New(set model.RecommendationSet, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newModel(set, cfg)
}

func newModel(set model.RecommendationSet, cfg Config) Model {
	m := Model{
		theme:      cfg.Theme,
		set:        set,
		help:       help.New(),
		keymap:     DefaultKeyMap(),
		categories: model.RecommendationCategories(),
		width:      cfg.Width,
		height:     cfg.Height,
	}
	m.help.ShowAll = cfg.ShowHelp

	m.tables = make([]table.Model, len(m.categories))
	for i, category := range m.categories {
		m.tables[i] = m.newTable(set.Recommendations[category])
	}
	m.focus(0)
	return m
}

func (m Model) newTable(items model.ScoredProducts) table.Model {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Brand", Width: 16},
		{Title: "Product", Width: 28},
		{Title: "Price", Width: 12},
		{Title: "Rating", Width: 6},
		{Title: "Score", Width: 6},
	}

	rows := make([]table.Row, 0, len(items))
	for i := range items {
		item := &items[i]
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			item.Brand,
			item.Name,
			cli.FormatPrice(item.Price, item.Currency),
			cli.FormatRating(item.Rating),
			fmt.Sprintf("%.2f", item.Score),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(m.tableHeight()),
	)

	styles := table.DefaultStyles()
	styles.Header = m.theme.TableHeader
	styles.Selected = m.theme.TableSelected
	t.SetStyles(styles)
	return t
}

func (m Model) tableHeight() int {
	return max(3, m.height-chromeHeight)
}

// focus moves keyboard focus to the table at index i.
func (m *Model) focus(i int) {
	for j := range m.tables {
		m.tables[j].Blur()
	}
	m.current = i
	m.tables[i].Focus()
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.ForceQuit), key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.NextCategory):
			m.focus((m.current + 1) % len(m.categories))
			return m, nil
		case key.Matches(msg, m.keymap.PrevCategory):
			m.focus((m.current - 1 + len(m.categories)) % len(m.categories))
			return m, nil
		case key.Matches(msg, m.keymap.ToggleHelp):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		for i := range m.tables {
			m.tables[i].SetHeight(m.tableHeight())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.tables[m.current], cmd = m.tables[m.current].Update(msg)
	return m, cmd
}

// CurrentCategory returns the category being browsed.
func (m Model) CurrentCategory() model.Category {
	return m.categories[m.current]
}

// SelectedProduct returns the product under the cursor, or nil when the
// current category has no recommendations.
func (m Model) SelectedProduct() *model.ScoredProduct {
	items := m.set.Recommendations[m.CurrentCategory()]
	cursor := m.tables[m.current].Cursor()
	if cursor < 0 || cursor >= len(items) {
		return nil
	}
	item := items[cursor]
	return &item
}

// Quitting reports whether the user asked to leave.
func (m Model) Quitting() bool {
	return m.quitting
}

package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/matchme/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// Browse runs the interactive browser until the user quits or ctx is done.
func Browse(ctx context.Context, set model.RecommendationSet, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	program := tea.NewProgram(
		newModel(set, cfg),
		tea.WithContext(ctx),
		tea.WithInput(cfg.Input),
		tea.WithOutput(cfg.Output),
		tea.WithAltScreen(),
	)

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("browser failed: %w", err)
	}
	return nil
}

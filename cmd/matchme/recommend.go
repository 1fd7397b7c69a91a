package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/matchme/internal/cli"
	"github.com/Veraticus/matchme/internal/common"
	"github.com/Veraticus/matchme/internal/model"
	"github.com/Veraticus/matchme/internal/recommend"
	"github.com/Veraticus/matchme/internal/service"
	"github.com/Veraticus/matchme/internal/skintone"
	"github.com/Veraticus/matchme/internal/tui"
	"github.com/Veraticus/matchme/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func recommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend products for your skin",
		Long: `Rank catalog products for a skin profile and print the best matches per
category, a "try something new" highlight, matching shade names, and tips.

The profile is taken from, in order: --tone/--undertone, --image, the saved
profile, and finally the medium/neutral default.`,
		RunE: runRecommend,
	}

	addProfileFlags(cmd)
	cmd.Flags().Bool("json", false, "Output JSON")

	return cmd
}

func browseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse recommendations interactively",
		Long:  `Open recommendations in a full-screen browser with one tab per category.`,
		RunE:  runBrowse,
	}

	addProfileFlags(cmd)

	return cmd
}

func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().String("image", "", "Analyze this photo instead of using the saved profile")
	cmd.Flags().String("tone", "", "Override the skin tone")
	cmd.Flags().String("undertone", "", "Override the undertone")
	cmd.Flags().IntP("limit", "n", 0, "Products per category (default from recommend.per_category)")
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	set, err := buildRecommendations(cmd)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd.OutOrStdout(), set)
	}
	return cli.RenderRecommendations(cmd.OutOrStdout(), &set)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	set, err := buildRecommendations(cmd)
	if err != nil {
		return err
	}

	return tui.Browse(cmd.Context(), set,
		tui.WithIO(cmd.InOrStdin(), cmd.OutOrStdout()),
		tui.WithTheme(themes.GetTheme(viper.GetString("ui.theme"))),
	)
}

// buildRecommendations resolves the profile from the command's flags and runs
// the engine over the stored catalog.
func buildRecommendations(cmd *cobra.Command) (set model.RecommendationSet, err error) {
	ctx := cmd.Context()

	settings, err := loadSettings()
	if err != nil {
		return set, err
	}
	perCategory := settings.PerCategory
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 {
		perCategory = limit
	}

	store, err := initStorage(ctx)
	if err != nil {
		return set, err
	}
	defer closeStorage(store, &err)

	products, err := store.GetProducts(ctx)
	if err != nil {
		return set, fmt.Errorf("failed to get products: %w", err)
	}
	if len(products) == 0 {
		return set, common.NewUserError(
			"The catalog is empty. Import products first with 'matchme catalog import <file>'.",
			common.ErrEmptyCatalog)
	}

	tone, undertone, err := resolveProfile(ctx, cmd, store, newAnalyzer(settings), settings.MaxImageBytes)
	if err != nil {
		return set, err
	}

	owned, err := store.GetCurrentProducts(ctx)
	if err != nil {
		return set, fmt.Errorf("failed to get current products: %w", err)
	}

	engine := recommend.NewEngine(products,
		recommend.WithPerCategory(perCategory),
		recommend.WithWeights(settings.Weights))
	set, err = engine.Recommend(recommend.Request{
		SkinTone:        tone,
		Undertone:       undertone,
		CurrentProducts: owned,
	})
	if err != nil {
		return set, err
	}

	common.LogDebug("Built recommendations", common.Fields{
		"tone":      tone,
		"undertone": undertone,
		"catalog":   engine.CatalogSize(),
		"total":     set.Total(),
	})
	return set, nil
}

// resolveProfile picks the skin profile to recommend for. Explicit flags win
// field by field over a photo, which wins over the saved profile, which wins
// over the default.
func resolveProfile(
	ctx context.Context,
	cmd *cobra.Command,
	store service.ProfileStore,
	analyzer service.SkinAnalyzer,
	maxImageBytes int64,
) (model.SkinTone, model.Undertone, error) {
	base := model.DefaultClassification()
	tone, undertone := base.SkinTone, base.Undertone

	imagePath, _ := cmd.Flags().GetString("image")
	if imagePath != "" {
		data, err := readImage(imagePath, maxImageBytes)
		switch {
		case errors.Is(err, skintone.ErrImageTooLarge):
			common.LogWarn("Photo too large, using default profile", common.Fields{"path": imagePath})
		case err != nil:
			return "", "", common.NewUserError(fmt.Sprintf("Could not read %s.", imagePath), err)
		default:
			result, err := analyzer.AnalyzeOrDefault(ctx, data)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning(
					"The photo could not be analyzed; using the default profile."))
			}
			tone, undertone = result.SkinTone, result.Undertone
		}
	} else {
		profile, err := store.GetProfile(ctx)
		switch {
		case err == nil:
			tone, undertone = profile.SkinTone, profile.Undertone
		case errors.Is(err, common.ErrNoProfile):
			common.LogDebug("No saved profile, using default", nil)
		default:
			return "", "", fmt.Errorf("failed to get profile: %w", err)
		}
	}

	toneFlag, _ := cmd.Flags().GetString("tone")
	undertoneFlag, _ := cmd.Flags().GetString("undertone")
	return applyProfileFlags(tone, undertone, toneFlag, undertoneFlag)
}

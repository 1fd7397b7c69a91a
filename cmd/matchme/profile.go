package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/matchme/internal/cli"
	"github.com/Veraticus/matchme/internal/common"
	"github.com/Veraticus/matchme/internal/model"
	"github.com/spf13/cobra"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your skin profile and current products",
		Long: `Show or edit the locally saved skin profile, and keep track of the products
you already own so recommendations can suggest something new.`,
	}

	cmd.AddCommand(profileShowCmd())
	cmd.AddCommand(profileSetCmd())
	cmd.AddCommand(profileAddProductCmd())
	cmd.AddCommand(profileRemoveProductCmd())

	return cmd
}

// profileOutput is the JSON shape of the saved profile.
type profileOutput struct {
	Profile         *model.Profile            `json:"profile"`
	CurrentProducts []model.CurrentProductRef `json:"currentProducts"`
}

func profileShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the saved profile",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ctx := cmd.Context()
			asJSON, _ := cmd.Flags().GetBool("json")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store, &err)

			profile, err := store.GetProfile(ctx)
			if err != nil && !errors.Is(err, common.ErrNoProfile) {
				return fmt.Errorf("failed to get profile: %w", err)
			}

			owned, err := store.GetCurrentProducts(ctx)
			if err != nil {
				return fmt.Errorf("failed to get current products: %w", err)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), profileOutput{Profile: profile, CurrentProducts: owned})
			}
			return cli.RenderProfile(cmd.OutOrStdout(), profile, owned)
		},
	}

	cmd.Flags().Bool("json", false, "Output JSON")

	return cmd
}

func profileSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set skin tone and undertone by hand",
		Long: `Save a manual skin profile. Fields you leave out keep their saved value,
or the medium/neutral default when no profile exists yet.`,
		RunE: runProfileSet,
	}

	cmd.Flags().String("tone", "", "Skin tone (very_fair, fair, light, medium, dark, very_dark)")
	cmd.Flags().String("undertone", "", "Undertone (warm, cool, neutral)")

	return cmd
}

func runProfileSet(cmd *cobra.Command, _ []string) (err error) {
	ctx := cmd.Context()

	toneFlag, _ := cmd.Flags().GetString("tone")
	undertoneFlag, _ := cmd.Flags().GetString("undertone")
	if toneFlag == "" && undertoneFlag == "" {
		return common.NewUserError("Pass --tone, --undertone, or both.", common.ErrMissingConfig)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store, &err)

	base := model.DefaultClassification()
	tone, undertone := base.SkinTone, base.Undertone
	existing, err := store.GetProfile(ctx)
	switch {
	case err == nil:
		tone, undertone = existing.SkinTone, existing.Undertone
	case !errors.Is(err, common.ErrNoProfile):
		return fmt.Errorf("failed to get profile: %w", err)
	}

	tone, undertone, err = applyProfileFlags(tone, undertone, toneFlag, undertoneFlag)
	if err != nil {
		return err
	}

	profile := &model.Profile{
		SkinTone:   tone,
		Undertone:  undertone,
		Confidence: model.ManualConfidence,
		Source:     model.SourceManual,
		AnalyzedAt: time.Now(),
	}
	if err := store.SaveProfile(ctx, profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
		fmt.Sprintf("Profile set to %s", cli.DescribeProfile(tone, undertone))))
	return nil
}

// applyProfileFlags overrides tone and undertone with any non-empty flag value.
func applyProfileFlags(tone model.SkinTone, undertone model.Undertone, toneFlag, undertoneFlag string) (model.SkinTone, model.Undertone, error) {
	if toneFlag != "" {
		parsed, err := model.ParseSkinTone(toneFlag)
		if err != nil {
			return "", "", common.NewUserError(
				fmt.Sprintf("Unknown skin tone %q. Run 'matchme options' to see valid values.", toneFlag), err)
		}
		tone = parsed
	}
	if undertoneFlag != "" {
		parsed, err := model.ParseUndertone(undertoneFlag)
		if err != nil {
			return "", "", common.NewUserError(
				fmt.Sprintf("Unknown undertone %q. Run 'matchme options' to see valid values.", undertoneFlag), err)
		}
		undertone = parsed
	}
	return tone, undertone, nil
}

func profileAddProductCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-product",
		Short: "Record a product you already own",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ctx := cmd.Context()

			name, _ := cmd.Flags().GetString("name")
			brand, _ := cmd.Flags().GetString("brand")
			category, err := parseCategoryFlag(cmd)
			if err != nil {
				return err
			}

			ref := &model.CurrentProductRef{Name: name, Brand: brand, Category: category}
			if err := ref.Validate(); err != nil {
				return common.NewUserError("A product needs --name, --brand, and --category.", err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store, &err)

			if err := store.AddCurrentProduct(ctx, ref); err != nil {
				if errors.Is(err, common.ErrDuplicateEntry) {
					return common.NewUserError(fmt.Sprintf("%q is already in your products.", name), err)
				}
				return fmt.Errorf("failed to add product: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("Added %s by %s (%s)", ref.Name, ref.Brand, ref.Category)))
			return nil
		},
	}

	cmd.Flags().String("name", "", "Product name")
	cmd.Flags().String("brand", "", "Brand name")
	cmd.Flags().StringP("category", "c", "", "Product category")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("brand")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func profileRemoveProductCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-product <name>",
		Short: "Forget a product you no longer own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store, &err)

			if err := store.RemoveCurrentProduct(ctx, args[0]); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError(fmt.Sprintf("No current product named %q.", args[0]), err)
				}
				return fmt.Errorf("failed to remove product: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Removed %s", args[0])))
			return nil
		},
	}
}

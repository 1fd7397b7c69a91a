package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/matchme/internal/catalog"
	"github.com/Veraticus/matchme/internal/cli"
	"github.com/Veraticus/matchme/internal/common"
	"github.com/Veraticus/matchme/internal/model"
	"github.com/Veraticus/matchme/internal/service"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// importBatchSize is how many products are written per transaction.
const importBatchSize = 100

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the product catalog",
		Long:  `Import, list, and clear the makeup products that recommendations are drawn from.`,
	}

	cmd.AddCommand(catalogImportCmd())
	cmd.AddCommand(catalogListCmd())
	cmd.AddCommand(catalogTopCmd())
	cmd.AddCommand(catalogStatsCmd())
	cmd.AddCommand(catalogClearCmd())

	return cmd
}

func catalogImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Import products from CSV or JSON exports",
		Long: `Import products from one or more catalog exports. The format is chosen by
file extension (.csv or .json). Prices are converted to CAD, categories are
normalized, and records without a name or brand are skipped.

Products that already exist (same ID) are updated in place.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCatalogImport,
	}

	cmd.Flags().Bool("no-progress", false, "Disable the progress bar")

	return cmd
}

func runCatalogImport(cmd *cobra.Command, args []string) (err error) {
	out := cmd.OutOrStdout()

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := interrupts.HandleInterrupts(cmd.Context(), "Import",
		"Batches written before the interruption are kept. Re-run the import to finish.")
	defer interrupts.Stop()

	loader := catalog.NewLoader()
	results := make([]*catalog.Result, len(args))

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range args {
		g.Go(func() error {
			res, err := loader.LoadFile(gctx, path)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var products []model.Product
	skipped := 0
	for i, res := range results {
		products = append(products, res.Products...)
		skipped += res.Skipped
		common.LogInfo("Loaded catalog file", common.Fields{
			"path":     args[i],
			"products": len(res.Products),
			"skipped":  res.Skipped,
		})
	}

	if len(products) == 0 {
		return common.NewUserError("No usable products found in the given files.", common.ErrEmptyCatalog)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store, &err)

	var progressOut io.Writer
	if noProgress, _ := cmd.Flags().GetBool("no-progress"); !noProgress {
		progressOut = cmd.ErrOrStderr()
	}
	if err := saveInBatches(ctx, progressOut, store, products); err != nil {
		return err
	}

	total, err := store.CountProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}

	summary := fmt.Sprintf("Imported %d products from %d file(s)", len(products), len(args))
	if skipped > 0 {
		summary += fmt.Sprintf(", skipped %d incomplete record(s)", skipped)
	}
	fmt.Fprintln(out, cli.FormatSuccess(summary))
	fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("Catalog now holds %d products.", total)))
	return nil
}

// saveInBatches writes products in fixed-size transactions so an interrupted
// import keeps the batches already written.
func saveInBatches(ctx context.Context, progressOut io.Writer, store service.CatalogStore, products []model.Product) error {
	var bar *progressbar.ProgressBar
	if progressOut != nil {
		bar = cli.NewProgressBar(progressOut, len(products), "Saving products...")
		defer func() { _ = bar.Finish() }()
	}

	for start := 0; start < len(products); start += importBatchSize {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("import canceled after %d products: %w", start, err)
		}

		end := min(start+importBatchSize, len(products))
		if err := store.SaveProducts(ctx, products[start:end]); err != nil {
			return fmt.Errorf("failed to save products %d-%d: %w", start+1, end, err)
		}

		if bar != nil {
			if err := bar.Add(end - start); err != nil {
				slog.Warn("Failed to update progress bar", "error", err)
			}
		}
	}
	return nil
}

func catalogListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog products",
		Long:  `Display catalog products, optionally filtered by category, brand, or price.`,
		RunE:  runCatalogList,
	}

	cmd.Flags().StringP("category", "c", "", "Only show this category")
	cmd.Flags().StringP("brand", "b", "", "Only show brands containing this text")
	cmd.Flags().Float64("min-price", 0, "Minimum price in CAD")
	cmd.Flags().Float64("max-price", 0, "Maximum price in CAD")
	cmd.Flags().IntP("limit", "n", 0, "Show at most this many products (0 = all)")
	cmd.Flags().Bool("json", false, "Output JSON")

	return cmd
}

func parseCategoryFlag(cmd *cobra.Command) (model.Category, error) {
	raw, _ := cmd.Flags().GetString("category")
	if raw == "" {
		return "", nil
	}
	category, err := model.ParseCategory(raw)
	if err != nil {
		return "", common.NewUserError(
			fmt.Sprintf("Unknown category %q. Run 'matchme options' to see valid categories.", raw), err)
	}
	return category, nil
}

func runCatalogList(cmd *cobra.Command, _ []string) (err error) {
	ctx := cmd.Context()

	category, err := parseCategoryFlag(cmd)
	if err != nil {
		return err
	}
	brand, _ := cmd.Flags().GetString("brand")
	minPrice, _ := cmd.Flags().GetFloat64("min-price")
	maxPrice, _ := cmd.Flags().GetFloat64("max-price")
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store, &err)

	var products []model.Product
	if category != "" {
		products, err = store.GetProductsByCategory(ctx, category)
	} else {
		products, err = store.GetProducts(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to get products: %w", err)
	}

	products = catalog.Query{
		Brand:    brand,
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	}.Apply(products)
	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}

	if asJSON {
		return writeJSON(cmd.OutOrStdout(), products)
	}
	return cli.RenderProducts(cmd.OutOrStdout(), products)
}

func catalogTopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the highest rated products",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ctx := cmd.Context()

			category, err := parseCategoryFlag(cmd)
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store, &err)

			products, err := store.GetProducts(ctx)
			if err != nil {
				return fmt.Errorf("failed to get products: %w", err)
			}
			products = catalog.Query{Category: category}.Apply(products)

			return cli.RenderProducts(cmd.OutOrStdout(), catalog.TopRated(products, limit))
		},
	}

	cmd.Flags().StringP("category", "c", "", "Only consider this category")
	cmd.Flags().IntP("limit", "n", 10, "Number of products to show")

	return cmd
}

func catalogStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count products per category",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store, &err)

			counts, err := store.CountProductsByCategory(ctx)
			if err != nil {
				return fmt.Errorf("failed to count products: %w", err)
			}
			return renderCategoryCounts(cmd.OutOrStdout(), counts)
		},
	}
}

func renderCategoryCounts(w io.Writer, counts map[model.Category]int) error {
	if _, err := fmt.Fprintln(w, cli.FormatIconTitle(cli.ChartIcon, "Catalog")); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", cli.TableHeaderStyle.Render("Category"), cli.TableHeaderStyle.Render("Products"))
	fmt.Fprintf(tw, "%s\t%s\n", strings.Repeat("-", 12), strings.Repeat("-", 8))

	total := 0
	for _, category := range model.Categories() {
		n := counts[category]
		total += n
		fmt.Fprintf(tw, "%s\t%d\n", category, n)
	}
	fmt.Fprintf(tw, "%s\t%d\n", cli.BoldStyle.Render("total"), total)
	return tw.Flush()
}

func catalogClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every catalog product",
		Long:  `Remove all imported products. Your profile and current products are kept.`,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			yes, _ := cmd.Flags().GetBool("yes")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store, &err)

			count, err := store.CountProducts(ctx)
			if err != nil {
				return fmt.Errorf("failed to count products: %w", err)
			}
			if count == 0 {
				fmt.Fprintln(out, cli.FormatInfo("The catalog is already empty."))
				return nil
			}

			if !yes {
				reader := cli.NewNonBlockingReader(cmd.InOrStdin())
				ok, err := reader.Confirm(ctx, out, fmt.Sprintf("Delete all %d products?", count))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, cli.FormatInfo("Nothing deleted."))
					return nil
				}
			}

			deleted, err := store.ClearProducts(ctx)
			if err != nil {
				return fmt.Errorf("failed to clear catalog: %w", err)
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Deleted %d products", deleted)))
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	return cmd
}

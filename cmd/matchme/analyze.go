package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Veraticus/matchme/internal/cli"
	"github.com/Veraticus/matchme/internal/common"
	"github.com/Veraticus/matchme/internal/model"
	"github.com/Veraticus/matchme/internal/skintone"
	"github.com/spf13/cobra"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <image>",
		Short: "Classify skin tone and undertone from a photo",
		Long: `Analyze a face photo and estimate skin tone (one of six bands from very fair
to deep) and undertone (warm, cool, or neutral).

Photos that cannot be decoded fall back to a medium/neutral default profile and
are reported as degraded. Every run is recorded in the analysis history; use
--save to also make the result your skin profile.`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().Bool("save", false, "Save the result as your skin profile")
	cmd.Flags().Bool("json", false, "Output JSON")

	return cmd
}

// analyzeOutput is the JSON shape of an analysis run.
type analyzeOutput struct {
	model.ClassificationResult
	Error    string `json:"error,omitempty"`
	Degraded bool   `json:"degraded"`
	Saved    bool   `json:"saved"`
}

func runAnalyze(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	path := args[0]

	save, _ := cmd.Flags().GetBool("save")
	asJSON, _ := cmd.Flags().GetBool("json")

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	data, err := readImage(path, settings.MaxImageBytes)
	var (
		result   model.ClassificationResult
		cause    error
		degraded bool
	)
	switch {
	case errors.Is(err, skintone.ErrImageTooLarge):
		result, cause, degraded = model.DefaultClassification(), err, true
	case err != nil:
		return common.NewUserError(fmt.Sprintf("Could not read %s.", path), err)
	default:
		result, cause = newAnalyzer(settings).AnalyzeOrDefault(ctx, data)
		degraded = cause != nil
	}

	if cause != nil {
		common.LogWarn("Photo analysis degraded", common.Fields{
			"path":  path,
			"error": cause.Error(),
		})
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store, &err)

	now := time.Now()
	record := &model.AnalysisRecord{
		CreatedAt: now,
		Source:    filepath.Base(path),
		Result:    result,
		Degraded:  degraded,
	}
	if err := store.SaveAnalysis(ctx, record); err != nil {
		return fmt.Errorf("failed to record analysis: %w", err)
	}

	saved := false
	if save && !degraded {
		profile := model.ProfileFromClassification(result, now)
		if err := store.SaveProfile(ctx, &profile); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		saved = true
	}

	if asJSON {
		output := analyzeOutput{ClassificationResult: result, Degraded: degraded, Saved: saved}
		if cause != nil {
			output.Error = cause.Error()
		}
		return writeJSON(out, output)
	}

	if err := cli.RenderClassification(out, result, degraded); err != nil {
		return err
	}
	switch {
	case saved:
		fmt.Fprintln(out, cli.FormatSuccess("Saved as your skin profile"))
	case save && degraded:
		fmt.Fprintln(out, cli.FormatWarning("Profile not updated because the photo could not be analyzed."))
	}
	return nil
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past photo analyses",
		RunE:  runHistory,
	}

	cmd.Flags().IntP("limit", "n", 10, "Number of analyses to show (0 = all)")
	cmd.Flags().Bool("json", false, "Output JSON")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) (err error) {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store, &err)

	records, err := store.GetAnalysisHistory(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to get analysis history: %w", err)
	}

	if asJSON {
		return writeJSON(out, records)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No analyses recorded yet. Run 'matchme analyze <photo>'."))
		return nil
	}

	fmt.Fprintln(out, cli.FormatIconTitle(cli.ChartIcon, "Analysis History"))
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		cli.TableHeaderStyle.Render("When"),
		cli.TableHeaderStyle.Render("Photo"),
		cli.TableHeaderStyle.Render("Tone"),
		cli.TableHeaderStyle.Render("Undertone"),
		cli.TableHeaderStyle.Render("Confidence"))
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		strings.Repeat("-", 17), strings.Repeat("-", 12), strings.Repeat("-", 9),
		strings.Repeat("-", 9), strings.Repeat("-", 10))
	for _, rec := range records {
		confidence := fmt.Sprintf("%.0f%%", rec.Result.Confidence*100)
		if rec.Degraded {
			confidence = cli.WarningStyle.Render("default")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			rec.CreatedAt.Local().Format("2006-01-02 15:04"),
			rec.Source,
			rec.Result.SkinTone,
			rec.Result.Undertone,
			confidence)
	}
	return tw.Flush()
}

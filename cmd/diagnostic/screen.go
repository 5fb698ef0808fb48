package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/screening-diagnostic/internal/diagnostic"
	"github.com/jonathan/screening-diagnostic/internal/export"
	"github.com/jonathan/screening-diagnostic/internal/ingestion"
	"github.com/jonathan/screening-diagnostic/internal/logger"
	"github.com/jonathan/screening-diagnostic/internal/observability"
	"github.com/jonathan/screening-diagnostic/internal/profiles"
	"github.com/jonathan/screening-diagnostic/internal/screening"
	"github.com/jonathan/screening-diagnostic/internal/types"
)

var screenCmd = &cobra.Command{
	Use:   "screen FILE...",
	Short: "Score résumé files against a job profile",
	Long: "Scores each résumé file against the selected job profile and prints the decision, score breakdown " +
		"and a batch summary. Plain-text files are decoded with a charset fallback; other files are scored " +
		"from placeholder text.",
	Args: cobra.MinimumNArgs(1),
	RunE: runScreen,
}

var (
	screenJob       string
	screenXLSX      string
	screenAnalytics bool
)

func init() {
	screenCmd.Flags().StringVarP(&screenJob, "job", "t", "", "Job profile key, e.g. data_engineer (required)")
	screenCmd.Flags().StringVarP(&screenXLSX, "xlsx", "o", "", "Write the results to this XLSX workbook")
	screenCmd.Flags().BoolVar(&screenAnalytics, "analytics", false, "Print the score distribution after the summary")

	if err := screenCmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}

	rootCmd.AddCommand(screenCmd)
}

func runScreen(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	registry, err := profiles.Default()
	if err != nil {
		return err
	}
	scorer := screening.NewScorer(registry)
	profile, err := scorer.Profile(screenJob)
	if err != nil {
		return err
	}

	uploads, err := readFiles(args)
	if err != nil {
		return err
	}

	batch := screening.NewBatch(scorer, ingestion.NewDecoder(), cfg.Screening.Workers, log)
	candidates, err := batch.Run(cmd.Context(), screenJob, uploads, 0)
	if err != nil {
		return err
	}

	summary := screening.Summarize(candidates)
	logger.WithFields(log, zap.String(logger.FieldJobType, screenJob)).Debug("batch screened",
		zap.Int("processed", summary.Processed),
		zap.Int("failed", summary.Failed))

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintProfile(profile)
	printer.PrintCandidates(candidates)
	printer.PrintSummary(summary)

	if screenAnalytics {
		analytics, err := diagnostic.Analyze(scoringResults(candidates))
		if err != nil {
			return err
		}
		printer.PrintAnalytics(analytics)
	}

	if screenXLSX != "" {
		if err := export.WriteFile(screenXLSX, candidates, nil); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Results written to %s\n", screenXLSX)
	}
	return nil
}

// readFiles reads each path into an upload. The content type is left empty
// so the decoder sniffs it.
func readFiles(paths []string) ([]ingestion.Upload, error) {
	uploads := make([]ingestion.Upload, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read résumé file %s: %w", path, err)
		}
		uploads = append(uploads, ingestion.Upload{Filename: filepath.Base(path), Data: data})
	}
	return uploads, nil
}

func scoringResults(candidates []types.Candidate) []types.ScoringResult {
	var out []types.ScoringResult
	for _, c := range candidates {
		if c.Scored() {
			out = append(out, *c.Result)
		}
	}
	return out
}

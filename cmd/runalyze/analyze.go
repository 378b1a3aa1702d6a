package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/kamilpajak/runalyze/internal/analysis"
	"github.com/spf13/cobra"
)

var (
	jsonOutput  bool
	storeReport bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <run-id>",
	Short: "Classify the failures of one test run",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the report as JSON")
	analyzeCmd.Flags().BoolVar(&storeReport, "store", false, "Save the report to the history database (DATABASE_URL)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	runID, err := parseRunID(args[0])
	if err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	taxonomy, err := loadTaxonomy()
	if err != nil {
		return err
	}

	source, err := newSource()
	if err != nil {
		return err
	}

	params := analysis.Params{
		RunID:  runID,
		Source: source,
		Config: taxonomy,
		Logger: logger,
	}

	if storeReport {
		db, err := openHistory(cmd)
		if err != nil {
			return err
		}
		if db == nil {
			return fmt.Errorf("--store requires DATABASE_URL")
		}
		defer db.Close()
		params.Store = db
	}

	emitter := newProgressEmitter(os.Stderr)
	params.Emitter = emitter

	report, err := analysis.Run(cmd.Context(), params)
	emitter.Close()
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if jsonOutput {
		return writeJSON(os.Stdout, report)
	}

	printReport(os.Stdout, report)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/kamilpajak/runalyze/internal/analysis"
	"github.com/kamilpajak/runalyze/internal/database"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyRunID int
	pruneAge     time.Duration
	migrateDown  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored reports (requires DATABASE_URL)",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete stored reports older than a given age",
	Args:  cobra.NoArgs,
	RunE:  runPrune,
}

var showCmd = &cobra.Command{
	Use:   "show <report-id>",
	Short: "Print a stored report",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <report-id>",
	Short: "Delete a stored report",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply (or with --down, roll back) the history schema",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of reports")
	historyCmd.Flags().IntVar(&historyRunID, "run-id", 0, "Only list reports for this run")
	pruneCmd.Flags().DurationVar(&pruneAge, "older-than", 30*24*time.Hour, "Delete reports created before now minus this age")
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "Roll back all migrations (drops stored reports)")
	showCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the report as JSON")

	historyCmd.AddCommand(pruneCmd)
	historyCmd.AddCommand(showCmd)
	historyCmd.AddCommand(deleteCmd)
	historyCmd.AddCommand(migrateCmd)
}

func requireHistory(cmd *cobra.Command) (*database.DB, error) {
	db, err := openHistory(cmd)
	if err != nil {
		return nil, err
	}
	if db == nil {
		return nil, fmt.Errorf("history requires DATABASE_URL")
	}
	return db, nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyLimit < 1 {
		return fmt.Errorf("--limit must be at least 1")
	}

	db, err := requireHistory(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	params := database.ListReportsParams{Limit: historyLimit}
	if historyRunID > 0 {
		params.RunID = &historyRunID
	}

	reports, err := db.ListReports(cmd.Context(), params)
	if err != nil {
		return err
	}
	stored, err := db.CountReports(cmd.Context())
	if err != nil {
		return err
	}

	printHistory(os.Stdout, reports)
	_, _ = color.New(color.FgHiBlack).Fprintf(os.Stdout, "%d of %d stored report(s)\n", len(reports), stored)
	return nil
}

func printHistory(w io.Writer, reports []analysis.Report) {
	if len(reports) == 0 {
		_, _ = color.New(color.FgHiBlack).Fprintln(w, "No stored reports.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tRUN\tNAME\tTOTAL\tPASSED\tFAILED\tABORTED\tUNCLASSIFIED")
	for _, r := range reports {
		unclassified := 0
		if r.Tally != nil {
			unclassified = len(r.Tally.Unclassified)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%d\t%d\t%d\t%d\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.RunID, truncate(r.Details.Name, 40),
			r.Totals.Total, r.Totals.Passed, r.Totals.Failed, r.Totals.Aborted, unclassified)
	}
	_ = tw.Flush()
}

func runPrune(cmd *cobra.Command, args []string) error {
	if pruneAge <= 0 {
		return fmt.Errorf("--older-than must be positive")
	}

	db, err := requireHistory(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.DeleteReportsBefore(cmd.Context(), time.Now().Add(-pruneAge))
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Deleted %d report(s)\n", n)
	return nil
}

func parseReportID(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid report ID %q: %w", arg, err)
	}
	return id, nil
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseReportID(args[0])
	if err != nil {
		return err
	}

	db, err := requireHistory(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := db.GetReport(cmd.Context(), id)
	if err != nil {
		return err
	}
	if report == nil {
		return fmt.Errorf("report %s not found", id)
	}

	if jsonOutput {
		return writeJSON(os.Stdout, report)
	}
	printReport(os.Stdout, report)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseReportID(args[0])
	if err != nil {
		return err
	}

	db, err := requireHistory(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DeleteReport(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Deleted report %s\n", id)
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return fmt.Errorf("history requires DATABASE_URL")
	}
	if migrateDown {
		if err := database.MigrateDown(dbURL); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "History schema rolled back")
		return nil
	}
	if err := database.Migrate(dbURL); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "History schema is up to date")
	return nil
}

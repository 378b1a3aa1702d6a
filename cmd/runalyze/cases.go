package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/kamilpajak/runalyze/internal/casetable"
	"github.com/kamilpajak/runalyze/pkg/models"
	"github.com/spf13/cobra"
)

var caseFilter casetable.Filter

var casesCmd = &cobra.Command{
	Use:   "cases",
	Short: "Filter the table of previously failed test cases",
	Args:  cobra.NoArgs,
	RunE:  runCases,
}

func init() {
	f := casesCmd.Flags()
	f.StringVar(&casesPath, "cases", os.Getenv("RUNALYZE_CASES"), "JSON file of failed test cases")
	f.StringVarP(&caseFilter.Search, "search", "s", "", "Case-insensitive text search over all columns")
	f.StringSliceVar(&caseFilter.Labels, "label", nil, "Only show these class labels (repeatable)")
	f.StringSliceVar(&caseFilter.Priorities, "priority", nil, "Only show these priorities (repeatable)")
	f.IntVarP(&caseFilter.Limit, "limit", "n", casetable.DefaultLimit, "Maximum number of rows")
	f.BoolVar(&jsonOutput, "json", false, "Output rows as JSON")
}

func runCases(cmd *cobra.Command, args []string) error {
	if caseFilter.Limit < 1 {
		return fmt.Errorf("--limit must be at least 1")
	}

	cases, err := casetable.Load(casesPath)
	if errors.Is(err, casetable.ErrNoFile) {
		return fmt.Errorf("no case file: pass --cases or set RUNALYZE_CASES")
	}
	if err != nil {
		return err
	}

	rows := casetable.Apply(cases, caseFilter)
	if jsonOutput {
		return writeJSON(os.Stdout, rows)
	}

	printCases(os.Stdout, rows, casetable.Count(cases, caseFilter), len(cases))
	return nil
}

func printCases(w io.Writer, rows []models.FailedTestCase, matched, total int) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTEST CASE\tNAME\tLABEL\tPRIORITY")
	for _, c := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.TestCaseID, truncate(c.Name, 60), c.ClassLabel, c.Priority)
	}
	_ = tw.Flush()
	_, _ = color.New(color.FgHiBlack).Fprintf(w, "%d of %d matching (%d total)\n", len(rows), matched, total)
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

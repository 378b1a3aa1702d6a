package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/kamilpajak/runalyze/internal/analysis"
	"github.com/kamilpajak/runalyze/internal/classify"
)

const barWidth = 24

func printReport(w io.Writer, r *analysis.Report) {
	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)

	_, _ = bold.Fprintf(w, "RUN %d", r.RunID)
	fmt.Fprintf(w, "  %s\n", r.Details.Name)
	_, _ = dim.Fprintf(w, "  %s\n", r.Details.URL)
	fmt.Fprintf(w, "  Build:   %s\n", r.Details.BuildName)
	fmt.Fprintf(w, "  State:   %s\n", r.Details.State)
	fmt.Fprintf(w, "  Stage:   %s\n", r.Details.ReleaseStage)
	fmt.Fprintf(w, "  Started: %s\n", analysis.FormatRunDate(r.Details.StartedDate))
	fmt.Fprintln(w)

	printTotals(w, r)
	fmt.Fprintln(w)

	_, _ = bold.Fprintln(w, "FAILURE CATEGORIES")
	printCategories(w, r.Tally)
	fmt.Fprintln(w)

	printKeywords(w, r.Tally)
	printUnclassified(w, r.Tally.Unclassified)
}

func printTotals(w io.Writer, r *analysis.Report) {
	_, _ = color.New(color.FgHiBlack).Fprintf(w, "  Total %d", r.Totals.Total)
	fmt.Fprint(w, "  ")
	_, _ = color.New(color.FgGreen).Fprintf(w, "Passed %d", r.Totals.Passed)
	fmt.Fprint(w, "  ")
	_, _ = color.New(color.FgRed).Fprintf(w, "Failed %d", r.Totals.Failed)
	fmt.Fprint(w, "  ")
	_, _ = color.New(color.FgYellow).Fprintf(w, "Aborted %d\n", r.Totals.Aborted)
}

func printCategories(w io.Writer, t *classify.Tally) {
	total := t.Total()
	width := labelWidth(t)
	for _, c := range t.Categories {
		fmt.Fprintf(w, "  %-*s %5d  ", width, c.Category, c.Count)
		printBar(w, c.Count, total, categoryColor(c.Category))
		fmt.Fprintf(w, " %s\n", percent(c.Count, total))
	}
}

func printKeywords(w io.Writer, t *classify.Tally) {
	bold := color.New(color.Bold)
	for _, kb := range t.Keywords {
		top := 0
		for _, k := range kb.Keywords {
			if k.Count > top {
				top = k.Count
			}
		}
		if top == 0 {
			continue
		}
		_, _ = bold.Fprint(w, strings.ToUpper(string(kb.Category)))
		fmt.Fprintf(w, "  %d keyword hit(s)\n", t.KeywordTotal(kb.Category))
		for _, k := range kb.Keywords {
			fmt.Fprintf(w, "  %5d  ", k.Count)
			printBar(w, k.Count, top, color.New(color.FgCyan))
			fmt.Fprintf(w, " %s\n", k.Keyword)
		}
		fmt.Fprintln(w)
	}
}

func printUnclassified(w io.Writer, log classify.Log) {
	if len(log) == 0 {
		return
	}
	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)
	_, _ = bold.Fprintf(w, "UNCLASSIFIED (%d)\n", len(log))
	for i, msg := range log {
		_, _ = dim.Fprintf(w, "  %3d. ", i+1)
		fmt.Fprintln(w, firstLine(msg))
	}
}

func printBar(w io.Writer, value, scale int, c *color.Color) {
	filled := 0
	if scale > 0 {
		filled = value * barWidth / scale
		if value > 0 && filled == 0 {
			filled = 1
		}
	}
	if filled > barWidth {
		filled = barWidth
	}
	_, _ = c.Fprint(w, strings.Repeat("█", filled))
	_, _ = color.New(color.FgHiBlack).Fprint(w, strings.Repeat("░", barWidth-filled))
}

func categoryColor(cat classify.Category) *color.Color {
	if cat == classify.Unclassified {
		return color.New(color.FgYellow)
	}
	return color.New(color.FgRed)
}

func labelWidth(t *classify.Tally) int {
	width := 0
	for _, c := range t.Categories {
		if len(c.Category) > width {
			width = len(c.Category)
		}
	}
	return width
}

func percent(n, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(n)*100/float64(total))
}

func firstLine(s string) string {
	if s == "" {
		return "(empty message)"
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i]) + " ..."
	}
	return s
}

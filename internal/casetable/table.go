// Package casetable loads the previously-failed test case file and filters it
// for the table view.
package casetable

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kamilpajak/runalyze/pkg/models"
)

// DefaultLimit is the number of rows shown when no limit is given.
const DefaultLimit = 10

// ErrNoFile is returned when no case file is configured.
var ErrNoFile = errors.New("no failed test case file configured")

// Filter selects rows of the table. Empty Labels or Priorities match every
// row.
type Filter struct {
	Search     string   `json:"search"`
	Labels     []string `json:"labels"`
	Priorities []string `json:"priorities"`
	Limit      int      `json:"limit"`
}

// Options are the distinct values offered by the multi-select filters.
type Options struct {
	Labels     []string `json:"labels"`
	Priorities []string `json:"priorities"`
}

// Load reads a JSON array of failed test cases.
func Load(path string) ([]models.FailedTestCase, error) {
	if path == "" {
		return nil, ErrNoFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read test cases: %w", err)
	}

	var cases []models.FailedTestCase
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("failed to parse test cases: %w", err)
	}
	return cases, nil
}

// Apply returns the rows matching f, truncated to its limit. The search is a
// case-insensitive substring match against every column.
func Apply(cases []models.FailedTestCase, f Filter) []models.FailedTestCase {
	limit := f.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	query := strings.ToLower(f.Search)
	labels := toSet(f.Labels)
	priorities := toSet(f.Priorities)

	out := []models.FailedTestCase{}
	for _, c := range cases {
		if len(out) >= limit {
			break
		}
		if query != "" && !matchesSearch(c, query) {
			continue
		}
		if len(labels) > 0 && !labels[c.ClassLabel] {
			continue
		}
		if len(priorities) > 0 && !priorities[c.Priority] {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Count returns how many rows match f, ignoring its limit.
func Count(cases []models.FailedTestCase, f Filter) int {
	f.Limit = len(cases) + 1
	return len(Apply(cases, f))
}

// OptionsOf returns the distinct labels and priorities in first-seen order.
func OptionsOf(cases []models.FailedTestCase) Options {
	opts := Options{Labels: []string{}, Priorities: []string{}}
	seenLabel := map[string]bool{}
	seenPriority := map[string]bool{}
	for _, c := range cases {
		if !seenLabel[c.ClassLabel] {
			seenLabel[c.ClassLabel] = true
			opts.Labels = append(opts.Labels, c.ClassLabel)
		}
		if !seenPriority[c.Priority] {
			seenPriority[c.Priority] = true
			opts.Priorities = append(opts.Priorities, c.Priority)
		}
	}
	return opts
}

func matchesSearch(c models.FailedTestCase, query string) bool {
	for _, field := range c.Fields() {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

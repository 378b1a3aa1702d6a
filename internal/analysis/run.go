// Package analysis runs the classification pass over a test run.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kamilpajak/runalyze/internal/azdo"
	"github.com/kamilpajak/runalyze/internal/classify"
	"github.com/kamilpajak/runalyze/pkg/models"
	"go.uber.org/zap"
)

// Report is the outcome of analyzing one run.
type Report struct {
	ID        uuid.UUID         `json:"id"`
	RunID     int               `json:"run_id"`
	Details   models.RunDetails `json:"details"`
	Totals    models.Totals     `json:"totals"`
	Tally     *classify.Tally   `json:"tally"`
	CreatedAt time.Time         `json:"created_at"`
}

// Saver persists completed reports.
type Saver interface {
	SaveReport(ctx context.Context, r *Report) error
}

// Params configures an analysis run.
type Params struct {
	RunID   int
	Source  azdo.Source
	Config  *classify.Config
	Emitter ProgressEmitter
	Store   Saver
	Logger  *zap.Logger
}

// Aggregate classifies every failed result into a fresh tally. Results with
// any other outcome are skipped; a missing error message counts as empty.
func Aggregate(results []models.TestResult, cfg *classify.Config) *classify.Tally {
	tally := classify.NewTally(cfg)
	for _, r := range results {
		if !r.Failed() {
			continue
		}
		tally.Add(r.ErrorMessage)
	}
	return tally
}

// Run fetches the results and summary of a run, classifies the failures and
// returns the report. A fetch error aborts the run; nothing is retried.
func Run(ctx context.Context, p Params) (*Report, error) {
	if p.RunID <= 0 {
		return nil, fmt.Errorf("invalid run ID %d", p.RunID)
	}
	if p.Source == nil {
		return nil, fmt.Errorf("no data source configured")
	}
	cfg := p.Config
	if cfg == nil {
		cfg = classify.DefaultConfig()
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	emitInfo(p.Emitter, fmt.Sprintf("Fetching results for run %d...", p.RunID))
	results, err := p.Source.GetRunResults(ctx, p.RunID)
	if err != nil {
		logger.Warn("fetching run results failed", zap.Int("run_id", p.RunID), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch results for run %d: %w", p.RunID, err)
	}

	emitInfo(p.Emitter, fmt.Sprintf("Fetching summary for run %d...", p.RunID))
	summary, err := p.Source.GetRunSummary(ctx, p.RunID)
	if err != nil {
		logger.Warn("fetching run summary failed", zap.Int("run_id", p.RunID), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch summary for run %d: %w", p.RunID, err)
	}

	tally := Aggregate(results, cfg)
	emitInfo(p.Emitter, fmt.Sprintf("Classified %d failures (%d unclassified)",
		tally.Total(), tally.Count(classify.Unclassified)))

	report := &Report{
		ID:        uuid.New(),
		RunID:     p.RunID,
		Details:   summary.Details(),
		Totals:    summary.Counts(),
		Tally:     tally,
		CreatedAt: time.Now().UTC(),
	}

	logger.Info("run analyzed",
		zap.Int("run_id", p.RunID),
		zap.Int("results", len(results)),
		zap.Int("failures", tally.Total()),
		zap.Int("unclassified", len(tally.Unclassified)))

	if p.Store != nil {
		if err := p.Store.SaveReport(ctx, report); err != nil {
			logger.Warn("saving report failed", zap.String("report_id", report.ID.String()), zap.Error(err))
			emitInfo(p.Emitter, fmt.Sprintf("Could not save report: %v", err))
		}
	}

	return report, nil
}

func emitInfo(e ProgressEmitter, msg string) {
	if e != nil {
		e.Emit(ProgressEvent{Type: "info", Message: msg})
	}
}

// FormatRunDate parses a service timestamp and returns a human-readable date.
func FormatRunDate(timestamp string) string {
	if timestamp == "" || timestamp == "N/A" {
		return "unknown date"
	}
	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return timestamp
	}
	return t.Format("2006-01-02 15:04")
}

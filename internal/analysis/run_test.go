package analysis

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/kamilpajak/runalyze/internal/classify"
	"github.com/kamilpajak/runalyze/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	results    []models.TestResult
	summary    *models.RunSummary
	resultsErr error
	summaryErr error
	calls      []string
}

func (f *fakeSource) GetRunResults(ctx context.Context, runID int) ([]models.TestResult, error) {
	f.calls = append(f.calls, "results")
	return f.results, f.resultsErr
}

func (f *fakeSource) GetRunSummary(ctx context.Context, runID int) (*models.RunSummary, error) {
	f.calls = append(f.calls, "summary")
	if f.summaryErr != nil {
		return nil, f.summaryErr
	}
	return f.summary, nil
}

type recordingEmitter struct {
	events []ProgressEvent
}

func (r *recordingEmitter) Emit(ev ProgressEvent) { r.events = append(r.events, ev) }

type memStore struct {
	saved []*Report
	err   error
}

func (m *memStore) SaveReport(ctx context.Context, r *Report) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, r)
	return nil
}

func xyConfig(t *testing.T) *classify.Config {
	t.Helper()
	cfg, err := classify.NewConfig([]classify.Rule{
		{Category: "X", Keywords: []string{"alpha"}},
		{Category: "Y", Keywords: []string{"beta"}},
	})
	require.NoError(t, err)
	return cfg
}

func failed(msg string) models.TestResult {
	return models.TestResult{Outcome: models.OutcomeFailed, ErrorMessage: msg}
}

func TestAggregate(t *testing.T) {
	results := []models.TestResult{
		failed("alpha one"),
		failed("alpha two"),
		failed("beta"),
		failed("gamma"),
		{Outcome: models.OutcomeFailed},
		{Outcome: models.OutcomePassed, ErrorMessage: "alpha"},
		{Outcome: models.OutcomeNone, ErrorMessage: "beta"},
		{Outcome: "NotExecuted"},
	}

	tally := Aggregate(results, xyConfig(t))

	assert.Equal(t, 2, tally.Count("X"))
	assert.Equal(t, 1, tally.Count("Y"))
	assert.Equal(t, 2, tally.Count(classify.Unclassified))
	assert.Equal(t, classify.Log{"gamma", ""}, tally.Unclassified)
	assert.Equal(t, 5, tally.Total())
}

func TestAggregateFreshTallyPerCall(t *testing.T) {
	cfg := xyConfig(t)
	results := []models.TestResult{failed("alpha"), failed("nothing")}

	first := Aggregate(results, cfg)
	second := Aggregate(results, cfg)

	assert.Equal(t, 2, second.Total())
	assert.Len(t, second.Unclassified, 1)
	assert.Equal(t, first.Categories, second.Categories)
}

func TestRun(t *testing.T) {
	src := &fakeSource{
		results: []models.TestResult{failed("alpha"), failed("beta"), failed("zzz")},
		summary: &models.RunSummary{
			Name:        "Nightly",
			TotalTests:  10,
			PassedTests: 6,
			Statistics: []models.RunStatistic{
				{Outcome: models.OutcomeFailed, Count: 3},
				{Outcome: models.OutcomeNone, Count: 1},
			},
		},
	}
	em := &recordingEmitter{}
	store := &memStore{}

	report, err := Run(context.Background(), Params{
		RunID:   42,
		Source:  src,
		Config:  xyConfig(t),
		Emitter: em,
		Store:   store,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"results", "summary"}, src.calls)
	assert.Equal(t, 42, report.RunID)
	assert.Equal(t, models.Totals{Total: 10, Passed: 6, Failed: 3, Aborted: 1}, report.Totals)
	assert.Equal(t, "Nightly", report.Details.Name)
	assert.Equal(t, "N/A", report.Details.BuildName)
	assert.Equal(t, 3, report.Tally.Total())
	assert.NotEmpty(t, report.ID)
	assert.Len(t, store.saved, 1)
	assert.NotEmpty(t, em.events)
}

func TestRunTotalsComeFromSummary(t *testing.T) {
	// Per-result scan sees one failure; the summary says three.
	src := &fakeSource{
		results: []models.TestResult{failed("alpha"), {Outcome: models.OutcomePassed}},
		summary: &models.RunSummary{
			TotalTests:  10,
			PassedTests: 6,
			Statistics:  []models.RunStatistic{{Outcome: models.OutcomeFailed, Count: 3}, {Outcome: models.OutcomeNone, Count: 1}},
		},
	}

	report, err := Run(context.Background(), Params{RunID: 1, Source: src, Config: xyConfig(t)})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Totals.Failed)
	assert.Equal(t, 1, report.Tally.Total())
}

func TestRunFetchErrors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("results", func(t *testing.T) {
		src := &fakeSource{resultsErr: boom}
		_, err := Run(context.Background(), Params{RunID: 7, Source: src})
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "run 7")
		assert.Equal(t, []string{"results"}, src.calls)
	})

	t.Run("summary", func(t *testing.T) {
		src := &fakeSource{summaryErr: boom}
		_, err := Run(context.Background(), Params{RunID: 7, Source: src})
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "summary")
	})
}

func TestRunInvalidParams(t *testing.T) {
	_, err := Run(context.Background(), Params{RunID: 0, Source: &fakeSource{}})
	assert.Error(t, err)

	_, err = Run(context.Background(), Params{RunID: 1})
	assert.Error(t, err)
}

func TestRunStoreFailureIsNotFatal(t *testing.T) {
	src := &fakeSource{summary: &models.RunSummary{}}
	store := &memStore{err: errors.New("db down")}
	em := &recordingEmitter{}

	report, err := Run(context.Background(), Params{RunID: 1, Source: src, Store: store, Emitter: em})
	require.NoError(t, err)
	assert.NotNil(t, report)

	last := em.events[len(em.events)-1]
	assert.Contains(t, last.Message, "db down")
}

func TestRunDefaultsToBuiltInTaxonomy(t *testing.T) {
	src := &fakeSource{
		results: []models.TestResult{failed("Assert.IsTrue failed")},
		summary: &models.RunSummary{},
	}

	report, err := Run(context.Background(), Params{RunID: 1, Source: src})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Tally.Count("Assert Failed"))
}

func TestTextEmitter(t *testing.T) {
	var buf bytes.Buffer
	e := NewTextEmitter(&buf)

	e.Emit(ProgressEvent{Type: "info", Message: "fetching"})
	e.Emit(ProgressEvent{Type: "error", Message: "bad"})
	e.Emit(ProgressEvent{Type: "done"})

	assert.Equal(t, "  fetching\nError: bad\n", buf.String())
}

func TestFormatRunDate(t *testing.T) {
	assert.Equal(t, "2026-02-08 18:04", FormatRunDate("2026-02-08T18:04:50Z"))
	assert.Equal(t, "unknown date", FormatRunDate(""))
	assert.Equal(t, "unknown date", FormatRunDate("N/A"))
	assert.Equal(t, "not-a-date", FormatRunDate("not-a-date"))
}

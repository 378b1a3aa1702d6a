package charts

import (
	"encoding/json"
	"testing"

	"github.com/kamilpajak/runalyze/internal/analysis"
	"github.com/kamilpajak/runalyze/internal/classify"
	"github.com/kamilpajak/runalyze/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport(t *testing.T, messages ...string) *analysis.Report {
	t.Helper()
	var results []models.TestResult
	for _, m := range messages {
		results = append(results, models.TestResult{Outcome: models.OutcomeFailed, ErrorMessage: m})
	}
	return &analysis.Report{RunID: 42, Tally: analysis.Aggregate(results, classify.DefaultConfig())}
}

func TestPieData(t *testing.T) {
	r := testReport(t, "Assert.Fail", "Assert.IsTrue", "???")

	data := PieData(r.Tally)

	require.Len(t, data, 6)
	assert.Equal(t, Slice{Name: "Selenium Exceptions (0)", Value: 0}, data[0])
	assert.Equal(t, Slice{Name: "Assert Failed (2)", Value: 2}, data[2])
	assert.Equal(t, Slice{Name: "Unclassified (1)", Value: 1}, data[5])
}

func TestPie(t *testing.T) {
	pie := Pie(testReport(t, "Assert.Fail"))

	title := pie["title"].(map[string]any)
	assert.Equal(t, "Run ID: 42", title["subtext"])

	series := pie["series"].([]any)
	require.Len(t, series, 1)
	assert.Equal(t, "pie", series[0].(map[string]any)["type"])
}

func TestBarsOnlyNonZeroCategories(t *testing.T) {
	bars := Bars(testReport(t, "Assert.Fail and Assert.IsTrue", "Carelink API error 500", "unknown"))

	require.Len(t, bars, 2)
	assert.Equal(t, "Assert Failed", bars[0]["id"])
	assert.Equal(t, "Carelink API Error", bars[1]["id"])

	yAxis := bars[0]["yAxis"].(map[string]any)
	assert.Contains(t, yAxis["data"], "Assert.Fail")
}

func TestBarsEmpty(t *testing.T) {
	bars := Bars(testReport(t))
	assert.NotNil(t, bars)
	assert.Empty(t, bars)
}

func TestBuildMarshals(t *testing.T) {
	set := Build(testReport(t, "TimeoutException"))

	data, err := json.Marshal(set)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Keyword Distribution for Selenium Exceptions"`)
}

package models

// Outcome is the outcome of a single test result as reported by the test
// management service.
type Outcome string

const (
	OutcomeFailed       Outcome = "Failed"
	OutcomePassed       Outcome = "Passed"
	OutcomeNone         Outcome = "None" // aborted
	OutcomeNotExecuted  Outcome = "NotExecuted"
	OutcomeInconclusive Outcome = "Inconclusive"
	OutcomeError        Outcome = "Error"
	OutcomeTimeout      Outcome = "Timeout"
	OutcomeAborted      Outcome = "Aborted"
	OutcomeBlocked      Outcome = "Blocked"
)

// TestResult represents one test result of a run
type TestResult struct {
	ID                int     `json:"id"`
	TestCaseTitle     string  `json:"testCaseTitle,omitempty"`
	AutomatedTestName string  `json:"automatedTestName,omitempty"`
	Outcome           Outcome `json:"outcome"`
	ErrorMessage      string  `json:"errorMessage,omitempty"`
	StackTrace        string  `json:"stackTrace,omitempty"`
	DurationMS        float64 `json:"durationInMs,omitempty"`
}

// Failed reports whether the result counts as a classified failure.
func (r TestResult) Failed() bool {
	return r.Outcome == OutcomeFailed
}

// RunStatistic is the number of results with a given outcome.
type RunStatistic struct {
	Outcome Outcome `json:"outcome"`
	Count   int     `json:"count"`
}

// RunSummary holds run-level metadata and aggregate counts.
type RunSummary struct {
	ID            int            `json:"id"`
	Name          string         `json:"name"`
	URL           string         `json:"url"`
	State         string         `json:"state"`
	BuildName     string         `json:"buildName"`
	BuildURL      string         `json:"buildUrl"`
	StartedDate   string         `json:"startedDate"`
	CompletedDate string         `json:"completedDate"`
	ReleaseStage  string         `json:"releaseStage"`
	TotalTests    int            `json:"totalTests"`
	PassedTests   int            `json:"passedTests"`
	Statistics    []RunStatistic `json:"runStatistics"`
}

// Totals are the four headline numbers of a run.
type Totals struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Aborted int `json:"aborted"`
}

// Counts returns the headline numbers exactly as the summary reports them.
// Failed and aborted counts are looked up by outcome name since the order of
// the statistics is not guaranteed.
func (s *RunSummary) Counts() Totals {
	return Totals{
		Total:   s.TotalTests,
		Passed:  s.PassedTests,
		Failed:  s.OutcomeCount(OutcomeFailed),
		Aborted: s.OutcomeCount(OutcomeNone),
	}
}

// OutcomeCount returns the statistic count for an outcome, or 0.
func (s *RunSummary) OutcomeCount(o Outcome) int {
	for _, st := range s.Statistics {
		if st.Outcome == o {
			return st.Count
		}
	}
	return 0
}

// Details returns the display fields of the summary with placeholders for
// anything the service left out.
func (s *RunSummary) Details() RunDetails {
	return RunDetails{
		Name:          orDefault(s.Name, "N/A"),
		URL:           orDefault(s.URL, "#"),
		BuildName:     orDefault(s.BuildName, "N/A"),
		BuildURL:      orDefault(s.BuildURL, "#"),
		State:         orDefault(s.State, "N/A"),
		StartedDate:   orDefault(s.StartedDate, "N/A"),
		CompletedDate: orDefault(s.CompletedDate, "N/A"),
		ReleaseStage:  orDefault(s.ReleaseStage, "N/A"),
	}
}

// RunDetails is the display form of a run summary.
type RunDetails struct {
	Name          string `json:"name"`
	URL           string `json:"url"`
	BuildName     string `json:"build_name"`
	BuildURL      string `json:"build_url"`
	State         string `json:"state"`
	StartedDate   string `json:"started_date"`
	CompletedDate string `json:"completed_date"`
	ReleaseStage  string `json:"release_stage"`
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

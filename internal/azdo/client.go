// Package azdo fetches test run results and run summaries from the Azure
// DevOps Test Runs REST API.
package azdo

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kamilpajak/runalyze/pkg/models"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL    = "https://dev.azure.com"
	defaultAPIVersion = "5.0"
	defaultTimeout    = 30 * time.Second
	defaultRPS        = 5
	resultsPageSize   = 1000
)

// maxResultPages bounds GetRunResults against services that never return a
// short page.
var maxResultPages = 500

// Config holds Azure DevOps connection settings.
type Config struct {
	Organization       string
	Project            string
	Token              string
	BaseURL            string
	APIVersion         string
	Timeout            time.Duration
	RequestsPerSecond  float64
	InsecureSkipVerify bool
}

// ConfigFromEnv reads connection settings from the environment.
func ConfigFromEnv() Config {
	cfg := Config{
		Organization: os.Getenv("AZDO_ORG"),
		Project:      os.Getenv("AZDO_PROJECT"),
		Token:        os.Getenv("ACCESS_TOKEN"),
		BaseURL:      os.Getenv("AZDO_BASE_URL"),
		APIVersion:   os.Getenv("AZDO_API_VERSION"),
	}
	if v, err := strconv.ParseBool(os.Getenv("AZDO_INSECURE")); err == nil {
		cfg.InsecureSkipVerify = v
	}
	return cfg
}

// ResultsFetcher returns the per-result records of a run.
type ResultsFetcher interface {
	GetRunResults(ctx context.Context, runID int) ([]models.TestResult, error)
}

// SummaryFetcher returns the aggregate summary of a run.
type SummaryFetcher interface {
	GetRunSummary(ctx context.Context, runID int) (*models.RunSummary, error)
}

// Source is any backing service exposing both run operations.
type Source interface {
	ResultsFetcher
	SummaryFetcher
}

// APIError is returned for non-success responses.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	if body == "" {
		return fmt.Sprintf("Azure DevOps API error: %s", e.Status)
	}
	return fmt.Sprintf("Azure DevOps API error: %s - %s", e.Status, body)
}

// Client handles Azure DevOps API interactions
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	apiVersion string
	limiter    *rate.Limiter
}

// NewClient creates a new Azure DevOps client
func NewClient(cfg Config) (*Client, error) {
	if cfg.Organization == "" || cfg.Project == "" {
		return nil, fmt.Errorf("organization and project are required (set AZDO_ORG and AZDO_PROJECT)")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = defaultAPIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRPS
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-signed proxies
	}

	base := strings.TrimSuffix(cfg.BaseURL, "/")
	return &Client{
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout, Transport: transport},
		baseURL:    fmt.Sprintf("%s/%s/%s", base, url.PathEscape(cfg.Organization), url.PathEscape(cfg.Project)),
		apiVersion: cfg.APIVersion,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}, nil
}

// wire shapes of the Test Runs API

type resultList struct {
	Count int          `json:"count"`
	Value []wireResult `json:"value"`
}

type wireResult struct {
	ID                int     `json:"id"`
	TestCaseTitle     string  `json:"testCaseTitle"`
	AutomatedTestName string  `json:"automatedTestName"`
	Outcome           string  `json:"outcome"`
	ErrorMessage      string  `json:"errorMessage"`
	StackTrace        string  `json:"stackTrace"`
	DurationInMs      float64 `json:"durationInMs"`
}

type wireRun struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	State string `json:"state"`
	Build struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"build"`
	StartedDate           string `json:"startedDate"`
	CompletedDate         string `json:"completedDate"`
	ReleaseEnvironmentURI string `json:"releaseEnvironmentUri"`
	TotalTests            int    `json:"totalTests"`
	PassedTests           int    `json:"passedTests"`
	RunStatistics         []struct {
		State   string `json:"state"`
		Outcome string `json:"outcome"`
		Count   int    `json:"count"`
	} `json:"runStatistics"`
}

// GetRunResults fetches every test result of a run, paging until the service
// returns a short page. A page whose first result was already seen means the
// service ignores $skip; that page is dropped and paging stops.
func (c *Client) GetRunResults(ctx context.Context, runID int) ([]models.TestResult, error) {
	results := []models.TestResult{}
	seen := make(map[int]bool)
	for pageNum := 0; pageNum < maxResultPages; pageNum++ {
		skip := pageNum * resultsPageSize
		u := fmt.Sprintf("%s/_apis/test/Runs/%d/results?api-version=%s&$top=%d&$skip=%d",
			c.baseURL, runID, c.apiVersion, resultsPageSize, skip)

		var page resultList
		if err := c.doRequest(ctx, u, &page); err != nil {
			return nil, err
		}
		if len(page.Value) > 0 && seen[page.Value[0].ID] {
			return results, nil
		}

		for _, r := range page.Value {
			seen[r.ID] = true
			results = append(results, models.TestResult{
				ID:                r.ID,
				TestCaseTitle:     r.TestCaseTitle,
				AutomatedTestName: r.AutomatedTestName,
				Outcome:           models.Outcome(r.Outcome),
				ErrorMessage:      r.ErrorMessage,
				StackTrace:        r.StackTrace,
				DurationMS:        r.DurationInMs,
			})
		}

		if len(page.Value) < resultsPageSize {
			return results, nil
		}
	}
	return nil, fmt.Errorf("run %d has more than %d result pages", runID, maxResultPages)
}

// GetRunSummary fetches run metadata and outcome statistics
func (c *Client) GetRunSummary(ctx context.Context, runID int) (*models.RunSummary, error) {
	u := fmt.Sprintf("%s/_apis/test/Runs/%d?api-version=%s", c.baseURL, runID, c.apiVersion)

	var run wireRun
	if err := c.doRequest(ctx, u, &run); err != nil {
		return nil, err
	}

	summary := &models.RunSummary{
		ID:            run.ID,
		Name:          run.Name,
		URL:           run.URL,
		State:         run.State,
		BuildName:     run.Build.Name,
		BuildURL:      run.Build.URL,
		StartedDate:   run.StartedDate,
		CompletedDate: run.CompletedDate,
		ReleaseStage:  run.ReleaseEnvironmentURI,
		TotalTests:    run.TotalTests,
		PassedTests:   run.PassedTests,
	}
	for _, st := range run.RunStatistics {
		summary.Statistics = append(summary.Statistics, models.RunStatistic{
			Outcome: models.Outcome(st.Outcome),
			Count:   st.Count,
		})
	}
	return summary, nil
}

// newAPIRequest creates an authenticated GET request for the API.
func (c *Client) newAPIRequest(ctx context.Context, endpoint string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string, result any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	req, err := c.newAPIRequest(ctx, endpoint)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

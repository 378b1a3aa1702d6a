package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := NewConfig([]Rule{
		{Category: "Assert Failed", Keywords: []string{"Assert.Fail"}},
		{Category: "Selenium Exceptions", Keywords: []string{"TimeoutException"}},
	})
	require.NoError(t, err)
	return cfg
}

func TestClassify(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name    string
		message string
		want    Category
	}{
		{"selenium token", "OpenQA.Selenium.NoSuchElementException: no such element", "Selenium Exceptions"},
		{"custom phrase", "Row with clinic name 'Acme' not found in grid", "Custom Exceptions"},
		{"assert", "Assert.AreEqual failed. Expected:<1>. Actual:<2>.", "Assert Failed"},
		{"data setup", "Data Setup API error NotFound (404) for patient", "Data Setup API Error"},
		{"carelink", "Carelink API error: 503", "Carelink API Error"},
		{"case sensitive", "assert.fail lowercased", Unclassified},
		{"no match", "Something else broke", Unclassified},
		{"empty", "", Unclassified},
		{"substring inside word", "XNullReferenceExceptionY", "Selenium Exceptions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var log Log
			assert.Equal(t, tt.want, Classify(tt.message, cfg, &log))
			if tt.want == Unclassified {
				assert.Equal(t, Log{tt.message}, log)
			} else {
				assert.Empty(t, log)
			}
		})
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	cfg := scenarioConfig(t)

	got := Classify("Assert.Fail: timed out, TimeoutException", cfg, nil)
	assert.Equal(t, Category("Assert Failed"), got)

	// Message contains both a Selenium token and an assert; Selenium comes first.
	got = Classify("Assert.IsTrue failed after WebDriverException", DefaultConfig(), nil)
	assert.Equal(t, Category("Selenium Exceptions"), got)
}

func TestClassifyIdempotent(t *testing.T) {
	cfg := DefaultConfig()
	var log Log

	first := Classify("mystery failure", cfg, &log)
	second := Classify("mystery failure", cfg, &log)

	assert.Equal(t, first, second)
	assert.Len(t, log, 2)
}

func TestClassifyNilLog(t *testing.T) {
	assert.Equal(t, Unclassified, Classify("nothing", DefaultConfig(), nil))
}

func TestClassifyMatchesAreBackedByKeywords(t *testing.T) {
	cfg := DefaultConfig()
	messages := []string{
		"",
		"TimeoutException and Assert.Fail",
		"Patient with DSN 42 missing",
		"DataSetupService timedout after 30s",
		"random text",
	}

	for _, m := range messages {
		cat := Classify(m, cfg, nil)
		if cat == Unclassified {
			for _, r := range cfg.Rules() {
				assert.Empty(t, MatchedKeywords(m, r), "message %q matched %s", m, r.Category)
			}
			continue
		}
		rule, ok := cfg.Rule(cat)
		require.True(t, ok)
		assert.NotEmpty(t, MatchedKeywords(m, rule))
	}
}

func TestMatchedKeywords(t *testing.T) {
	rule := Rule{
		Category: "Custom Exceptions",
		Keywords: []string{"Transmission not found", "Data Export failed", "Transmission not found"},
	}

	assert.Equal(t, []string{"Transmission not found"}, MatchedKeywords("Transmission not found for id 7", rule))
	assert.Equal(t,
		[]string{"Transmission not found", "Data Export failed"},
		MatchedKeywords("Data Export failed: Transmission not found", rule))
	assert.Nil(t, MatchedKeywords("ok", rule))
}

func TestNewConfigValidation(t *testing.T) {
	tests := []struct {
		name  string
		rules []Rule
		err   string
	}{
		{"no rules", nil, "no categories"},
		{"empty category", []Rule{{Category: "", Keywords: []string{"x"}}}, "empty category"},
		{"reserved", []Rule{{Category: Unclassified, Keywords: []string{"x"}}}, "reserved"},
		{"duplicate", []Rule{{Category: "A", Keywords: []string{"x"}}, {Category: "A", Keywords: []string{"y"}}}, "duplicate"},
		{"empty keyword", []Rule{{Category: "A", Keywords: []string{"x", ""}}}, "keyword 1 is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(tt.rules)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestConfigIsImmutable(t *testing.T) {
	rules := []Rule{{Category: "A", Keywords: []string{"x"}}}
	cfg, err := NewConfig(rules)
	require.NoError(t, err)

	rules[0].Keywords[0] = "changed"
	got := cfg.Rules()
	got[0].Keywords[0] = "also changed"

	assert.Equal(t, Category("A"), Classify("x", cfg, nil))
}

func TestDefaultConfigOrder(t *testing.T) {
	assert.Equal(t, []Category{
		"Selenium Exceptions",
		"Custom Exceptions",
		"Assert Failed",
		"Data Setup API Error",
		"Carelink API Error",
	}, DefaultConfig().Categories())
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	content := `categories:
  - category: Assert Failed
    keywords: ["Assert.Fail", "Assert.IsTrue"]
  - category: Timeouts
    keywords:
      - TimeoutException
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []Category{"Assert Failed", "Timeouts"}, cfg.Categories())
	assert.Equal(t, Category("Timeouts"), Classify("TimeoutException", cfg, nil))
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read taxonomy")

	_, err = ParseConfig([]byte("categories: [::"))
	assert.ErrorContains(t, err, "failed to parse taxonomy")

	_, err = ParseConfig([]byte("categories:\n  - category: A\n    keywords: [\"\"]\n"))
	assert.ErrorContains(t, err, "empty")
}

func TestClassifyNilConfig(t *testing.T) {
	var log Log
	assert.Equal(t, Unclassified, Classify("Assert.Fail", nil, &log))
	assert.Equal(t, Log{"Assert.Fail"}, log)
}

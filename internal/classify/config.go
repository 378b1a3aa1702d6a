// Package classify maps test failure messages onto a fixed, ordered taxonomy
// using literal substring matching.
package classify

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Category names one failure class.
type Category string

// Unclassified is returned for messages that match no configured keyword.
const Unclassified Category = "Unclassified"

// Rule binds a category to the keywords that are evidence for it.
type Rule struct {
	Category Category `yaml:"category" json:"category"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Config is the ordered taxonomy. Rule order decides which category wins
// when a message contains keywords of several categories.
type Config struct {
	rules []Rule
}

// NewConfig validates rules and returns an immutable Config.
func NewConfig(rules []Rule) (*Config, error) {
	if len(rules) == 0 {
		return nil, errors.New("taxonomy has no categories")
	}

	seen := make(map[Category]bool, len(rules))
	copied := make([]Rule, 0, len(rules))
	for i, r := range rules {
		if r.Category == "" {
			return nil, fmt.Errorf("rule %d: empty category name", i)
		}
		if r.Category == Unclassified {
			return nil, fmt.Errorf("rule %d: %q is reserved", i, Unclassified)
		}
		if seen[r.Category] {
			return nil, fmt.Errorf("duplicate category %q", r.Category)
		}
		seen[r.Category] = true

		for j, kw := range r.Keywords {
			if kw == "" {
				return nil, fmt.Errorf("category %q: keyword %d is empty", r.Category, j)
			}
		}

		copied = append(copied, Rule{
			Category: r.Category,
			Keywords: append([]string(nil), r.Keywords...),
		})
	}

	return &Config{rules: copied}, nil
}

// MustConfig is like NewConfig but panics on invalid rules.
func MustConfig(rules []Rule) *Config {
	cfg, err := NewConfig(rules)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Rules returns a copy of the rules in taxonomy order.
func (c *Config) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	for i, r := range c.rules {
		out[i] = Rule{Category: r.Category, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}

// Categories returns the category names in taxonomy order, without Unclassified.
func (c *Config) Categories() []Category {
	out := make([]Category, len(c.rules))
	for i, r := range c.rules {
		out[i] = r.Category
	}
	return out
}

// Rule returns the rule for a category.
func (c *Config) Rule(cat Category) (Rule, bool) {
	for _, r := range c.rules {
		if r.Category == cat {
			return r, true
		}
	}
	return Rule{}, false
}

type taxonomyFile struct {
	Categories []Rule `yaml:"categories"`
}

// LoadConfig reads a YAML taxonomy file of the form
//
//	categories:
//	  - category: Assert Failed
//	    keywords: ["Assert.Fail", "Assert.IsTrue"]
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML taxonomy bytes.
func ParseConfig(data []byte) (*Config, error) {
	var f taxonomyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy: %w", err)
	}
	return NewConfig(f.Categories)
}

// MarshalYAML writes the taxonomy in the format LoadConfig reads.
func (c *Config) MarshalYAML() (any, error) {
	return taxonomyFile{Categories: c.Rules()}, nil
}

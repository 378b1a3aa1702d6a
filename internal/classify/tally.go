package classify

// CategoryCount is the number of failed results classified into a category.
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

// KeywordCount is the number of classified messages containing a keyword.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// KeywordBreakdown holds the keyword counters of one category.
type KeywordBreakdown struct {
	Category Category       `json:"category"`
	Keywords []KeywordCount `json:"keywords"`
}

// Tally accumulates classification results for a single analysis. A new
// Tally must be created for every analysis; nothing carries over. A Tally
// decoded from JSON classifies against the categories and keywords it holds.
type Tally struct {
	Categories   []CategoryCount    `json:"categories"`
	Keywords     []KeywordBreakdown `json:"keywords"`
	Unclassified Log                `json:"unclassified"`

	cfg *Config
}

// NewTally returns a zeroed tally with one counter per category (plus
// Unclassified) and one counter per distinct keyword.
func NewTally(cfg *Config) *Tally {
	t := &Tally{
		Categories:   make([]CategoryCount, 0, len(cfg.rules)+1),
		Keywords:     make([]KeywordBreakdown, 0, len(cfg.rules)),
		Unclassified: Log{},
		cfg:          cfg,
	}

	for _, r := range cfg.rules {
		t.Categories = append(t.Categories, CategoryCount{Category: r.Category})

		kb := KeywordBreakdown{Category: r.Category, Keywords: []KeywordCount{}}
		seen := make(map[string]bool, len(r.Keywords))
		for _, kw := range r.Keywords {
			if seen[kw] {
				continue
			}
			seen[kw] = true
			kb.Keywords = append(kb.Keywords, KeywordCount{Keyword: kw})
		}
		t.Keywords = append(t.Keywords, kb)
	}
	t.Categories = append(t.Categories, CategoryCount{Category: Unclassified})

	return t
}

// Add classifies the message of one failed result and updates the counters.
// Exactly one category counter is incremented. For classified messages every
// keyword of the winning category found in the message is counted as well.
func (t *Tally) Add(message string) Category {
	cfg := t.config()
	cat := Classify(message, cfg, &t.Unclassified)
	t.increment(cat)

	if cat == Unclassified {
		return cat
	}

	rule, _ := cfg.Rule(cat)
	for _, kw := range MatchedKeywords(message, rule) {
		t.incrementKeyword(cat, kw)
	}
	return cat
}

// Count returns the counter of a category, or 0 if unknown.
func (t *Tally) Count(cat Category) int {
	for _, c := range t.Categories {
		if c.Category == cat {
			return c.Count
		}
	}
	return 0
}

// KeywordCount returns the counter of a keyword under a category.
func (t *Tally) KeywordCount(cat Category, keyword string) int {
	kb := t.breakdown(cat)
	if kb == nil {
		return 0
	}
	for _, k := range kb.Keywords {
		if k.Keyword == keyword {
			return k.Count
		}
	}
	return 0
}

// KeywordTotal returns the sum of all keyword counters of a category.
func (t *Tally) KeywordTotal(cat Category) int {
	kb := t.breakdown(cat)
	if kb == nil {
		return 0
	}
	total := 0
	for _, k := range kb.Keywords {
		total += k.Count
	}
	return total
}

// Total returns the number of classified failures, Unclassified included.
func (t *Tally) Total() int {
	total := 0
	for _, c := range t.Categories {
		total += c.Count
	}
	return total
}

// config returns the taxonomy the tally was built from, rebuilding it from
// the keyword breakdown when the tally was decoded.
func (t *Tally) config() *Config {
	if t.cfg != nil {
		return t.cfg
	}
	rules := make([]Rule, 0, len(t.Keywords))
	for _, kb := range t.Keywords {
		r := Rule{Category: kb.Category}
		for _, k := range kb.Keywords {
			if k.Keyword != "" {
				r.Keywords = append(r.Keywords, k.Keyword)
			}
		}
		rules = append(rules, r)
	}
	t.cfg = &Config{rules: rules}
	return t.cfg
}

func (t *Tally) increment(cat Category) {
	for i := range t.Categories {
		if t.Categories[i].Category == cat {
			t.Categories[i].Count++
			return
		}
	}
}

func (t *Tally) incrementKeyword(cat Category, keyword string) {
	kb := t.breakdown(cat)
	if kb == nil {
		return
	}
	for i := range kb.Keywords {
		if kb.Keywords[i].Keyword == keyword {
			kb.Keywords[i].Count++
			return
		}
	}
}

func (t *Tally) breakdown(cat Category) *KeywordBreakdown {
	for i := range t.Keywords {
		if t.Keywords[i].Category == cat {
			return &t.Keywords[i]
		}
	}
	return nil
}

package classify

import "strings"

// Log collects messages that matched no category, in the order seen.
type Log []string

// Append records an unclassified message. Duplicates are kept.
func (l *Log) Append(message string) {
	*l = append(*l, message)
}

// Classify returns the first category, in taxonomy order, that has a keyword
// occurring in message as a literal, case-sensitive substring. When nothing
// matches the message is appended to log (if non-nil) and Unclassified is
// returned. A nil cfg has no categories.
func Classify(message string, cfg *Config, log *Log) Category {
	if cfg != nil {
		for _, r := range cfg.rules {
			if containsAny(message, r.Keywords) {
				return r.Category
			}
		}
	}
	if log != nil {
		log.Append(message)
	}
	return Unclassified
}

// MatchedKeywords returns the distinct keywords of rule present in message,
// in rule order.
func MatchedKeywords(message string, rule Rule) []string {
	var matched []string
	seen := make(map[string]bool, len(rule.Keywords))
	for _, kw := range rule.Keywords {
		if seen[kw] {
			continue
		}
		seen[kw] = true
		if strings.Contains(message, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

func containsAny(message string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(message, kw) {
			return true
		}
	}
	return false
}

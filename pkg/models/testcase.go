package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// FailedTestCase is one row of the previously-failed test case table.
type FailedTestCase struct {
	ID         string `json:"ID"`
	TestCaseID string `json:"TEST_CASE_ID"`
	Name       string `json:"NAME"`
	ClassLabel string `json:"CLASS_LABEL"`
	Priority   string `json:"PRIORITY"`

	// Extra keeps any other columns of the source file.
	Extra map[string]any `json:"-"`
}

var knownCaseFields = map[string]bool{
	"ID": true, "TEST_CASE_ID": true, "NAME": true, "CLASS_LABEL": true, "PRIORITY": true,
}

// UnmarshalJSON accepts string or numeric values for the known columns and
// keeps unknown columns in Extra.
func (c *FailedTestCase) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.ID = scalarString(raw["ID"])
	c.TestCaseID = scalarString(raw["TEST_CASE_ID"])
	c.Name = scalarString(raw["NAME"])
	c.ClassLabel = scalarString(raw["CLASS_LABEL"])
	c.Priority = scalarString(raw["PRIORITY"])

	for k, v := range raw {
		if knownCaseFields[k] {
			continue
		}
		if c.Extra == nil {
			c.Extra = make(map[string]any)
		}
		c.Extra[k] = v
	}
	return nil
}

// MarshalJSON writes the known columns followed by Extra.
func (c FailedTestCase) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Extra)+5)
	for k, v := range c.Extra {
		out[k] = v
	}
	out["ID"] = c.ID
	out["TEST_CASE_ID"] = c.TestCaseID
	out["NAME"] = c.Name
	out["CLASS_LABEL"] = c.ClassLabel
	out["PRIORITY"] = c.Priority
	return json.Marshal(out)
}

// Fields returns every column value as text, known columns first and extra
// columns sorted by name.
func (c FailedTestCase) Fields() []string {
	fields := []string{c.ID, c.TestCaseID, c.Name, c.ClassLabel, c.Priority}

	keys := make([]string, 0, len(c.Extra))
	for k := range c.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, scalarString(c.Extra[k]))
	}
	return fields
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

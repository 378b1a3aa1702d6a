// Package charts builds ECharts option documents from analysis reports.
package charts

import (
	"fmt"

	"github.com/kamilpajak/runalyze/internal/analysis"
	"github.com/kamilpajak/runalyze/internal/classify"
)

// Option is an ECharts option document.
type Option map[string]any

// Set holds every chart of one report.
type Set struct {
	Pie  Option   `json:"pie"`
	Bars []Option `json:"bars"`
}

// Slice is one entry of a pie or bar series.
type Slice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

const textColor = "#FFFFFF"

var boldWhite = map[string]any{"color": textColor, "fontWeight": "bold"}

// Build returns the pie chart and the keyword bar charts of a report.
func Build(r *analysis.Report) Set {
	return Set{Pie: Pie(r), Bars: Bars(r)}
}

// PieData returns one slice per category, Unclassified included, labelled
// with its count.
func PieData(t *classify.Tally) []Slice {
	data := make([]Slice, 0, len(t.Categories))
	for _, c := range t.Categories {
		data = append(data, Slice{
			Name:  fmt.Sprintf("%s (%d)", c.Category, c.Count),
			Value: c.Count,
		})
	}
	return data
}

// Pie returns the failure classification pie chart.
func Pie(r *analysis.Report) Option {
	return Option{
		"title": map[string]any{
			"text":      "Failure Classification",
			"subtext":   fmt.Sprintf("Run ID: %d", r.RunID),
			"left":      "center",
			"textStyle": boldWhite,
		},
		"tooltip": map[string]any{
			"trigger":   "item",
			"formatter": "{b}: {d}%",
		},
		"legend": map[string]any{
			"orient":          "vertical",
			"left":            "right",
			"textStyle":       map[string]any{"color": textColor, "fontSize": 10},
			"backgroundColor": "rgba(50, 50, 50, 0.7)",
			"borderRadius":    5,
			"padding":         []int{10, 10, 10, 10},
		},
		"series": []any{
			map[string]any{
				"name":   "Error Classification",
				"type":   "pie",
				"radius": "50%",
				"data":   PieData(r.Tally),
				"label":  map[string]any{"color": textColor, "fontWeight": "bold"},
				"emphasis": map[string]any{
					"itemStyle": map[string]any{
						"shadowBlur":    10,
						"shadowOffsetX": 0,
						"shadowColor":   "rgba(0, 0, 0, 0.5)",
					},
				},
			},
		},
	}
}

// Bars returns one horizontal bar chart per category with at least one
// non-zero keyword counter, in taxonomy order.
func Bars(r *analysis.Report) []Option {
	bars := []Option{}
	for _, kb := range r.Tally.Keywords {
		if !anyNonZero(kb.Keywords) {
			continue
		}
		bars = append(bars, bar(kb))
	}
	return bars
}

func bar(kb classify.KeywordBreakdown) Option {
	names := make([]string, 0, len(kb.Keywords))
	data := make([]Slice, 0, len(kb.Keywords))
	for _, k := range kb.Keywords {
		names = append(names, k.Keyword)
		data = append(data, Slice{Name: k.Keyword, Value: k.Count})
	}

	return Option{
		"id": string(kb.Category),
		"title": map[string]any{
			"text":      fmt.Sprintf("Keyword Distribution for %s", kb.Category),
			"left":      "center",
			"textStyle": boldWhite,
		},
		"tooltip": map[string]any{
			"trigger":     "axis",
			"axisPointer": map[string]any{"type": "shadow"},
		},
		"grid": map[string]any{
			"left":         "10%",
			"right":        "10%",
			"bottom":       "10%",
			"containLabel": true,
		},
		"xAxis": map[string]any{
			"type":      "value",
			"axisLabel": boldWhite,
		},
		"yAxis": map[string]any{
			"type":      "category",
			"data":      names,
			"axisLabel": map[string]any{"color": textColor, "fontWeight": "bold", "interval": 0},
		},
		"series": []any{
			map[string]any{
				"data":      data,
				"type":      "bar",
				"itemStyle": map[string]any{"color": "#61A0A8"},
				"label": map[string]any{
					"show":       true,
					"position":   "right",
					"color":      textColor,
					"fontWeight": "bold",
				},
			},
		},
	}
}

func anyNonZero(counts []classify.KeywordCount) bool {
	for _, k := range counts {
		if k.Count > 0 {
			return true
		}
	}
	return false
}

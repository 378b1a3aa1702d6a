package dashboard

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/kamilpajak/runalyze/internal/casetable"
	"go.uber.org/zap"
)

// handleCases returns the filtered failed test case table. Repeated label
// and priority parameters form the multi-select sets.
func (h *Handler) handleCases(w http.ResponseWriter, r *http.Request) {
	cases, err := casetable.Load(h.cases)
	if errors.Is(err, casetable.ErrNoFile) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("loading test cases failed", zap.String("path", h.cases), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load test cases")
		return
	}

	q := r.URL.Query()
	filter := casetable.Filter{
		Search:     q.Get("search"),
		Labels:     q["label"],
		Priorities: q["priority"],
		Limit:      casetable.DefaultLimit,
	}
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"cases":   casetable.Apply(cases, filter),
		"matched": casetable.Count(cases, filter),
		"total":   len(cases),
		"options": casetable.OptionsOf(cases),
		"filter":  filter,
	})
}

package dashboard

import (
	"net/http"
	"strconv"

	"github.com/kamilpajak/runalyze/internal/database"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusNotFound, "history is not enabled (set DATABASE_URL)")
		return
	}

	params := database.ListReportsParams{Limit: defaultHistoryLimit}
	q := r.URL.Query()
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 || n > maxHistoryLimit {
			writeError(w, http.StatusBadRequest, "invalid limit (1-100)")
			return
		}
		params.Limit = n
	}
	if rid := q.Get("run_id"); rid != "" {
		n, err := strconv.Atoi(rid)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid run_id")
			return
		}
		params.RunID = &n
	}

	reports, err := h.history.ListReports(r.Context(), params)
	if err != nil {
		h.logger.Error("listing reports failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"reports": reports, "limit": params.Limit})
}

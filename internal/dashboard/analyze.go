package dashboard

import (
	"net/http"
	"strconv"

	"github.com/kamilpajak/runalyze/internal/analysis"
	"github.com/kamilpajak/runalyze/internal/charts"
	"go.uber.org/zap"
)

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	rid := r.URL.Query().Get("run_id")
	if rid == "" {
		http.Error(w, "run_id parameter required", http.StatusBadRequest)
		return
	}
	runID, err := strconv.Atoi(rid)
	if err != nil || runID <= 0 {
		http.Error(w, "invalid run_id", http.StatusBadRequest)
		return
	}
	if h.source == nil {
		http.Error(w, "no data source configured", http.StatusServiceUnavailable)
		return
	}

	emitter := NewSSEEmitter(w)
	if emitter == nil {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	report, err := analysis.Run(r.Context(), analysis.Params{
		RunID:   runID,
		Source:  h.source,
		Config:  h.taxonomy,
		Emitter: emitter,
		Store:   h.store,
		Logger:  h.logger,
	})
	if err != nil {
		h.logger.Warn("analysis failed", zap.Int("run_id", runID), zap.Error(err))
		emitter.Emit(analysis.ProgressEvent{Type: "error", Message: err.Error()})
		return
	}

	emitter.Emit(analysis.ProgressEvent{Type: "done", Report: report, Charts: charts.Build(report)})
}

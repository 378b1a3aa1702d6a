// Package dashboard serves the browser dashboard and its JSON/SSE endpoints.
package dashboard

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"

	"github.com/kamilpajak/runalyze/internal/analysis"
	"github.com/kamilpajak/runalyze/internal/azdo"
	"github.com/kamilpajak/runalyze/internal/classify"
	"github.com/kamilpajak/runalyze/internal/database"
	"github.com/kamilpajak/runalyze/internal/logging"
	"go.uber.org/zap"
)

//go:embed static
var staticFiles embed.FS

// History lists previously stored reports.
type History interface {
	ListReports(ctx context.Context, params database.ListReportsParams) ([]analysis.Report, error)
}

// Config wires the dashboard to its collaborators. Only Source is required.
type Config struct {
	Source    azdo.Source
	Taxonomy  *classify.Config
	CasesPath string
	Store     analysis.Saver
	History   History
	Logger    *zap.Logger
}

// Handler serves the web dashboard and API endpoints.
type Handler struct {
	mux      *http.ServeMux
	source   azdo.Source
	taxonomy *classify.Config
	cases    string
	store    analysis.Saver
	history  History
	logger   *zap.Logger
}

// NewHandler creates a new web handler with all routes registered.
func NewHandler(cfg Config) *Handler {
	taxonomy := cfg.Taxonomy
	if taxonomy == nil {
		taxonomy = classify.DefaultConfig()
	}

	h := &Handler{
		mux:      http.NewServeMux(),
		source:   cfg.Source,
		taxonomy: taxonomy,
		cases:    cfg.CasesPath,
		store:    cfg.Store,
		history:  cfg.History,
		logger:   logging.OrNop(cfg.Logger).Named("dashboard"),
	}

	staticFS, _ := fs.Sub(staticFiles, "static")
	h.mux.Handle("GET /", http.FileServer(http.FS(staticFS)))
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /api/analyze", h.handleAnalyze)
	h.mux.HandleFunc("GET /api/cases", h.handleCases)
	h.mux.HandleFunc("GET /api/history", h.handleHistory)
	h.mux.HandleFunc("GET /api/taxonomy", h.handleTaxonomy)

	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("request", zap.String("method", r.Method), zap.String("path", r.URL.Path))
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleTaxonomy(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": h.taxonomy.Rules()})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rlaaudgjs5638/mixAnalyzer/internal/mixer/domain"
	"github.com/rlaaudgjs5638/mixAnalyzer/internal/mixer/infra"
	"github.com/rlaaudgjs5638/mixAnalyzer/server/utils"
)

// MixerAPIHandler serves stored run artifacts to the (out-of-scope)
// presentation layer: links, clusters, relayer profiles, findings and the
// exchange-format graph.
type MixerAPIHandler struct {
	store infra.ArtifactStore
}

// NewMixerAPIHandler wires the handler to an artifact store.
func NewMixerAPIHandler(store infra.ArtifactStore) *MixerAPIHandler {
	return &MixerAPIHandler{store: store}
}

// RegisterRoutes mounts the module's API endpoints.
func (h *MixerAPIHandler) RegisterRoutes(router *chi.Mux) error {
	router.Route("/api/mixer", func(r chi.Router) {
		r.Get("/health", h.handleHealth)
		r.Get("/runs", h.handleListRuns)
		r.Get("/runs/{id}", h.handleRun(func(res *domain.RunResult) any { return res }))
		r.Get("/runs/{id}/graph", h.handleRun(func(res *domain.RunResult) any { return res.Graph }))
		r.Get("/runs/{id}/links", h.handleRun(func(res *domain.RunResult) any { return res.Links }))
		r.Get("/runs/{id}/clusters", h.handleRun(func(res *domain.RunResult) any { return res.Clusters }))
		r.Get("/runs/{id}/relayers", h.handleRun(func(res *domain.RunResult) any { return res.Relayers }))
		r.Get("/runs/{id}/findings", h.handleRun(func(res *domain.RunResult) any { return res.Findings }))
		r.Get("/runs/{id}/pools", h.handleRun(func(res *domain.RunResult) any { return res.Pools }))
	})
	return nil
}

func (h *MixerAPIHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, map[string]string{"status": "healthy"})
}

func (h *MixerAPIHandler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.store.ListRuns()
	if err != nil {
		utils.WriteErrorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []infra.RunSummary{}
	}
	utils.WriteJSONResponse(w, runs)
}

// handleRun resolves {id} ("latest" included) and responds with a view of
// the stored result.
func (h *MixerAPIHandler) handleRun(view func(*domain.RunResult) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			utils.WriteErrorResponse(w, "missing run id", http.StatusBadRequest)
			return
		}

		var (
			res *domain.RunResult
			err error
		)
		if id == "latest" {
			res, err = h.store.LatestRun()
		} else {
			res, err = h.store.GetRun(id)
		}
		if err != nil {
			utils.WriteErrorResponse(w, err.Error(), http.StatusNotFound)
			return
		}
		utils.WriteJSONResponse(w, view(res))
	}
}

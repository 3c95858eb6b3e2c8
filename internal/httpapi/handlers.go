package httpapi

import (
	"net/http"
	"strconv"

	"github.com/nash-core-poc/server/internal/agent/model"
	errx "github.com/nash-core-poc/server/internal/core/error"
	"github.com/nash-core-poc/server/internal/physics"
)

type simulateRequest struct {
	T             any            `json:"T"`
	D             any            `json:"D"`
	Material      string         `json:"material"`
	MaterialProps map[string]any `json:"material_props"`
}

// material picks material_props over a plain material name.
func (r simulateRequest) material() any {
	if r.MaterialProps != nil {
		return r.MaterialProps
	}
	if r.Material != "" {
		return r.Material
	}
	return nil
}

type sweepRequest struct {
	simulateRequest
	Diameters []float64 `json:"diameters"`
}

type sessionResponse struct {
	SessionID string   `json:"session_id"`
	Total     int      `json:"total"`
	Entries   []string `json:"entries"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var in model.QueryInput
	if err := decodeBody(w, r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	res, err := s.runner.Run(r.Context(), in)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var in simulateRequest
	if err := decodeBody(w, r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	req, err := physics.NewRequest(in.T, in.D, in.material(), s.catalog)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, physics.ErrorResult(err))
		return
	}
	res := s.estimator.Estimate(req)
	if !res.OK() {
		writeJSON(w, http.StatusUnprocessableEntity, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	var in sweepRequest
	if err := decodeBody(w, r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	if len(in.Diameters) > maxSweepSize {
		writeError(w, http.StatusBadRequest, string(errx.KindInvalidRequest), "too many diameters")
		return
	}
	base, err := physics.NewRequest(in.T, nil, in.material(), s.catalog)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, physics.ErrorResult(err))
		return
	}
	diameters := in.Diameters
	if len(diameters) == 0 {
		diameters = physics.DefaultDiameters
	}

	results, err := physics.Sweep(r.Context(), s.estimator, physics.DiameterSweep(base.TemperatureK, base.Material, diameters), s.sweepLimit)
	if err != nil {
		writeAppError(w, errx.NewKind(errx.KindCancelled, err, "sweep cancelled"))
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleMaterials(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"default":   s.catalog.Default().Name,
		"materials": s.catalog.Profiles(),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, string(errx.KindInvalidRequest), "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	total, err := s.sessions.Len(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	entries, err := s.sessions.Transcript(r.Context(), id, limit)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if entries == nil {
		entries = []string{}
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: id, Total: total, Entries: entries})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Clear(r.Context(), r.PathValue("id")); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/superior-tools/crm-resolver/internal/model"
	"github.com/superior-tools/crm-resolver/internal/validate"
	"github.com/superior-tools/crm-resolver/pkg/fence"
)

// session extracts the forwarded CRM session cookie. The upstream never
// sees our bearer secret; it authenticates with the caller's cookie.
func session(r *http.Request) string {
	return r.Header.Get("Cookie")
}

type runRequest struct {
	Input string `json:"input"`
}

// handleRun executes the full resolution pipeline on a raw text blob.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Input) == "" {
		respondError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	rows, err := s.engine.WithSession(session(r)).Run(r.Context(), req.Input)
	if err != nil {
		zap.L().Error("run pipeline failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "resolution failed")
		return
	}
	if rows == nil {
		rows = []model.ResultRow{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"results": rows})
}

type searchResult struct {
	Query  string            `json:"query"`
	Status model.MatchStatus `json:"status"`
	Leads  []fence.Lead      `json:"leads"`
}

// handleLeadSearch resolves the names parameter query-by-query without
// aggregation, reporting each query's match status and hits.
func (s *Server) handleLeadSearch(w http.ResponseWriter, r *http.Request) {
	names := strings.TrimSpace(r.URL.Query().Get("names"))
	if len(names) < 3 {
		respondError(w, http.StatusBadRequest, "Missing or invalid names")
		return
	}

	resolutions, err := s.engine.WithSession(session(r)).SearchQueries(r.Context(), names, s.opts.TrackStates...)
	if err != nil {
		zap.L().Error("lead search failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "search failed")
		return
	}

	results := make([]searchResult, len(resolutions))
	for i, res := range resolutions {
		leads := res.Leads
		if leads == nil {
			leads = []fence.Lead{}
		}
		results[i] = searchResult{Query: res.Input, Status: res.Status, Leads: leads}
	}
	respondJSON(w, http.StatusOK, map[string]any{"count": len(results), "results": results})
}

// handleLeadMatch resolves a structured record via candidate terms.
func (s *Server) handleLeadMatch(w http.ResponseWriter, r *http.Request) {
	var rec model.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		respondError(w, http.StatusBadRequest, "Missing body")
		return
	}
	respondJSON(w, http.StatusOK, s.engine.WithSession(session(r)).MatchRecord(r.Context(), rec))
}

// handleContractsByLead lists a lead's contracts after the configured
// status filter. Upstream failures degrade to an empty result set.
func (s *Server) handleContractsByLead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing or invalid id")
		return
	}

	contracts, err := s.client.WithSession(session(r)).ContractsByLead(r.Context(), id, s.opts.ContractStatuses...)
	if err != nil {
		zap.L().Warn("contract lookup failed", zap.Int64("lead_id", id), zap.Error(err))
		contracts = nil
	}
	if contracts == nil {
		contracts = []fence.Contract{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"results": contracts})
}

// handleContractDetail fetches a single contract with its job flags and
// estimate breakdown. Failures degrade to a null result.
func (s *Server) handleContractDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing or invalid id")
		return
	}

	detail, err := s.client.WithSession(session(r)).ContractDetail(r.Context(), id)
	if err != nil {
		zap.L().Warn("contract detail lookup failed", zap.Int64("contract_id", id), zap.Error(err))
		detail = nil
	}
	respondJSON(w, http.StatusOK, map[string]any{"result": detail})
}

// handleJob fetches a single job. Failures degrade to a null job.
func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing or invalid id")
		return
	}

	job, err := s.client.WithSession(session(r)).Job(r.Context(), id)
	if err != nil {
		zap.L().Warn("job lookup failed", zap.Int64("job_id", id), zap.Error(err))
		job = nil
	}
	respondJSON(w, http.StatusOK, map[string]any{"job": job})
}

func (s *Server) handleValidateByJobID(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		respondError(w, http.StatusBadRequest, "Missing job ID in query")
		return
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing or invalid id")
		return
	}

	summary, err := s.validator.WithSession(session(r)).ByJobID(r.Context(), id)
	if err != nil {
		respondError(w, validationStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"result": summary})
}

func (s *Server) handleValidateByLeadName(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		respondError(w, http.StatusBadRequest, "Missing customer name in query")
		return
	}

	summary, err := s.validator.WithSession(session(r)).ByLeadName(r.Context(), name)
	if err != nil {
		respondError(w, validationStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"result": summary})
}

func (s *Server) handleValidateBatch(w http.ResponseWriter, r *http.Request) {
	var entries []validate.BatchEntry
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid input. Expected an array.")
		return
	}
	respondJSON(w, http.StatusOK, s.validator.WithSession(session(r)).Batch(r.Context(), entries))
}

// validationStatus maps validation failures to status codes: things that
// do not exist are 404s, everything else is an input problem.
func validationStatus(err error) int {
	if errors.Is(err, validate.ErrJobNotFound) || errors.Is(err, validate.ErrContractNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

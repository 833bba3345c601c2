package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sozercan/carprice/apimodels"
	"github.com/sozercan/carprice/internal/estimator"
	"github.com/sozercan/carprice/internal/features"
	"github.com/sozercan/carprice/internal/predictor"
)

// maxBodyBytes bounds the estimate form payload.
const maxBodyBytes = 1 << 16

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req apimodels.EstimateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request: %w", err))
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, fmt.Errorf("invalid request: %w", err))
		return
	}

	slog.Debug("Received estimate request", "request", req)

	resp, err := s.estimator.Estimate(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			slog.Error("Estimate request failed", "error", err)
		}
		writeError(w, status, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = n
	}

	records, err := s.estimator.Recent(r.Context(), limit)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			slog.Error("Listing estimates failed", "error", err)
		}
		writeError(w, status, err)
		return
	}
	if records == nil {
		records = []estimator.Record{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"estimates": records})
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.estimator.Options())
}

func (s *Server) handlePolicy(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.estimator.Policy())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, features.ErrUnknownLabel),
		errors.Is(err, features.ErrYearOutOfRange),
		errors.Is(err, estimator.ErrInvalidRequest):
		return http.StatusUnprocessableEntity
	case errors.Is(err, estimator.ErrHistoryDisabled):
		return http.StatusNotFound
	case errors.Is(err, predictor.ErrBackendUnavailable),
		errors.Is(err, predictor.ErrBadPrediction):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

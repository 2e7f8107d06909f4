// Package server exposes the prediction pipeline over HTTP. It owns
// everything the core deliberately does not know about: routes, status
// codes, JSON bodies and the record of served predictions.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/gridsense/powercast/internal/history"
	"github.com/gridsense/powercast/internal/pipeline"
	"github.com/gridsense/powercast/internal/table"
)

// Upload size ceiling; a 24-row CSV is a few kilobytes.
const maxUploadBytes = 1 << 20

// Server routes HTTP traffic to the predictor facade.
type Server struct {
	predictor *pipeline.Predictor
	hist      *history.Store
	log       zerolog.Logger
}

// New creates a server around a ready predictor.
func New(p *pipeline.Predictor, hist *history.Store, log zerolog.Logger) *Server {
	return &Server{predictor: p, hist: hist, log: log}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/predict", s.handlePredict).Methods(http.MethodPost)
	r.HandleFunc("/api/history", s.handleHistory).Methods(http.MethodGet)
	return r
}

type predictResponse struct {
	PredictedPowerKW    float64            `json:"predicted_power_kw"`
	PredictedNextHourKW float64            `json:"predicted_next_hour_kw"`
	ActualLast24hKW     []float64          `json:"actual_last_24h_kw"`
	Warnings            []pipeline.Warning `json:"warnings,omitempty"`
}

type errorBody struct {
	Kind    string `json:"kind"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	arts := s.predictor.Artifacts()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"lookback": arts.Config.Lookback,
		"horizon":  arts.Config.Horizon,
		"target":   arts.Config.TargetColumn,
		"features": arts.Manifest,
	})
}

// handlePredict accepts a CSV upload, either as a multipart "file"
// field or as the raw request body, and returns the next-hour forecast.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	raw, err := s.readUpload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorBody{
			Kind:    "upload",
			Message: err.Error(),
		}})
		return
	}

	result, err := s.predictor.Predict(raw)
	if err != nil {
		s.writePredictError(w, err)
		return
	}

	s.hist.Add(history.Entry{
		Timestamp:   time.Now().UTC(),
		PredictedKW: result.PredictedKW,
		HistoryKW:   result.HistoryKW,
		Source:      "api",
	})

	s.log.Info().
		Float64("predicted_kw", result.PredictedKW).
		Int("warnings", len(result.Warnings)).
		Msg("prediction served")

	writeJSON(w, http.StatusOK, predictResponse{
		PredictedPowerKW:    result.PredictedKW,
		PredictedNextHourKW: result.PredictedKW,
		ActualLast24hKW:     result.HistoryKW,
		Warnings:            result.Warnings,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorBody{
				Kind:    "query",
				Message: "limit must be a non-negative integer",
			}})
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, s.hist.Recent(limit))
}

func (s *Server) readUpload(r *http.Request) (*table.RawTable, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)

	if file, _, err := r.FormFile("file"); err == nil {
		defer file.Close()
		return table.ReadCSV(file)
	}
	return table.ReadCSV(r.Body)
}

// writePredictError maps the pipeline's error taxonomy onto HTTP.
// Validation problems are the user's to fix; everything else is an
// internal fault that must still produce a clean response.
func (s *Server) writePredictError(w http.ResponseWriter, err error) {
	var vErr *pipeline.ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorBody{
			Kind:    "validation",
			Reason:  string(vErr.Reason),
			Message: vErr.Error(),
		}})
		return
	}

	var shapeErr *pipeline.ShapeError
	if errors.As(err, &shapeErr) {
		// Validation should have made this unreachable.
		s.log.Error().Err(err).Msg("tensor shape mismatch past validation")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errorBody{
			Kind:    "internal",
			Message: "prediction failed due to an internal shape mismatch",
		}})
		return
	}

	s.log.Error().Err(err).Msg("prediction failed")
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errorBody{
		Kind:    "internal",
		Message: err.Error(),
	}})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

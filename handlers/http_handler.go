// Package handlers provides HTTP request handlers for the hemotherapy API endpoints.
// This file implements the HTTPHandler interface with dependency injection.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/giygas/hemoterapia-api/interfaces"
	"github.com/giygas/hemoterapia-api/logging"
	"github.com/giygas/hemoterapia-api/metrics"
	"github.com/giygas/hemoterapia-api/presenter"
	"github.com/giygas/hemoterapia-api/transfusion"
	"github.com/giygas/hemoterapia-api/validation"
	"github.com/google/uuid"
)

// Compile-time check to ensure HTTPHandlerImpl implements HTTPHandler
var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	evaluator     interfaces.Evaluator
	validator     interfaces.SnapshotValidator
	presenter     *presenter.Presenter
	stats         interfaces.StatsStore
	healthChecker interfaces.HealthChecker
	now           func() time.Time
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(
	evaluator interfaces.Evaluator,
	validator interfaces.SnapshotValidator,
	p *presenter.Presenter,
	stats interfaces.StatsStore,
	healthChecker interfaces.HealthChecker,
) interfaces.HTTPHandler {
	if p == nil {
		p = presenter.New()
	}

	return &HTTPHandlerImpl{
		evaluator:     evaluator,
		validator:     validator,
		presenter:     p,
		stats:         stats,
		healthChecker: healthChecker,
		now:           time.Now,
	}
}

// EvaluateRequest is the JSON body of an evaluation. Numeric fields are
// pointers so a missing value can be told apart from zero.
type EvaluateRequest struct {
	Age           *int     `json:"age"`
	Weight        *float64 `json:"weight"`
	Hemoglobin    *float64 `json:"hemoglobin"`
	PlateletCount *int     `json:"platelet_count"`
	INR           *float64 `json:"inr"`

	ActiveBleeding                   bool `json:"active_bleeding"`
	HemodynamicInstability           bool `json:"hemodynamic_instability"`
	Immunosuppressed                 bool `json:"immunosuppressed"`
	SickleCellDisease                bool `json:"sickle_cell_disease"`
	Alloimmunized                    bool `json:"alloimmunized"`
	RecurrentSevereAllergicReactions bool `json:"recurrent_severe_allergic_reactions"`
	OnSystemicImmunosuppressants     bool `json:"on_systemic_immunosuppressants"`
}

// Snapshot converts the request, reporting every missing required field
func (req EvaluateRequest) Snapshot() (transfusion.PatientSnapshot, error) {
	var missing []string
	if req.Age == nil {
		missing = append(missing, "age")
	}
	if req.Weight == nil {
		missing = append(missing, "weight")
	}
	if req.Hemoglobin == nil {
		missing = append(missing, "hemoglobin")
	}
	if req.PlateletCount == nil {
		missing = append(missing, "platelet_count")
	}
	if req.INR == nil {
		missing = append(missing, "inr")
	}
	if len(missing) > 0 {
		return transfusion.PatientSnapshot{}, fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	return transfusion.PatientSnapshot{
		Age:                              *req.Age,
		Weight:                           *req.Weight,
		Hemoglobin:                       *req.Hemoglobin,
		PlateletCount:                    *req.PlateletCount,
		INR:                              *req.INR,
		ActiveBleeding:                   req.ActiveBleeding,
		HemodynamicInstability:           req.HemodynamicInstability,
		Immunosuppressed:                 req.Immunosuppressed,
		SickleCellDisease:                req.SickleCellDisease,
		Alloimmunized:                    req.Alloimmunized,
		RecurrentSevereAllergicReactions: req.RecurrentSevereAllergicReactions,
		OnSystemicImmunosuppressants:     req.OnSystemicImmunosuppressants,
	}, nil
}

// EvaluateResponse defines the structure for consistent JSON ordering
type EvaluateResponse struct {
	EvaluationID    string                         `json:"evaluation_id"`
	EvaluatedAt     string                         `json:"evaluated_at"`
	Teaching        bool                           `json:"teaching"`
	Recommendations []presenter.RecommendationView `json:"recommendations"`
	Message         string                         `json:"message,omitempty"`
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		logging.Warn("Failed to write response", "error", err)
	}
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	h.RespondWithJSON(w, code, map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	})
}

// respondWithValidationError writes a 400 with the per-field violations
func (h *HTTPHandlerImpl) respondWithValidationError(w http.ResponseWriter, verr *validation.ValidationError) {
	h.RespondWithJSON(w, http.StatusBadRequest, map[string]any{
		"error":   http.StatusText(http.StatusBadRequest),
		"message": "Patient snapshot failed validation",
		"code":    http.StatusBadRequest,
		"details": verr.Fields,
	})
}

// EvaluateTransfusion decodes a patient snapshot, validates it and returns the
// indicated blood products
func (h *HTTPHandlerImpl) EvaluateTransfusion(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	teaching, err := h.validator.ValidateTeachingFlag(query.Get("teaching"))
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	format := strings.ToLower(query.Get("format"))
	if format != "" && format != "json" && format != "markdown" {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid format: expected json or markdown")
		return
	}

	snapshot, status, err := decodeSnapshot(r)
	if err != nil {
		h.recordValidationFailure()
		h.RespondWithError(w, status, err.Error())
		return
	}

	if err := h.validator.ValidateSnapshot(snapshot); err != nil {
		h.recordValidationFailure()

		var verr *validation.ValidationError
		if errors.As(err, &verr) {
			logging.Warn("Rejected patient snapshot", "fields", len(verr.Fields))
			h.respondWithValidationError(w, verr)
			return
		}
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	recs := h.evaluator.Evaluate(snapshot)
	metrics.ObserveEvaluation(recs)
	if h.stats != nil {
		h.stats.RecordEvaluation(recs)
	}

	if format == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := io.WriteString(w, h.presenter.Markdown(recs, teaching)); err != nil {
			logging.Warn("Failed to write response", "error", err)
		}
		return
	}

	response := EvaluateResponse{
		EvaluationID:    uuid.NewString(),
		EvaluatedAt:     h.now().UTC().Format(time.RFC3339),
		Teaching:        teaching,
		Recommendations: h.presenter.View(recs, teaching),
	}
	if len(recs) == 0 {
		response.Message = presenter.NoIndication
	}

	h.RespondWithJSON(w, http.StatusOK, response)
}

var errEmptyBody = errors.New("invalid JSON body: request body is required")

// decodeSnapshot reads the request body. The returned status is the HTTP code
// to answer with when err is not nil.
func decodeSnapshot(r *http.Request) (transfusion.PatientSnapshot, int, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return transfusion.PatientSnapshot{}, http.StatusBadRequest, errEmptyBody
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req EvaluateRequest
	if err := dec.Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return transfusion.PatientSnapshot{}, http.StatusRequestEntityTooLarge,
				fmt.Errorf("request body too large, maximum allowed size is %d bytes", maxBytesErr.Limit)
		}
		if errors.Is(err, io.EOF) {
			return transfusion.PatientSnapshot{}, http.StatusBadRequest, errEmptyBody
		}
		return transfusion.PatientSnapshot{}, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err)
	}

	if dec.More() {
		return transfusion.PatientSnapshot{}, http.StatusBadRequest, errors.New("invalid JSON body: unexpected data after snapshot")
	}

	snapshot, err := req.Snapshot()
	if err != nil {
		return transfusion.PatientSnapshot{}, http.StatusBadRequest, err
	}
	return snapshot, http.StatusOK, nil
}

func (h *HTTPHandlerImpl) recordValidationFailure() {
	metrics.ValidationFailuresTotal.Inc()
	if h.stats != nil {
		h.stats.RecordValidationFailure()
	}
}

// ServeReferences returns the static bibliography behind the decision rules
func (h *HTTPHandlerImpl) ServeReferences(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=86400") // 1 day
	h.RespondWithJSON(w, http.StatusOK, map[string]any{
		"references": presenter.References(),
	})
}

// HealthCheck returns server health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.healthChecker == nil {
		h.RespondWithError(w, http.StatusServiceUnavailable, "Health checker unavailable")
		return
	}

	status, details, httpStatus := h.healthChecker.HealthCheck()

	response := map[string]any{
		"status": status,
	}
	for key, value := range details {
		response[key] = value
	}

	h.RespondWithJSON(w, httpStatus, response)
}

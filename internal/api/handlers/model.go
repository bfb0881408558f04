// Task 8.6: HTTP handlers for the model lifecycle.
// Translates HTTP requests into model.Service calls and maps domain errors
// to HTTP codes.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/srilakshmipotnuru/mindsdb/internal/domain/model"
	"github.com/srilakshmipotnuru/mindsdb/internal/domain/template"
	"github.com/srilakshmipotnuru/mindsdb/internal/domain/usage"
)

// ModelHandler handles model create/predict/describe/finetune requests.
type ModelHandler struct {
	service  *model.Service
	recorder *usage.Recorder
}

// NewModelHandler creates a ModelHandler.
func NewModelHandler(service *model.Service, recorder *usage.Recorder) *ModelHandler {
	return &ModelHandler{service: service, recorder: recorder}
}

// CreateModelRequest is the request body for POST /api/v1/models.
// Using carries the model arguments (prompt_template, model_name, tools,
// writer, credentials, ...).
type CreateModelRequest struct {
	Name   string         `json:"name"`
	Target string         `json:"target"`
	Using  map[string]any `json:"using"`
}

// PredictRequest is the request body for POST /api/v1/models/{name}/predict.
// Params are predict-time overrides (prompt_template, stops, sampling).
type PredictRequest struct {
	Rows   []map[string]any `json:"rows"`
	Params map[string]any   `json:"params"`
}

// PredictResponse is the response body for a prediction batch.
// Completions has one entry per input row; excluded rows carry null.
type PredictResponse struct {
	Target      string    `json:"target"`
	Completions []*string `json:"completions"`
}

// DescribeResponse is the tabular describe result.
type DescribeResponse struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// CreateModel handles POST /api/v1/models.
//
// Response codes:
//   - 201 Created: model registered
//   - 400 Bad Request: invalid JSON or failed creation validation
//   - 409 Conflict: model name already taken
func (h *ModelHandler) CreateModel(w http.ResponseWriter, r *http.Request) {
	var req CreateModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Target == "" {
		writeError(w, http.StatusBadRequest, "target is required")
		return
	}

	err := h.service.Create(r.Context(), req.Name, req.Target, model.Args(req.Using))
	if err != nil {
		switch {
		case errors.Is(err, model.ErrModelExists):
			writeError(w, http.StatusConflict, "model already exists")
		case errors.Is(err, model.ErrMissingUsing), errors.Is(err, model.ErrMissingPromptTemplate):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "model creation failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"name": req.Name, "status": "complete"})
}

// Predict handles POST /api/v1/models/{name}/predict.
//
// Response codes:
//   - 200 OK: batch executed (per-row failures are embedded in completions)
//   - 400 Bad Request: invalid JSON, missing template, or bad credentials
//   - 404 Not Found: unknown model
func (h *ModelHandler) Predict(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rows := make([]template.Row, len(req.Rows))
	for i, raw := range req.Rows {
		rows[i] = template.Row(raw)
	}

	pred, err := h.service.Predict(r.Context(), name, rows, model.Args(req.Params))
	if err != nil {
		writePredictError(w, err)
		return
	}

	completions := make([]*string, len(pred.Completions))
	for i, c := range pred.Completions {
		if c.Valid {
			text := c.Text
			completions[i] = &text
		}
	}

	writeJSON(w, http.StatusOK, PredictResponse{
		Target:      pred.Target,
		Completions: completions,
	})
}

// writePredictError maps Predict domain errors to HTTP codes.
// Extracted to keep Predict below the complexity threshold.
func writePredictError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrModelNotFound):
		writeError(w, http.StatusNotFound, "model not found")
	case errors.Is(err, model.ErrPromptTemplateRequired),
		errors.Is(err, model.ErrMissingCredential),
		errors.Is(err, template.ErrUnmatchedBrace):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "prediction failed")
	}
}

// Describe handles GET /api/v1/models/{name}/describe.
// The optional ?attribute=info query selects the description record;
// without it the list of describable attributes is returned.
//
// Response codes:
//   - 200 OK: description returned
//   - 404 Not Found: unknown model
//   - 409 Conflict: model has not been used yet
func (h *ModelHandler) Describe(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	attribute := r.URL.Query().Get("attribute")

	res, err := h.service.Describe(r.Context(), name, attribute)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrModelNotFound):
			writeError(w, http.StatusNotFound, "model not found")
		case errors.Is(err, model.ErrNotDescribed):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "describe failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, DescribeResponse{Columns: res.Columns, Rows: res.Rows})
}

// Finetune handles POST /api/v1/models/{name}/finetune.
// Always responds 501 — fine-tuning is not supported for agent models.
func (h *ModelHandler) Finetune(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	err := h.service.Finetune(r.Context(), name)
	writeError(w, http.StatusNotImplemented, err.Error())
}

// ListRuns handles GET /api/v1/models/{name}/runs.
// Returns the newest prediction run records for the model.
func (h *ModelHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	limit := parseLimitParam(r)

	runs, err := h.recorder.RecentRuns(r.Context(), name, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []usage.Run{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

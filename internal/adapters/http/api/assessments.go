// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"

	"github.com/okian/burnrisk/internal/domain/model"
	"github.com/okian/burnrisk/internal/domain/questionnaire"
	"github.com/okian/burnrisk/internal/domain/scoring"
	"github.com/okian/burnrisk/internal/domain/types"
)

// Error codes of the JSON error body.
const (
	codeBadRequest      = "bad_request"
	codePayloadTooLarge = "payload_too_large"
	codeIncompleteInput = "incomplete_input"
	codeOutOfDomain     = "out_of_domain"
	codeNotFound        = "not_found"
	codeInternal        = "internal_error"
)

// AssessmentsHandler serves POST /assessments and POST /score.
type AssessmentsHandler struct {
	deps         Dependencies
	maxBodyBytes int64
}

// NewAssessmentsHandler creates a new assessments handler.
func NewAssessmentsHandler(deps Dependencies, maxBodyBytes int64) *AssessmentsHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &AssessmentsHandler{deps: deps, maxBodyBytes: maxBodyBytes}
}

// HandlePostAssessment handles POST /assessments requests.
func (h *AssessmentsHandler) HandlePostAssessment(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_assessment"
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, codeBadRequest, nil)
		return
	}

	var req types.AssessmentRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		failDecode(w, op, err)
		return
	}
	if req.Answers == nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, NewKind(op, ErrBadRequest))
		return
	}

	a, err := h.deps.Assess(r.Context(), questionnaire.Answers(req.Answers))
	if err != nil {
		h.fail(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// HandlePostScore handles POST /score requests.
func (h *AssessmentsHandler) HandlePostScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_score"
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, codeBadRequest, nil)
		return
	}

	var req types.ScoreRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		failDecode(w, op, err)
		return
	}

	values := make(map[model.Predictor]float64, len(req.Predictors))
	for name, v := range req.Predictors {
		p, err := model.ParsePredictor(name)
		if err != nil {
			h.fail(w, op, err)
			return
		}
		if v != nil {
			values[p] = *v
		}
	}

	a, err := h.deps.ScoreRecord(r.Context(), model.NewRecord(values))
	if err != nil {
		h.fail(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// fail maps domain errors to status codes.
func (h *AssessmentsHandler) fail(w http.ResponseWriter, op string, err error) {
	var incomplete *scoring.IncompleteInputError
	switch {
	case errors.As(err, &incomplete):
		writeJSON(w, http.StatusUnprocessableEntity, types.ErrorResponse{
			Code:    codeIncompleteInput,
			Message: WrapKind(op, ErrUnprocessable, err).Error(),
			Missing: h.deps.Describe(incomplete.Missing),
		})
	case errors.Is(err, scoring.ErrOutOfDomain):
		writeError(w, http.StatusUnprocessableEntity, codeOutOfDomain, WrapKind(op, ErrUnprocessable, err))
	case errors.Is(err, questionnaire.ErrUnknownQuestion),
		errors.Is(err, questionnaire.ErrUnknownOption),
		errors.Is(err, questionnaire.ErrInvalidAnswer),
		errors.Is(err, model.ErrUnknownPredictor):
		writeError(w, http.StatusBadRequest, codeBadRequest, WrapKind(op, ErrBadRequest, err))
	default:
		writeError(w, http.StatusInternalServerError, codeInternal, WrapKind(op, ErrInternal, err))
	}
}

// failDecode reports a body that could not be read as the expected JSON.
func failDecode(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrPayloadTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, codePayloadTooLarge, WrapKind(op, ErrPayloadTooLarge, err))
		return
	}
	writeError(w, http.StatusBadRequest, codeBadRequest, WrapKind(op, ErrBadRequest, err))
}

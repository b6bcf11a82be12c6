package api

import (
	"net/http"
)

// QuestionnaireHandler serves the question catalog.
type QuestionnaireHandler struct {
	deps Dependencies
}

// NewQuestionnaireHandler creates a new questionnaire handler.
func NewQuestionnaireHandler(deps Dependencies) *QuestionnaireHandler {
	return &QuestionnaireHandler{deps: deps}
}

// HandleGetQuestionnaire handles GET /questionnaire requests.
func (h *QuestionnaireHandler) HandleGetQuestionnaire(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, codeBadRequest, nil)
		return
	}
	c := h.deps.Catalog()
	if c == nil {
		writeError(w, http.StatusServiceUnavailable, codeInternal, NewKind("api.get_questionnaire", ErrInternal))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

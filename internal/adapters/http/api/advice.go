package api

import (
	"net/http"
	"strings"

	"github.com/okian/burnrisk/internal/domain/advice"
	"github.com/okian/burnrisk/internal/domain/scoring"
)

// AdviceHandler serves the static advice attached to each tier.
type AdviceHandler struct{}

// NewAdviceHandler creates a new advice handler.
func NewAdviceHandler() *AdviceHandler {
	return &AdviceHandler{}
}

// HandleGetAdvice handles GET /advice/{tier} requests.
func (h *AdviceHandler) HandleGetAdvice(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_advice"
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, codeBadRequest, nil)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/advice/")
	if name == "unscored" {
		writeJSON(w, http.StatusOK, advice.Unscored())
		return
	}
	tier, err := scoring.ParseTier(name)
	if err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, WrapKind(op, ErrNotFound, err))
		return
	}
	writeJSON(w, http.StatusOK, advice.For(tier))
}

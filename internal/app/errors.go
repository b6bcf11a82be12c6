package service

import (
	"errors"

	"github.com/okian/burnrisk/internal/domain/model"
	"github.com/okian/burnrisk/internal/domain/questionnaire"
	"github.com/okian/burnrisk/internal/domain/scoring"
)

// ErrNotStarted is returned by operations called before Start.
var ErrNotStarted = errors.New("service not started")

// Rejection kinds reported by Kind, metrics and the HTTP layer.
const (
	KindIncompleteInput = "incomplete_input"
	KindOutOfDomain     = "out_of_domain"
	KindBadRequest      = "bad_request"
	KindInternal        = "internal_error"
)

// Kind classifies an error returned by Assess or ScoreRecord.
func Kind(err error) string {
	switch {
	case errors.Is(err, scoring.ErrIncompleteInput):
		return KindIncompleteInput
	case errors.Is(err, scoring.ErrOutOfDomain):
		return KindOutOfDomain
	case errors.Is(err, questionnaire.ErrUnknownQuestion),
		errors.Is(err, questionnaire.ErrUnknownOption),
		errors.Is(err, questionnaire.ErrInvalidAnswer),
		errors.Is(err, model.ErrUnknownPredictor):
		return KindBadRequest
	default:
		return KindInternal
	}
}

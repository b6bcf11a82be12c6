package scoring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/burnrisk/internal/domain/model"
)

// Sentinel kinds for scoring errors. Typed errors below match them via errors.Is.
var (
	ErrIncompleteInput = errors.New("incomplete input")
	ErrOutOfDomain     = errors.New("value outside predictor domain")
)

// IncompleteInputError reports the predictors a record is missing.
type IncompleteInputError struct {
	Missing []model.Predictor
}

func (e *IncompleteInputError) Error() string {
	names := make([]string, len(e.Missing))
	for i, p := range e.Missing {
		names[i] = string(p)
	}
	return fmt.Sprintf("%s: missing %s", ErrIncompleteInput, strings.Join(names, ", "))
}

// Is matches ErrIncompleteInput.
func (e *IncompleteInputError) Is(target error) bool {
	return target == ErrIncompleteInput
}

// DomainError reports a value outside its predictor's declared domain.
type DomainError struct {
	Predictor model.Predictor
	Value     float64
	Domain    model.Domain
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s=%g not in %s", ErrOutOfDomain, e.Predictor, e.Value, e.Domain)
}

// Is matches ErrOutOfDomain.
func (e *DomainError) Is(target error) bool {
	return target == ErrOutOfDomain
}

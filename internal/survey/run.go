package survey

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/okian/burnrisk/internal/domain/questionnaire"
	"github.com/okian/burnrisk/internal/domain/types"
	"github.com/okian/burnrisk/pkg/logger"
)

// Evaluator turns answers into an assessment, locally or over HTTP.
type Evaluator interface {
	Assess(ctx context.Context, answers questionnaire.Answers) (types.Assessment, error)
}

// Config holds configuration for a terminal session.
type Config struct {
	BaseURL string        // Base URL of a running service; empty scores locally
	Timeout time.Duration // HTTP request timeout
}

// Session asks the questions and reports the outcome.
type Session struct {
	catalog   *questionnaire.Catalog
	evaluator Evaluator
	logger    logger.Logger
}

// NewSession creates a session scoring answers with evaluator.
func NewSession(catalog *questionnaire.Catalog, evaluator Evaluator, log logger.Logger) *Session {
	if log == nil {
		log = logger.NewNop()
	}
	return &Session{catalog: catalog, evaluator: evaluator, logger: log}
}

// Run asks every question on in/out and prints the assessment. Missing
// answers are reported by label and do not count as a failure.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) (types.Assessment, error) {
	fmt.Fprintln(out, "Évaluation du risque de burn-out")
	fmt.Fprintln(out, "Cette estimation ne remplace pas l'avis d'un professionnel de santé.")

	answers, err := NewPrompter(s.catalog, in, out).Ask()
	if err != nil {
		return types.Assessment{}, err
	}
	s.logger.Debug(ctx, "questionnaire answered", logger.Int("answers", len(answers)))

	a, err := s.evaluator.Assess(ctx, answers)
	if err != nil {
		if labels := MissingLabels(s.catalog, err); labels != nil {
			RenderMissing(out, labels)
			return types.Assessment{}, nil
		}
		return types.Assessment{}, fmt.Errorf("assess answers: %w", err)
	}

	Render(out, a)
	s.logger.Info(ctx, "assessment completed",
		logger.String("id", a.ID),
		logger.String("status", string(a.Status)),
		logger.String("tier", string(a.Tier)),
	)
	return a, nil
}

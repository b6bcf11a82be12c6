// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/burnrisk/internal/domain/model"
	"github.com/okian/burnrisk/internal/domain/questionnaire"
	"github.com/okian/burnrisk/internal/domain/types"
)

// defaultMaxBodyBytes caps POST bodies when no limit is configured.
const defaultMaxBodyBytes = 64 << 10

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Assess(ctx context.Context, answers questionnaire.Answers) (types.Assessment, error)
	ScoreRecord(ctx context.Context, rec model.Record) (types.Assessment, error)

	// Describe pairs predictor names with their human labels.
	Describe(ps []model.Predictor) []types.MissingPredictor

	// Catalog exposes the questionnaire served to clients.
	Catalog() *questionnaire.Catalog
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler        *HealthHandler
	statsHandler         *StatsHandler
	assessmentsHandler   *AssessmentsHandler
	questionnaireHandler *QuestionnaireHandler
	adviceHandler        *AdviceHandler
}

// Option configures a Server.
type Option func(*options)

type options struct {
	maxBodyBytes int64
}

// WithMaxBodyBytes caps request bodies of the POST endpoints.
func WithMaxBodyBytes(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxBodyBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	o := options{maxBodyBytes: defaultMaxBodyBytes}
	for _, opt := range opts {
		opt(&o)
	}

	return &Server{
		healthHandler:        NewHealthHandler(),
		statsHandler:         NewStatsHandler(statsProvider),
		assessmentsHandler:   NewAssessmentsHandler(deps, o.maxBodyBytes),
		questionnaireHandler: NewQuestionnaireHandler(deps),
		adviceHandler:        NewAdviceHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/assessments", MetricsMiddleware(s.assessmentsHandler.HandlePostAssessment, "assessments"))
	mux.HandleFunc("/score", MetricsMiddleware(s.assessmentsHandler.HandlePostScore, "score"))
	mux.HandleFunc("/questionnaire", MetricsMiddleware(s.questionnaireHandler.HandleGetQuestionnaire, "questionnaire"))
	mux.HandleFunc("/advice/", MetricsMiddleware(s.adviceHandler.HandleGetAdvice, "advice"))
}

// decodeJSON reads one JSON object from a size-limited body.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit %d bytes", ErrPayloadTooLarge, tooLarge.Limit)
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must contain a single JSON object")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, types.ErrorResponse{Code: code, Message: message(status, err)})
}

func message(status int, err error) string {
	if err != nil {
		return err.Error()
	}
	return http.StatusText(status)
}

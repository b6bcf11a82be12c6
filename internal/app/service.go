// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/burnrisk/internal/adapters/mq/events"
	"github.com/okian/burnrisk/internal/adapters/mq/queue"
	"github.com/okian/burnrisk/internal/adapters/mq/worker"
	"github.com/okian/burnrisk/internal/domain/advice"
	"github.com/okian/burnrisk/internal/domain/model"
	"github.com/okian/burnrisk/internal/domain/questionnaire"
	"github.com/okian/burnrisk/internal/domain/scoring"
	"github.com/okian/burnrisk/internal/domain/types"
	"github.com/okian/burnrisk/pkg/logger"
	"github.com/okian/burnrisk/pkg/metrics"
)

// Service evaluates burnout risk from answers or raw predictor records.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalog   *questionnaire.Catalog
	scorer    scoring.Scorer
	publisher events.Publisher
	outbox    *queue.InMemoryQueue
	pool      *worker.Pool

	// Configuration
	outboxSize     int
	publisherCount int
	now            func() time.Time

	// Counters
	scored   map[scoring.Tier]*atomic.Int64
	unscored atomic.Int64
	rejected atomic.Int64
	dropped  atomic.Int64

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCatalog replaces the embedded questionnaire.
func WithCatalog(c *questionnaire.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithScorer replaces the logistic scorer.
func WithScorer(scorer scoring.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// WithPublisher enables event publishing for scored assessments.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithOutboxSize bounds the number of events waiting to be published.
func WithOutboxSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.outboxSize = size
		}
	}
}

// WithPublisherCount sets the number of publishing goroutines.
func WithPublisherCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.publisherCount = count
		}
	}
}

// WithClock overrides time.Now for assessment timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		outboxSize:     1024,
		publisherCount: 2,
		now:            time.Now,
		scored:         make(map[scoring.Tier]*atomic.Int64),
	}
	for _, t := range scoring.Tiers() {
		s.scored[t] = new(atomic.Int64)
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the catalog and starts the event publishers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting assessment service...")

	if s.catalog == nil {
		c, err := questionnaire.Default()
		if err != nil {
			return fmt.Errorf("load questionnaire: %w", err)
		}
		s.catalog = c
	}
	if s.scorer == nil {
		s.scorer = scoring.NewLogisticScorer()
	}

	if s.publisher != nil {
		s.outbox = queue.NewInMemoryQueue(queue.WithCapacity(s.outboxSize))
		s.pool = worker.NewPool(s.publisherCount, s.outbox, s.publisher, worker.WithLogger(s.logger.Named("publisher")))
		s.pool.Start(context.WithoutCancel(ctx))
	}

	s.started = true
	s.logger.Info(ctx, "assessment service started",
		logger.Int("questions", len(s.catalog.Questions())),
		logger.Bool("publishing", s.publisher != nil),
		logger.Int("outboxSize", s.outboxSize),
	)

	return nil
}

// Stop drains pending events and shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping assessment service...")

	if s.pool != nil {
		if err := s.pool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "publisher shutdown incomplete", logger.Error(err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			s.logger.Warn(ctx, "closing publisher failed", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "assessment service stopped")
}

// Catalog returns the questionnaire in use.
func (s *Service) Catalog() *questionnaire.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Assess encodes answers and scores the resulting record. A gated answer
// yields an unscored assessment carrying the generic advice.
func (s *Service) Assess(ctx context.Context, answers questionnaire.Answers) (types.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return types.Assessment{}, ErrNotStarted
	}

	start := time.Now()
	col, err := s.catalog.Collect(answers)
	switch {
	case errors.Is(err, questionnaire.ErrCollectionAborted):
		s.unscored.Add(1)
		metrics.RecordUnscored()
		a := types.Assessment{
			ID:        uuid.NewString(),
			Status:    types.StatusUnscored,
			Advice:    advice.Unscored(),
			CreatedAt: s.now().UTC(),
		}
		s.logger.Info(ctx, "assessment not scored", logger.String("id", a.ID), logger.Error(err))
		return a, nil
	case err != nil:
		s.reject(ctx, err)
		return types.Assessment{}, err
	}

	return s.score(ctx, col.Record, col.Notices, start)
}

// ScoreRecord scores a record supplied directly as predictor values.
func (s *Service) ScoreRecord(ctx context.Context, rec model.Record) (types.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return types.Assessment{}, ErrNotStarted
	}
	return s.score(ctx, rec, nil, time.Now())
}

func (s *Service) score(ctx context.Context, rec model.Record, notices []questionnaire.Notice, start time.Time) (types.Assessment, error) {
	res, err := s.scorer.Score(ctx, rec)
	if err != nil {
		s.reject(ctx, err)
		return types.Assessment{}, err
	}
	metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)

	a := types.Assessment{
		ID:              uuid.NewString(),
		Status:          types.StatusScored,
		Probability:     res.Probability,
		Percent:         advice.Percent(res.Probability),
		PercentText:     advice.FormatPercent(res.Probability),
		LinearPredictor: res.LinearPredictor,
		Tier:            res.Tier,
		Severe:          res.Severe,
		Advice:          advice.For(res.Tier),
		Notices:         notices,
		CreatedAt:       s.now().UTC(),
	}

	if c, ok := s.scored[res.Tier]; ok {
		c.Add(1)
	}
	metrics.RecordAssessment(res.Tier.Lower(), res.Probability)
	s.logger.Debug(ctx, "assessment scored",
		logger.String("id", a.ID),
		logger.String("tier", string(a.Tier)),
		logger.Float64("probability", a.Probability),
	)

	s.announce(ctx, a)
	return a, nil
}

// announce queues the outcome for publishing without blocking the caller.
func (s *Service) announce(ctx context.Context, a types.Assessment) {
	if s.outbox == nil {
		return
	}
	ev := model.AssessmentScored{
		AssessmentID: a.ID,
		Tier:         string(a.Tier),
		Probability:  a.Probability,
		Severe:       a.Severe,
		ScoredAt:     a.CreatedAt,
	}
	if !s.outbox.Enqueue(ctx, ev) {
		s.dropped.Add(1)
		metrics.RecordEventPublished("dropped")
		s.logger.Warn(ctx, "assessment event dropped", logger.String("id", a.ID))
	}
}

func (s *Service) reject(ctx context.Context, err error) {
	kind := Kind(err)
	s.rejected.Add(1)
	metrics.RecordRejected(kind)
	s.logger.Debug(ctx, "assessment rejected", logger.String("kind", kind), logger.Error(err))
}

// Describe pairs predictors with their questionnaire labels.
func (s *Service) Describe(ps []model.Predictor) []types.MissingPredictor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.MissingPredictor, len(ps))
	for i, p := range ps {
		label := string(p)
		if s.catalog != nil {
			label = s.catalog.Label(p)
		}
		out[i] = types.MissingPredictor{Predictor: string(p), Label: label}
	}
	return out
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() types.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := types.Stats{
		Started:  s.started,
		Scored:   make(map[scoring.Tier]int64, len(s.scored)),
		Unscored: s.unscored.Load(),
		Rejected: s.rejected.Load(),
		Dropped:  s.dropped.Load(),
	}
	for t, c := range s.scored {
		stats.Scored[t] = c.Load()
	}
	if s.pool != nil {
		stats.Published = s.pool.Published()
	}
	if s.outbox != nil {
		stats.Pending = s.outbox.Len(context.Background())
	}

	metrics.CollectSystem()
	return stats
}

// Package types contains common types used across the application
package types

import (
	"time"

	"github.com/okian/burnrisk/internal/domain/advice"
	"github.com/okian/burnrisk/internal/domain/questionnaire"
	"github.com/okian/burnrisk/internal/domain/scoring"
)

// Status tells whether an assessment produced an estimate.
type Status string

// Assessment statuses.
const (
	StatusScored   Status = "scored"
	StatusUnscored Status = "unscored"
)

// MissingPredictor names a predictor absent from a record, with its label.
type MissingPredictor struct {
	Predictor string `json:"predictor"`
	Label     string `json:"label"`
}

// Assessment is the outcome of one risk evaluation.
type Assessment struct {
	ID              string                 `json:"id"`
	Status          Status                 `json:"status"`
	Probability     float64                `json:"probability"`
	Percent         float64                `json:"percent"`
	PercentText     string                 `json:"percent_text,omitempty"`
	LinearPredictor float64                `json:"linear_predictor"`
	Tier            scoring.Tier           `json:"tier,omitempty"`
	Severe          bool                   `json:"severe"`
	Advice          advice.Advice          `json:"advice"`
	Notices         []questionnaire.Notice `json:"notices,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

// Scored reports whether the assessment carries an estimate.
func (a Assessment) Scored() bool {
	return a.Status == StatusScored
}

// AssessmentRequest is the body of POST /assessments.
type AssessmentRequest struct {
	Answers map[string]string `json:"answers"`
}

// ScoreRequest is the body of POST /score. A null value marks the predictor
// as missing.
type ScoreRequest struct {
	Predictors map[string]*float64 `json:"predictors"`
}

// ErrorResponse is the JSON body of every non-2xx reply.
type ErrorResponse struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Missing []MissingPredictor `json:"missing,omitempty"`
}

// Stats summarises service activity.
type Stats struct {
	Started   bool                   `json:"started"`
	Scored    map[scoring.Tier]int64 `json:"scored"`
	Unscored  int64                  `json:"unscored"`
	Rejected  int64                  `json:"rejected"`
	Published int64                  `json:"published"`
	Dropped   int64                  `json:"dropped"`
	Pending   int                    `json:"pending"`
}

// Total is the number of assessments that produced an estimate.
func (s Stats) Total() int64 {
	var n int64
	for _, c := range s.Scored {
		n += c
	}
	return n
}

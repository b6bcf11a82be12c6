package model

import "time"

// AssessmentScored is announced after a successful evaluation. It carries the
// outcome only; answers and predictor values never leave the process.
type AssessmentScored struct {
	AssessmentID string    `json:"assessment_id"`
	Tier         string    `json:"tier"`
	Probability  float64   `json:"probability"`
	Severe       bool      `json:"severe"`
	ScoredAt     time.Time `json:"scored_at"`
}

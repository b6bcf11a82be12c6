// Package scoring turns a complete predictor record into a burnout-risk
// probability and tier using a fixed logistic regression.
package scoring

import (
	"context"
	"math"

	"github.com/okian/burnrisk/internal/domain/model"
)

// Intercept is the constant term of the regression.
const Intercept = -3.3687

// Coefficient is the weight of one predictor in the linear predictor.
type Coefficient struct {
	Predictor model.Predictor
	Weight    float64
}

// coefficients is the estimated table, in estimation output order.
var coefficients = []Coefficient{
	{model.BossTension, 0.6319},
	{model.Initiative, 0.5121},
	{model.ExternalContact, 0.6286},
	{model.Boredom, 0.7328},
	{model.Mockery, 0.7206},
	{model.BossDisagree, 0.2619},
	{model.LifeEvent, 0.3798},
	{model.Sexe, 0.7848},
	{model.UselessTasks, 0.8432},
	{model.WorkLifeBalance, -0.7198},
	{model.SocialSupport, -0.6660},
	{model.WellBeing, -0.4299},
	{model.Diploma, 0.1484},
	{model.OwnIdeas, -0.2672},
	{model.WorkloadSay, -0.2745},
	{model.ColleagueHelp, -0.2803},
	{model.InfoTrust, -0.1177},
	{model.Income3000, -0.4194},
	{model.Predictability, 0.1115},
	{model.EmploymentType, 0.2261},
	{model.Income2251, -0.1733},
	{model.Income1351, -0.0993},
	{model.Income1701, -0.0826},
	{model.Age, 0.0022},
}

// Coefficients returns a copy of the coefficient table.
func Coefficients() []Coefficient {
	out := make([]Coefficient, len(coefficients))
	copy(out, coefficients)
	return out
}

// Result is the outcome of scoring one record.
type Result struct {
	// LinearPredictor is z = b0 + Σ wi·xi.
	LinearPredictor float64
	// Probability is 1/(1+exp(-z)).
	Probability float64
	Tier        Tier
	// Severe is the binary label of the estimated model (p >= SevereThreshold).
	Severe bool
}

// Scorer computes a risk result from a record.
type Scorer interface {
	// Score evaluates rec. The context is accepted for symmetry with other
	// domain ports; scoring never blocks.
	Score(ctx context.Context, rec model.Record) (Result, error)
}

// LogisticScorer implements Scorer with the fixed coefficient table.
type LogisticScorer struct {
	intercept    float64
	coefficients []Coefficient
}

// NewLogisticScorer returns a scorer bound to the estimated model.
func NewLogisticScorer() *LogisticScorer {
	return &LogisticScorer{
		intercept:    Intercept,
		coefficients: coefficients,
	}
}

// Score implements Scorer.
func (s *LogisticScorer) Score(_ context.Context, rec model.Record) (Result, error) {
	return s.Evaluate(rec)
}

// Evaluate validates rec and computes its result. Every missing predictor is
// reported at once; domain checks run only on complete records.
func (s *LogisticScorer) Evaluate(rec model.Record) (Result, error) {
	if missing := rec.Missing(); len(missing) > 0 {
		return Result{}, &IncompleteInputError{Missing: missing}
	}
	for _, spec := range model.Schema() {
		v, _ := rec.Value(spec.Name)
		if !spec.Domain.Contains(v) {
			return Result{}, &DomainError{Predictor: spec.Name, Value: v, Domain: spec.Domain}
		}
	}

	z := s.intercept
	for _, c := range s.coefficients {
		v, _ := rec.Value(c.Predictor)
		z += c.Weight * v
	}
	p := Logistic(z)

	return Result{
		LinearPredictor: z,
		Probability:     p,
		Tier:            TierFor(p),
		Severe:          p >= SevereThreshold,
	}, nil
}

// Logistic is the standard sigmoid 1/(1+exp(-z)).
func Logistic(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

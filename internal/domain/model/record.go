package model

import (
	"errors"
	"math"
)

// ErrUnknownPredictor is returned when a name is not part of the schema.
var ErrUnknownPredictor = errors.New("unknown predictor")

// Record is an immutable set of predictor values for one evaluation.
// A predictor that is absent or NaN is missing.
type Record struct {
	values map[Predictor]float64
}

// NewRecord copies values into a Record. Names outside the schema are kept
// out; use ParsePredictor to reject them earlier.
func NewRecord(values map[Predictor]float64) Record {
	r := Record{values: make(map[Predictor]float64, len(schema))}
	for p, v := range values {
		if _, ok := byName[p]; !ok || math.IsNaN(v) {
			continue
		}
		r.values[p] = v
	}
	return r
}

// Value returns the value of p and whether it is present.
func (r Record) Value(p Predictor) (float64, bool) {
	v, ok := r.values[p]
	return v, ok
}

// With returns a copy of r with p set to v. A NaN v clears p.
func (r Record) With(p Predictor, v float64) Record {
	next := make(map[Predictor]float64, len(r.values)+1)
	for k, x := range r.values {
		next[k] = x
	}
	if math.IsNaN(v) {
		delete(next, p)
	} else if _, ok := byName[p]; ok {
		next[p] = v
	}
	return Record{values: next}
}

// Without returns a copy of r with p missing.
func (r Record) Without(p Predictor) Record {
	return r.With(p, math.NaN())
}

// Values returns a copy of the present values.
func (r Record) Values() map[Predictor]float64 {
	out := make(map[Predictor]float64, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Missing lists the missing predictors in schema order.
func (r Record) Missing() []Predictor {
	var missing []Predictor
	for _, s := range schema {
		if _, ok := r.values[s.Name]; !ok {
			missing = append(missing, s.Name)
		}
	}
	return missing
}

// Complete reports whether every predictor of the schema has a value.
func (r Record) Complete() bool {
	return len(r.Missing()) == 0
}

// Len returns the number of present predictors.
func (r Record) Len() int {
	return len(r.values)
}

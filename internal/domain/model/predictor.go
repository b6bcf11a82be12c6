// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"math"
)

// Predictor names a numeric input of the burnout regression.
type Predictor string

// Predictors of the fixed schema. Names match the survey variables the model
// was estimated on.
const (
	Sexe            Predictor = "sexe"
	Age             Predictor = "AGE"
	WorkLifeBalance Predictor = "CVFVP_reg"
	WellBeing       Predictor = "BIENETR1_reg"
	SocialSupport   Predictor = "RP1_reg"
	LifeEvent       Predictor = "RP4B_reg"
	UselessTasks    Predictor = "RPB1E_b"
	Mockery         Predictor = "RPB1J_b"
	Boredom         Predictor = "RPB5E_b"
	ColleagueHelp   Predictor = "AIDCOLL_reg"
	ExternalContact Predictor = "JOINEXT_reg"
	InfoTrust       Predictor = "INFOCONF_reg"
	BossDisagree    Predictor = "ACCHEF_reg"
	Diploma         Predictor = "niv_diplome_reg"
	Predictability  Predictor = "PREVIS"
	Initiative      Predictor = "INITIAT_reg"
	OwnIdeas        Predictor = "IDEE_reg"
	WorkloadSay     Predictor = "QUANTI_reg"
	BossTension     Predictor = "TENSION2_reg"
	EmploymentType  Predictor = "TYPEMPLOI"
	Income1351      Predictor = "revmensc_tranche_1351–1700"
	Income1701      Predictor = "revmensc_tranche_1701–2250"
	Income2251      Predictor = "revmensc_tranche_2251–3000"
	Income3000      Predictor = "revmensc_tranche_>3000"
)

// Domain is the closed integer interval a predictor value must fall in.
type Domain struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Contains reports whether v is an integral value inside the domain.
func (d Domain) Contains(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return false
	}
	return v >= float64(d.Min) && v <= float64(d.Max)
}

func (d Domain) String() string {
	return fmt.Sprintf("[%d,%d]", d.Min, d.Max)
}

// Binary is the {0,1} domain shared by most predictors.
var Binary = Domain{Min: 0, Max: 1}

// Spec describes one predictor of the schema.
type Spec struct {
	Name   Predictor
	Domain Domain
}

// schema lists every predictor in canonical order.
var schema = []Spec{
	{Sexe, Binary},
	{Age, Domain{Min: 18, Max: 64}},
	{WorkLifeBalance, Binary},
	{WellBeing, Binary},
	{SocialSupport, Binary},
	{LifeEvent, Binary},
	{UselessTasks, Binary},
	{Mockery, Binary},
	{Boredom, Binary},
	{ColleagueHelp, Binary},
	{ExternalContact, Binary},
	{InfoTrust, Domain{Min: 0, Max: 3}},
	{BossDisagree, Domain{Min: 0, Max: 3}},
	{Diploma, Domain{Min: 0, Max: 3}},
	{Predictability, Domain{Min: 1, Max: 4}},
	{Initiative, Domain{Min: 1, Max: 4}},
	{OwnIdeas, Binary},
	{WorkloadSay, Binary},
	{BossTension, Binary},
	{EmploymentType, Domain{Min: 1, Max: 7}},
	{Income1351, Binary},
	{Income1701, Binary},
	{Income2251, Binary},
	{Income3000, Binary},
}

var byName = func() map[Predictor]Spec {
	m := make(map[Predictor]Spec, len(schema))
	for _, s := range schema {
		m[s.Name] = s
	}
	return m
}()

// Schema returns a copy of the predictor schema in canonical order.
func Schema() []Spec {
	out := make([]Spec, len(schema))
	copy(out, schema)
	return out
}

// Lookup returns the schema entry for p.
func Lookup(p Predictor) (Spec, bool) {
	s, ok := byName[p]
	return s, ok
}

// ParsePredictor resolves a wire name to a schema predictor.
func ParsePredictor(name string) (Predictor, error) {
	p := Predictor(name)
	if _, ok := byName[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPredictor, name)
	}
	return p, nil
}

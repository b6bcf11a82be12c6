// Package questionnaire maps human answers onto the predictor codes the risk
// model was estimated on.
package questionnaire

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/okian/burnrisk/internal/domain/model"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Kind selects how a question's answer is encoded.
type Kind string

// Question kinds.
const (
	// KindChoice maps one option to one predictor value.
	KindChoice Kind = "choice"
	// KindInteger reads a whole number for one predictor.
	KindInteger Kind = "integer"
	// KindOneHot sets one predictor of a group to 1 and the rest to 0.
	KindOneHot Kind = "one_hot"
)

// Notice codes attached to a collection.
const (
	NoticeAgeBelowTrainingRange = "age_below_training_range"
	NoticeIncomeNotDisclosed    = "income_not_disclosed"
)

// Option is one allowed answer of a choice or one_hot question.
type Option struct {
	Key   string `yaml:"key" json:"key"`
	Label string `yaml:"label" json:"label"`
	// Value is the predictor code; nil marks the answer as missing.
	Value *float64 `yaml:"value" json:"value"`
	// Hot names the group member set to 1 by a one_hot option.
	Hot    model.Predictor `yaml:"hot" json:"hot,omitempty"`
	Abort  bool            `yaml:"abort" json:"abort,omitempty"`
	Notice string          `yaml:"notice" json:"notice,omitempty"`
}

// Question is one item of the catalog.
type Question struct {
	ID         string            `yaml:"id" json:"id"`
	Kind       Kind              `yaml:"kind" json:"kind"`
	Prompt     string            `yaml:"prompt" json:"prompt"`
	Predictor  model.Predictor   `yaml:"predictor" json:"predictor,omitempty"`
	Predictors []model.Predictor `yaml:"predictors" json:"predictors,omitempty"`
	Options    []Option          `yaml:"options" json:"options,omitempty"`

	Min           int    `yaml:"min" json:"min,omitempty"`
	Max           int    `yaml:"max" json:"max,omitempty"`
	SoftMin       int    `yaml:"soft_min" json:"soft_min,omitempty"`
	SoftMinNotice string `yaml:"soft_min_notice" json:"-"`
}

// Option returns the option with the given key.
func (q *Question) Option(key string) (Option, bool) {
	for _, o := range q.Options {
		if o.Key == key {
			return o, true
		}
	}
	return Option{}, false
}

// Section groups related questions.
type Section struct {
	ID        string     `yaml:"id" json:"id"`
	Title     string     `yaml:"title" json:"title"`
	Questions []Question `yaml:"questions" json:"questions"`
}

// Catalog is the parsed, validated questionnaire.
type Catalog struct {
	Version  int                        `yaml:"version" json:"version"`
	Labels   map[model.Predictor]string `yaml:"labels" json:"labels"`
	Sections []Section                  `yaml:"sections" json:"sections"`
	Notices  map[string]string          `yaml:"notices" json:"notices"`

	index map[string]*Question
	order []*Question
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the embedded catalog, parsed once.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Parse(defaultCatalog)
	})
	return defaultCat, defaultErr
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if err := c.build(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) build() error {
	c.index = make(map[string]*Question)
	covered := make(map[model.Predictor]bool)

	for si := range c.Sections {
		for qi := range c.Sections[si].Questions {
			q := &c.Sections[si].Questions[qi]
			if q.ID == "" {
				return fmt.Errorf("%w: question without id in section %q", ErrInvalidCatalog, c.Sections[si].ID)
			}
			if _, dup := c.index[q.ID]; dup {
				return fmt.Errorf("%w: duplicate question %q", ErrInvalidCatalog, q.ID)
			}
			targets, err := q.validate()
			if err != nil {
				return err
			}
			for _, p := range targets {
				if covered[p] {
					return fmt.Errorf("%w: predictor %s collected twice", ErrInvalidCatalog, p)
				}
				covered[p] = true
			}
			c.index[q.ID] = q
			c.order = append(c.order, q)
		}
	}

	for _, s := range model.Schema() {
		if !covered[s.Name] {
			return fmt.Errorf("%w: predictor %s has no question", ErrInvalidCatalog, s.Name)
		}
	}
	return nil
}

// validate checks a question against the predictor schema and returns the
// predictors it fills.
func (q *Question) validate() ([]model.Predictor, error) {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: question %q: %s", ErrInvalidCatalog, q.ID, fmt.Sprintf(format, args...))
	}

	switch q.Kind {
	case KindChoice:
		spec, ok := model.Lookup(q.Predictor)
		if !ok {
			return nil, bad("unknown predictor %q", q.Predictor)
		}
		if len(q.Options) == 0 {
			return nil, bad("no options")
		}
		for _, o := range q.Options {
			if o.Value != nil && !spec.Domain.Contains(*o.Value) {
				return nil, bad("option %q value %g not in %s", o.Key, *o.Value, spec.Domain)
			}
		}
		return []model.Predictor{q.Predictor}, q.checkKeys(bad)

	case KindInteger:
		spec, ok := model.Lookup(q.Predictor)
		if !ok {
			return nil, bad("unknown predictor %q", q.Predictor)
		}
		if q.Min < spec.Domain.Min || q.Max > spec.Domain.Max || q.Min > q.Max {
			return nil, bad("bounds [%d,%d] outside %s", q.Min, q.Max, spec.Domain)
		}
		return []model.Predictor{q.Predictor}, nil

	case KindOneHot:
		if len(q.Predictors) == 0 {
			return nil, bad("no predictors")
		}
		group := make(map[model.Predictor]bool, len(q.Predictors))
		for _, p := range q.Predictors {
			if _, ok := model.Lookup(p); !ok {
				return nil, bad("unknown predictor %q", p)
			}
			group[p] = true
		}
		for _, o := range q.Options {
			if o.Hot != "" && !group[o.Hot] {
				return nil, bad("option %q targets %q outside its group", o.Key, o.Hot)
			}
		}
		return q.Predictors, q.checkKeys(bad)
	}
	return nil, bad("unknown kind %q", q.Kind)
}

func (q *Question) checkKeys(bad func(string, ...any) error) error {
	seen := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		if o.Key == "" || seen[o.Key] {
			return bad("empty or duplicate option key %q", o.Key)
		}
		seen[o.Key] = true
	}
	return nil
}

// Question looks a question up by id.
func (c *Catalog) Question(id string) (*Question, bool) {
	q, ok := c.index[id]
	return q, ok
}

// Questions returns every question in presentation order.
func (c *Catalog) Questions() []*Question {
	out := make([]*Question, len(c.order))
	copy(out, c.order)
	return out
}

// Label returns the human label of a predictor, falling back to its name.
func (c *Catalog) Label(p model.Predictor) string {
	if l, ok := c.Labels[p]; ok {
		return l
	}
	return string(p)
}

// NoticeText returns the message bound to a notice code.
func (c *Catalog) NoticeText(code string) string {
	return c.Notices[code]
}

package questionnaire

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/burnrisk/internal/domain/model"
)

// Answers maps question ids to option keys, or to digits for integer
// questions. An absent or blank answer leaves its predictors missing.
type Answers map[string]string

// Notice is an informational message attached to a collection.
type Notice struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Collection is the outcome of encoding one set of answers.
type Collection struct {
	Record  model.Record
	Notices []Notice
}

// Collect encodes answers into a predictor record. Unknown question ids and
// option keys are errors; an abort option ends collection with
// ErrCollectionAborted and no record.
func (c *Catalog) Collect(answers Answers) (Collection, error) {
	for id := range answers {
		if _, ok := c.index[id]; !ok {
			return Collection{}, fmt.Errorf("%w: %q", ErrUnknownQuestion, id)
		}
	}

	values := make(map[model.Predictor]float64)
	var notices []Notice
	notify := func(code string) {
		if code == "" {
			return
		}
		notices = append(notices, Notice{Code: code, Message: c.NoticeText(code)})
	}

	for _, q := range c.order {
		raw := strings.TrimSpace(answers[q.ID])
		if raw == "" {
			continue
		}

		switch q.Kind {
		case KindInteger:
			n, err := strconv.Atoi(raw)
			if err != nil || n < q.Min || n > q.Max {
				return Collection{}, fmt.Errorf("%w: %s=%q must be an integer in [%d,%d]", ErrInvalidAnswer, q.ID, raw, q.Min, q.Max)
			}
			values[q.Predictor] = float64(n)
			if q.SoftMin > 0 && n < q.SoftMin {
				notify(q.SoftMinNotice)
			}

		case KindChoice:
			opt, ok := q.Option(raw)
			if !ok {
				return Collection{}, fmt.Errorf("%w: %s=%q", ErrUnknownOption, q.ID, raw)
			}
			if opt.Abort {
				return Collection{}, fmt.Errorf("%w: %s=%s", ErrCollectionAborted, q.ID, opt.Key)
			}
			if opt.Value != nil {
				values[q.Predictor] = *opt.Value
			}
			notify(opt.Notice)

		case KindOneHot:
			opt, ok := q.Option(raw)
			if !ok {
				return Collection{}, fmt.Errorf("%w: %s=%q", ErrUnknownOption, q.ID, raw)
			}
			if opt.Abort {
				return Collection{}, fmt.Errorf("%w: %s=%s", ErrCollectionAborted, q.ID, opt.Key)
			}
			for _, p := range q.Predictors {
				values[p] = 0
			}
			if opt.Hot != "" {
				values[opt.Hot] = 1
			}
			notify(opt.Notice)
		}
	}

	return Collection{Record: model.NewRecord(values), Notices: notices}, nil
}

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/burnrisk/internal/adapters/http/api"
	"github.com/okian/burnrisk/internal/domain/advice"
	"github.com/okian/burnrisk/internal/domain/model"
	"github.com/okian/burnrisk/internal/domain/questionnaire"
	"github.com/okian/burnrisk/internal/domain/scoring"
	"github.com/okian/burnrisk/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDependencies scores with the real model and lets tests override Assess.
type mockDependencies struct {
	catalog  *questionnaire.Catalog
	assessFn func(questionnaire.Answers) (types.Assessment, error)
	answers  questionnaire.Answers
	record   model.Record
}

func (m *mockDependencies) Assess(ctx context.Context, answers questionnaire.Answers) (types.Assessment, error) {
	m.answers = answers
	if m.assessFn != nil {
		return m.assessFn(answers)
	}
	return types.Assessment{ID: "a-1", Status: types.StatusUnscored, Advice: advice.Unscored()}, nil
}

func (m *mockDependencies) ScoreRecord(ctx context.Context, rec model.Record) (types.Assessment, error) {
	m.record = rec
	res, err := scoring.NewLogisticScorer().Score(ctx, rec)
	if err != nil {
		return types.Assessment{}, err
	}
	return types.Assessment{
		ID:              "a-2",
		Status:          types.StatusScored,
		Probability:     res.Probability,
		LinearPredictor: res.LinearPredictor,
		Tier:            res.Tier,
		Severe:          res.Severe,
		Advice:          advice.For(res.Tier),
		CreatedAt:       time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}, nil
}

func (m *mockDependencies) Describe(ps []model.Predictor) []types.MissingPredictor {
	out := make([]types.MissingPredictor, len(ps))
	for i, p := range ps {
		out[i] = types.MissingPredictor{Predictor: string(p), Label: m.catalog.Label(p)}
	}
	return out
}

func (m *mockDependencies) Catalog() *questionnaire.Catalog {
	return m.catalog
}

type mockStatsProvider struct {
	stats types.Stats
}

func (m *mockStatsProvider) GetStats() types.Stats {
	return m.stats
}

// baselineBody renders a /score body with every predictor at its minimum.
func baselineBody(overrides map[string]string) string {
	parts := make([]string, 0, len(model.Schema()))
	for _, s := range model.Schema() {
		v := fmt.Sprintf("%d", s.Domain.Min)
		if s.Name == model.Age {
			v = "30"
		}
		if o, ok := overrides[string(s.Name)]; ok {
			v = o
		}
		if v == "-" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%q:%s", s.Name, v))
	}
	return `{"predictors":{` + strings.Join(parts, ",") + `}}`
}

func newMux(deps *mockDependencies, stats *mockStatsProvider, opts ...api.Option) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, stats, opts...).Register(context.Background(), mux)
	return mux
}

func serve(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) types.ErrorResponse {
	var resp types.ErrorResponse
	So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
	return resp
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		cat, err := questionnaire.Default()
		So(err, ShouldBeNil)
		deps := &mockDependencies{catalog: cat}
		stats := &mockStatsProvider{stats: types.Stats{
			Started: true,
			Scored:  map[scoring.Tier]int64{scoring.TierLow: 2, scoring.TierHigh: 1},
			Pending: 3,
		}}
		mux := newMux(deps, stats)

		Convey("Then health endpoint should report ok", func() {
			w := serve(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("Then health endpoint should refuse POST", func() {
			w := serve(mux, http.MethodPost, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})

		Convey("Then metrics endpoint should expose the registry", func() {
			serve(mux, http.MethodGet, "/healthz", "")
			w := serve(mux, http.MethodGet, "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "burnrisk_assessment_http_requests_total")
			So(w.Body.String(), ShouldContainSubstring, "burnrisk_assessment_system_goroutine_count")
		})

		Convey("Then stats endpoint should return the provider counters", func() {
			w := serve(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)

			var got types.Stats
			So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
			So(got.Started, ShouldBeTrue)
			So(got.Total(), ShouldEqual, 3)
			So(got.Pending, ShouldEqual, 3)
		})

		Convey("Then stats endpoint should 404 on POST", func() {
			w := serve(mux, http.MethodPost, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then questionnaire endpoint should serve the catalog", func() {
			w := serve(mux, http.MethodGet, "/questionnaire", "")
			So(w.Code, ShouldEqual, http.StatusOK)

			var got struct {
				Version  int `json:"version"`
				Sections []struct {
					ID        string `json:"id"`
					Questions []struct {
						ID string `json:"id"`
					} `json:"questions"`
				} `json:"sections"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
			So(got.Version, ShouldEqual, 1)
			count := 0
			for _, s := range got.Sections {
				count += len(s.Questions)
			}
			So(count, ShouldEqual, len(cat.Questions()))
		})

		Convey("Then unknown paths should 404", func() {
			w := serve(mux, http.MethodGet, "/leaderboard", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestAssessmentsHandler_Score(t *testing.T) {
	Convey("Given the score endpoint", t, func() {
		cat, err := questionnaire.Default()
		So(err, ShouldBeNil)
		deps := &mockDependencies{catalog: cat}
		mux := newMux(deps, &mockStatsProvider{})

		Convey("When a complete baseline record is posted", func() {
			w := serve(mux, http.MethodPost, "/score", baselineBody(nil))

			Convey("Then the assessment is LOW with the baseline probability", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var a types.Assessment
				So(json.Unmarshal(w.Body.Bytes(), &a), ShouldBeNil)
				So(a.Status, ShouldEqual, types.StatusScored)
				So(a.Tier, ShouldEqual, scoring.TierLow)
				So(a.Probability, ShouldAlmostEqual, 0.0792, 0.0005)
				So(a.Advice.Tier, ShouldEqual, scoring.TierLow)
				So(deps.record.Complete(), ShouldBeTrue)
			})
		})

		Convey("When predictors are missing or null", func() {
			w := serve(mux, http.MethodPost, "/score", baselineBody(map[string]string{
				"sexe":         "null",
				"TENSION2_reg": "-",
			}))

			Convey("Then it answers 422 listing them with labels", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				resp := decodeError(w)
				So(resp.Code, ShouldEqual, "incomplete_input")
				So(len(resp.Missing), ShouldEqual, 2)
				So(resp.Missing[0].Predictor, ShouldEqual, "sexe")
				So(resp.Missing[1].Predictor, ShouldEqual, "TENSION2_reg")
				So(resp.Missing[1].Label, ShouldNotBeEmpty)
			})
		})

		Convey("When a value is outside its domain", func() {
			w := serve(mux, http.MethodPost, "/score", baselineBody(map[string]string{"AGE": "70"}))

			Convey("Then it answers 422 out_of_domain", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				resp := decodeError(w)
				So(resp.Code, ShouldEqual, "out_of_domain")
				So(resp.Message, ShouldContainSubstring, "AGE")
				So(resp.Missing, ShouldBeEmpty)
			})
		})

		Convey("When an unknown predictor is posted", func() {
			w := serve(mux, http.MethodPost, "/score", `{"predictors":{"RPB1H_b":1}}`)

			Convey("Then it answers 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w).Code, ShouldEqual, "bad_request")
			})
		})

		Convey("When the body is not valid JSON", func() {
			for _, body := range []string{`{`, `{"predictors":{}, "extra":1}`, `{"predictors":{}}{}`} {
				w := serve(mux, http.MethodPost, "/score", body)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When the method is GET", func() {
			w := serve(mux, http.MethodGet, "/score", "")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(w.Header().Get("Allow"), ShouldEqual, http.MethodPost)
		})
	})

	Convey("Given a tiny body limit", t, func() {
		cat, err := questionnaire.Default()
		So(err, ShouldBeNil)
		mux := newMux(&mockDependencies{catalog: cat}, &mockStatsProvider{}, api.WithMaxBodyBytes(16))

		Convey("Then larger bodies are refused with 413", func() {
			w := serve(mux, http.MethodPost, "/score", baselineBody(nil))
			So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
			So(decodeError(w).Code, ShouldEqual, "payload_too_large")
		})
	})
}

func TestAssessmentsHandler_Assess(t *testing.T) {
	Convey("Given the assessments endpoint", t, func() {
		cat, err := questionnaire.Default()
		So(err, ShouldBeNil)
		deps := &mockDependencies{catalog: cat}
		mux := newMux(deps, &mockStatsProvider{})

		Convey("When answers are posted", func() {
			w := serve(mux, http.MethodPost, "/assessments", `{"answers":{"gender":"other","age":"40"}}`)

			Convey("Then they reach the service unchanged", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.answers, ShouldResemble, questionnaire.Answers{"gender": "other", "age": "40"})

				var a types.Assessment
				So(json.Unmarshal(w.Body.Bytes(), &a), ShouldBeNil)
				So(a.Status, ShouldEqual, types.StatusUnscored)
				So(a.Tier, ShouldEqual, scoring.Tier(""))
			})
		})

		Convey("When the answers field is absent", func() {
			w := serve(mux, http.MethodPost, "/assessments", `{}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the service rejects an answer", func() {
			deps.assessFn = func(questionnaire.Answers) (types.Assessment, error) {
				return types.Assessment{}, fmt.Errorf("boss_tension: %w", questionnaire.ErrUnknownOption)
			}
			w := serve(mux, http.MethodPost, "/assessments", `{"answers":{"boss_tension":"maybe"}}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w).Message, ShouldContainSubstring, "boss_tension")
		})

		Convey("When the answers leave predictors unknown", func() {
			deps.assessFn = func(questionnaire.Answers) (types.Assessment, error) {
				return types.Assessment{}, &scoring.IncompleteInputError{Missing: []model.Predictor{model.Mockery}}
			}
			w := serve(mux, http.MethodPost, "/assessments", `{"answers":{"mockery":"unknown"}}`)
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			resp := decodeError(w)
			So(resp.Missing, ShouldResemble, []types.MissingPredictor{
				{Predictor: string(model.Mockery), Label: cat.Label(model.Mockery)},
			})
		})

		Convey("When the service fails unexpectedly", func() {
			deps.assessFn = func(questionnaire.Answers) (types.Assessment, error) {
				return types.Assessment{}, errors.New("service not started")
			}
			w := serve(mux, http.MethodPost, "/assessments", `{"answers":{}}`)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(decodeError(w).Code, ShouldEqual, "internal_error")
		})
	})
}

func TestAdviceHandler(t *testing.T) {
	Convey("Given the advice endpoint", t, func() {
		cat, err := questionnaire.Default()
		So(err, ShouldBeNil)
		mux := newMux(&mockDependencies{catalog: cat}, &mockStatsProvider{})

		Convey("Then each tier has its advice", func() {
			for _, tier := range scoring.Tiers() {
				w := serve(mux, http.MethodGet, "/advice/"+tier.Lower(), "")
				So(w.Code, ShouldEqual, http.StatusOK)

				var got advice.Advice
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got.Headline, ShouldEqual, advice.For(tier).Headline)
			}
		})

		Convey("Then the generic advice is served for unscored", func() {
			w := serve(mux, http.MethodGet, "/advice/unscored", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then unknown tiers are not found", func() {
			w := serve(mux, http.MethodGet, "/advice/critical", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decodeError(w).Code, ShouldEqual, "not_found")
		})
	})
}

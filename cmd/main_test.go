package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	app "github.com/okian/burnrisk/internal/app"
	"github.com/okian/burnrisk/internal/config"
	"github.com/okian/burnrisk/pkg/logger"
	"github.com/okian/burnrisk/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			t.Setenv("BURNRISK_ADDR", ":8080")
			t.Setenv("BURNRISK_MAX_BODY_BYTES", "4096")
			t.Setenv("BURNRISK_LOG_FORMAT", "json")

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, 4096)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.NATSURL, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then metrics manager should be creatable", func() {
				manager := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given a service built from the default configuration", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)

		svc, err := newService(ctx, cfg, logger.NewNop())
		convey.So(err, convey.ShouldBeNil)
		defer svc.Stop()

		mux := newMux(ctx, cfg, svc)

		convey.Convey("Then every surface should be routed", func() {
			for path, want := range map[string]int{
				"/healthz":        http.StatusOK,
				"/metrics":        http.StatusOK,
				"/stats":          http.StatusOK,
				"/questionnaire":  http.StatusOK,
				"/advice/high":    http.StatusOK,
				"/openapi.yaml":   http.StatusOK,
				"/api-docs":       http.StatusOK,
				"/":               http.StatusOK,
				"/does-not-exist": http.StatusNotFound,
			} {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, want)
			}
		})

		convey.Convey("Then an assessment should round-trip through the API", func() {
			body := `{"answers":{"gender":"other"}}`
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/assessments", strings.NewReader(body)))

			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"status":"unscored"`)
			convey.So(svc.GetStats().Unscored, convey.ShouldEqual, 1)
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When testing invalid configuration", func() {
			t.Setenv("BURNRISK_ADDR", "")

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should return once the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing service metrics updater", func() {
			svc := app.New()

			convey.Convey("Then it should return once the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startServiceMetricsUpdater(ctx, svc)
				}, convey.ShouldNotPanic)
			})

			convey.Convey("Then a single update should not panic on an idle service", func() {
				convey.So(func() {
					updateServiceMetrics(svc)
				}, convey.ShouldNotPanic)
			})
		})
	})
}

package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSiteHandler(t *testing.T) {
	Convey("Given a site handler", t, func() {
		ctx := context.Background()
		mux := http.NewServeMux()

		Convey("When registering the site handler", func() {
			Register(ctx, mux)

			Convey("Then it should serve the questionnaire page at /", func() {
				req := httptest.NewRequest("GET", "/", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(w.Body.String(), ShouldContainSubstring, `id="questionnaire"`)
			})

			Convey("And it should serve the script", func() {
				req := httptest.NewRequest("GET", "/app.js", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "/assessments")
			})

			Convey("And unknown assets should 404", func() {
				req := httptest.NewRequest("GET", "/some-asset", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusNotFound)
			})

			Convey("And writes should be refused", func() {
				req := httptest.NewRequest("POST", "/", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})
	})
}

func TestSiteHandlerWithNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		ctx := context.Background()

		Convey("When registering the site handler", func() {
			Convey("Then it should panic", func() {
				So(func() {
					Register(ctx, nil)
				}, ShouldPanic)
			})
		})
	})
}

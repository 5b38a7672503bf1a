package swagger_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mkabbani/evround/internal/adapters/http/swagger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRegister(t *testing.T) {
	Convey("Given the documentation routes", t, func() {
		mux := http.NewServeMux()
		swagger.Register(context.Background(), mux)

		Convey("Then /openapi.yaml serves the embedded spec", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Content-Type"), ShouldContainSubstring, "yaml")
			So(rec.Body.String(), ShouldContainSubstring, "evround API")
			So(rec.Body.String(), ShouldContainSubstring, "/sessions/{id}/submit")
		})

		Convey("Then /api-docs serves the ReDoc page", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api-docs", nil))

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "redoc")
		})

		Convey("Then registering on a nil mux panics", func() {
			So(func() { swagger.Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}

package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func get(mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestSiteHandler(t *testing.T) {
	Convey("Given the site without the mood poll", t, func() {
		mux := http.NewServeMux()
		Register(context.Background(), mux, false)

		Convey("Then every screen page is served as html", func() {
			for _, path := range []string{"/", "/warm-up", "/unit-review"} {
				w := get(mux, path)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
			}
			So(get(mux, "/").Body.String(), ShouldContainSubstring, `classplay.start("spinner"`)
			So(get(mux, "/warm-up").Body.String(), ShouldContainSubstring, `classplay.start("flashcard"`)
			So(get(mux, "/unit-review").Body.String(), ShouldContainSubstring, `classplay.start("sentence"`)
		})

		Convey("Then the mood page is not routed", func() {
			So(get(mux, "/mood").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then shared assets are served", func() {
			w := get(mux, "/assets/app.js")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "EventSource")
		})

		Convey("Then unknown paths are not found", func() {
			So(get(mux, "/some-asset").Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given the site with the mood poll", t, func() {
		mux := http.NewServeMux()
		Register(context.Background(), mux, true)

		Convey("Then the mood page is served", func() {
			w := get(mux, "/mood")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `classplay.start("mood"`)
		})
	})
}

func TestPages(t *testing.T) {
	Convey("Given the page list", t, func() {
		So(Pages(false), ShouldHaveLength, 3)
		So(Pages(true), ShouldHaveLength, 4)
		So(Pages(true)[3].File, ShouldEqual, "mood.html")
	})
}

func TestSiteHandlerWithNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		So(func() { Register(context.Background(), nil, false) }, ShouldPanic)
	})
}

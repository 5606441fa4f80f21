// Package site serves the embedded classroom pages.
package site

import (
	"context"
	"net/http"
)

// Page is one routed screen of the site.
type Page struct {
	Path string
	File string
}

// Pages lists the routed screens. The mood page is only routed when enabled.
func Pages(moodPoll bool) []Page {
	pages := []Page{
		{Path: "/{$}", File: "index.html"},
		{Path: "/warm-up", File: "warm-up.html"},
		{Path: "/unit-review", File: "unit-review.html"},
	}
	if moodPoll {
		pages = append(pages, Page{Path: "/mood", File: "mood.html"})
	}
	return pages
}

// Register attaches the page routes and their shared assets to mux.
func Register(_ context.Context, mux *http.ServeMux, moodPoll bool) {
	if mux == nil {
		panic("mux is nil")
	}
	for _, p := range Pages(moodPoll) {
		mux.Handle(p.Path, pageHandler(p.File))
	}
	mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(FS())))
}

func pageHandler(file string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}
		http.ServeFileFS(w, r, staticSub, file)
	})
}

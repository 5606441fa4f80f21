package api

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

type dashboardHandler struct {
	files fs.FS
}

func newDashboardHandler() *dashboardHandler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return &dashboardHandler{files: sub}
}

// HandleDashboard serves a page that polls /stats and draws the live
// session and celebration counters.
func (h *dashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	http.ServeFileFS(w, r, h.files, "dashboard.html")
}

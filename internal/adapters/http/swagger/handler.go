// Package swagger serves the OpenAPI description of the session API and a
// ReDoc page rendering it.
package swagger

import (
	"context"
	"net/http"
)

const redocVersion = "v2.1.5"

// Register attaches the docs routes to mux:
//
//	GET /api-docs      ReDoc page
//	GET /openapi.yaml  embedded OpenAPI document
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /api-docs", serveDocs)
	mux.HandleFunc("GET /openapi.yaml", serveSpec)
}

func serveDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(docsPage))
}

func serveSpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write(OpenAPI)
}

const docsPage = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>classplay sessions API</title>
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc id="redoc-container"></redoc>
    <script src="https://cdn.redoc.ly/redoc/` + redocVersion + `/bundles/redoc.standalone.js"></script>
    <script>Redoc.init('/openapi.yaml', { suppressWarnings: true, hideDownloadButton: false }, document.getElementById('redoc-container'));</script>
  </body>
</html>`

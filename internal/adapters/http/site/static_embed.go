package site

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

var staticSub fs.FS = func() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return staticFS
	}
	return sub
}()

// FS returns an http.FileSystem for the embedded pages and assets.
func FS() http.FileSystem {
	return http.FS(staticSub)
}

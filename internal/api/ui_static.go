package api

import (
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
)

type siteFS struct {
	fsys    fs.FS
	handler http.Handler
}

func staticHandler(dir string) *siteFS {
	if strings.TrimSpace(dir) == "" {
		return nil
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil
	}
	fsys := os.DirFS(dir)
	return &siteFS{fsys: fsys, handler: http.FileServer(http.FS(fsys))}
}

// serveStatic serves files from the site directory. Extension-less paths
// that do not exist fall back to index.html for client-side routing.
func serveStatic(w http.ResponseWriter, r *http.Request, site *siteFS) {
	if site == nil {
		http.NotFound(w, r)
		return
	}
	p := path.Clean("/" + r.URL.Path)
	if name := strings.TrimPrefix(p, "/"); name != "" {
		if info, err := fs.Stat(site.fsys, name); err == nil && !info.IsDir() {
			site.handler.ServeHTTP(w, cloneRequestWithPath(r, p))
			return
		}
		if path.Ext(name) != "" {
			http.NotFound(w, r)
			return
		}
	}
	if _, err := fs.Stat(site.fsys, "index.html"); err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	site.handler.ServeHTTP(w, cloneRequestWithPath(r, "/"))
}

func cloneRequestWithPath(r *http.Request, p string) *http.Request {
	cp := r.Clone(r.Context())
	cp.URL = &url.URL{
		Path:     p,
		RawQuery: r.URL.RawQuery,
	}
	return cp
}

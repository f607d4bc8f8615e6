// Package site serves the embedded landing page.
package site

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// IndexPath is where GET / sends browsers.
const IndexPath = "/static/index.html"

// Register attaches the landing page routes to r.
//
//	GET /          -> 307 to /static/index.html
//	GET /static/*  -> embedded files
func Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}

	root := NewRootHandler()
	r.Get("/", root.HandleRoot)
	r.Get(IndexPath, root.HandleIndex)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(FS())))
}

// RootHandler redirects the bare root to the landing page.
type RootHandler struct{}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot handles GET /.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, IndexPath, http.StatusTemporaryRedirect)
}

// HandleIndex serves index.html directly. http.FileServer would redirect
// it to the directory URL.
func (h *RootHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, "index.html", time.Time{}, bytes.NewReader(page))
}

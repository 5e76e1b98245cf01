package web

import (
	_ "embed"
	"net/http"
)

// IndexHTML is the landing page, served as-is.
//
//go:embed index.html
var IndexHTML []byte

// IndexHandler renders the landing page. The request is not inspected.
type IndexHandler struct{}

func (IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(IndexHTML)
}

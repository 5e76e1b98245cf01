package web

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestIndexHandlerAnyRequest(t *testing.T) {
	requests := []*http.Request{
		httptest.NewRequest(http.MethodGet, "/", nil),
		httptest.NewRequest(http.MethodGet, "/?q=ignored&x=1", nil),
		httptest.NewRequest(http.MethodHead, "/", nil),
		httptest.NewRequest(http.MethodPost, "/", strings.NewReader("payload=1")),
	}
	for _, req := range requests {
		rec := httptest.NewRecorder()
		IndexHandler{}.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("%s %s: status = %d, want 200", req.Method, req.URL, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
			t.Errorf("%s %s: Content-Type = %q", req.Method, req.URL, ct)
		}
		if rec.Body.Len() == 0 {
			t.Errorf("%s %s: empty body", req.Method, req.URL)
		}
		if !bytes.Equal(rec.Body.Bytes(), IndexHTML) {
			t.Errorf("%s %s: body differs from the embedded page", req.Method, req.URL)
		}
	}
}

func TestIndexPageHasUploadForm(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(IndexHTML))
	if err != nil {
		t.Fatalf("parse index: %v", err)
	}
	if title := strings.TrimSpace(doc.Find("title").Text()); title != "po33hub" {
		t.Errorf("title = %q, want po33hub", title)
	}
	form := doc.Find("form#upload")
	if form.Length() != 1 {
		t.Fatalf("found %d upload forms, want 1", form.Length())
	}
	if action, _ := form.Attr("action"); action != "/api/samples" {
		t.Errorf("form action = %q, want /api/samples", action)
	}
	if enc, _ := form.Attr("enctype"); enc != "multipart/form-data" {
		t.Errorf("form enctype = %q", enc)
	}
	if form.Find(`input[type="file"][name="sample"]`).Length() != 1 {
		t.Error("upload form has no sample file input")
	}
}

package htmlmeta

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/html"
)

func parse(t *testing.T, doc string) *html.Node {
	t.Helper()
	node, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("failed to parse test document: %v", err)
	}
	return node
}

func TestExtract(t *testing.T) {
	doc := `<html><head>
		<title>Guide du maillage interne</title>
		<meta name="description" content="Description simple">
		<meta property="og:description" content="Description opengraph">
	</head><body>
		<h1>Le <strong>maillage</strong> interne</h1>
		<h1>Second titre ignoré</h1>
	</body></html>`

	meta := Extract(parse(t, doc))

	if meta.Title != "Guide du maillage interne" {
		t.Errorf("Title = %q", meta.Title)
	}
	if meta.H1 != "Le maillage interne" {
		t.Errorf("H1 = %q", meta.H1)
	}
	if meta.MetaDescription != "Description opengraph" {
		t.Errorf("MetaDescription = %q, og:description should win", meta.MetaDescription)
	}
}

func TestExtractPlainDescriptionFallback(t *testing.T) {
	doc := `<html><head>
		<title>Titre</title>
		<meta name="description" content="Description simple">
	</head><body></body></html>`

	meta := Extract(parse(t, doc))
	if meta.MetaDescription != "Description simple" {
		t.Errorf("MetaDescription = %q", meta.MetaDescription)
	}
}

func TestExtractMissingFields(t *testing.T) {
	meta := Extract(parse(t, "<html><body><p>rien</p></body></html>"))
	if meta.Title != "" || meta.H1 != "" || meta.MetaDescription != "" {
		t.Errorf("expected empty meta, got %+v", meta)
	}
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title>Page distante</title></head><body><h1>Bonjour</h1></body></html>`))
	}))
	defer server.Close()

	f := NewFetcher(5 * time.Second)
	meta, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if meta.Title != "Page distante" {
		t.Errorf("Title = %q", meta.Title)
	}
	if meta.H1 != "Bonjour" {
		t.Errorf("H1 = %q", meta.H1)
	}
}

func TestFetchRejectsBadScheme(t *testing.T) {
	f := NewFetcher(5 * time.Second)
	if _, err := f.Fetch(context.Background(), "ftp://example.fr/fichier"); err == nil {
		t.Fatal("expected error for non-http scheme")
	}
}

func TestFetchNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	f := NewFetcher(5 * time.Second)
	if _, err := f.Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

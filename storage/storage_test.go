package storage

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSaveAndReadMarkdown(t *testing.T) {
	s, err := New(Config{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	content := "# Maillage interne\n\nContenu de la page."
	relPath, err := s.SaveMarkdown(content, "https://example.fr/blog/maillage-interne")
	if err != nil {
		t.Fatalf("SaveMarkdown failed: %v", err)
	}

	if !strings.HasSuffix(relPath, ".md") {
		t.Errorf("path %q does not end in .md", relPath)
	}
	wantPrefix := filepath.Join("markdown",
		time.Now().Format("2006"), time.Now().Format("01"))
	if !strings.HasPrefix(relPath, wantPrefix) {
		t.Errorf("path %q not under %q", relPath, wantPrefix)
	}

	got, err := s.ReadMarkdown(relPath)
	if err != nil {
		t.Fatalf("ReadMarkdown failed: %v", err)
	}
	if got != content {
		t.Errorf("content round trip mismatch: %q", got)
	}
}

func TestSaveMarkdownDuplicateURLs(t *testing.T) {
	s, err := New(Config{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	url := "https://example.fr/page"
	first, err := s.SaveMarkdown("premier", url)
	if err != nil {
		t.Fatalf("first SaveMarkdown failed: %v", err)
	}
	second, err := s.SaveMarkdown("second", url)
	if err != nil {
		t.Fatalf("second SaveMarkdown failed: %v", err)
	}

	if first == second {
		t.Fatalf("duplicate URL overwrote existing file: %q", first)
	}
	if got, _ := s.ReadMarkdown(first); got != "premier" {
		t.Errorf("first file content = %q", got)
	}
	if got, _ := s.ReadMarkdown(second); got != "second" {
		t.Errorf("second file content = %q", got)
	}
}

func TestDeleteMarkdown(t *testing.T) {
	s, err := New(Config{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	relPath, err := s.SaveMarkdown("contenu", "https://example.fr/page")
	if err != nil {
		t.Fatalf("SaveMarkdown failed: %v", err)
	}
	if err := s.DeleteMarkdown(relPath); err != nil {
		t.Fatalf("DeleteMarkdown failed: %v", err)
	}
	if _, err := s.ReadMarkdown(relPath); err == nil {
		t.Error("expected read error after delete")
	}

	// Deleting a missing file is not an error
	if err := s.DeleteMarkdown("markdown/absent.md"); err != nil {
		t.Errorf("DeleteMarkdown on missing file: %v", err)
	}
}

func TestSaveMarkdownUnsluggableURL(t *testing.T) {
	s, err := New(Config{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	relPath, err := s.SaveMarkdown("contenu", "@@@")
	if err != nil {
		t.Fatalf("SaveMarkdown failed: %v", err)
	}
	if !strings.Contains(relPath, "page") {
		t.Errorf("fallback name not used: %q", relPath)
	}
}

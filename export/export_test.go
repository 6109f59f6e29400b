package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/azudev4/linkodo-sub001/models"
)

func TestWriteSession(t *testing.T) {
	session := &models.CrawlSession{ID: "s1", Name: "audit-clientx"}
	created := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	pages := []*models.RawPage{
		{
			URL:       "https://example.fr/blog/maillage",
			Title:     "Maillage interne",
			Promoted:  true,
			CreatedAt: created,
		},
		{
			URL:           "https://example.fr/doc.pdf",
			Excluded:      true,
			ExcludeReason: "excluded extension: .pdf",
			CreatedAt:     created,
		},
	}

	var buf bytes.Buffer
	if err := WriteSession(&buf, session, pages); err != nil {
		t.Fatalf("WriteSession failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header plus 2 pages", len(rows))
	}

	if rows[0][0] != "URL" || rows[0][3] != "Excluded" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
	if rows[1][0] != "https://example.fr/blog/maillage" {
		t.Errorf("row 1 url = %q", rows[1][0])
	}
	if rows[1][3] != "no" || rows[1][5] != "yes" {
		t.Errorf("row 1 flags = excluded %q, indexed %q", rows[1][3], rows[1][5])
	}
	if rows[2][3] != "yes" || rows[2][4] != "excluded extension: .pdf" {
		t.Errorf("row 2 exclusion = %q / %q", rows[2][3], rows[2][4])
	}
}

func TestWriteSessionEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSession(&buf, &models.CrawlSession{ID: "s2", Name: "vide"}, nil)
	if err != nil {
		t.Fatalf("WriteSession failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("got %d rows, want header only", len(rows))
	}
}

func TestFilename(t *testing.T) {
	got := Filename(&models.CrawlSession{ID: "s1", Name: "audit-clientx"})
	if got != "crawl-session-audit-clientx.xlsx" {
		t.Errorf("Filename = %q", got)
	}

	got = Filename(&models.CrawlSession{ID: "s1"})
	if got != "crawl-session-s1.xlsx" {
		t.Errorf("Filename without name = %q", got)
	}
}

// Package export renders crawl session reports as .xlsx workbooks for
// the admin back-office.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/azudev4/linkodo-sub001/models"
)

const sheetName = "Pages"

var headers = []string{
	"URL", "Title", "Meta description", "Excluded", "Exclusion reason", "Indexed", "Discovered at",
}

// WriteSession writes one workbook for a crawl session: a row per
// discovered page with its exclusion verdict, so a reviewer can audit
// which pages were kept out of the index and why.
func WriteSession(w io.Writer, session *models.CrawlSession, pages []*models.RawPage) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, page := range pages {
		row := i + 2
		values := []any{
			page.URL,
			page.Title,
			page.MetaDescription,
			yesNo(page.Excluded),
			page.ExcludeReason,
			yesNo(page.Promoted),
			page.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("failed to compute cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 50); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(sheetName, "B", "C", 40); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(sheetName, "E", "E", 35); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(sheetName, "G", "G", 20); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	props := &excelize.DocProperties{Title: "Crawl session " + session.Name}
	if err := f.SetDocProps(props); err != nil {
		return fmt.Errorf("failed to set document properties: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Filename returns the attachment filename for a session export
func Filename(session *models.CrawlSession) string {
	name := session.Name
	if name == "" {
		name = session.ID
	}
	return fmt.Sprintf("crawl-session-%s.xlsx", name)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

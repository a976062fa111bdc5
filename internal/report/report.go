// Package report renders todo rows into a styled xlsx workbook.
package report

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "Todo Lists"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	headerFill  = "E2E8F0"
	summaryFill = "FEF3C7"
	borderColor = "000000"

	minColumnWidth = 8
	maxColumnWidth = 60
)

// Filename returns the download name for a report generated at now.
func Filename(now time.Time) string {
	return "todolist_report_" + now.Format("2006_01_02_15_04_05") + ".xlsx"
}

// Render writes headings on row 1 and rows below it, leaves one blank row,
// then appends the summary row with totalTimeTracked. Every cell from A1 to
// the summary row gets a thin border.
func Render(headings []string, rows [][]any, totalTimeTracked int) ([]byte, error) {
	if len(headings) == 0 {
		return nil, fmt.Errorf("report: no headings")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("report: rename sheet: %w", err)
	}

	header := make([]any, 0, len(headings))
	for _, h := range headings {
		header = append(header, h)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("report: write headings: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := row
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("report: write row %d: %w", i+1, err)
		}
	}

	summaryRow := len(rows) + 3
	summary := []any{"SUMMARY", nil, "Total Time Tracked:", fmt.Sprintf("%d hours", totalTimeTracked)}
	if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", summaryRow), &summary); err != nil {
		return nil, fmt.Errorf("report: write summary: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(headings))
	if err != nil {
		return nil, err
	}

	if err := applyStyles(f, lastCol, summaryRow); err != nil {
		return nil, err
	}

	if err := fitColumns(f, headings, rows, summary); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("report: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func borders() []excelize.Border {
	sides := []string{"left", "top", "right", "bottom"}
	result := make([]excelize.Border, 0, len(sides))
	for _, side := range sides {
		result = append(result, excelize.Border{Type: side, Color: borderColor, Style: 1})
	}
	return result
}

// applyStyles sets the body border first; header and summary styles carry
// the border too since a cell holds a single style.
func applyStyles(f *excelize.File, lastCol string, summaryRow int) error {
	body, err := f.NewStyle(&excelize.Style{Border: borders()})
	if err != nil {
		return fmt.Errorf("report: body style: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Border:    borders(),
		Font:      &excelize.Font{Bold: true, Size: 12},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("report: header style: %w", err)
	}

	summary, err := f.NewStyle(&excelize.Style{
		Border: borders(),
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{summaryFill}},
	})
	if err != nil {
		return fmt.Errorf("report: summary style: %w", err)
	}

	last := fmt.Sprintf("%s%d", lastCol, summaryRow)
	if err := f.SetCellStyle(SheetName, "A1", last, body); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", header); err != nil {
		return err
	}
	return f.SetCellStyle(SheetName, fmt.Sprintf("A%d", summaryRow), last, summary)
}

// fitColumns sizes each column to its widest value.
func fitColumns(f *excelize.File, headings []string, rows [][]any, summary []any) error {
	widths := make([]int, len(headings))
	measure := func(i int, v any) {
		if i >= len(widths) || v == nil {
			return
		}
		if n := utf8.RuneCountInString(fmt.Sprint(v)); n > widths[i] {
			widths[i] = n
		}
	}

	for i, h := range headings {
		measure(i, h)
	}
	for _, row := range rows {
		for i, v := range row {
			measure(i, v)
		}
	}
	for i, v := range summary {
		measure(i, v)
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		width := float64(min(max(w+2, minColumnWidth), maxColumnWidth))
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("report: column width: %w", err)
		}
	}
	return nil
}

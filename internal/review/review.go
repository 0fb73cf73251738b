// =============================================================================
// Todoist to Reminders Converter - Review Report
// =============================================================================
//
// This module collects the manual adjustments of a run into a review list.
// Each item names the task that was annotated and why, so the user can fix
// the imported reminders one by one.
//
// The list can be rendered as text for the log, or written to a workbook:
//
//   | File      | Line | Task     | Parent | Tag                   | Detail      |
//   |-----------|------|----------|--------|-----------------------|-------------|
//   | Inbox.csv | 6    | Pay rent |        | export_RECURRING_DATE | every month |
//
// =============================================================================

package review

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/todoist-to-reminders/internal/converter"
)

// Item is one manual adjustment to review.
type Item struct {
	// File is the base name of the export that held the task.
	File string

	// Line is the source line of the task row.
	Line int

	Title  string
	Parent string
	Tag    string
	Detail string
}

// String renders the item on one line.
func (i Item) String() string {
	location := fmt.Sprintf("%s:%d", i.File, i.Line)
	if i.Parent != "" {
		return fmt.Sprintf("%s %s (%q under %q): %s", location, i.Tag, i.Title, i.Parent, i.Detail)
	}
	return fmt.Sprintf("%s %s (%q): %s", location, i.Tag, i.Title, i.Detail)
}

// FromResults collects the annotations of all successful conversions, in
// file order.
func FromResults(results []converter.Result) []Item {
	var items []Item
	for _, result := range results {
		if !result.Success {
			continue
		}
		file := filepath.Base(result.FilePath)
		for _, a := range result.Annotations {
			items = append(items, Item{
				File:   file,
				Line:   a.Line,
				Title:  a.Title,
				Parent: a.Parent,
				Tag:    a.Tag,
				Detail: a.Detail,
			})
		}
	}
	return items
}

// FormatItems formats the review list for display or logging.
func FormatItems(items []Item) string {
	if len(items) == 0 {
		return "No tasks need manual adjustment."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%d task annotation(s) need manual adjustment:\n", len(items)))
	for n, item := range items {
		builder.WriteString(fmt.Sprintf("%d. %s\n", n+1, item))
	}
	return builder.String()
}

// =============================================================================
// WORKBOOK OUTPUT
// =============================================================================

const sheetName = "Review"

var (
	columns = []string{"File", "Line", "Task", "Parent", "Tag", "Detail"}
	widths  = []float64{28, 8, 40, 30, 26, 30}
)

// WriteWorkbook writes the review list to an .xlsx workbook at path. The sheet
// has a bold, frozen header row and an autofilter over all columns.
func WriteWorkbook(path string, items []Item) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, column := range columns {
		header[i] = column
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{item.File, item.Line, item.Title, item.Parent, item.Tag, item.Detail}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := formatSheet(f, len(items)); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func formatSheet(f *excelize.File, rows int) error {
	lastColumn, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", lastColumn+"1", style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, width := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, name, name, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	filterRange := fmt.Sprintf("A1:%s%d", lastColumn, rows+1)
	if err := f.AutoFilter(sheetName, filterRange, nil); err != nil {
		return fmt.Errorf("failed to add autofilter: %w", err)
	}
	return nil
}

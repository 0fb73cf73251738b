// =============================================================================
// Todoist to Reminders Converter - XLSX Export Parser
// =============================================================================
//
// Exports are sometimes opened in a spreadsheet application and saved as a
// workbook before they are converted. This module reads such a workbook and
// returns the same header-keyed records as the CSV parser.
//
// WORKBOOK LAYOUT:
//
//   | A    | B         | C           | D        | E      | ... |
//   |------|-----------|-------------|----------|--------|-----|
//   | TYPE | CONTENT   | DESCRIPTION | PRIORITY | INDENT | ... |   <- header row
//   | task | Buy milk  |             | 1        | 1      | ... |
//
// Only one worksheet is read: the configured one, or the first sheet.
//
// =============================================================================

package xlsxparser

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/todoist-to-reminders/internal/csvparser"
)

// Parse reads the worksheet sheetName of the workbook at path. An empty
// sheetName selects the first sheet.
func Parse(path, sheetName string) (*csvparser.CSVData, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("workbook has no sheets")
		}
	} else if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("workbook has no sheet %q", sheetName)
	}

	// Cells are read as displayed text so numbers like PRIORITY keep their
	// integer form.
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	data, err := csvparser.FromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheetName, err)
	}

	return data, nil
}

// =============================================================================
// Todoist to Reminders Converter - CSV Parser Module
// =============================================================================
//
// This module decodes Todoist CSV backups into header-keyed records. It does
// not interpret the columns; that is done by the converter.
//
// FEATURES:
//   - Configurable delimiter and quoting via config.CSVSettings
//   - UTF-8 byte order mark on the header row is removed
//   - Empty lines and lines with only empty cells are skipped
//   - A malformed line is recorded as a RowError and skipped, the rest of the
//     file is still decoded
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/todoist-to-reminders/internal/config"
)

// ErrEmptyFile is returned when the input has no header row.
var ErrEmptyFile = errors.New("CSV file is empty")

// =============================================================================
// CSV DATA STRUCTURE
// =============================================================================

// Record is one decoded data line.
type Record struct {
	// Line is the 1-based line number where the record starts.
	Line int

	// Fields maps header -> cell text as written. Every header is present.
	Fields map[string]string
}

// RowError describes a line that could not be decoded.
type RowError struct {
	Line int
	Err  error
}

// Error implements the error interface.
func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying decoder error.
func (e *RowError) Unwrap() error {
	return e.Err
}

// CSVData represents a parsed CSV file.
type CSVData struct {
	// Headers contains the cleaned column headers.
	Headers []string

	// Records contains the data lines in file order.
	Records []Record

	// Errors contains the lines that were skipped because they were malformed.
	Errors []*RowError
}

// HasHeader reports whether the file declares the given column.
func (d *CSVData) HasHeader(name string) bool {
	for _, h := range d.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseFile opens filePath and decodes it with Parse.
func ParseFile(filePath string, settings config.CSVSettings) (*CSVData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(bufio.NewReader(file), settings)
}

// Parse decodes CSV text with a header row.
//
// Errors on individual data lines do not stop decoding; they are collected in
// CSVData.Errors. An error is only returned when the header cannot be read or
// the underlying reader fails.
func Parse(r io.Reader, settings config.CSVSettings) (*CSVData, error) {
	reader := csv.NewReader(r)
	if err := configureReader(reader, settings); err != nil {
		return nil, err
	}

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	data := &CSVData{
		Headers: cleanHeaders(header),
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				data.Errors = append(data.Errors, &RowError{Line: parseErr.StartLine, Err: parseErr.Err})
				continue
			}
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		if isRowEmpty(row) {
			continue
		}

		line, _ := reader.FieldPos(0)
		data.Records = append(data.Records, Record{
			Line:   line,
			Fields: toFields(data.Headers, row),
		})
	}

	return data, nil
}

// FromRows builds CSVData from rows that were already split into cells, such
// as the rows of a worksheet. rows[0] is the header; rows[i] is line i+1.
// Rows longer than the header are reported like malformed CSV lines.
func FromRows(rows [][]string) (*CSVData, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	data := &CSVData{
		Headers: cleanHeaders(rows[0]),
	}

	for i, row := range rows[1:] {
		line := i + 2
		if isRowEmpty(row) {
			continue
		}
		if len(row) > len(data.Headers) {
			data.Errors = append(data.Errors, &RowError{Line: line, Err: csv.ErrFieldCount})
			continue
		}
		data.Records = append(data.Records, Record{
			Line:   line,
			Fields: toFields(data.Headers, row),
		})
	}

	return data, nil
}

// configureReader applies the settings to the CSV reader. The field count is
// fixed by the header row so lines with a different count are reported.
func configureReader(reader *csv.Reader, settings config.CSVSettings) error {
	comma, err := settings.Comma()
	if err != nil {
		return err
	}
	reader.Comma = comma
	reader.FieldsPerRecord = 0
	reader.LazyQuotes = settings.LazyQuotes
	reader.TrimLeadingSpace = settings.TrimLeadingSpace
	return nil
}

// cleanHeaders trims headers and strips a UTF-8 byte order mark. Empty headers
// are named after their position.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		if i == 0 {
			header = strings.TrimPrefix(header, "\ufeff")
		}
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}

	return cleaned
}

// toFields converts a row into a header-keyed map. Cell text is kept as is;
// missing cells become "".
func toFields(headers, row []string) map[string]string {
	fields := make(map[string]string, len(headers))
	for i, header := range headers {
		if i < len(row) {
			fields[header] = row[i]
		} else {
			fields[header] = ""
		}
	}
	return fields
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

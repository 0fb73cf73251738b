package converter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/todoist-to-reminders/internal/csvparser"
	"github.com/ginjaninja78/todoist-to-reminders/internal/types"
)

// requiredColumns must be present in every export.
var requiredColumns = []string{types.ColumnType, types.ColumnContent}

// checkColumns verifies that the export has the columns the mapper cannot do without.
func checkColumns(data *csvparser.CSVData) error {
	var missing []string
	for _, column := range requiredColumns {
		if !data.HasHeader(column) {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required column(s): %s", strings.Join(missing, ", "))
	}
	return nil
}

// DecodeRows builds typed rows from decoded records, keeping their order.
func DecodeRows(records []csvparser.Record) []types.Row {
	rows := make([]types.Row, 0, len(records))
	for _, record := range records {
		rows = append(rows, DecodeRow(record))
	}
	return rows
}

// DecodeRow builds a typed row field by field. Text cells keep their white
// space; TYPE, PRIORITY, INDENT and DATE_LANG are trimmed. PRIORITY and INDENT
// that are not integers become types.NotANumber.
func DecodeRow(record csvparser.Record) types.Row {
	f := record.Fields
	return types.Row{
		Kind:        rowKind(f[types.ColumnType]),
		Content:     f[types.ColumnContent],
		Description: f[types.ColumnDescription],
		Priority:    toInt(f[types.ColumnPriority]),
		Indent:      toInt(f[types.ColumnIndent]),
		Responsible: f[types.ColumnResponsible],
		Date:        f[types.ColumnDate],
		DateLang:    strings.TrimSpace(f[types.ColumnDateLang]),
		Timezone:    f[types.ColumnTimezone],
		Line:        record.Line,
	}
}

func rowKind(s string) types.RowKind {
	switch strings.TrimSpace(s) {
	case string(types.RowKindTask):
		return types.RowKindTask
	case string(types.RowKindSection):
		return types.RowKindSection
	}
	return types.RowKindOther
}

func toInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return types.NotANumber
	}
	return n
}

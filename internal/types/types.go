// =============================================================================
// Todoist to Reminders Converter - Shared Types
// =============================================================================
//
// This package contains the types shared between the row decoders, the task
// mapper and the writers:
//   - Row        : one typed line of a Todoist export
//   - ExportTask : one task record of the Reminders import document
//
// =============================================================================

package types

import "math"

// =============================================================================
// EXPORT COLUMNS
// =============================================================================

// Column names of a Todoist CSV export. Columns not listed here (AUTHOR,
// DURATION, ...) are ignored.
const (
	ColumnType        = "TYPE"
	ColumnContent     = "CONTENT"
	ColumnDescription = "DESCRIPTION"
	ColumnPriority    = "PRIORITY"
	ColumnIndent      = "INDENT"
	ColumnResponsible = "RESPONSIBLE"
	ColumnDate        = "DATE"
	ColumnDateLang    = "DATE_LANG"
	ColumnTimezone    = "TIMEZONE"
)

// NotANumber marks a PRIORITY or INDENT cell that did not hold an integer.
// It is below every threshold the mapper compares against, so no rule that
// tests priority or indentation ever matches it.
const NotANumber = math.MinInt

// =============================================================================
// ROW
// =============================================================================

// RowKind is the TYPE column of an export row.
type RowKind string

const (
	RowKindSection RowKind = "section"
	RowKindTask    RowKind = "task"

	// RowKindOther covers everything else Todoist exports (e.g. "note").
	RowKindOther RowKind = "other"
)

// Row is a single decoded line of a Todoist export.
type Row struct {
	// Kind is the row type. Section rows only open a new section scope.
	Kind RowKind

	// Content is the task title or the section name.
	Content string

	// Description is the task description (task rows only).
	Description string

	// Priority is 1 (highest) to 4 (default), or NotANumber.
	Priority int

	// Indent is the exported nesting depth, 1 for top-level tasks, or NotANumber.
	Indent int

	Responsible string

	// Date is the free-text due date, "" when the task has none.
	Date string

	// DateLang selects the month vocabulary used to read Date ("de" or "en").
	DateLang string

	Timezone string

	// Line is the 1-based line number in the source file, for diagnostics.
	Line int
}

// =============================================================================
// EXPORT TASK
// =============================================================================

// Annotation tags added to tasks that need manual adjustment after import.
const (
	TagSection       = "export_SECTION"
	TagRecurringDate = "export_RECURRING_DATE"
	TagIndentation   = "export_INDENTATION"
)

// PriorityFlag is the priority marker of an exported task.
type PriorityFlag string

const (
	PriorityNone PriorityFlag = ""
	Priority1    PriorityFlag = "prio1"
	Priority2    PriorityFlag = "prio2"
	Priority3    PriorityFlag = "prio3"
)

// ExportTask is one record of the Reminders import document. Optional fields
// are omitted from the serialized form when empty.
type ExportTask struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Date        string   `json:"date,omitempty" yaml:"date,omitempty"`
	Prio1       bool     `json:"prio1,omitempty" yaml:"prio1,omitempty"`
	Prio2       bool     `json:"prio2,omitempty" yaml:"prio2,omitempty"`
	Prio3       bool     `json:"prio3,omitempty" yaml:"prio3,omitempty"`
	Parent      string   `json:"parent,omitempty" yaml:"parent,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// SetPriority sets exactly one priority flag, clearing the others.
func (t *ExportTask) SetPriority(flag PriorityFlag) {
	t.Prio1 = flag == Priority1
	t.Prio2 = flag == Priority2
	t.Prio3 = flag == Priority3
}

// Priority returns the flag currently set on the task.
func (t ExportTask) Priority() PriorityFlag {
	switch {
	case t.Prio1:
		return Priority1
	case t.Prio2:
		return Priority2
	case t.Prio3:
		return Priority3
	}
	return PriorityNone
}

// HasTag reports whether the task carries the given annotation tag.
func (t ExportTask) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

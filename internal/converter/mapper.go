// =============================================================================
// Todoist to Reminders Converter - Task Mapper
// =============================================================================
//
// The mapper turns the flat row list of one export into Reminders tasks.
//
// RULES (applied to every task row, in this order):
//   1. title and description are copied
//   2. PRIORITY 1, 2, 3 set prio1, prio2, prio3; anything else sets nothing
//   3. a top-level task (INDENT 1) inside a section is tagged export_SECTION
//   4. a DATE that is not an absolute date is tagged export_RECURRING_DATE;
//      an absolute date is converted to a timestamp
//   5. INDENT 1 makes the task the current root; INDENT >= 2 attaches the task
//      to the current root; INDENT > 2 is also tagged export_INDENTATION
//      because Reminders only supports one level of subtasks
//
// Every tag comes with a "NEED MANUAL ADJUSTMENT: <REASON>: <detail>" line in
// front of the description.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ginjaninja78/todoist-to-reminders/internal/dateparse"
	"github.com/ginjaninja78/todoist-to-reminders/internal/logging"
	"github.com/ginjaninja78/todoist-to-reminders/internal/types"
)

// adjustmentPrefix starts every manual adjustment line in a description.
const adjustmentPrefix = "NEED MANUAL ADJUSTMENT: "

// adjustment is one reason for manual review after the import.
type adjustment struct {
	tag    string
	reason string
}

var (
	sectionAdjustment     = adjustment{tag: types.TagSection, reason: "SECTION"}
	recurringAdjustment   = adjustment{tag: types.TagRecurringDate, reason: "RECURRING_DATE"}
	indentationAdjustment = adjustment{tag: types.TagIndentation, reason: "INDENTATION"}
)

// Annotation records a manual adjustment added to a task.
type Annotation struct {
	// Line is the source line of the task row.
	Line int

	Title  string
	Parent string

	// Tag is one of the types.Tag* constants.
	Tag string

	// Detail is the section name, the raw date or the original indent.
	Detail string
}

// Mapping is the result of mapping one export.
type Mapping struct {
	Tasks       []types.ExportTask
	Annotations []Annotation

	// Sections is the number of section rows seen.
	Sections int

	// Ignored is the number of rows that are neither tasks nor sections.
	Ignored int
}

// Mapper converts the rows of one export. It keeps no state between calls to
// Map, so one Mapper can be reused for many files.
type Mapper struct {
	dateOptions dateparse.Options
	logger      logging.Logger
}

// NewMapper creates a Mapper. A nil logger discards messages.
func NewMapper(dateOptions dateparse.Options, logger logging.Logger) *Mapper {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Mapper{
		dateOptions: dateOptions,
		logger:      logger,
	}
}

// Map converts rows into export tasks.
//
// It fails only when a task has a date in a language without a month
// vocabulary; the error wraps dateparse.ErrUnsupportedLanguage.
func (m *Mapper) Map(rows []types.Row) (*Mapping, error) {
	var (
		currentSection *string
		lastRootTitle  string
	)

	result := &Mapping{
		Tasks: make([]types.ExportTask, 0, len(rows)),
	}

	for _, row := range rows {
		switch row.Kind {
		case types.RowKindSection:
			section := row.Content
			currentSection = &section
			result.Sections++
			continue
		case types.RowKindTask:
		default:
			m.logger.Debug("line %d: ignoring row that is neither task nor section", row.Line)
			result.Ignored++
			continue
		}

		task := types.ExportTask{
			Title:       row.Content,
			Description: row.Description,
		}
		task.SetPriority(priorityFlag(row.Priority))

		var pending []Annotation
		annotate := func(a adjustment, detail string) {
			task.Tags = append(task.Tags, a.tag)
			task.Description = adjustmentPrefix + a.reason + ": " + detail + "\n" + task.Description
			pending = append(pending, Annotation{Line: row.Line, Tag: a.tag, Detail: detail})
		}

		if currentSection != nil && row.Indent == 1 {
			annotate(sectionAdjustment, *currentSection)
		}

		if row.Date != "" {
			parsed, err := dateparse.Parse(row.Date, row.DateLang, m.dateOptions)
			switch {
			case err == nil:
				task.Date = dateparse.Format(parsed)
			case errors.Is(err, dateparse.ErrUnsupportedLanguage):
				return nil, fmt.Errorf("line %d: %w", row.Line, err)
			default:
				m.logger.Debug("line %d: %v", row.Line, err)
				annotate(recurringAdjustment, row.Date)
			}
		}

		if row.Indent == 1 {
			lastRootTitle = task.Title
		}
		if row.Indent >= 2 {
			task.Parent = lastRootTitle
		}
		if row.Indent > 2 {
			annotate(indentationAdjustment, strconv.Itoa(row.Indent))
		}

		for _, a := range pending {
			a.Title = task.Title
			a.Parent = task.Parent
			result.Annotations = append(result.Annotations, a)
		}
		result.Tasks = append(result.Tasks, task)
	}

	return result, nil
}

// priorityFlag maps a Todoist priority to the export flag.
func priorityFlag(priority int) types.PriorityFlag {
	switch priority {
	case 1:
		return types.Priority1
	case 2:
		return types.Priority2
	case 3:
		return types.Priority3
	}
	return types.PriorityNone
}

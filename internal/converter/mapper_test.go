package converter

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/todoist-to-reminders/internal/dateparse"
	"github.com/ginjaninja78/todoist-to-reminders/internal/types"
)

func testMapper() *Mapper {
	return NewMapper(dateparse.Options{
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) },
	}, nil)
}

func taskRow(content string, indent, priority int) types.Row {
	return types.Row{
		Kind:     types.RowKindTask,
		Content:  content,
		Indent:   indent,
		Priority: priority,
		DateLang: "en",
	}
}

func sectionRow(name string) types.Row {
	return types.Row{Kind: types.RowKindSection, Content: name}
}

func mapRows(t *testing.T, rows ...types.Row) *Mapping {
	t.Helper()
	mapping, err := testMapper().Map(rows)
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	return mapping
}

func TestMap_PriorityFlags(t *testing.T) {
	tests := []struct {
		priority int
		want     types.PriorityFlag
	}{
		{1, types.Priority1},
		{2, types.Priority2},
		{3, types.Priority3},
		{4, types.PriorityNone},
		{0, types.PriorityNone},
		{types.NotANumber, types.PriorityNone},
	}

	for _, tt := range tests {
		mapping := mapRows(t, taskRow("A", 1, tt.priority))
		got := mapping.Tasks[0]
		if got.Priority() != tt.want {
			t.Errorf("priority %d: got flag %q, want %q", tt.priority, got.Priority(), tt.want)
		}
		set := 0
		for _, b := range []bool{got.Prio1, got.Prio2, got.Prio3} {
			if b {
				set++
			}
		}
		if tt.want == types.PriorityNone && set != 0 || tt.want != types.PriorityNone && set != 1 {
			t.Errorf("priority %d: %d flags set", tt.priority, set)
		}
	}
}

func TestMap_CopiesTitleAndDescription(t *testing.T) {
	row := taskRow("Buy milk", 1, 4)
	row.Description = "2 liters"

	task := mapRows(t, row).Tasks[0]
	if task.Title != "Buy milk" || task.Description != "2 liters" {
		t.Errorf("Unexpected task %+v", task)
	}
	if len(task.Tags) != 0 || task.Parent != "" || task.Date != "" {
		t.Errorf("Expected plain task, got %+v", task)
	}
}

func TestMap_SubtasksAttachToLastRoot(t *testing.T) {
	mapping := mapRows(t,
		taskRow("Root A", 1, 4),
		taskRow("Child A1", 2, 4),
		taskRow("Root B", 1, 4),
		taskRow("Child B1", 2, 4),
		taskRow("Child B2", 2, 4),
	)

	wantParents := []string{"", "Root A", "", "Root B", "Root B"}
	for i, task := range mapping.Tasks {
		if task.Parent != wantParents[i] {
			t.Errorf("task %q: parent %q, want %q", task.Title, task.Parent, wantParents[i])
		}
	}
}

func TestMap_DeepIndentation(t *testing.T) {
	mapping := mapRows(t,
		taskRow("Root", 1, 4),
		taskRow("Child", 2, 4),
		taskRow("Grandchild", 3, 4),
	)

	task := mapping.Tasks[2]
	if task.Parent != "Root" {
		t.Errorf("Expected parent Root, got %q", task.Parent)
	}
	if !task.HasTag(types.TagIndentation) {
		t.Errorf("Expected %s tag, got %v", types.TagIndentation, task.Tags)
	}
	if !strings.HasPrefix(task.Description, adjustmentPrefix+"INDENTATION: 3") {
		t.Errorf("Unexpected description %q", task.Description)
	}
	if mapping.Tasks[1].HasTag(types.TagIndentation) {
		t.Error("Indent 2 must not be tagged")
	}

	if len(mapping.Annotations) != 1 {
		t.Fatalf("Expected 1 annotation, got %d", len(mapping.Annotations))
	}
	a := mapping.Annotations[0]
	if a.Title != "Grandchild" || a.Parent != "Root" || a.Detail != "3" {
		t.Errorf("Unexpected annotation %+v", a)
	}
}

func TestMap_Sections(t *testing.T) {
	mapping := mapRows(t,
		taskRow("Before", 1, 4),
		sectionRow("Groceries"),
		taskRow("Milk", 1, 4),
		taskRow("Organic", 2, 4),
	)

	if mapping.Sections != 1 {
		t.Errorf("Expected 1 section, got %d", mapping.Sections)
	}
	if len(mapping.Tasks) != 3 {
		t.Fatalf("Expected 3 tasks, got %d", len(mapping.Tasks))
	}
	if mapping.Tasks[0].HasTag(types.TagSection) {
		t.Error("Task before any section must not be tagged")
	}
	milk := mapping.Tasks[1]
	if !milk.HasTag(types.TagSection) {
		t.Errorf("Expected section tag, got %v", milk.Tags)
	}
	if milk.Description != adjustmentPrefix+"SECTION: Groceries\n" {
		t.Errorf("Unexpected description %q", milk.Description)
	}
	if mapping.Tasks[2].HasTag(types.TagSection) {
		t.Error("Subtask in a section must not be tagged")
	}
}

func TestMap_AbsoluteDate(t *testing.T) {
	row := taskRow("Dentist", 1, 4)
	row.Date = "15 June 2024"

	task := mapRows(t, row).Tasks[0]
	if task.Date != "2024-06-15T00:00:00.000Z" {
		t.Errorf("Unexpected date %q", task.Date)
	}
	if len(task.Tags) != 0 {
		t.Errorf("Expected no tags, got %v", task.Tags)
	}
}

func TestMap_RecurringDates(t *testing.T) {
	tests := []struct {
		date string
		lang string
	}{
		{"jeden Monat", "de"},
		{"0 Mai", "de"},
		{"every day", "en"},
		{"15. Juni", "de"},
	}

	for _, tt := range tests {
		row := taskRow("Recurring", 1, 4)
		row.Date = tt.date
		row.DateLang = tt.lang

		task := mapRows(t, row).Tasks[0]
		if task.Date != "" {
			t.Errorf("%q: expected no date, got %q", tt.date, task.Date)
		}
		if !task.HasTag(types.TagRecurringDate) {
			t.Errorf("%q: expected %s tag, got %v", tt.date, types.TagRecurringDate, task.Tags)
		}
		want := adjustmentPrefix + "RECURRING_DATE: " + tt.date + "\n"
		if task.Description != want {
			t.Errorf("%q: description %q, want %q", tt.date, task.Description, want)
		}
	}
}

func TestMap_UnsupportedLanguage(t *testing.T) {
	row := taskRow("Rendez-vous", 1, 4)
	row.Date = "15 juin"
	row.DateLang = "fr"
	row.Line = 7

	_, err := testMapper().Map([]types.Row{row})
	if !errors.Is(err, dateparse.ErrUnsupportedLanguage) {
		t.Fatalf("Expected ErrUnsupportedLanguage, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 7") {
		t.Errorf("Expected line number in error, got %v", err)
	}
}

func TestMap_LanguageIgnoredWithoutDate(t *testing.T) {
	row := taskRow("No date", 1, 4)
	row.DateLang = "fr"

	mapping := mapRows(t, row)
	if len(mapping.Tasks) != 1 {
		t.Fatalf("Expected 1 task, got %d", len(mapping.Tasks))
	}
}

func TestMap_CumulativeNotes(t *testing.T) {
	root := taskRow("Root", 1, 4)
	deep := taskRow("Deep", 4, 2)
	deep.Date = "every week"
	deep.Description = "original"

	// A section with a top-level task gets the section and date notes.
	top := taskRow("Top", 1, 4)
	top.Date = "every week"
	top.Description = "body"

	mapping := mapRows(t, root, deep, sectionRow("Work"), top)

	wantDeep := "NEED MANUAL ADJUSTMENT: INDENTATION: 4\n" +
		"NEED MANUAL ADJUSTMENT: RECURRING_DATE: every week\n" +
		"original"
	if got := mapping.Tasks[1].Description; got != wantDeep {
		t.Errorf("Unexpected description:\n got %q\nwant %q", got, wantDeep)
	}
	wantTags := []string{types.TagRecurringDate, types.TagIndentation}
	if strings.Join(mapping.Tasks[1].Tags, ",") != strings.Join(wantTags, ",") {
		t.Errorf("Unexpected tags %v", mapping.Tasks[1].Tags)
	}
	if !mapping.Tasks[1].Prio2 {
		t.Error("Expected prio2")
	}

	wantTop := "NEED MANUAL ADJUSTMENT: RECURRING_DATE: every week\n" +
		"NEED MANUAL ADJUSTMENT: SECTION: Work\n" +
		"body"
	if got := mapping.Tasks[2].Description; got != wantTop {
		t.Errorf("Unexpected description:\n got %q\nwant %q", got, wantTop)
	}
}

func TestMap_NotANumberIndent(t *testing.T) {
	mapping := mapRows(t,
		taskRow("Root", 1, 4),
		sectionRow("Work"),
		taskRow("Odd", types.NotANumber, types.NotANumber),
	)

	task := mapping.Tasks[1]
	if task.Parent != "" || len(task.Tags) != 0 || task.Priority() != types.PriorityNone {
		t.Errorf("Expected untouched task, got %+v", task)
	}
}

func TestMap_IgnoresOtherRows(t *testing.T) {
	note := types.Row{Kind: types.RowKindOther, Content: "a comment"}

	mapping := mapRows(t, taskRow("Root", 1, 4), note, taskRow("Child", 2, 4))
	if len(mapping.Tasks) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(mapping.Tasks))
	}
	if mapping.Ignored != 1 {
		t.Errorf("Expected 1 ignored row, got %d", mapping.Ignored)
	}
	if mapping.Tasks[1].Parent != "Root" {
		t.Errorf("Expected parent Root, got %q", mapping.Tasks[1].Parent)
	}
}

func TestMap_OrphanSubtask(t *testing.T) {
	mapping := mapRows(t, taskRow("Orphan", 2, 4))
	if mapping.Tasks[0].Parent != "" {
		t.Errorf("Expected no parent, got %q", mapping.Tasks[0].Parent)
	}
}

func TestMap_Empty(t *testing.T) {
	mapping := mapRows(t)
	if mapping.Tasks == nil || len(mapping.Tasks) != 0 {
		t.Errorf("Expected empty non-nil task list, got %v", mapping.Tasks)
	}
}

func TestMap_Reusable(t *testing.T) {
	m := testMapper()
	if _, err := m.Map([]types.Row{sectionRow("Work"), taskRow("Root", 1, 4)}); err != nil {
		t.Fatalf("Map failed: %v", err)
	}

	mapping, err := m.Map([]types.Row{taskRow("Fresh", 1, 4), taskRow("Child", 2, 4)})
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	if mapping.Tasks[0].HasTag(types.TagSection) {
		t.Error("Section leaked between Map calls")
	}
	if mapping.Tasks[1].Parent != "Fresh" {
		t.Errorf("Expected parent Fresh, got %q", mapping.Tasks[1].Parent)
	}
}

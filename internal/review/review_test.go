package review

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/todoist-to-reminders/internal/converter"
	"github.com/ginjaninja78/todoist-to-reminders/internal/types"
)

func sampleResults() []converter.Result {
	return []converter.Result{
		{
			FilePath: "/exports/Inbox.csv",
			Success:  true,
			Annotations: []converter.Annotation{
				{Line: 6, Title: "Pay rent", Tag: types.TagRecurringDate, Detail: "every month"},
				{Line: 9, Title: "Deep", Parent: "Root", Tag: types.TagIndentation, Detail: "3"},
			},
		},
		{
			FilePath: "/exports/French.csv",
			Error:    errors.New("date language not supported"),
			Annotations: []converter.Annotation{
				{Line: 2, Title: "Lost", Tag: types.TagSection, Detail: "x"},
			},
		},
		{
			FilePath: "/exports/Work.csv",
			Success:  true,
			Annotations: []converter.Annotation{
				{Line: 3, Title: "Standup", Tag: types.TagSection, Detail: "Meetings"},
			},
		},
	}
}

func TestFromResults(t *testing.T) {
	items := FromResults(sampleResults())
	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}
	if items[0].File != "Inbox.csv" || items[0].Line != 6 {
		t.Errorf("Unexpected first item %+v", items[0])
	}
	if items[2].File != "Work.csv" || items[2].Detail != "Meetings" {
		t.Errorf("Unexpected last item %+v", items[2])
	}
}

func TestFormatItems(t *testing.T) {
	if got := FormatItems(nil); got != "No tasks need manual adjustment." {
		t.Errorf("Unexpected empty text %q", got)
	}

	text := FormatItems(FromResults(sampleResults()))
	if !strings.HasPrefix(text, "3 task annotation(s)") {
		t.Errorf("Unexpected header in %q", text)
	}
	if !strings.Contains(text, `2. Inbox.csv:9 export_INDENTATION ("Deep" under "Root"): 3`) {
		t.Errorf("Missing indentation item in %q", text)
	}
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review.xlsx")
	items := FromResults(sampleResults())

	if err := WriteWorkbook(path, items); err != nil {
		t.Fatalf("WriteWorkbook failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("Expected header and 3 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != "File,Line,Task,Parent,Tag,Detail" {
		t.Errorf("Unexpected header %v", rows[0])
	}
	if rows[2][0] != "Inbox.csv" || rows[2][1] != "9" || rows[2][3] != "Root" {
		t.Errorf("Unexpected row %v", rows[2])
	}
}

func TestWriteWorkbook_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review.xlsx")
	if err := WriteWorkbook(path, nil); err != nil {
		t.Fatalf("WriteWorkbook failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("Expected only the header, got %d rows", len(rows))
	}
}

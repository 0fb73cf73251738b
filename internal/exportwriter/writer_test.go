package exportwriter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/todoist-to-reminders/internal/config"
	"github.com/ginjaninja78/todoist-to-reminders/internal/types"
)

func sampleTasks() []types.ExportTask {
	root := types.ExportTask{
		Title:       "Milk & bread",
		Description: "corner shop",
		Date:        "2024-06-15T00:00:00.000Z",
	}
	root.SetPriority(types.Priority1)

	return []types.ExportTask{
		root,
		{Title: "Organic", Parent: "Milk & bread"},
		{
			Title:       "Pay rent",
			Description: "NEED MANUAL ADJUSTMENT: RECURRING_DATE: every month\n",
			Tags:        []string{types.TagRecurringDate},
		},
	}
}

func TestEncode_CompactJSON(t *testing.T) {
	data, err := Encode(sampleTasks(), Options{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := `[{"title":"Milk & bread","description":"corner shop","date":"2024-06-15T00:00:00.000Z","prio1":true},` +
		`{"title":"Organic","parent":"Milk & bread"},` +
		`{"title":"Pay rent","description":"NEED MANUAL ADJUSTMENT: RECURRING_DATE: every month\n","tags":["export_RECURRING_DATE"]}]`
	if string(data) != want {
		t.Errorf("Unexpected JSON:\n got: %s\nwant: %s", data, want)
	}
}

func TestEncode_OmitsAbsentFields(t *testing.T) {
	data, err := Encode([]types.ExportTask{{Title: "Bare"}}, Options{Format: config.FormatJSON})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if string(data) != `[{"title":"Bare"}]` {
		t.Errorf("Expected only the title, got %s", data)
	}
}

func TestEncode_EmptyList(t *testing.T) {
	data, err := Encode(nil, Options{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("Expected [], got %s", data)
	}
}

func TestEncode_IndentedJSON(t *testing.T) {
	data, err := Encode([]types.ExportTask{{Title: "A"}}, Options{Indent: "  "})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if string(data) != "[\n  {\n    \"title\": \"A\"\n  }\n]" {
		t.Errorf("Unexpected indented JSON: %q", data)
	}
}

func TestEncode_YAML(t *testing.T) {
	data, err := Encode(sampleTasks(), Options{Format: config.FormatYAML})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var decoded []map[string]interface{}
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Output is not valid YAML: %v\n%s", err, data)
	}
	if len(decoded) != 3 {
		t.Fatalf("Expected 3 documents, got %d", len(decoded))
	}
	if decoded[0]["prio1"] != true {
		t.Errorf("Expected prio1 true, got %v", decoded[0]["prio1"])
	}
	if _, ok := decoded[1]["description"]; ok {
		t.Error("Expected empty description to be omitted")
	}
	if decoded[1]["parent"] != "Milk & bread" {
		t.Errorf("Unexpected parent %v", decoded[1]["parent"])
	}
}

func TestEncode_UnsupportedFormat(t *testing.T) {
	if _, err := Encode(sampleTasks(), Options{Format: "xml"}); err == nil {
		t.Fatal("Expected error for unsupported format")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Inbox.json")

	if err := WriteFile(path, sampleTasks(), Options{}); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.HasPrefix(string(data), `[{"title":"Milk & bread"`) {
		t.Errorf("Unexpected file content: %s", data)
	}
}

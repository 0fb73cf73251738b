// =============================================================================
// Todoist to Reminders Converter - Export Writer Module
// =============================================================================
//
// This module serializes the mapped tasks into the document read by the
// Reminders import shortcut.
//
// DOCUMENT STRUCTURE (JSON, compact by default):
//
//   [
//     {"title":"Buy milk","description":"2 liters","date":"2024-06-15T00:00:00.000Z","prio1":true},
//     {"title":"Organic","parent":"Buy milk"},
//     {"title":"Pay rent","description":"NEED MANUAL ADJUSTMENT: RECURRING_DATE: every month\n","tags":["export_RECURRING_DATE"]}
//   ]
//
// Optional keys are left out when empty. The same structure can be written as
// YAML.
//
// =============================================================================

package exportwriter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/todoist-to-reminders/internal/config"
	"github.com/ginjaninja78/todoist-to-reminders/internal/types"
)

// Options contains options for serialization.
type Options struct {
	// Format is config.FormatJSON or config.FormatYAML.
	// Default: JSON
	Format string

	// Indent is the JSON indentation. Empty writes one compact line.
	Indent string
}

// OptionsFromConfig returns the serialization options of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Format: cfg.OutputFormat,
		Indent: cfg.OutputIndent,
	}
}

// Encode serializes tasks. An empty task list is written as an empty list.
func Encode(tasks []types.ExportTask, options Options) ([]byte, error) {
	if tasks == nil {
		tasks = []types.ExportTask{}
	}

	switch options.Format {
	case "", config.FormatJSON:
		return encodeJSON(tasks, options.Indent)
	case config.FormatYAML:
		return encodeYAML(tasks)
	}
	return nil, fmt.Errorf("unsupported output format %q", options.Format)
}

// encodeJSON writes tasks without HTML escaping so titles like "A & B" stay
// readable, and without a trailing newline.
func encodeJSON(tasks []types.ExportTask, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(tasks); err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func encodeYAML(tasks []types.ExportTask) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(tasks); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile serializes tasks and writes them to path, replacing any existing file.
func WriteFile(path string, tasks []types.ExportTask, options Options) error {
	data, err := Encode(tasks, options)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

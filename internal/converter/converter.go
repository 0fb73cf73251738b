// =============================================================================
// Todoist to Reminders Converter - Converter Module
// =============================================================================
//
// This module converts a single export file. It orchestrates the pipeline
// from decoding to writing the output document.
//
// CONVERSION PIPELINE:
//   1. Decode the export (.csv or .xlsx) into header-keyed records
//   2. Report and skip malformed lines
//   3. Build typed rows
//   4. Map the rows to Reminders tasks
//   5. Serialize and write <basename>.<json|yaml> into the target directory
//
// A Converter holds no state shared with other files, so any number of
// Converters can run one after another (or side by side) in the same process.
//
// =============================================================================

package converter

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/todoist-to-reminders/internal/config"
	"github.com/ginjaninja78/todoist-to-reminders/internal/csvparser"
	"github.com/ginjaninja78/todoist-to-reminders/internal/dateparse"
	"github.com/ginjaninja78/todoist-to-reminders/internal/exportwriter"
	"github.com/ginjaninja78/todoist-to-reminders/internal/logging"
	"github.com/ginjaninja78/todoist-to-reminders/internal/types"
	"github.com/ginjaninja78/todoist-to-reminders/internal/xlsxparser"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of converting a single file.
type Result struct {
	// FilePath is the path to the input file.
	FilePath string

	// OutputFile is the path of the written document. It is empty if the
	// conversion failed, and set but not written in dry-run mode.
	OutputFile string

	// Success indicates whether the conversion was successful.
	Success bool

	// Error contains the error if the conversion failed.
	Error error

	// Annotations lists the manual adjustments added to the tasks.
	Annotations []Annotation

	// Stats contains conversion statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about one conversion.
type ProcessingStats struct {
	// RowsDecoded is the number of records read from the export.
	RowsDecoded int

	// RowsSkipped is the number of malformed lines that were skipped.
	RowsSkipped int

	// Sections is the number of section rows.
	Sections int

	// RowsIgnored is the number of rows that are neither tasks nor sections.
	RowsIgnored int

	// TasksWritten is the number of tasks in the output document.
	TasksWritten int

	// TagCounts counts the annotation tags by tag name.
	TagCounts map[string]int

	// ProcessingTime is the time taken to convert the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Options configures a Converter.
type Options struct {
	// TargetDir receives the output document.
	TargetDir string

	// Config is the application configuration.
	Config *config.Config

	// Location anchors parsed dates. Nil means time.Local.
	Location *time.Location

	// Now supplies the current year for dates without one. Nil means time.Now.
	Now func() time.Time

	// DryRun converts without writing the output document.
	DryRun bool

	// Logger receives progress and warnings. Nil discards them.
	Logger logging.Logger
}

// Converter handles the conversion of a single export file.
type Converter struct {
	inputPath string
	options   Options
	mapper    *Mapper
	logger    logging.Logger
}

// New creates a Converter for the export at inputPath.
func New(inputPath string, options Options) *Converter {
	if options.Config == nil {
		options.Config = config.DefaultConfig()
	}
	logger := options.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	dateOptions := dateparse.Options{
		Location: options.Location,
		Now:      options.Now,
	}

	return &Converter{
		inputPath: inputPath,
		options:   options,
		mapper:    NewMapper(dateOptions, logger),
		logger:    logger,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline for the file.
func (c *Converter) Run() Result {
	startTime := time.Now()
	result := Result{
		FilePath: c.inputPath,
	}

	c.logger.Info("Processing file: %s", c.inputPath)

	// =========================================================================
	// STEP 1: DECODE THE EXPORT
	// =========================================================================

	data, err := c.decode()
	if err != nil {
		result.Error = fmt.Errorf("failed to decode export: %w", err)
		return result
	}

	for _, rowErr := range data.Errors {
		c.logger.Warn("%s: skipping malformed %v", filepath.Base(c.inputPath), rowErr)
	}
	result.Stats.RowsDecoded = len(data.Records)
	result.Stats.RowsSkipped = len(data.Errors)

	if err := checkColumns(data); err != nil {
		result.Error = err
		return result
	}

	// =========================================================================
	// STEP 2: MAP ROWS TO TASKS
	// =========================================================================

	mapping, err := c.mapper.Map(DecodeRows(data.Records))
	if err != nil {
		result.Error = fmt.Errorf("failed to map tasks: %w", err)
		return result
	}

	result.Annotations = mapping.Annotations
	result.Stats.Sections = mapping.Sections
	result.Stats.RowsIgnored = mapping.Ignored
	result.Stats.TasksWritten = len(mapping.Tasks)
	result.Stats.TagCounts = countTags(mapping.Tasks)

	c.logger.Debug("Mapped %d tasks, %d need manual adjustment", len(mapping.Tasks), len(mapping.Annotations))

	// =========================================================================
	// STEP 3: WRITE THE OUTPUT DOCUMENT
	// =========================================================================

	outputPath := OutputPath(c.options.TargetDir, c.inputPath, c.options.Config.OutputExtension())

	if c.options.DryRun {
		c.logger.Info("Dry run, not writing: %s", outputPath)
	} else {
		opts := exportwriter.OptionsFromConfig(c.options.Config)
		if err := exportwriter.WriteFile(outputPath, mapping.Tasks, opts); err != nil {
			result.Error = fmt.Errorf("failed to write output: %w", err)
			return result
		}
		c.logger.Info("Written target: %s", outputPath)
	}

	result.OutputFile = outputPath
	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// decode reads the export with the decoder matching its extension.
func (c *Converter) decode() (*csvparser.CSVData, error) {
	switch strings.ToLower(filepath.Ext(c.inputPath)) {
	case ".xlsx":
		return xlsxparser.Parse(c.inputPath, c.options.Config.XLSXSheet)
	default:
		return csvparser.ParseFile(c.inputPath, c.options.Config.CSVSettings)
	}
}

// OutputPath returns the path of the document written for inputPath: the same
// base name with extension ext, inside targetDir.
func OutputPath(targetDir, inputPath, ext string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(targetDir, base+ext)
}

func countTags(tasks []types.ExportTask) map[string]int {
	counts := make(map[string]int)
	for _, task := range tasks {
		for _, tag := range task.Tags {
			counts[tag]++
		}
	}
	return counts
}

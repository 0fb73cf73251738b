// =============================================================================
// Todoist to Reminders Converter - Convert Run
// =============================================================================
//
// This file holds the batch run behind the root command.
//
// PROCESSING PIPELINE:
//   1. Check the invocation (two existing directories)
//   2. Load the configuration and apply flag overrides
//   3. Discover the exports in SOURCE_DIR
//   4. Convert each file in name order; a failed file does not stop the run
//      unless --fail-fast is set
//   5. Write the optional review workbook and processing summary (a dry run
//      prints the summary instead)
//   6. Print the run summary
//
// Files are converted one after another. Each file gets its own Converter,
// so nothing carries over from one export to the next.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/todoist-to-reminders/internal/config"
	"github.com/ginjaninja78/todoist-to-reminders/internal/converter"
	"github.com/ginjaninja78/todoist-to-reminders/internal/logging"
	"github.com/ginjaninja78/todoist-to-reminders/internal/review"
	"github.com/ginjaninja78/todoist-to-reminders/pkg/utils"
)

// runConvert is the main function that orchestrates a conversion run.
func runConvert(cmd *cobra.Command, opts *rootOptions, args []string) error {
	startTime := time.Now()
	stdout := cmd.OutOrStdout()

	// =========================================================================
	// STEP 1: CHECK THE INVOCATION
	// =========================================================================

	if len(args) != 2 {
		return usageErrorf("expected SOURCE_DIR and TARGET_DIR, got %d argument(s)", len(args))
	}

	fm := utils.NewFileManager(args[0], args[1])
	if err := fm.CheckDirectories(); err != nil {
		return &UsageError{Err: err}
	}

	// =========================================================================
	// STEP 2: LOAD CONFIGURATION
	// =========================================================================

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return &UsageError{Err: err}
	}

	location, err := cfg.Location()
	if err != nil {
		return &UsageError{Err: err}
	}

	logger := logging.New(cmd.ErrOrStderr(), logging.ParseLevel(cfg.LogLevel))

	// =========================================================================
	// STEP 3: DISCOVER INPUT FILES
	// =========================================================================

	inputFiles, err := fm.DiscoverInputFiles(cfg.InputExtensions)
	if err != nil {
		return &UsageError{Err: err}
	}
	if len(inputFiles) == 0 {
		return usageErrorf("no %s files found in %s", strings.Join(cfg.InputExtensions, " or "), fm.SourceDir)
	}

	logger.Info("Found %d file(s) to convert", len(inputFiles))

	// =========================================================================
	// STEP 4: CONVERT FILES
	// =========================================================================

	summary := utils.NewProcessingSummary(startTime)
	summary.DryRun = opts.dryRun
	summary.TotalFiles = len(inputFiles)
	logger.Debug("Run ID: %s", summary.RunID)

	convertOptions := converter.Options{
		TargetDir: fm.TargetDir,
		Config:    cfg,
		Location:  location,
		DryRun:    opts.dryRun,
		Logger:    logger,
	}

	var results []converter.Result
	for _, file := range inputFiles {
		result := converter.New(file, convertOptions).Run()
		results = append(results, result)
		recordResult(summary, result)

		name := filepath.Base(result.FilePath)
		if !result.Success {
			fmt.Fprintf(stdout, "  ✗ %s: %v\n", name, result.Error)
			logger.Error("%s: %v", name, result.Error)
			if !cfg.ContinueOnError {
				logger.Warn("Stopping after the first failed file")
				break
			}
			continue
		}
		fmt.Fprintf(stdout, "  ✓ %s -> %s (%d tasks, %d to adjust)\n",
			name, result.OutputFile, result.Stats.TasksWritten, len(result.Annotations))
	}

	summary.EndTime = time.Now()

	// =========================================================================
	// STEP 5: WRITE REPORTS
	// =========================================================================

	items := review.FromResults(results)
	logger.Debug("%s", review.FormatItems(items))

	var reportErr error
	if opts.dryRun {
		logger.Info("Dry run, no reports written")
		if cfg.WriteSummary {
			if err := utils.WriteSummary(stdout, summary); err != nil {
				reportErr = fmt.Errorf("failed to print summary: %w", err)
			}
		}
	} else {
		reportErr = writeReports(cfg, fm, summary, items, logger)
	}

	// =========================================================================
	// STEP 6: PRINT SUMMARY
	// =========================================================================

	fmt.Fprintln(stdout, "\n=== Processing Complete ===")
	fmt.Fprintf(stdout, "Total files:     %d\n", summary.TotalFiles)
	fmt.Fprintf(stdout, "Successful:      %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(stdout, "Errors:          %d\n", summary.FailedFiles)
	fmt.Fprintf(stdout, "Tasks:           %d\n", summary.TotalTasks)
	fmt.Fprintf(stdout, "To adjust:       %d\n", len(items))
	fmt.Fprintf(stdout, "Time elapsed:    %s\n", summary.EndTime.Sub(startTime))

	if summary.FailedFiles > 0 {
		return fmt.Errorf("%w: %d of %d file(s)", ErrFilesFailed, summary.FailedFiles, summary.TotalFiles)
	}
	return reportErr
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// loadConfig loads the configuration file and applies the flags the user set.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	flags := cmd.Flags()

	cfg, err := config.Load(opts.cfgFile)
	if err != nil {
		return nil, err
	}

	if flags.Changed("format") {
		cfg.OutputFormat = strings.ToLower(opts.format)
	}
	if flags.Changed("indent") {
		cfg.OutputIndent = opts.indent
	}
	if flags.Changed("timezone") {
		cfg.Timezone = opts.timezone
	}
	if flags.Changed("review-report") {
		cfg.ReviewReport = opts.reviewReport
	}
	if opts.summary {
		cfg.WriteSummary = true
	}
	if opts.failFast {
		cfg.ContinueOnError = false
	}
	if opts.verbose {
		cfg.LogLevel = "debug"
	}
	if opts.xlsx && !hasExtension(cfg.InputExtensions, ".xlsx") {
		cfg.InputExtensions = append(cfg.InputExtensions, ".xlsx")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func hasExtension(extensions []string, ext string) bool {
	for _, e := range extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// recordResult adds one file's outcome to the run summary.
func recordResult(summary *utils.ProcessingSummary, result converter.Result) {
	if !result.Success {
		summary.FailedFiles++
		summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
			InputFile:    result.FilePath,
			ErrorMessage: result.Error.Error(),
		})
		return
	}

	stats := result.Stats
	summary.SuccessfulFiles++
	summary.TotalRows += stats.RowsDecoded
	summary.SkippedRows += stats.RowsSkipped
	summary.TotalTasks += stats.TasksWritten
	for tag, n := range stats.TagCounts {
		summary.TagCounts[tag] += n
	}
	summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
		InputFile:   result.FilePath,
		OutputFile:  result.OutputFile,
		Rows:        stats.RowsDecoded,
		Tasks:       stats.TasksWritten,
		Annotations: len(result.Annotations),
		ProcessTime: stats.ProcessingTime,
	})
}

// writeReports writes the review workbook and the processing summary when
// they are enabled. Both are attempted; the first error is returned.
func writeReports(cfg *config.Config, fm *utils.FileManager, summary *utils.ProcessingSummary, items []review.Item, logger logging.Logger) error {
	var firstErr error

	if cfg.ReviewReport != "" {
		if err := review.WriteWorkbook(cfg.ReviewReport, items); err != nil {
			logger.Error("Review report: %v", err)
			firstErr = fmt.Errorf("failed to write review report: %w", err)
		} else {
			logger.Info("Review report written: %s (%d item(s))", cfg.ReviewReport, len(items))
		}
	}

	if cfg.WriteSummary {
		path, err := utils.WriteSummaryLog(summary, fm.TargetDir)
		if err != nil {
			logger.Error("Summary: %v", err)
			if firstErr == nil {
				firstErr = err
			}
		} else {
			logger.Info("Summary written: %s", path)
		}
	}

	return firstErr
}

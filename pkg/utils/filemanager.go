// =============================================================================
// Todoist to Reminders Converter - File Manager Utility
// =============================================================================
//
// This module provides the file handling around a conversion run:
//   - Input discovery in the source directory
//   - Summary file naming
//   - The processing summary written after a run
//
// DIRECTORY LAYOUT:
//   - SOURCE_DIR is scanned non-recursively; files are converted in name order
//   - TARGET_DIR receives one document per export plus the optional reports
//   - Source files are never moved or modified
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for a conversion run.
type FileManager struct {
	// SourceDir is the directory holding the Todoist exports.
	SourceDir string

	// TargetDir is the directory receiving the converted documents.
	TargetDir string
}

// NewFileManager creates a new FileManager for the two directories.
func NewFileManager(sourceDir, targetDir string) *FileManager {
	return &FileManager{
		SourceDir: sourceDir,
		TargetDir: targetDir,
	}
}

// CheckDirectories verifies that both directories exist. The target directory
// is not created, so a mistyped path is reported instead of silently used.
func (fm *FileManager) CheckDirectories() error {
	for _, dir := range []string{fm.SourceDir, fm.TargetDir} {
		if !IsDir(dir) {
			return fmt.Errorf("not a directory: %s", dir)
		}
	}
	return nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles lists the regular files directly inside the source
// directory whose extension is one of extensions. Extensions are compared
// case-insensitively; the result is sorted by name.
func (fm *FileManager) DiscoverInputFiles(extensions []string) ([]string, error) {
	entries, err := os.ReadDir(fm.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan source directory: %w", err)
	}

	wanted := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		wanted[strings.ToLower(ext)] = true
	}

	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if wanted[strings.ToLower(filepath.Ext(entry.Name()))] {
			files = append(files, filepath.Join(fm.SourceDir, entry.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}

// =============================================================================
// FILE NAMING
// =============================================================================

// SummaryFileName returns the name of the summary written at now:
// processing_summary_YYYYMMDD_HHMMSS.txt.
func SummaryFileName(now time.Time) string {
	return "processing_summary_" + now.Format("20060102_150405") + ".txt"
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// ProcessingSummary contains summary information about a processing run.
type ProcessingSummary struct {
	// RunID identifies the run in the summary and the log.
	RunID string

	StartTime       time.Time
	EndTime         time.Time
	TotalFiles      int
	SuccessfulFiles int
	FailedFiles     int
	TotalRows       int
	SkippedRows     int
	TotalTasks      int

	// TagCounts counts the annotation tags over all files.
	TagCounts map[string]int

	DryRun          bool
	ProcessedFiles  []ProcessedFileInfo
	FailedFilesList []FailedFileInfo
}

// ProcessedFileInfo contains information about a successfully converted file.
type ProcessedFileInfo struct {
	InputFile   string
	OutputFile  string
	Rows        int
	Tasks       int
	Annotations int
	ProcessTime time.Duration
}

// FailedFileInfo contains information about a failed file.
type FailedFileInfo struct {
	InputFile    string
	ErrorMessage string
}

// NewProcessingSummary starts a summary with a fresh run ID.
func NewProcessingSummary(start time.Time) *ProcessingSummary {
	return &ProcessingSummary{
		RunID:     uuid.NewString(),
		StartTime: start,
		TagCounts: make(map[string]int),
	}
}

// WriteSummaryLog writes a processing summary to SummaryFileName(EndTime) in
// outputDir and returns its path.
func WriteSummaryLog(summary *ProcessingSummary, outputDir string) (string, error) {
	summaryPath := filepath.Join(outputDir, SummaryFileName(summary.EndTime))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	if err := WriteSummary(file, summary); err != nil {
		return "", fmt.Errorf("failed to write summary file: %w", err)
	}

	return summaryPath, nil
}

// WriteSummary renders the summary to w. Dry runs print it instead of writing
// the summary file, so their Mode line reads "dry run".
func WriteSummary(w io.Writer, summary *ProcessingSummary) error {
	const rule = "================================================================================\n"
	const thin = "--------------------------------------------------------------------------------\n"

	writer := bufio.NewWriter(w)

	mode := "convert"
	if summary.DryRun {
		mode = "dry run"
	}

	fmt.Fprintf(writer, "Todoist to Reminders Converter - Processing Summary\n"+rule+"\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Mode:           %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Total Files:    %d\n"+
		"  Successful:     %d\n"+
		"  Failed:         %d\n"+
		"  Total Rows:     %d\n"+
		"  Skipped Rows:   %d\n"+
		"  Total Tasks:    %d\n\n",
		summary.RunID,
		mode,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime).String(),
		summary.TotalFiles,
		summary.SuccessfulFiles,
		summary.FailedFiles,
		summary.TotalRows,
		summary.SkippedRows,
		summary.TotalTasks)

	if len(summary.TagCounts) > 0 {
		tags := make([]string, 0, len(summary.TagCounts))
		for tag := range summary.TagCounts {
			tags = append(tags, tag)
		}
		sort.Strings(tags)

		writer.WriteString("Manual Adjustments:\n")
		for _, tag := range tags {
			fmt.Fprintf(writer, "  %-22s %d\n", tag+":", summary.TagCounts[tag])
		}
		writer.WriteString("\n")
	}

	if len(summary.ProcessedFiles) > 0 {
		writer.WriteString("Successful Files:\n" + thin)
		for _, pf := range summary.ProcessedFiles {
			fmt.Fprintf(writer, "  Input:        %s\n", pf.InputFile)
			fmt.Fprintf(writer, "  Output:       %s\n", pf.OutputFile)
			fmt.Fprintf(writer, "  Rows:         %d\n", pf.Rows)
			fmt.Fprintf(writer, "  Tasks:        %d\n", pf.Tasks)
			fmt.Fprintf(writer, "  Annotations:  %d\n", pf.Annotations)
			fmt.Fprintf(writer, "  Process Time: %s\n\n", pf.ProcessTime.String())
		}
	}

	if len(summary.FailedFilesList) > 0 {
		writer.WriteString("Failed Files:\n" + thin)
		for _, ff := range summary.FailedFilesList {
			fmt.Fprintf(writer, "  File:  %s\n", ff.InputFile)
			fmt.Fprintf(writer, "  Error: %s\n\n", ff.ErrorMessage)
		}
	}

	writer.WriteString(rule + "End of Summary\n")

	return writer.Flush()
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// IsDir checks if path is an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

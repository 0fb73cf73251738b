// =============================================================================
// Todoist to Reminders Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command does
// the conversion itself; the subcommands only report information.
//
// COBRA CLI STRUCTURE:
//   rootCmd (todoist-export SOURCE_DIR TARGET_DIR)
//   ├── configCmd  (todoist-export config)
//   └── versionCmd (todoist-export version)
//
// EXIT CODES:
//   0 - every file was converted
//   1 - at least one file failed, or a report could not be written
//   2 - invalid invocation; nothing was written
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes of the CLI.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// =============================================================================
// ERRORS
// =============================================================================

// UsageError reports an invalid invocation. The command prints its usage and
// exits with ExitUsage.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

func usageErrorf(format string, args ...interface{}) error {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// ErrFilesFailed is returned when at least one export could not be converted.
var ErrFilesFailed = errors.New("conversion failed")

// =============================================================================
// FLAGS
// =============================================================================

// rootOptions holds the flag values of one invocation.
type rootOptions struct {
	cfgFile      string
	verbose      bool
	dryRun       bool
	format       string
	indent       string
	timezone     string
	reviewReport string
	summary      bool
	failFast     bool
	xlsx         bool
}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "todoist-export [flags] SOURCE_DIR TARGET_DIR",
		Short: "Convert Todoist CSV exports into Apple Reminders import files",
		Long: `todoist-export converts every Todoist project export (*.csv) found in
SOURCE_DIR into a task list that an Apple Reminders import shortcut can read,
and writes it as <name>.json into TARGET_DIR.

Features Reminders cannot represent are kept visible instead of dropped:
  - tasks in a section are tagged export_SECTION
  - recurring or unreadable due dates are tagged export_RECURRING_DATE
  - subtasks deeper than one level are tagged export_INDENTATION
Each tag adds a "NEED MANUAL ADJUSTMENT: ..." line to the task description.

Example Usage:
  todoist-export ./exports ./reminders
  todoist-export --timezone Europe/Berlin --review-report review.xlsx ./exports ./reminders
  todoist-export --dry-run -v ./exports ./reminders`,

		// Arguments are checked in runConvert so that every invocation
		// problem is reported the same way.
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, opts, args)
		},
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	rootCmd.PersistentFlags().StringVar(
		&opts.cfgFile,
		"config",
		"",
		"Path to a YAML configuration file (none is read by default)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&opts.verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	// ==========================================================================
	// LOCAL FLAGS
	// ==========================================================================

	flags := rootCmd.Flags()
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Convert and report without writing any file")
	flags.StringVar(&opts.format, "format", "", "Output format: json or yaml (default json)")
	flags.StringVar(&opts.indent, "indent", "", "Indent JSON output with this string (default compact)")
	flags.StringVar(&opts.timezone, "timezone", "", "IANA timezone for due dates (default Local)")
	flags.StringVar(&opts.reviewReport, "review-report", "", "Write the tasks needing manual adjustment to this .xlsx file")
	flags.BoolVar(&opts.summary, "summary", false, "Write a processing summary into TARGET_DIR")
	flags.BoolVar(&opts.failFast, "fail-fast", false, "Stop at the first file that fails")
	flags.BoolVar(&opts.xlsx, "xlsx", false, "Also convert .xlsx workbooks found in SOURCE_DIR")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(opts))

	return rootCmd
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI with the process arguments and exits. It is called by
// main.main().
func Execute() {
	os.Exit(ExecuteArgs(os.Args[1:], os.Stdout, os.Stderr))
}

// ExecuteArgs runs the CLI with args and returns the exit code.
func ExecuteArgs(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)

	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return ExitOK
	}

	if cmd == nil {
		cmd = rootCmd
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		fmt.Fprint(stderr, cmd.UsageString())
		return ExitUsage
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitFailure
}

// =============================================================================
// Todoist to Reminders Converter - Main Entry Point
// =============================================================================
//
// USAGE:
//   todoist-export [flags] SOURCE_DIR TARGET_DIR - Convert every export in SOURCE_DIR
//   todoist-export config                        - Print the effective configuration
//   todoist-export version                       - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Decoding, date parsing, task mapping and writers
//   - pkg/utils/ : File discovery and the processing summary
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/todoist-to-reminders/cmd"
)

func main() {
	cmd.Execute()
}

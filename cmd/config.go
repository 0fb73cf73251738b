package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/todoist-to-reminders/internal/config"
)

// newConfigCmd prints the configuration a conversion would run with, after
// the config file and the TODOIST_EXPORT_* environment were applied.
func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

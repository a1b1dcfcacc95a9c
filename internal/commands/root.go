package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/spendbubbles/internal/buildinfo"
	"github.com/cleared-dev/spendbubbles/internal/logging"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var logJSON bool
	var logLevel string

	rootCmd := &cobra.Command{
		Use:     "spendbubbles",
		Short:   "Weekly spending as a force-directed bubble chart",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg := logging.DefaultConfig()
			if logLevel != "" {
				cfg.Level = logging.ParseLevel(logLevel)
			}
			cfg.JSON = logJSON
			cfg.Output = cmd.ErrOrStderr()
			logging.Setup(cfg)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default from LOG_LEVEL)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newWeeksCommand())

	return rootCmd
}

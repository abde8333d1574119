package cli

import (
	"github.com/spf13/cobra"

	"expensedash/internal/config"
	"expensedash/internal/log"
)

// Version is set at build time.
var Version = "dev"

// runtime holds what PersistentPreRunE prepared for the subcommand.
type runtime struct {
	envFile  string
	logLevel string

	cfg    *config.Config
	logger *log.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rt := &runtime{}

	rootCmd := &cobra.Command{
		Use:     "expensedash",
		Short:   "Personal finance dashboard backend",
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := LoadEnvFile(rt.envFile); err != nil {
				return err
			}
			cfg, err := LoadAndValidateConfig()
			if err != nil {
				return err
			}
			if rt.logLevel != "" {
				cfg.LogLevel = rt.logLevel
			}
			rt.cfg = cfg
			rt.logger = SetupLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&rt.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().StringVar(&rt.logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	rootCmd.AddCommand(
		newServeCommand(rt),
		newSummaryCommand(rt),
		newExportCommand(rt),
		newWatchCommand(rt),
	)
	return rootCmd
}

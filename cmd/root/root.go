// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/finance-summary/internal/config"
	"fjacquet/finance-summary/internal/container"
	"fjacquet/finance-summary/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input     string
	Output    string
	LogLevel  string
	LogFormat string
	Rules     string
	Delimiter string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// AppConfig is the configuration loaded before each command runs.
	AppConfig *config.Config

	// AppContainer holds the wired dependencies of the running command.
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "finance-summary",
		Short: "Normalize bank-statement CSV exports and summarize spending by category.",
		Long: `finance-summary reads CSV exports from any bank, whatever their column names,
encoding or debit/credit convention, normalizes them into one transaction table,
categorizes every transaction with keyword rules and prints yearly rollups.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to finance-summary!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: initialize,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer != nil {
				_ = AppContainer.Close()
			}
		},
	}

	// SharedFlags holds the persistent flags accessible to all commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	flags := Cmd.PersistentFlags()
	flags.StringVarP(&SharedFlags.Input, "input", "i", "", "Input directory scanned for .csv files")
	flags.StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (default: stdout)")
	flags.StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format (text, json)")
	flags.StringVar(&SharedFlags.Rules, "rules", "", "Rule table YAML file (default: built-in rules)")
	flags.StringVar(&SharedFlags.Delimiter, "csv-delimiter", "", "Delimiter of the input CSV files")
}

// initialize loads configuration and wires the container. Flags override
// config files and FINSUM_* environment variables.
func initialize(cmd *cobra.Command, args []string) error {
	config.LoadEnv()

	cfg, err := config.InitializeConfig()
	if err != nil {
		return err
	}
	applyFlags(cfg)

	Log = config.ConfigureLoggingFromConfig(cfg)
	c, err := container.NewContainerWithLogger(cfg, logging.NewLogrusAdapterFromLogger(Log))
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	AppConfig = cfg
	AppContainer = c
	return nil
}

func applyFlags(cfg *config.Config) {
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}
	if SharedFlags.LogFormat != "" {
		cfg.Log.Format = SharedFlags.LogFormat
	}
	if SharedFlags.Rules != "" {
		cfg.Rules.File = SharedFlags.Rules
	}
	if SharedFlags.Delimiter != "" {
		cfg.CSV.Delimiter = SharedFlags.Delimiter
	}
}

// GetContainer returns the container wired for the running command.
func GetContainer() *container.Container {
	return AppContainer
}

package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/alem-hub/classlist/config"
	"github.com/alem-hub/classlist/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "classlist",
	Short:         "Classroom assignment lifecycle simulator",
	Long:          "classlist simulates students receiving, working on, submitting and being graded on assignments, with an observer told about every step.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("env-file", config.DefaultDotEnvPath, "Path to an optional dotenv file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the configuration named by --env-file and applies the
// persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Observability.LogLevel = lvl
	}
	return cfg, nil
}

// setupLogger builds the process logger from config and installs it as the
// slog default. Development logs carry source locations.
func setupLogger(cfg *config.Config, out io.Writer) *slog.Logger {
	format, err := logger.ParseFormat(cfg.Observability.LogFormat)
	if err != nil {
		format = logger.FormatText
	}

	log := logger.New(logger.Options{
		Output:    out,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		Format:    format,
		AddSource: cfg.IsDevelopment(),
	}).With(
		slog.String("app", cfg.App.Name),
		slog.String("env", string(cfg.App.Environment)),
	)
	slog.SetDefault(log)

	return log
}

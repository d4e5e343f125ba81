package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/app"
	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/config"
	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/logging"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "analyzer",
		Short:        "Comment analyzer batch pipeline",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newMigrateCommand())

	return rootCmd
}

func buildApp() (*app.Application, error) {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)
	return app.New(cfg, logger)
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and optional periodic analyzer",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := buildApp()
			if err != nil {
				return err
			}
			defer application.Close()

			return application.Run(cmd.Context())
		},
	}
}

func newAnalyzeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Run a single batch pass and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := buildApp()
			if err != nil {
				return err
			}
			defer application.Close()

			report, err := application.RunOnce(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "processed=%d stored=%d\n", report.Processed, report.Stored)
			return nil
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := buildApp()
			if err != nil {
				return err
			}
			defer application.Close()

			return application.Migrate(cmd.Context())
		},
	}
}

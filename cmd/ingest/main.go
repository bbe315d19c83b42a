package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/markdave123-py/bharathi/internal/app"
	"github.com/markdave123-py/bharathi/internal/config"
	"github.com/markdave123-py/bharathi/internal/core/ingestion_engine"
	"github.com/markdave123-py/bharathi/internal/logger"
)

// exit codes
const (
	exitFailure  = 1
	exitNotFound = 2
)

func main() {
	var (
		replace bool
		asJSON  bool
	)

	rootCmd := &cobra.Command{
		Use:           "ingest <company_id>",
		Short:         "ingest one company profile into company_embeddings",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			lg, err := logger.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			defer func() { _ = lg.Sync() }()

			application, err := app.NewApp(cmd.Context(), cfg, lg)
			if err != nil {
				return fmt.Errorf("startup: %w", err)
			}
			defer application.Close()

			var replaceOpt *bool
			if cmd.Flags().Changed("replace") {
				replaceOpt = &replace
			}
			report, err := application.Service.Ingest(cmd.Context(), args[0], replaceOpt)
			if err != nil {
				lg.Error("ingest failed", zap.String("company_id", args[0]), zap.Error(err))
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored successfully: %d rows for %s (%s)\n",
				report.Rows, report.CompanyID, report.CompanyName)
			return nil
		},
	}

	rootCmd.Flags().BoolVar(&replace, "replace", false, "delete the company's existing rows in the same transaction")
	rootCmd.Flags().BoolVar(&asJSON, "json", false, "print the ingestion report as JSON")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if ingestion_engine.IsNotFound(err) {
			os.Exit(exitNotFound)
		}
		os.Exit(exitFailure)
	}
}

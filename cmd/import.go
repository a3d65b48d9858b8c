package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/paper-portal/paperctl/internal/importer"
	"github.com/paper-portal/paperctl/internal/ocr"
	"github.com/paper-portal/paperctl/internal/report"
)

var (
	importRoot        string
	importMaxFiles    int
	importAutoApprove bool
	importAdminUserID int64
	importOutputDir   string
	importFormat      string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Bulk import every PDF under the archive root",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		applyImportFlags(cmd)
		if err := cfg.Validate("import"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		text, err := ocr.NewExtractor(cfg.OCR)
		if err != nil {
			return err
		}

		files, err := importer.DiscoverPDFs(cfg.Import.Root)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			zap.L().Warn("no PDF files found", zap.String("root", cfg.Import.Root))
			return nil
		}

		reviewer, err := importer.ResolveReviewer(ctx, st, cfg.Import.AdminUserID)
		if err != nil {
			return err
		}
		if reviewer == nil && cfg.Import.AutoApprove {
			zap.L().Warn("auto-approve enabled but no admin user found; approved papers will have no reviewer")
		}

		im := importer.New(st, text, nil, cfg.Import.Root)
		rep, runErr := im.Run(ctx, files, importer.Options{
			AutoApprove: cfg.Import.AutoApprove,
			AdminUserID: reviewer,
			MaxFiles:    cfg.Import.MaxFiles,
		})
		if rep == nil {
			return eris.Wrap(runErr, "import run")
		}

		path, err := report.Write(rep, cfg.Import.OutputDir, cfg.Import.OutputFormat)
		if err != nil {
			return err
		}
		report.PrintSummary(cmd.OutOrStdout(), rep.Summary)
		zap.L().Info("import complete",
			zap.String("run_id", rep.RunID),
			zap.String("report", path),
		)

		if runErr != nil && !errors.Is(runErr, context.Canceled) {
			return eris.Wrap(runErr, "import run")
		}
		return nil
	},
}

// applyImportFlags lets explicitly set flags override config values.
func applyImportFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Import.Root = importRoot
	}
	if flags.Changed("max-files") {
		cfg.Import.MaxFiles = importMaxFiles
	}
	if flags.Changed("auto-approve") {
		cfg.Import.AutoApprove = importAutoApprove
	}
	if flags.Changed("admin-user-id") {
		cfg.Import.AdminUserID = importAdminUserID
	}
	if flags.Changed("output-dir") {
		cfg.Import.OutputDir = importOutputDir
	}
	if flags.Changed("format") {
		cfg.Import.OutputFormat = importFormat
	}
}

func init() {
	importCmd.Flags().StringVar(&importRoot, "root", "./pastpaper", "archive root to scan for PDFs")
	importCmd.Flags().IntVar(&importMaxFiles, "max-files", 0, "process at most this many files (0 = all)")
	importCmd.Flags().BoolVar(&importAutoApprove, "auto-approve", false, "approve ACCEPT results and confident REVIEW results")
	importCmd.Flags().Int64Var(&importAdminUserID, "admin-user-id", 0, "user recorded as uploader and reviewer (default: first admin)")
	importCmd.Flags().StringVar(&importOutputDir, "output-dir", "bulk_import_results", "directory for the run report")
	importCmd.Flags().StringVar(&importFormat, "format", "json", "report format: json, yaml or xlsx")
	rootCmd.AddCommand(importCmd)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/paper-portal/paperctl/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "paperctl",
	Short: "Bulk import exam-paper PDFs into the paper portal",
	Long:  "Walks a past-paper archive, reads each PDF's filename, folders and text, reconciles the metadata, and upserts courses and papers.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

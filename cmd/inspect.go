package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/paper-portal/paperctl/internal/importer"
	"github.com/paper-portal/paperctl/internal/ocr"
)

var inspectRoot string

var inspectCmd = &cobra.Command{
	Use:   "inspect <pdf>",
	Short: "Run one PDF through extraction and merge without touching the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("inspect"); err != nil {
			return err
		}

		text, err := ocr.NewExtractor(cfg.OCR)
		if err != nil {
			return err
		}

		root := inspectRoot
		if root == "" {
			root = filepath.Dir(filepath.Dir(args[0]))
		}
		im := importer.New(nil, text, nil, root)
		res := im.ProcessDocument(cmd.Context(), args[0])

		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return eris.Wrap(err, "inspect: marshal result")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectRoot, "root", "", "archive root for folder hints (default: grandparent of the file)")
	rootCmd.AddCommand(inspectCmd)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/study-shelf/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved resources as YAML, JSON, or TOML",
	Long: `Export writes saved resources to stdout, or with --save to
export.<format> in the data directory. The list filters apply.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	opts, err := listOptsFromFlags(cmd)
	if err != nil {
		return err
	}
	rawFormat, _ := cmd.Flags().GetString("format")
	format, err := store.ParseExportFormat(rawFormat)
	if err != nil {
		return err
	}

	s, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	if save, _ := cmd.Flags().GetBool("save"); save {
		path, err := s.ExportFile(ctx, format, opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "wrote", path)
		return nil
	}
	return s.Export(ctx, out, format, opts)
}

func init() {
	addFilterFlags(exportCmd)
	exportCmd.Flags().String("format", string(store.FormatYAML), "output format: yaml, json, or toml")
	exportCmd.Flags().Bool("save", false, "write to the data directory instead of stdout")

	rootCmd.AddCommand(exportCmd)
}

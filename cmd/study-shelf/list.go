// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/study-shelf/internal/store"
	"github.com/pdiddy/study-shelf/pkg/types"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved resources",
	Long: `List shows saved resources, most recently updated first. Filter by
resource type, tag, study status, or a title substring.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	opts, err := listOptsFromFlags(cmd)
	if err != nil {
		return err
	}

	s, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	resources, err := s.List(cmd.Context(), opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		if resources == nil {
			resources = []types.Resource{}
		}
		return writeJSON(out, resources)
	}
	formatResources(out, resources)
	return nil
}

// listOptsFromFlags reads the shared filter flags.
func listOptsFromFlags(cmd *cobra.Command) (store.ListOptions, error) {
	var opts store.ListOptions
	opts.Type, _ = cmd.Flags().GetString("type")
	opts.Tag, _ = cmd.Flags().GetString("tag")
	opts.Title, _ = cmd.Flags().GetString("title")
	opts.MaxResults, _ = cmd.Flags().GetInt("limit")

	if raw, _ := cmd.Flags().GetString("status"); raw != "" {
		st, err := types.ParseStudyStatus(raw)
		if err != nil {
			return opts, err
		}
		opts.Status = st
	}
	return opts, nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("type", "", "filter by resource type (youtube, paper, book, article)")
	cmd.Flags().String("tag", "", "filter by tag")
	cmd.Flags().String("status", "", "filter by status (not-started, in-progress, completed)")
	cmd.Flags().String("title", "", "filter by title substring")
}

func init() {
	addFilterFlags(listCmd)
	listCmd.Flags().Int("limit", 0, "maximum number of resources (default from store.max_results)")
	listCmd.Flags().Bool("json", false, "output resources as JSON")

	rootCmd.AddCommand(listCmd)
}

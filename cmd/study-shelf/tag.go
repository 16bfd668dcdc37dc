// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag [id] [tags...]",
	Short: "Set a resource's topic tags, or list all tags",
	Long: `Tag replaces the tags on a resource. With --add the tags are appended
to the existing set instead. Tags are normalized: case-folded, with spaces
and underscores turned into hyphens.

Without arguments, tag lists every tag in use with its resource count.`,
	RunE: runTag,
}

func runTag(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
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

	if len(args) == 0 {
		counts, err := s.Tags(ctx)
		if err != nil {
			return err
		}
		if len(counts) == 0 {
			fmt.Fprintln(out, "No tags yet.")
			return nil
		}
		rows := make([][]string, 0, len(counts))
		for _, tc := range counts {
			rows = append(rows, []string{tc.Tag, tc.Label, strconv.Itoa(tc.Count)})
		}
		fmt.Fprintln(out, renderTable([]string{"Tag", "Label", "Resources"}, rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight}))
		return nil
	}

	id, err := s.ResolveID(ctx, args[0])
	if err != nil {
		return err
	}
	tags := args[1:]
	if add, _ := cmd.Flags().GetBool("add"); add {
		existing, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		tags = append(existing.Tags, tags...)
	}

	normalized, err := s.SetTags(ctx, id, tags)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s tags: %s\n", shortID(id), strings.Join(normalized, ", "))
	return nil
}

func init() {
	tagCmd.Flags().Bool("add", false, "append to the existing tags instead of replacing them")

	rootCmd.AddCommand(tagCmd)
}

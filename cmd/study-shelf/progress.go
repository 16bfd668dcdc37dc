// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/study-shelf/pkg/types"
)

var progressCmd = &cobra.Command{
	Use:   "progress <id> [percent]",
	Short: "Record study progress on a resource",
	Long: `Progress sets the completion percentage of a resource (0-100, a trailing
% is accepted). Reaching 100 marks it completed. Use --status to set the
status explicitly; --status completed implies 100.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runProgress,
}

func runProgress(cmd *cobra.Command, args []string) error {
	var status types.StudyStatus
	if raw, _ := cmd.Flags().GetString("status"); raw != "" {
		st, err := types.ParseStudyStatus(raw)
		if err != nil {
			return err
		}
		status = st
	}

	percent := 0
	if len(args) == 2 {
		p, err := strconv.Atoi(strings.TrimSuffix(args[1], "%"))
		if err != nil {
			return fmt.Errorf("percent must be a number: %q", args[1])
		}
		percent = p
	} else if status == "" {
		return fmt.Errorf("give a percent or --status")
	}

	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	s, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := s.ResolveID(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	res, err := s.UpdateProgress(cmd.Context(), id, status, percent)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s: %s (%d%%)\n", shortID(res.ID), res.Title, res.Status, res.Progress)
	return nil
}

func init() {
	progressCmd.Flags().String("status", "", "study status (not-started, in-progress, completed)")

	rootCmd.AddCommand(progressCmd)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a saved resource",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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
		res, err := s.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		if err := s.Delete(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s  %s\n", shortID(id), res.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

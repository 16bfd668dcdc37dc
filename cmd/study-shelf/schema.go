// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/pdiddy/study-shelf/pkg/types"
)

// schemaTargets maps schema names to the types they describe.
var schemaTargets = map[string]any{
	"detection": &types.DetectionResult{},
	"resource":  &types.Resource{},
	"config":    &types.AppConfig{},
}

var schemaCmd = &cobra.Command{
	Use:       "schema <detection|resource|config>",
	Short:     "Print the JSON schema of detect, list, or config output",
	Long:      "Schema prints a JSON schema for tools that consume study-shelf JSON output.",
	Hidden:    true,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"detection", "resource", "config"},
	RunE: func(cmd *cobra.Command, args []string) error {
		target, ok := schemaTargets[args[0]]
		if !ok {
			return fmt.Errorf("unknown schema %q (want detection, resource, or config)", args[0])
		}
		reflector := new(jsonschema.Reflector)
		bts, err := json.MarshalIndent(reflector.Reflect(target), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal schema: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(bts))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/study-shelf/pkg/types"
)

var detectCmd = &cobra.Command{
	Use:   "detect <input>",
	Short: "Classify input and show the ranked candidate resource types",
	Long: `Detect runs every registered detector against the input (a URL, ISBN,
DOI, arXiv id, PubMed id, YouTube id, or title) and prints the candidates
ranked by confidence. Nothing is fetched or saved.

Multiple arguments are joined with spaces, so titles need no quoting.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDetect,
}

func runDetect(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	engine := newEngine(cfg.Engine)
	if err := engineOverrides(cmd, engine); err != nil {
		return err
	}

	input := strings.Join(args, " ")
	pluginID, _ := cmd.Flags().GetString("plugin")
	top, _ := cmd.Flags().GetBool("top")

	var results []types.DetectionResult
	switch {
	case pluginID != "":
		if r := engine.DetectFor(input, pluginID); r != nil {
			results = append(results, *r)
		}
	case top:
		if r := engine.Detect(input); r != nil {
			results = append(results, *r)
		}
	default:
		results = engine.DetectAll(input)
	}

	out := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		if results == nil {
			results = []types.DetectionResult{}
		}
		return writeJSON(out, results)
	}
	formatDetections(out, input, results, -1)
	return nil
}

func init() {
	detectCmd.Flags().String("plugin", "", "run only the detector with this id")
	detectCmd.Flags().Bool("top", false, "show only the best candidate")
	detectCmd.Flags().Bool("json", false, "output candidates as JSON")
	addEngineFlags(detectCmd)

	rootCmd.AddCommand(detectCmd)
}

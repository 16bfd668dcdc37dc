// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/study-shelf/internal/detect"
	"github.com/pdiddy/study-shelf/internal/plugin"
	"github.com/pdiddy/study-shelf/pkg/types"
)

var addCmd = &cobra.Command{
	Use:   "add <input>",
	Short: "Detect, fetch metadata for, and save a resource",
	Long: `Add classifies the input, hands the best candidate to the matching plugin
to fetch metadata (oEmbed, CrossRef, arXiv, PubMed, Google Books, or the page
itself), and saves the result.

Use --plugin to override the detected type and --offline to save what
detection alone reveals without any network access.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
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
	det, err := chooseDetection(engine, input, pluginID)
	if err != nil {
		return err
	}
	logger.Info("detected", "plugin", det.PluginID, "confidence", det.Confidence, "pattern", det.MatchedPattern())

	var res *types.Resource
	if offline, _ := cmd.Flags().GetBool("offline"); offline {
		res = resourceFromDetection(input, det)
	} else {
		res, err = plugin.Resolve(cmd.Context(), newRegistry(cfg.Plugins), input, det)
		if err != nil {
			return err
		}
	}

	res.Tags, _ = cmd.Flags().GetStringSlice("tag")
	res.Notes, _ = cmd.Flags().GetString("notes")

	out := cmd.OutOrStdout()
	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		formatResource(out, res)
		return nil
	}

	return saveResource(cmd.Context(), cmd, cfg.Store, res)
}

func saveResource(ctx context.Context, cmd *cobra.Command, cfg types.StoreConfig, res *types.Resource) error {
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	saved, err := s.Save(ctx, *res)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(out, saved)
	}
	fmt.Fprintf(out, "saved %s  %s\n", shortID(saved.ID), saved.Title)
	return nil
}

// chooseDetection returns the top-ranked candidate, or the named
// detector's result when pluginID is set.
func chooseDetection(engine *detect.Engine, input, pluginID string) (types.DetectionResult, error) {
	if pluginID != "" {
		if r := engine.DetectFor(input, pluginID); r != nil {
			return *r, nil
		}
		return types.DetectionResult{}, fmt.Errorf("%s does not recognize %q", pluginID, input)
	}
	if r := engine.Detect(input); r != nil {
		return *r, nil
	}
	return types.DetectionResult{}, fmt.Errorf("could not detect a resource type for %q; try --plugin", input)
}

// resourceFromDetection builds a record from the detection alone.
func resourceFromDetection(input string, det types.DetectionResult) *types.Resource {
	input = strings.TrimSpace(input)
	res := &types.Resource{
		Type:       det.PluginID,
		Title:      input,
		Identifier: det.ExtractedID(),
		Status:     types.StatusNotStarted,
	}
	if det.InputType == types.InputURL {
		res.URL = detect.WithProtocol(input, det)
	}
	if det.InputType == types.InputSearchQuery || det.InputType == types.InputTitle {
		res.Identifier = ""
	}
	return res
}

func init() {
	addCmd.Flags().String("plugin", "", "resource type to use instead of the detected one")
	addCmd.Flags().StringSlice("tag", nil, "topic tag (repeatable or comma-separated)")
	addCmd.Flags().String("notes", "", "free-form notes")
	addCmd.Flags().Bool("offline", false, "save from detection only, without fetching metadata")
	addCmd.Flags().Bool("dry-run", false, "print the resource without saving it")
	addCmd.Flags().Bool("json", false, "print the saved resource as JSON")
	addEngineFlags(addCmd)

	rootCmd.AddCommand(addCmd)
}

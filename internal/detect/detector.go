// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package detect classifies free-text input (a pasted URL, an ISBN, a DOI,
// a bare title) into ranked candidates naming the resource plugin that
// should handle it.
//
// Each resource type contributes a Detector. The Engine runs every
// registered detector, merges their candidates, and ranks them by
// confidence, using detector priority to break ties.
package detect

import (
	"github.com/pdiddy/study-shelf/pkg/types"
)

// Detector inspects raw input and reports its single best match, or nil.
// Detectors fail closed: malformed input yields nil, never a panic.
type Detector interface {
	// ID is unique within an engine and normally equals the plugin id
	// the detector feeds.
	ID() string

	// Priority orders detectors; higher runs first and wins ties at
	// equal confidence.
	Priority() int

	Detect(input string) *types.DetectionResult
}

// MultiDetector is a Detector that can also report every candidate it
// sees, including lower-confidence alternates.
type MultiDetector interface {
	Detector
	DetectAll(input string) []types.DetectionResult
}

// detectAllFunc is the uniform shape the engine loop calls.
type detectAllFunc func(input string) []types.DetectionResult

// WrapSingle adapts a single-result Detector to the all-candidates shape.
func WrapSingle(d Detector) func(string) []types.DetectionResult {
	return func(input string) []types.DetectionResult {
		r := d.Detect(input)
		if r == nil {
			return nil
		}
		return []types.DetectionResult{*r}
	}
}

// allFunc returns the detector's own DetectAll when it has one, otherwise
// the WrapSingle adapter.
func allFunc(d Detector) detectAllFunc {
	if md, ok := d.(MultiDetector); ok {
		return md.DetectAll
	}
	return WrapSingle(d)
}

// newResult builds a DetectionResult with a fresh context.
func newResult(pluginID, name string, conf types.Confidence, inputType types.InputType, extractedID, pattern string, meta map[string]any) *types.DetectionResult {
	return &types.DetectionResult{
		PluginID:    pluginID,
		DisplayName: name,
		Confidence:  conf,
		InputType:   inputType,
		Context: &types.DetectionContext{
			ExtractedID:    extractedID,
			MatchedPattern: pattern,
			Metadata:       meta,
		},
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plugin turns a confirmed detection into a full resource record.
// Each resource type has a Plugin keyed by the same id its detector emits;
// the detection's PluginID is the join key.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/study-shelf/internal/detect"
	"github.com/pdiddy/study-shelf/internal/httputil"
	"github.com/pdiddy/study-shelf/pkg/types"
)

// InputKind says how a plugin consumes input.
type InputKind string

const (
	KindURL    InputKind = "url"
	KindSearch InputKind = "search"
)

var (
	// ErrUnknownPlugin is returned when no plugin is registered for an id.
	ErrUnknownPlugin = errors.New("unknown plugin")

	// ErrNoResults is returned when a search finds nothing.
	ErrNoResults = errors.New("no results")
)

// Plugin is a resource type handler. Implementations also satisfy either
// URLFetcher or Searcher according to InputKind.
type Plugin interface {
	ID() string
	Name() string
	InputKind() InputKind
	Validate(input string) bool
}

// URLFetcher builds a resource directly from a URL.
type URLFetcher interface {
	FetchFromURL(ctx context.Context, rawURL string) (*types.Resource, error)
}

// Searcher finds candidates for a query and expands one into a resource.
type Searcher interface {
	Search(ctx context.Context, query string) ([]types.SearchResult, error)
	GetDetails(ctx context.Context, result types.SearchResult) (*types.Resource, error)
}

// Registry maps plugin ids to plugins.
type Registry struct {
	plugins map[string]Plugin
}

// NewRegistry returns a registry holding ps.
func NewRegistry(ps ...Plugin) *Registry {
	r := &Registry{plugins: make(map[string]Plugin)}
	for _, p := range ps {
		r.Register(p)
	}
	return r
}

// Register adds p, replacing any plugin with the same id.
func (r *Registry) Register(p Plugin) {
	r.plugins[p.ID()] = p
}

// Get returns the plugin registered under id.
func (r *Registry) Get(id string) (Plugin, bool) {
	p, ok := r.plugins[id]
	return p, ok
}

// All returns the registered plugins sorted by id.
func (r *Registry) All() []Plugin {
	out := make([]Plugin, 0, len(r.plugins))
	for _, p := range r.plugins {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Resolve runs the plugin named by det against input and returns the
// resulting resource. URL plugins fetch the link directly. Search plugins
// go straight to GetDetails when the detection extracted an identifier,
// and otherwise search and expand the top result.
func Resolve(ctx context.Context, reg *Registry, input string, det types.DetectionResult) (*types.Resource, error) {
	p, ok := reg.Get(det.PluginID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlugin, det.PluginID)
	}
	input = strings.TrimSpace(input)

	var (
		res *types.Resource
		err error
	)
	switch impl := p.(type) {
	case URLFetcher:
		res, err = impl.FetchFromURL(ctx, detect.WithProtocol(input, det))
	case Searcher:
		res, err = resolveSearch(ctx, impl, input, det)
	default:
		return nil, fmt.Errorf("plugin %s can neither fetch nor search", p.ID())
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name(), err)
	}
	if res.Type == "" {
		res.Type = p.ID()
	}
	return res, nil
}

func resolveSearch(ctx context.Context, s Searcher, input string, det types.DetectionResult) (*types.Resource, error) {
	if det.InputType != types.InputSearchQuery && det.InputType != types.InputTitle {
		if id := det.ExtractedID(); id != "" {
			return s.GetDetails(ctx, types.SearchResult{Identifier: id})
		}
	}
	results, err := s.Search(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoResults, input)
	}
	return s.GetDetails(ctx, results[0])
}

// NewDefaultRegistry returns a registry holding the built-in plugins, one
// for each built-in detector.
func NewDefaultRegistry(client *httputil.Client, cfg types.PluginConfig) *Registry {
	return NewRegistry(
		NewYouTube(client),
		NewPaper(client, cfg),
		NewBook(client, cfg),
		NewArticle(client),
	)
}

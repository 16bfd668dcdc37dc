// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/study-shelf/internal/logging"
	"github.com/pdiddy/study-shelf/pkg/types"
)

// registration is one registered detector and its uniform candidate func.
type registration struct {
	detector Detector
	all      detectAllFunc
	seq      int
}

// Engine owns a detector registry and ranks the candidates they produce.
// Construct one at startup and pass it to whatever needs classification.
// Detection only reads the registry; it is safe for concurrent use.
type Engine struct {
	mu      sync.RWMutex
	entries map[string]*registration
	nextSeq int
	cfg     types.EngineConfig
	logger  *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used to report misbehaving detectors.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine returns an engine with no detectors registered.
func NewEngine(cfg types.EngineConfig, opts ...Option) *Engine {
	e := &Engine{
		entries: make(map[string]*registration),
		cfg:     cfg,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewDefaultEngine returns an engine with the built-in YouTube, paper,
// book, and article detectors registered.
func NewDefaultEngine(cfg types.EngineConfig, opts ...Option) *Engine {
	e := NewEngine(cfg, opts...)
	for _, d := range BuiltinDetectors() {
		e.Register(d)
	}
	return e
}

// BuiltinDetectors returns fresh instances of the shipped detectors.
func BuiltinDetectors() []Detector {
	return []Detector{
		NewYouTubeDetector(),
		NewPaperDetector(),
		NewBookDetector(),
		NewArticleDetector(),
	}
}

// Register inserts d, replacing any detector with the same id. A
// replacement keeps the original registration slot.
func (e *Engine) Register(d Detector) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if prev, ok := e.entries[d.ID()]; ok {
		prev.detector = d
		prev.all = allFunc(d)
		return
	}
	e.entries[d.ID()] = &registration{detector: d, all: allFunc(d), seq: e.nextSeq}
	e.nextSeq++
}

// Unregister removes the detector with the given id, if present.
func (e *Engine) Unregister(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.entries, id)
}

// GetAll returns the registered detectors by priority, highest first.
func (e *Engine) GetAll() []Detector {
	regs := e.sorted()
	out := make([]Detector, len(regs))
	for i, r := range regs {
		out[i] = r.detector
	}
	return out
}

// Config returns the current configuration.
func (e *Engine) Config() types.EngineConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg
}

// SetConfig merges the non-nil fields of p over the current configuration.
func (e *Engine) SetConfig(p types.EngineConfigPatch) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg = p.Apply(e.cfg)
}

// Detect returns the highest-ranked candidate for input, or nil when the
// input is blank or nothing matches.
func (e *Engine) Detect(input string) *types.DetectionResult {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	results := e.DetectAll(input)
	if len(results) == 0 {
		return nil
	}
	r := results[0]
	return &r
}

// DetectAll runs every detector against input and returns the merged
// candidates ranked by confidence, filtered by MinConfidence and capped
// at MaxSuggestions. Blank input returns an empty list without invoking
// any detector.
func (e *Engine) DetectAll(input string) []types.DetectionResult {
	input = strings.TrimSpace(input)
	if input == "" {
		return []types.DetectionResult{}
	}

	regs := e.sorted()
	cfg := e.Config()

	var candidates []types.DetectionResult
	for _, r := range regs {
		candidates = append(candidates, e.invoke(r, input)...)
	}

	// Stable so the priority order above remains the tie-break.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence.Score() > candidates[j].Confidence.Score()
	})

	floor := cfg.MinConfidence.Score()
	out := make([]types.DetectionResult, 0, len(candidates))
	for _, c := range candidates {
		if c.Confidence.Score() < floor {
			continue
		}
		out = append(out, c)
	}

	limit := max(cfg.MaxSuggestions, 0)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// DetectFor runs only the detector registered under pluginID, bypassing
// cross-type ranking. It returns nil for blank input or an unknown id.
func (e *Engine) DetectFor(input, pluginID string) *types.DetectionResult {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	e.mu.RLock()
	r, ok := e.entries[pluginID]
	e.mu.RUnlock()
	if !ok {
		return nil
	}

	var result *types.DetectionResult
	e.guard(r.detector.ID(), func() {
		result = r.detector.Detect(input)
	})
	return result
}

// invoke collects one detector's candidates, isolating panics so a
// misbehaving detector cannot abort classification by the rest.
func (e *Engine) invoke(r *registration, input string) []types.DetectionResult {
	var out []types.DetectionResult
	e.guard(r.detector.ID(), func() {
		out = r.all(input)
	})
	return out
}

func (e *Engine) guard(id string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Warn("detector panicked; skipping", "detector", id, "panic", fmt.Sprint(rec))
		}
	}()
	fn()
}

// sorted snapshots the registry ordered by priority desc, then
// registration order.
func (e *Engine) sorted() []*registration {
	e.mu.RLock()
	regs := make([]*registration, 0, len(e.entries))
	for _, r := range e.entries {
		regs = append(regs, &registration{detector: r.detector, all: r.all, seq: r.seq})
	}
	e.mu.RUnlock()

	sort.Slice(regs, func(i, j int) bool {
		pi, pj := regs[i].detector.Priority(), regs[j].detector.Priority()
		if pi != pj {
			return pi > pj
		}
		return regs[i].seq < regs[j].seq
	})
	return regs
}

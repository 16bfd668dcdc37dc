// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session tracks detection results for input that arrives one
// keystroke or line at a time. Submissions are debounced; a newer
// submission supersedes any pending one and stale results are discarded.
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/study-shelf/internal/logging"
	"github.com/pdiddy/study-shelf/pkg/types"
)

// Detector is the part of the detection engine the session consumes.
type Detector interface {
	DetectAll(input string) []types.DetectionResult
}

// Snapshot is the state published after each detection run.
type Snapshot struct {
	Input   string
	Results []types.DetectionResult

	// Selected indexes Results. It is -1 when Results is empty.
	Selected int
}

// SelectedResult returns the selected candidate, if any.
func (s Snapshot) SelectedResult() (types.DetectionResult, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Results) {
		return types.DetectionResult{}, false
	}
	return s.Results[s.Selected], true
}

// DetectionState debounces input and keeps the latest ranked candidates.
type DetectionState struct {
	detector Detector
	delay    time.Duration
	onChange func(Snapshot)
	logger   *log.Logger

	mu      sync.Mutex
	settled *sync.Cond // signaled when done advances or the state stops
	seq     uint64
	done    uint64 // highest seq whose run has finished
	pending string
	timer   *time.Timer
	current Snapshot
	stopped bool
}

// Option configures a DetectionState.
type Option func(*DetectionState)

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *log.Logger) Option {
	return func(s *DetectionState) { s.logger = l }
}

// New returns a DetectionState that runs d after delay of quiet and
// passes each fresh snapshot to onChange. onChange may be nil.
func New(d Detector, delay time.Duration, onChange func(Snapshot), opts ...Option) *DetectionState {
	s := &DetectionState{
		detector: d,
		delay:    delay,
		onChange: onChange,
		logger:   logging.Discard(),
		current:  Snapshot{Selected: -1},
	}
	s.settled = sync.NewCond(&s.mu)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit records new input and restarts the debounce timer. Blank input
// clears the results immediately.
func (s *DetectionState) Submit(input string) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.seq++
	seq := s.seq
	s.pending = input
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	if strings.TrimSpace(input) == "" {
		snap := Snapshot{Input: input, Selected: -1}
		s.current = snap
		s.finish(seq)
		s.mu.Unlock()
		s.publish(snap)
		return
	}

	s.timer = time.AfterFunc(s.delay, func() { s.run(seq, input) })
	s.mu.Unlock()
}

// Flush runs any pending submission now and returns the current snapshot.
// If the debounce timer already fired, Flush waits for that run to finish.
func (s *DetectionState) Flush() Snapshot {
	s.mu.Lock()
	if s.timer != nil && s.timer.Stop() {
		s.timer = nil
		seq, input := s.seq, s.pending
		s.mu.Unlock()

		s.run(seq, input)
		return s.Current()
	}

	target := s.seq
	for !s.stopped && s.done < target {
		s.settled.Wait()
	}
	snap := s.current
	s.mu.Unlock()
	return snap
}

// run detects input and publishes the result unless a newer submission
// arrived in the meantime.
func (s *DetectionState) run(seq uint64, input string) {
	results := s.detector.DetectAll(input)

	s.mu.Lock()
	s.finish(seq)
	if s.stopped || seq != s.seq {
		s.mu.Unlock()
		s.logger.Debug("discarding superseded detection", "input", input, "seq", seq)
		return
	}
	s.timer = nil
	snap := Snapshot{Input: input, Results: results, Selected: -1}
	if len(results) > 0 {
		snap.Selected = 0
	}
	s.current = snap
	s.mu.Unlock()

	s.logger.Debug("detected", "input", input, "candidates", len(results))
	s.publish(snap)
}

// Select marks candidate i of the current results as chosen.
func (s *DetectionState) Select(i int) error {
	s.mu.Lock()
	if i < 0 || i >= len(s.current.Results) {
		n := len(s.current.Results)
		s.mu.Unlock()
		return fmt.Errorf("selection %d out of range (have %d candidates)", i, n)
	}
	s.current.Selected = i
	snap := s.current
	s.mu.Unlock()

	s.publish(snap)
	return nil
}

// Selected returns the chosen candidate, if any.
func (s *DetectionState) Selected() (types.DetectionResult, bool) {
	return s.Current().SelectedResult()
}

// Current returns the latest published snapshot.
func (s *DetectionState) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Stop cancels any pending run. Later submissions are ignored.
func (s *DetectionState) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.settled.Broadcast()
}

// finish records that the run for seq is over. Callers hold mu.
func (s *DetectionState) finish(seq uint64) {
	if seq > s.done {
		s.done = seq
		s.settled.Broadcast()
	}
}

func (s *DetectionState) publish(snap Snapshot) {
	if s.onChange != nil {
		s.onChange(snap)
	}
}

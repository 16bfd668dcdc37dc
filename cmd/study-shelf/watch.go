// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"

	"github.com/nxadm/tail"
	"github.com/spf13/cobra"

	"github.com/pdiddy/study-shelf/internal/plugin"
	"github.com/pdiddy/study-shelf/internal/session"
	"github.com/pdiddy/study-shelf/pkg/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Classify input line by line as it is typed or piped",
	Long: `Watch reads input from stdin and shows the ranked candidates for the
latest line once input pauses for the debounce interval. Lines arriving
faster than that supersede each other and only the last is classified.

With --follow, lines appended to a file are classified instead, which
suits a clipboard history log or a notes file.

Commands:
  :N     select candidate N
  :add   fetch and save the selected candidate
  :q     quit`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	engine := newEngine(cfg.Engine)
	if err := engineOverrides(cmd, engine); err != nil {
		return err
	}
	debounce := cfg.Engine.Debounce
	if cmd.Flags().Changed("debounce") {
		debounce, _ = cmd.Flags().GetDuration("debounce")
	}

	out := cmd.OutOrStdout()
	in := cmd.InOrStdin()
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = isTerminal(f)
	}

	var mu sync.Mutex
	prompt := func() {
		if interactive {
			fmt.Fprint(out, "> ")
		}
	}

	state := session.New(engine, debounce, func(s session.Snapshot) {
		if strings.TrimSpace(s.Input) == "" {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		formatDetections(out, s.Input, s.Results, s.Selected)
		prompt()
	}, session.WithLogger(logger))
	defer state.Stop()

	w := &watcher{cmd: cmd, cfg: cfg, state: state, out: out, mu: &mu}

	if path, _ := cmd.Flags().GetString("follow"); path != "" {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return w.follow(ctx, path)
	}

	scanner := bufio.NewScanner(in)
	prompt()
	for scanner.Scan() {
		if quit := w.line(scanner.Text()); quit {
			return nil
		}
	}
	state.Flush()
	return scanner.Err()
}

// follow feeds lines appended to path into the session until ctx ends.
func (w *watcher) follow(ctx context.Context, path string) error {
	t, err := tail.TailFile(path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Location:  &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("following %s: %w", path, err)
	}
	defer t.Cleanup()
	logger.Info("following", "path", path)

	for {
		select {
		case <-ctx.Done():
			t.Stop()
			w.state.Flush()
			return nil
		case l, ok := <-t.Lines:
			if !ok {
				w.state.Flush()
				return t.Err()
			}
			if l.Err != nil {
				return fmt.Errorf("reading %s: %w", path, l.Err)
			}
			if quit := w.line(l.Text); quit {
				t.Stop()
				return nil
			}
		}
	}
}

// watcher handles the colon commands of the watch loop.
type watcher struct {
	cmd   *cobra.Command
	cfg   types.AppConfig
	state *session.DetectionState
	out   io.Writer
	mu    *sync.Mutex
}

func (w *watcher) printf(format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, format, args...)
}

// line submits input or runs a colon command. It reports whether the
// loop should end.
func (w *watcher) line(text string) bool {
	text = strings.TrimSpace(text)
	if command, ok := strings.CutPrefix(text, ":"); ok {
		return w.handle(command)
	}
	w.state.Submit(text)
	return false
}

// handle runs one command and reports whether the loop should end.
func (w *watcher) handle(command string) bool {
	command = strings.TrimSpace(command)
	switch command {
	case "q", "quit":
		return true
	case "add":
		if err := w.add(); err != nil {
			w.printf("error: %v\n", err)
		}
		return false
	}

	n, err := strconv.Atoi(command)
	if err != nil {
		w.printf("unknown command :%s\n", command)
		return false
	}
	w.state.Flush()
	if err := w.state.Select(n - 1); err != nil {
		w.printf("error: %v\n", err)
	}
	return false
}

func (w *watcher) add() error {
	snap := w.state.Flush()
	det, ok := snap.SelectedResult()
	if !ok {
		return fmt.Errorf("nothing selected")
	}
	ctx := w.cmd.Context()
	res, err := plugin.Resolve(ctx, newRegistry(w.cfg.Plugins), snap.Input, det)
	if err != nil {
		return err
	}

	s, err := openStore(w.cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	saved, err := s.Save(ctx, *res)
	if err != nil {
		return err
	}
	w.printf("saved %s  %s\n", shortID(saved.ID), saved.Title)
	return nil
}

func init() {
	watchCmd.Flags().String("follow", "", "read input lines appended to this file instead of stdin")
	watchCmd.Flags().Duration("debounce", types.DefaultDebounce, "quiet period before classifying (default from engine.debounce)")
	addEngineFlags(watchCmd)

	rootCmd.AddCommand(watchCmd)
}

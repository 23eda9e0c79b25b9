package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tagcheck/internal/driver"
	"tagcheck/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <directory>",
	Short: "Re-check Java sources as they change",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	addCheckFlags(watchCmd)
	watchCmd.Flags().Duration("debounce", 0, "how long changes settle before a re-check (0 = 100ms)")
	watchCmd.Flags().String("log-level", "info", "watcher log level (debug|info|warn|error)")
	watchCmd.Flags().Bool("with-notes", false, "include diagnostic notes in the output")
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid --log-level value %q (expected debug|info|warn|error)", s)
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func runWatch(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	if !isDir(root) {
		return fmt.Errorf("%s is not a directory", root)
	}

	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}
	levelFlag, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return fmt.Errorf("failed to get log-level flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	level, err := parseLogLevel(levelFlag)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), level)

	settings, err := loadSettings(cmd, root)
	if err != nil {
		return err
	}
	opts := settings.options
	out := cmd.OutOrStdout()
	ropts := renderOptions{format: "short", withNotes: withNotes}

	ctx := cmd.Context()
	initial, err := driver.Check(ctx, root, opts)
	if err != nil {
		return err
	}
	if err := render(out, initial, ropts); err != nil {
		return err
	}
	logger.Info("initial check finished", "files", len(initial.Files), "diagnostics", initial.Bag.Len())

	w, err := watch.New(watch.Config{
		Root:     root,
		Debounce: debounce,
		Filter:   opts.Filter,
		Check:    opts,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	w.Seed(initial)
	if err := w.Start(ctx); err != nil {
		_ = w.Stop()
		return err
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping watcher")
			return w.Stop()
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if err := reportWatchEvent(out, logger, ev, ropts); err != nil {
				return err
			}
		}
	}
}

func reportWatchEvent(out io.Writer, logger *slog.Logger, ev watch.Event, ropts renderOptions) error {
	switch {
	case ev.Op == watch.OpDelete:
		logger.Info("file removed", "path", ev.Path)
		return nil
	case ev.Result == nil:
		logger.Error("check failed", "path", ev.Path, "err", ev.Err)
		return nil
	}
	logger.Info("file checked", "path", ev.Path, "op", ev.Op, "diagnostics", ev.Result.Bag.Len())
	return render(out, ev.Result, ropts)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tagcheck/internal/driver"
	"tagcheck/internal/metrics"
	"tagcheck/internal/project"
	"tagcheck/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.java|directory>",
	Short: "Check API restriction tags",
	Long:  `Check every Java source under the target and report misplaced or duplicated restriction tags`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	addCheckFlags(checkCmd)
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json|yaml|sarif)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in the output")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths")
	checkCmd.Flags().String("path-mode", "auto", "how paths are printed (auto|absolute|relative|basename)")
	checkCmd.Flags().Int("context", 0, "source lines shown above each diagnostic in pretty output")
	checkCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	checkCmd.Flags().String("metrics-out", "", "write Prometheus metrics in textfile format to this path")
}

func runCheck(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("failed to access %s: %w", target, err)
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	ropts, err := readRenderOptions(cmd, format)
	if err != nil {
		return err
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	metricsOut, err := cmd.Flags().GetString("metrics-out")
	if err != nil {
		return fmt.Errorf("failed to get metrics-out flag: %w", err)
	}

	settings, err := loadSettings(cmd, target)
	if err != nil {
		return err
	}
	opts := settings.options
	if metricsOut != "" {
		opts.Metrics = metrics.New()
	}

	var res *driver.Result
	if shouldUseTUI(mode, format) {
		res, err = checkWithProgress(cmd, target, opts)
	} else {
		res, err = driver.Check(cmd.Context(), target, opts)
	}
	if err != nil {
		return err
	}

	if err := render(cmd.OutOrStdout(), res, ropts); err != nil {
		return err
	}
	if metricsOut != "" {
		if err := opts.Metrics.WriteTextfile(metricsOut); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	if res.HasErrors() {
		return errFindings
	}
	return nil
}

// checkWithProgress runs the check while a bubbletea model renders progress
// on stderr.
func checkWithProgress(cmd *cobra.Command, target string, opts driver.Options) (*driver.Result, error) {
	files, err := project.ListFiles(target, opts.Filter)
	if err != nil {
		return nil, err
	}
	events := make(chan driver.Event, 256)
	opts.Progress = driver.ChannelSink{Ch: events}

	uiErr := make(chan error, 1)
	go func() {
		err := ui.Run(cmd.ErrOrStderr(), "tagcheck", files, events)
		// keep the driver unblocked if the view exits first
		for range events {
		}
		uiErr <- err
	}()

	res, err := driver.Check(cmd.Context(), target, opts)
	close(events)
	if runErr := <-uiErr; runErr != nil && err == nil {
		return nil, fmt.Errorf("progress ui: %w", runErr)
	}
	return res, err
}

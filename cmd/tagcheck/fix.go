package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tagcheck/internal/driver"
	"tagcheck/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.java|directory>",
	Short: "Remove unsupported and duplicate restriction tags",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFix,
}

func init() {
	addCheckFlags(fixCmd)
	fixCmd.Flags().Bool("dry-run", false, "report the removals without writing files")
}

func runFix(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}
	settings, err := loadSettings(cmd, target)
	if err != nil {
		return err
	}
	opts := settings.options
	// fixes need every finding and offsets of the current file contents
	opts.MaxDiagnostics = 0
	opts.Cache = nil
	opts.Timings = false

	res, err := driver.Check(cmd.Context(), target, opts)
	if err != nil {
		return err
	}
	applied, err := fix.Apply(res.FileSet, res.Bag.Items(), fix.ApplyOptions{DryRun: dryRun})
	out := cmd.OutOrStdout()
	if errors.Is(err, fix.ErrNoFixes) {
		fmt.Fprintln(out, "nothing to fix")
		return nil
	}
	if applied != nil {
		for _, a := range applied.Applied {
			fmt.Fprintf(out, "%s: %s\n", a.PrimaryPath, a.Title)
		}
		for _, s := range applied.Skipped {
			fmt.Fprintf(out, "skipped %s: %s\n", s.Title, s.Reason)
		}
		verb := "updated"
		if dryRun {
			verb = "would update"
		}
		for _, c := range applied.FileChanges {
			fmt.Fprintf(out, "%s %s (%d edits)\n", verb, c.Path, c.EditCount)
		}
	}
	return err
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tagcheck/internal/diagfmt"
	"tagcheck/internal/driver"
	"tagcheck/internal/version"
)

type renderOptions struct {
	format    string
	color     bool
	withNotes bool
	pathMode  diagfmt.PathMode
	context   int
}

func readRenderOptions(cmd *cobra.Command, format string) (renderOptions, error) {
	switch format {
	case "pretty", "short", "json", "yaml", "sarif":
	default:
		return renderOptions{}, fmt.Errorf("unknown format %q (expected pretty|short|json|yaml|sarif)", format)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return renderOptions{}, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return renderOptions{}, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	pathFlag, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return renderOptions{}, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	contextLines, err := cmd.Flags().GetInt("context")
	if err != nil {
		return renderOptions{}, fmt.Errorf("failed to get context flag: %w", err)
	}
	pathMode, err := diagfmt.ParsePathMode(pathFlag)
	if err != nil {
		return renderOptions{}, err
	}
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	colorOn, err := useColor(cmd)
	if err != nil {
		return renderOptions{}, err
	}
	return renderOptions{
		format:    format,
		color:     colorOn && format == "pretty",
		withNotes: withNotes,
		pathMode:  pathMode,
		context:   contextLines,
	}, nil
}

func render(w io.Writer, res *driver.Result, opts renderOptions) error {
	switch opts.format {
	case "pretty":
		diagfmt.Pretty(w, res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     opts.color,
			Context:   opts.context,
			PathMode:  opts.pathMode,
			ShowNotes: opts.withNotes,
		})
		return nil
	case "short":
		return diagfmt.Short(w, res.Bag, res.FileSet, opts.pathMode, opts.withNotes)
	case "json", "yaml":
		jopts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         opts.pathMode,
			IncludeNotes:     opts.withNotes,
		}
		if opts.format == "yaml" {
			return diagfmt.YAML(w, res.Bag, res.FileSet, jopts)
		}
		return diagfmt.JSON(w, res.Bag, res.FileSet, jopts)
	case "sarif":
		return diagfmt.Sarif(w, res.Bag, res.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "tagcheck",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		})
	}
	return fmt.Errorf("unknown format %q", opts.format)
}

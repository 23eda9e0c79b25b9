package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"tagcheck/internal/diag"
	"tagcheck/internal/diagfmt"
	"tagcheck/internal/driver"
	"tagcheck/internal/facts"
	"tagcheck/internal/project"
)

const finalClassSrc = `package p;

/** @noextend */
public final class B {
}
`

func newCheckCommand(t *testing.T) *cobra.Command {
	t.Helper()
	root := &cobra.Command{Use: "tagcheck"}
	addPersistentFlags(root)
	cmd := &cobra.Command{Use: "check", RunE: func(*cobra.Command, []string) error { return nil }}
	addCheckFlags(cmd)
	root.AddCommand(cmd)
	return cmd
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in   string
		want uiMode
		err  bool
	}{
		{"", uiModeAuto, false},
		{"auto", uiModeAuto, false},
		{" ON ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err != nil) != tt.err {
			t.Fatalf("readUIMode(%q) err = %v, want error %v", tt.in, err, tt.err)
		}
		if got != tt.want {
			t.Fatalf("readUIMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if !shouldUseTUI(uiModeOn, "json") {
		t.Fatalf("ui=on must force the progress view")
	}
	if shouldUseTUI(uiModeOff, "pretty") {
		t.Fatalf("ui=off must disable the progress view")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"Warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := parseLogLevel(in)
		if err != nil {
			t.Fatalf("parseLogLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := parseLogLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestParseTags(t *testing.T) {
	all, err := parseTags(nil)
	if err != nil {
		t.Fatalf("parseTags(nil): %v", err)
	}
	if diff := cmp.Diff(facts.AllTags, all); diff != "" {
		t.Fatalf("default tags mismatch (-want +got):\n%s", diff)
	}
	got, err := parseTags([]string{"@noimplement", "noreference"})
	if err != nil {
		t.Fatalf("parseTags: %v", err)
	}
	if diff := cmp.Diff([]facts.Tag{facts.NoImplement, facts.NoReference}, got); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
	if _, err := parseTags([]string{"@since"}); err == nil {
		t.Fatalf("expected error for @since")
	}
}

func TestWriteExplain(t *testing.T) {
	var buf bytes.Buffer
	writeExplain(&buf, []facts.Tag{facts.NoImplement}, diag.NewCatalog())
	out := buf.String()
	if !strings.HasPrefix(out, "@noimplement\n") {
		t.Fatalf("missing tag header:\n%s", out)
	}
	for _, want := range []string{
		"  interface          valid\n",
		"  class              not supported on a class\n",
		"  method             not supported on a method\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("explain output missing %q:\n%s", want, out)
		}
	}
}

func TestLoadSettingsMergesFlags(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, project.ConfigName), `[check]
jobs = 2
max_diagnostics = 50
exclude = ["gen/**"]

[severity]
syntax = "off"
`)
	src := filepath.Join(root, "src")
	writeFile(t, filepath.Join(src, "p", "B.java"), finalClassSrc)

	cmd := newCheckCommand(t)
	if err := cmd.Flags().Set("jobs", "3"); err != nil {
		t.Fatalf("set jobs: %v", err)
	}
	if err := cmd.Flags().Set("exclude", "legacy/**"); err != nil {
		t.Fatalf("set exclude: %v", err)
	}
	if err := cmd.Root().PersistentFlags().Set("timings", "true"); err != nil {
		t.Fatalf("set timings: %v", err)
	}

	s, err := loadSettings(cmd, src)
	if err != nil {
		t.Fatalf("loadSettings: %v", err)
	}
	if s.options.Jobs != 3 {
		t.Fatalf("jobs = %d, want 3", s.options.Jobs)
	}
	if s.options.MaxDiagnostics != 50 {
		t.Fatalf("max diagnostics = %d, want 50", s.options.MaxDiagnostics)
	}
	if !s.options.Timings {
		t.Fatalf("timings flag not applied")
	}
	if diff := cmp.Diff([]string{"gen/**", "legacy/**"}, s.options.Filter.Exclude); diff != "" {
		t.Fatalf("exclude mismatch (-want +got):\n%s", diff)
	}
	if s.options.Filter.Base != root {
		t.Fatalf("filter base = %q, want %q", s.options.Filter.Base, root)
	}
	if s.options.Cache != nil {
		t.Fatalf("cache must stay off without --incremental")
	}
	if s.options.Fingerprint != s.config.Fingerprint() {
		t.Fatalf("fingerprint not taken from config")
	}
}

func TestLoadSettingsRejectsConflictingWarningFlags(t *testing.T) {
	cmd := newCheckCommand(t)
	_ = cmd.Flags().Set("no-warnings", "true")
	_ = cmd.Flags().Set("warnings-as-errors", "true")
	if _, err := loadSettings(cmd, t.TempDir()); err == nil {
		t.Fatalf("expected error for conflicting warning flags")
	}
}

func TestRenderFormats(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "p", "B.java"), finalClassSrc)

	cmd := newCheckCommand(t)
	s, err := loadSettings(cmd, root)
	if err != nil {
		t.Fatalf("loadSettings: %v", err)
	}
	res, err := driver.Check(context.Background(), root, s.options)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !res.HasErrors() {
		t.Fatalf("expected an error for @noextend on a final class")
	}

	var short bytes.Buffer
	if err := render(&short, res, renderOptions{format: "short", pathMode: diagfmt.PathModeRelative}); err != nil {
		t.Fatalf("render short: %v", err)
	}
	line := strings.TrimSpace(short.String())
	if !strings.HasPrefix(line, "error TAG1001 ") || !strings.Contains(line, "B.java:3:5") {
		t.Fatalf("unexpected short output: %q", line)
	}

	var js bytes.Buffer
	if err := render(&js, res, renderOptions{format: "json", pathMode: diagfmt.PathModeRelative}); err != nil {
		t.Fatalf("render json: %v", err)
	}
	var decoded diagfmt.DiagnosticsOutput
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json: %v\n%s", err, js.String())
	}
	if len(decoded.Diagnostics) != 1 || decoded.Diagnostics[0].Code != "TAG1001" {
		t.Fatalf("unexpected json diagnostics: %+v", decoded.Diagnostics)
	}

	if err := render(&bytes.Buffer{}, res, renderOptions{format: "html"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"tagcheck/internal/diag"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigName), "")
	nested := filepath.Join(root, "src", "main", "java")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, ok, err := FindProjectRoot(nested)
	if err != nil || !ok {
		t.Fatalf("FindProjectRoot: ok=%v err=%v", ok, err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Fatalf("root: want %q, got %q", want, got)
	}
}

func TestFindConfigFromFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigName), "")
	file := filepath.Join(root, "A.java")
	writeFile(t, file, "class A {}")

	path, ok, err := FindConfig(file)
	if err != nil || !ok {
		t.Fatalf("FindConfig: ok=%v err=%v", ok, err)
	}
	if filepath.Base(path) != ConfigName {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigName)
	writeFile(t, path, `[check]
exclude = ["**/generated/**"]
jobs = 4

[severity]
syntax = "ignore"
duplicate_tag = "warning"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff([]string{"**/*.java"}, cfg.Check.Include); diff != "" {
		t.Fatalf("include mismatch (-want +got):\n%s", diff)
	}
	if cfg.Check.Jobs != 4 || !cfg.Check.DefaultPackageExemption || cfg.Check.MaxDiagnostics != 1000 {
		t.Fatalf("unexpected check section: %+v", cfg.Check)
	}
	pol, err := cfg.Policy()
	if err != nil {
		t.Fatalf("Policy: %v", err)
	}
	if !pol[diag.Syntax].Ignore {
		t.Fatalf("syntax should be ignored: %+v", pol[diag.Syntax])
	}
	if pol[diag.DuplicateTag].Severity != diag.SevWarning {
		t.Fatalf("duplicate_tag: want warning, got %v", pol[diag.DuplicateTag].Severity)
	}
	if pol[diag.UnsupportedTagUse].Severity != diag.SevError {
		t.Fatalf("unsupported_tag: want error, got %v", pol[diag.UnsupportedTagUse].Severity)
	}
	if cfg.Root() != dir {
		t.Fatalf("root: want %q, got %q", dir, cfg.Root())
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "severity", content: "[severity]\nsyntax = \"loud\"\n", wantErr: ErrInvalidSeverity},
		{name: "unknown key", content: "[check]\nthreads = 2\n"},
		{name: "negative jobs", content: "[check]\njobs = -1\n"},
		{name: "empty include", content: "[check]\ninclude = []\n"},
		{name: "syntax", content: "[check\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigName)
			writeFile(t, path, tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatalf("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteDefault(dir)
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	want.Path = path
	if diff := cmp.Diff(want, cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if _, err := WriteDefault(dir); err == nil {
		t.Fatalf("second WriteDefault should refuse to overwrite")
	}
}

func TestFingerprintTracksOutputAffectingFields(t *testing.T) {
	a := Default()
	b := Default()
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("equal configs must share a fingerprint")
	}
	b.Check.Jobs = 8
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("jobs must not affect the fingerprint")
	}
	b.Check.DefaultPackageExemption = false
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatalf("exemption flag must affect the fingerprint")
	}
	c := Default()
	c.Severity.Syntax = "error"
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatalf("severity must affect the fingerprint")
	}
}

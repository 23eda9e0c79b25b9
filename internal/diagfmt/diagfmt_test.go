package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"tagcheck/internal/diag"
	"tagcheck/internal/facts"
	"tagcheck/internal/rules"
	"tagcheck/internal/source"
)

const sample = "package p;\n\npublic final class B {\n    /** @nooverride */\n    public void m() {}\n}\n"

// sampleBag reports @nooverride on B.m: the tag starts at byte 43.
func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSetWithBase("/work")
	id := fs.AddVirtual("/work/src/p/B.java", []byte(sample))
	tagStart := uint32(strings.Index(sample, "@nooverride"))
	if tagStart != 43 {
		t.Fatalf("fixture drifted: tag at %d", tagStart)
	}
	method := &facts.ElementFact{
		Kind:              facts.Method,
		Name:              "m",
		DeclaringTypeKind: facts.Class,
		Package:           "p",
		Pos:               source.Span{File: id, Start: 74, End: 75},
	}
	use := facts.TagUse{Tag: facts.NoOverride, Pos: source.Span{File: id, Start: tagStart, End: tagStart + 11}}
	d := diag.Unsupported(use, method, rules.FinalClass)
	d.Message = diag.NewCatalog().Message(&d)
	d = d.WithNote(method.Pos, "method m declared here")

	bag := diag.NewBag(0)
	bag.Add(d)
	return bag, fs
}

func TestPretty(t *testing.T) {
	bag, fs := sampleBag(t)
	tests := []struct {
		name     string
		opts     PrettyOpts
		contains []string
		absent   []string
	}{
		{
			name: "relative",
			opts: PrettyOpts{PathMode: PathModeRelative},
			contains: []string{
				"src/p/B.java:4:9: ERROR TAG1001: @nooverride is not supported on a method in a final class",
				"4 |     /** @nooverride */",
				"           ^~~~~~~~~~",
			},
			absent: []string{"note:"},
		},
		{
			name:     "basename with notes",
			opts:     PrettyOpts{PathMode: PathModeBasename, ShowNotes: true, Context: 1},
			contains: []string{"B.java:4:9", "3 | public final class B {", "note: B.java:5:17: method m declared here"},
		},
		{
			name:     "absolute",
			opts:     PrettyOpts{PathMode: PathModeAbsolute},
			contains: []string{"/work/src/p/B.java:4:9"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, tt.opts)
			out := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Fatalf("expected %q in:\n%s", want, out)
				}
			}
			for _, bad := range tt.absent {
				if strings.Contains(out, bad) {
					t.Fatalf("unexpected %q in:\n%s", bad, out)
				}
			}
			if strings.Contains(out, "\x1b[") {
				t.Fatalf("color disabled but escape codes found:\n%q", out)
			}
		})
	}
}

func TestPrettyColor(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Color: true})
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes, got:\n%q", buf.String())
	}
}

func TestShort(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	if err := Short(&buf, bag, fs, PathModeRelative, true); err != nil {
		t.Fatalf("Short: %v", err)
	}
	want := "error TAG1001 src/p/B.java:4:9 @nooverride is not supported on a method in a final class\n" +
		"note TAG1001 src/p/B.java:5:17 method m declared here\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("short output mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONAndYAMLAgree(t *testing.T) {
	bag, fs := sampleBag(t)
	opts := JSONOpts{IncludePositions: true, PathMode: PathModeRelative, IncludeNotes: true}

	var jbuf bytes.Buffer
	if err := JSON(&jbuf, bag, fs, opts); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var fromJSON DiagnosticsOutput
	if err := json.Unmarshal(jbuf.Bytes(), &fromJSON); err != nil {
		t.Fatalf("unmarshal json: %v", err)
	}

	var ybuf bytes.Buffer
	if err := YAML(&ybuf, bag, fs, opts); err != nil {
		t.Fatalf("YAML: %v", err)
	}
	var fromYAML DiagnosticsOutput
	if err := yaml.Unmarshal(ybuf.Bytes(), &fromYAML); err != nil {
		t.Fatalf("unmarshal yaml: %v", err)
	}
	if diff := cmp.Diff(fromJSON, fromYAML); diff != "" {
		t.Fatalf("json and yaml differ (-json +yaml):\n%s", diff)
	}

	got := fromJSON.Diagnostics[0]
	if got.Tag != "@nooverride" || got.Element != "method" || got.Reason != rules.FinalClass.String() {
		t.Fatalf("unexpected tag fields: %+v", got)
	}
	if got.Location == nil || got.Location.File != "src/p/B.java" || got.Location.StartLine != 4 {
		t.Fatalf("unexpected location: %+v", got.Location)
	}
	if fromJSON.Summary.Errors != 1 || fromJSON.Count != 1 {
		t.Fatalf("unexpected summary: %+v count=%d", fromJSON.Summary, fromJSON.Count)
	}
}

func TestJSONMax(t *testing.T) {
	bag, fs := sampleBag(t)
	bag.Add(bag.Items()[0])
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 {
		t.Fatalf("want 1 diagnostic, got %d", out.Count)
	}
	if out.Diagnostics[0].Notes != nil {
		t.Fatalf("notes should be omitted by default")
	}
}

func TestSarif(t *testing.T) {
	bag, fs := sampleBag(t)
	bag.Add(diag.Diagnostic{Severity: diag.SevInfo, Code: diag.ObsTimings, Message: "timings"})

	var buf bytes.Buffer
	if err := Sarif(&buf, bag, fs, SarifRunMeta{ToolVersion: "1.0.0", InvocationArgs: []string{"check", "."}}); err != nil {
		t.Fatalf("Sarif: %v", err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected log header: %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "tagcheck" {
		t.Fatalf("tool name: %q", run.Tool.Driver.Name)
	}
	wantRules := []sarifRule{{ID: "TAG1001", Name: "UnsupportedTag", ShortDescription: sarifMessage{Text: diag.TagUnsupported.Title()}}}
	if diff := cmp.Diff(wantRules, run.Tool.Driver.Rules); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
	if len(run.Results) != 1 || run.Results[0].Level != "error" {
		t.Fatalf("unexpected results: %+v", run.Results)
	}
	region := run.Results[0].Locations[0].PhysicalLocation.Region
	if region.StartLine != 4 || region.StartColumn != 9 || region.ByteLength != 11 {
		t.Fatalf("unexpected region: %+v", region)
	}
	if run.Automation == nil || len(run.Automation.GUID) != 36 {
		t.Fatalf("expected run guid, got %+v", run.Automation)
	}
	if len(run.Results[0].RelatedLocations) != 1 {
		t.Fatalf("expected the note as related location")
	}
}

func TestParsePathMode(t *testing.T) {
	for _, m := range []PathMode{PathModeAuto, PathModeAbsolute, PathModeRelative, PathModeBasename} {
		got, err := ParsePathMode(m.String())
		if err != nil || got != m {
			t.Fatalf("round trip %v: got %v, %v", m, got, err)
		}
	}
	if _, err := ParsePathMode("weird"); err == nil {
		t.Fatalf("expected error")
	}
}

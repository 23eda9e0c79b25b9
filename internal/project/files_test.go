package project

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestListFilesHonorsGlobs(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"A.java",
		"pkg/B.java",
		"pkg/generated/C.java",
		"pkg/notes.txt",
		".hidden/D.java",
		"build/E.java",
	} {
		writeFile(t, filepath.Join(root, filepath.FromSlash(rel)), "class X {}")
	}

	f := FileFilter{Base: root, Include: []string{"**/*.java"}, Exclude: []string{"**/generated/**"}}
	got, err := ListFiles(root, f)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	want := []string{
		filepath.Join(root, "A.java"),
		filepath.Join(root, "pkg", "B.java"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestListFilesSingleFile(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "Only.java")
	writeFile(t, file, "class Only {}")

	got, err := ListFiles(file, FileFilter{Base: root, Exclude: []string{"**"}})
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if diff := cmp.Diff([]string{file}, got); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestFileFilterMatch(t *testing.T) {
	f := FileFilter{Base: "/repo", Include: []string{"src/**/*.java"}, Exclude: []string{"src/test/**"}}
	tests := []struct {
		path string
		want bool
	}{
		{"/repo/src/main/A.java", true},
		{"/repo/src/A.java", true},
		{"/repo/src/test/B.java", false},
		{"/repo/lib/C.java", false},
		{"/repo/src/main/A.kt", false},
	}
	for _, tt := range tests {
		if got := f.Match(tt.path); got != tt.want {
			t.Fatalf("Match(%q): want %v, got %v", tt.path, tt.want, got)
		}
	}
}

func TestFileFilterValidate(t *testing.T) {
	f := FileFilter{Include: []string{"src/[a-"}}
	if err := f.Validate(); err == nil {
		t.Fatalf("expected invalid glob error")
	}
}

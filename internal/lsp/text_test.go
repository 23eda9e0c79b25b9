package lsp

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"tagcheck/internal/source"
)

func TestApplyChanges(t *testing.T) {
	text := "class A {\n  int x;\n}\n"
	got := applyChanges(text, []textDocumentContentChangeEvent{
		{Range: &lspRange{Start: position{Line: 1, Character: 2}, End: position{Line: 1, Character: 5}}, Text: "long"},
		{Range: &lspRange{Start: position{Line: 0, Character: 6}, End: position{Line: 0, Character: 7}}, Text: "B"},
	})
	if want := "class B {\n  long x;\n}\n"; got != want {
		t.Fatalf("applyChanges = %q, want %q", got, want)
	}
	if got := applyChanges(text, []textDocumentContentChangeEvent{{Text: "x"}}); got != "x" {
		t.Fatalf("full replace = %q", got)
	}
}

func TestOffsetsUseUTF16(t *testing.T) {
	text := "// 😀 é\nx"
	// the emoji takes two UTF-16 units and four bytes
	if got := offsetForPosition(text, position{Line: 0, Character: 6}); got != 8 {
		t.Fatalf("offset = %d, want 8", got)
	}
	if got := offsetForPosition(text, position{Line: 5, Character: 0}); got != len(text) {
		t.Fatalf("past-end line offset = %d", got)
	}

	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("A.java", []byte(text)))
	if got := positionForOffsetInFile(f, 8); got != (position{Line: 0, Character: 6}) {
		t.Fatalf("position = %+v", got)
	}
	if got := positionForOffsetInFile(f, uint32(len(text))); got != (position{Line: 1, Character: 1}) {
		t.Fatalf("end position = %+v", got)
	}
}

func TestReadMessage(t *testing.T) {
	in := "Content-Type: application/json\r\nContent-Length: 2\r\n\r\n{}"
	got, err := readMessage(bufio.NewReader(strings.NewReader(in)))
	if err != nil || string(got) != "{}" {
		t.Fatalf("readMessage = %q, %v", got, err)
	}
	if _, err := readMessage(bufio.NewReader(strings.NewReader("X: 1\r\n\r\n"))); err == nil {
		t.Fatalf("expected error without Content-Length")
	}

	var buf bytes.Buffer
	if err := writeMessage(&buf, []byte(`{"a":1}`)); err != nil {
		t.Fatalf("writeMessage: %v", err)
	}
	if buf.String() != "Content-Length: 7\r\n\r\n{\"a\":1}" {
		t.Fatalf("writeMessage = %q", buf.String())
	}
}

func TestCanonicalURI(t *testing.T) {
	if got := canonicalURI("file:///tmp/a/../B.java"); got != "file:///tmp/B.java" {
		t.Fatalf("canonicalURI = %q", got)
	}
	if got := canonicalURI("untitled:Untitled-1"); got != "" {
		t.Fatalf("non-file uri kept: %q", got)
	}
}

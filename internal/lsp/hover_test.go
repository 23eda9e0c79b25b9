package lsp

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

const hoverSrc = `package p;

/**
 * @noextend
 * @noextend
 */
public final class Widget {
    /** @nooverride */
    public void run() {}
}
`

func TestBuildHover(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Widget.java")
	tests := []struct {
		name string
		pos  position
		want string
	}{
		{"unsupported", position{Line: 3, Character: 5}, "Not supported on a final class."},
		{"duplicate", position{Line: 4, Character: 8}, "Duplicate: @noextend"},
		{"method in final class", position{Line: 7, Character: 9}, "Not supported on a method in a final class."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := buildHover(context.Background(), path, hoverSrc, tt.pos)
			if err != nil {
				t.Fatalf("buildHover: %v", err)
			}
			if h == nil {
				t.Fatalf("no hover at %+v", tt.pos)
			}
			if !strings.Contains(h.Contents.Value, tt.want) {
				t.Fatalf("hover = %q, want it to contain %q", h.Contents.Value, tt.want)
			}
		})
	}

	h, err := buildHover(context.Background(), path, hoverSrc, position{Line: 6, Character: 2})
	if err != nil {
		t.Fatalf("buildHover: %v", err)
	}
	if h != nil {
		t.Fatalf("expected no hover outside tags, got %q", h.Contents.Value)
	}
}

func TestBuildHoverSupportedTag(t *testing.T) {
	src := "package p;\n/** @noimplement */\npublic interface Api {}\n"
	h, err := buildHover(context.Background(), filepath.Join(t.TempDir(), "Api.java"), src, position{Line: 1, Character: 6})
	if err != nil || h == nil {
		t.Fatalf("buildHover = %v, %v", h, err)
	}
	if !strings.Contains(h.Contents.Value, "Supported: clients may not implement this interface.") {
		t.Fatalf("hover = %q", h.Contents.Value)
	}
	if !strings.Contains(h.Contents.Value, "`p.Api`") {
		t.Fatalf("hover lacks qualified name: %q", h.Contents.Value)
	}
}

package ui

import (
	"strings"
	"testing"

	"tagcheck/internal/driver"
)

func TestApplyEventTracksFiles(t *testing.T) {
	m := NewProgressModel("checking", []string{"A.java", "B.java"}, nil).(*progressModel)

	m.applyEvent(driver.Event{File: "A.java", Stage: driver.StageParse, Status: driver.StatusWorking})
	if m.items[0].status != "parsing" || m.items[0].final {
		t.Fatalf("unexpected item: %+v", m.items[0])
	}
	m.applyEvent(driver.Event{File: "A.java", Stage: driver.StageValidate, Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "B.java", Stage: driver.StageCache, Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "unknown.java", Stage: driver.StageParse, Status: driver.StatusWorking})

	if got := m.finished(); got != 2 {
		t.Fatalf("finished: want 2, got %d", got)
	}
	if m.items[1].status != "cached" {
		t.Fatalf("B.java: want cached, got %q", m.items[1].status)
	}
	if got := m.percent(); got != 1.0 {
		t.Fatalf("percent: want 1, got %v", got)
	}

	// late events never reopen a finished file
	m.applyEvent(driver.Event{File: "A.java", Stage: driver.StageParse, Status: driver.StatusWorking})
	if m.items[0].status != "done" {
		t.Fatalf("A.java reopened: %+v", m.items[0])
	}

	view := m.View()
	if !strings.Contains(view, "checking (2/2)") || !strings.Contains(view, "B.java") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestVisibleHidesFinishedInLargeRuns(t *testing.T) {
	files := make([]string, maxListed+5)
	for i := range files {
		files[i] = string(rune('a'+i)) + ".java"
	}
	m := NewProgressModel("checking", files, nil).(*progressModel)
	m.applyEvent(driver.Event{File: files[0], Stage: driver.StageValidate, Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: files[1], Stage: driver.StageParse, Status: driver.StatusWorking})

	vis := m.visible()
	if len(vis) != 1 || vis[0].path != files[1] {
		t.Fatalf("want only the active file, got %+v", vis)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.java", 20, "short.java"},
		{"a/very/long/path/File.java", 10, "a/very/..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Fatalf("truncate(%q, %d): want %q, got %q", tt.in, tt.width, tt.want, got)
		}
	}
}
